package unit

import (
	"mindustry-netclient/block"
	"mindustry-netclient/content"
	"mindustry-netclient/proto"
	"mindustry-netclient/wire"
)

// GenericUnit is the common shape for every physical, moving unit kind.
// Field order here mirrors the wire schedule exactly; several fields are
// only present for specific kind names, recorded via pointers (absent ==
// nil) rather than collapsing them into a single struct shape with zero
// values, so a decoded-but-absent float (e.g. BaseRotation on a non-mech
// unit) is never confused with a genuine zero.
type GenericUnit struct {
	Abilities     []float32
	Ammo          float32
	Building      *uint32 // BuildingTetherPayloadUnit only
	BaseRotation  *float32 // MechUnit only
	Controller    proto.Controller
	Elevation     float32
	Flag          float64
	Health        float32
	Shooting      bool
	Lifetime      *float32 // TimedKillUnit only
	MiningPosition proto.Tile
	Mounts        []proto.Mount
	Payloads      []block.Payload // PayloadUnit / BuildingTetherPayloadUnit only
	Plans         []proto.Plan
	Rotation      float32
	Shield        float32
	SpawnedByCore bool
	Items         proto.Items
	Statuses      []proto.Status
	Team          uint8
	Time          *float32 // TimedKillUnit only
	UnitType      int16
	UpgradeBuilding uint8
	Velocity      proto.Vec2
	X, Y          float32
}

// FireUnit is a burning-tile world entity.
type FireUnit struct {
	Lifetime float32
	Tile     proto.Tile
	Time     float32
	X, Y     float32
}

// PuddleUnit is a spilled-liquid world entity.
type PuddleUnit struct {
	Amount float32
	Liquid int16
	Tile   proto.Tile
	X, Y   float32
}

// PlayerUnit is a connected player's avatar record.
type PlayerUnit struct {
	Admin    bool
	Boosting bool
	Color    uint32
	MouseX   float32
	MouseY   float32
	Name     string
	Shooting bool
	Team     uint8
	Typing   bool
	Unit     proto.UnitHandle
	X, Y     float32
}

// WeatherStateUnit is an active weather effect.
type WeatherStateUnit struct {
	Effect    float32
	Intensity float32
	Life      float32
	Opacity   float32
	Weather   int16
	WindX     float32
	WindY     float32
}

// WorldLabelUnit is a server-placed floating text label.
type WorldLabelUnit struct {
	Flags uint8
	Fonts float32
	Str   string
	X, Y  float32
}

// FullUnit is the decoded tagged union: exactly one of the shape pointers is
// non-nil, selected by KindName (mapping from TypeID via unitMap), unless
// the type id was unrecognised, in which case all are nil (Unknown).
type FullUnit struct {
	TypeID   uint8
	KindName string
	Revision *int16

	Generic *GenericUnit
	Fire    *FireUnit
	Puddle  *PuddleUnit
	Player  *PlayerUnit
	Weather *WeatherStateUnit
	Label   *WorldLabelUnit
}

// IsUnknown reports whether type_id didn't resolve to any known kind.
func (f FullUnit) IsUnknown() bool {
	return f.KindName == ""
}

// Read decodes a FullUnit. hasRevision controls whether a leading i16
// revision is consumed first — it is present when the caller reads a single
// unit out of band, but absent per-unit inside an EntitySnapshot (the
// snapshot pre-allocates a byte count per unit via its own framing).
func Read(r *wire.Reader, typeID uint8, hasRevision bool, cm *content.Map, tables *content.SideTables) (FullUnit, error) {
	f := FullUnit{TypeID: typeID}

	if hasRevision {
		rev := r.Int16()
		f.Revision = &rev
	}

	kind, ok := unitMap[typeID]
	f.KindName = kind
	if !ok || kind == "" {
		f.KindName = ""
		return f, nil
	}

	switch {
	case genericUnitKinds[kind]:
		g, err := readGenericUnit(r, kind, cm, tables)
		if err != nil {
			return FullUnit{}, err
		}
		f.Generic = &g
	case kind == "Fire":
		f.Fire = &FireUnit{
			Lifetime: r.Float32(),
			Tile:     proto.ReadTile(r),
			Time:     r.Float32(),
			X:        r.Float32(),
			Y:        r.Float32(),
		}
	case kind == "Puddle":
		f.Puddle = &PuddleUnit{
			Amount: r.Float32(),
			Liquid: r.Int16(),
			Tile:   proto.ReadTile(r),
			X:      r.Float32(),
			Y:      r.Float32(),
		}
	case kind == "Player":
		admin := r.Bool()
		boosting := r.Bool()
		color := r.Uint32()
		mouseX := r.Float32()
		mouseY := r.Float32()
		name, _ := r.ReadPrefixedString()
		f.Player = &PlayerUnit{
			Admin:    admin,
			Boosting: boosting,
			Color:    color,
			MouseX:   mouseX,
			MouseY:   mouseY,
			Name:     name,
			Shooting: r.Bool(),
			Team:     r.Byte(),
			Typing:   r.Bool(),
			Unit:     proto.ReadUnitHandle(r),
			X:        r.Float32(),
			Y:        r.Float32(),
		}
	case kind == "WeatherState":
		f.Weather = &WeatherStateUnit{
			Effect:    r.Float32(),
			Intensity: r.Float32(),
			Life:      r.Float32(),
			Opacity:   r.Float32(),
			Weather:   r.Int16(),
			WindX:     r.Float32(),
			WindY:     r.Float32(),
		}
	case kind == "WorldLabel":
		flags := r.Byte()
		fonts := r.Float32()
		str, _ := r.ReadPrefixedString()
		f.Label = &WorldLabelUnit{
			Flags: flags,
			Fonts: fonts,
			Str:   str,
			X:     r.Float32(),
			Y:     r.Float32(),
		}
	default:
		f.KindName = ""
	}

	return f, nil
}

func readGenericUnit(r *wire.Reader, kind string, cm *content.Map, tables *content.SideTables) (GenericUnit, error) {
	var g GenericUnit

	length := r.Byte()
	g.Abilities = make([]float32, 0, length)
	for i := uint8(0); i < length; i++ {
		g.Abilities = append(g.Abilities, r.Float32())
	}

	g.Ammo = r.Float32()

	if kind == "BuildingTetherPayloadUnit" {
		v := r.Uint32()
		g.Building = &v
	}

	if kind == "MechUnit" {
		v := r.Float32()
		g.BaseRotation = &v
	}

	g.Controller = proto.ReadController(r)
	g.Elevation = r.Float32()
	g.Flag = r.Float64()
	g.Health = r.Float32()
	g.Shooting = r.Bool()

	if kind == "TimedKillUnit" {
		v := r.Float32()
		g.Lifetime = &v
	}

	g.MiningPosition = proto.ReadTile(r)
	g.Mounts = proto.ReadMounts(r)

	if kind == "PayloadUnit" || kind == "BuildingTetherPayloadUnit" {
		payloads, err := block.ReadPayloads(r, cm, tables)
		if err != nil {
			return GenericUnit{}, err
		}
		g.Payloads = payloads
	}

	plans, err := proto.ReadPlansQueue(r)
	if err != nil {
		return GenericUnit{}, err
	}
	g.Plans = plans

	g.Rotation = r.Float32()
	g.Shield = r.Float32()
	g.SpawnedByCore = r.Bool()
	g.Items = proto.ReadItems(r)
	g.Statuses = proto.ReadStatuses(r)
	g.Team = r.Byte()

	if kind == "TimedKillUnit" {
		v := r.Float32()
		g.Time = &v
	}

	g.UnitType = r.Int16()
	g.UpgradeBuilding = r.Byte()
	g.Velocity = proto.ReadVec2(r)
	g.X = r.Float32()
	g.Y = r.Float32()

	return g, nil
}
