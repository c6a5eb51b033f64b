package netcode

import (
	"mindustry-netclient/content"
	"mindustry-netclient/proto"
	"mindustry-netclient/unit"
	"mindustry-netclient/wire"
)

// Packet ids, per spec's §6 registry. packet.rs itself only ever implements
// the read side of a handful of these (WorldStream, EntitySnapshot, the two
// KickCall variants) — the rest are taken from the registry's id list
// directly, since the stub source's parse_regular_packet never grew match
// arms for them.
const (
	PacketStreamBegin         = 0
	PacketStreamChunk         = 1
	PacketWorldStream         = 2
	PacketConnect             = 3
	PacketBeginBreakCall      = 9
	PacketBeginPlaceCall      = 10
	PacketBlockSnapshot       = 11
	PacketClientSnapshot      = 18
	PacketConnectCallConfirm  = 22
	PacketConstructFinish     = 23
	// PacketDeconstructFinish has no id in spec's registry (it lists
	// BeginBreak/BeginPlace/ConstructFinish but never names DeconstructFinish's
	// own id); 24 is chosen as the next free slot adjacent to ConstructFinish
	// — see DESIGN.md.
	PacketDeconstructFinish   = 24
	PacketEntitySnapshot      = 34
	PacketKickCall            = 44
	PacketKickCall2           = 45
	PacketSpawnCall           = 59
	PacketRotateBlockCall     = 69
	PacketSendChatMessageCall = 71
	PacketSendMessageCall2    = 73
	PacketStateSnapshot       = 94
	PacketTileConfigCall      = 99
)

// StreamBegin announces a forthcoming multi-chunk stream (e.g. a WorldStream
// too large for one frame).
type StreamBegin struct {
	ID         uint32
	Total      uint32
	StreamType uint8
}

func ReadStreamBegin(r *wire.Reader) StreamBegin {
	return StreamBegin{ID: r.Uint32(), Total: r.Uint32(), StreamType: r.Byte()}
}

// StreamChunk is one fragment of a multi-chunk stream, consumed by the
// reassembler in stream.go.
type StreamChunk struct {
	ID   uint32
	Data []byte
}

func ReadStreamChunk(r *wire.Reader) StreamChunk {
	id := r.Uint32()
	length := int(r.Int16())
	return StreamChunk{ID: id, Data: r.Bytes(length)}
}

// BeginPlaceCall is an outbound block-placement request.
type BeginPlaceCall struct {
	Unit     proto.UnitHandle
	Result   int16
	Team     uint8
	X, Y     uint32
	Rotation uint32
}

func WriteBeginPlaceCall(p BeginPlaceCall) []byte {
	w := wire.NewWriter()
	proto.WriteUnitHandle(w, p.Unit)
	w.WriteInt16(p.Result)
	w.WriteByte8(p.Team)
	w.WriteUint32(p.X)
	w.WriteUint32(p.Y)
	w.WriteUint32(p.Rotation)
	return w.Bytes()
}

// ClientSnapshot is the outbound, regularly-resent client state packet.
type ClientSnapshot struct {
	SnapshotID                    uint32
	UnitID                        uint32
	Dead                          bool
	X, Y                          float32
	PointerX, PointerY            float32
	Rotation, BaseRotation        float32
	XVelocity, YVelocity          float32
	MiningX, MiningY              int16
	Boosting, Shooting            bool
	Chatting, Building            bool
	Plans                         []proto.Plan
	ViewX, ViewY                  float32
	ViewWidth, ViewHeight         float32
}

func WriteClientSnapshot(s ClientSnapshot) ([]byte, error) {
	w := wire.NewWriter()
	w.WriteUint32(s.SnapshotID)
	w.WriteUint32(s.UnitID)
	w.WriteBool(s.Dead)
	w.WriteFloat32(s.X)
	w.WriteFloat32(s.Y)
	w.WriteFloat32(s.PointerX)
	w.WriteFloat32(s.PointerY)
	w.WriteFloat32(s.Rotation)
	w.WriteFloat32(s.BaseRotation)
	w.WriteFloat32(s.XVelocity)
	w.WriteFloat32(s.YVelocity)
	w.WriteInt16(s.MiningX)
	w.WriteInt16(s.MiningY)
	w.WriteBool(s.Boosting)
	w.WriteBool(s.Shooting)
	w.WriteBool(s.Chatting)
	w.WriteBool(s.Building)
	if err := proto.WritePlans(w, s.Plans); err != nil {
		return nil, err
	}
	w.WriteFloat32(s.ViewX)
	w.WriteFloat32(s.ViewY)
	w.WriteFloat32(s.ViewWidth)
	w.WriteFloat32(s.ViewHeight)
	return w.Bytes(), nil
}

// Connect is the outbound handshake packet. See config.Config for the
// client/lang/color defaults the source hardcodes.
type Connect struct {
	Version uint32
	Client  string
	Name    string
	Lang    string
	Usid    string
	UUID    []byte // raw, already base64-decoded
	Mobile  bool
	Color   []byte // 4 bytes, RGBA
	Mods    []string
}

func WriteConnect(c Connect) ([]byte, error) {
	w := wire.NewWriter()
	w.WriteUint32(c.Version)
	if err := w.WriteLengthString(c.Client); err != nil {
		return nil, err
	}
	if err := w.WriteLengthString(c.Name); err != nil {
		return nil, err
	}
	if err := w.WriteLengthString(c.Lang); err != nil {
		return nil, err
	}
	if err := w.WriteLengthString(c.Usid); err != nil {
		return nil, err
	}
	w.Write(c.UUID)
	w.Write(make([]byte, 8)) // the source writes an all-zero placeholder CRC here too
	w.WriteBool(c.Mobile)
	w.Write(c.Color)
	w.WriteByte8(uint8(len(c.Mods)))
	for _, m := range c.Mods {
		if err := w.WriteLengthString(m); err != nil {
			return nil, err
		}
	}
	return w.Bytes(), nil
}

// WorldStreamHeader is the fixed-shape prefix of a WorldStream's
// zlib-decompressed body: game rules and a generic string map (both treated
// as opaque — interpreting rules/mod metadata is simulation logic, out of
// scope), the wave/tick/seed bookkeeping fields, and a short run of
// additional scalars the source reads but never names. Remaining holds
// everything after that prefix: the content header and tile grid, which the
// caller decodes via package worldmap (ReadContentHeader, then ReadMap); this
// package only unwraps the zlib framing and the header's known fixed
// fields.
type WorldStreamHeader struct {
	Rules      string
	Map        map[string]string
	Wave       uint32
	WaveTime   float32
	Tick       float64
	Seed0      uint64
	Seed1      uint64
	ID         uint32
	Remaining  []byte
}

// ReadWorldStream decompresses a WorldStream packet's zlib body and decodes
// its fixed-shape header.
func ReadWorldStream(payload []byte) (WorldStreamHeader, error) {
	raw, err := decompressWorldStream(payload)
	if err != nil {
		return WorldStreamHeader{}, err
	}

	r := wire.NewReader(raw)
	rules, _ := r.ReadString()

	mapSize := r.Int16()
	m := make(map[string]string, max16(mapSize))
	for i := int16(0); i < mapSize; i++ {
		key, _ := r.ReadString()
		value, _ := r.ReadString()
		m[key] = value
	}

	h := WorldStreamHeader{
		Rules: rules,
		Map:   m,
		Wave:  r.Uint32(),
	}
	h.WaveTime = r.Float32()
	h.Tick = r.Float64()
	h.Seed0 = r.Uint64()
	h.Seed1 = r.Uint64()
	h.ID = r.Uint32()

	// Additional fixed scalars the source reads but never names (see the
	// TODO block in parse_regular_packet's id==2 branch); consumed here so
	// Remaining lines up with where the content header actually starts.
	r.Int16()
	r.Byte()
	r.Byte()
	r.Int32()
	r.Byte()
	r.Float32()
	r.Float32()
	r.ReadPrefixedString()
	r.Byte()
	r.Byte()
	r.Byte()
	r.Byte()
	r.Int32()
	r.Float32()
	r.Float32()

	h.Remaining = r.ReadRemaining()
	return h, nil
}

func max16(n int16) int16 {
	if n < 0 {
		return 0
	}
	return n
}

// EntitySnapshot carries every visible unit's full state, keyed by id.
type EntitySnapshot struct {
	Units map[uint32]unit.FullUnit
}

func ReadEntitySnapshot(r *wire.Reader, cm *content.Map, tables *content.SideTables) (EntitySnapshot, error) {
	amount := int(r.Int16())
	length := int(r.Int16())
	body := wire.NewReader(r.Bytes(length))

	units := make(map[uint32]unit.FullUnit, amount)
	for i := 0; i < amount; i++ {
		id := body.Uint32()
		typeID := body.Byte()
		u, err := unit.Read(body, typeID, false, cm, tables)
		if err != nil {
			return EntitySnapshot{}, err
		}
		units[id] = u
	}
	return EntitySnapshot{Units: units}, nil
}

// KickCall is an inbound disconnect notice carrying a free-form message.
type KickCall struct{ Reason string }

func ReadKickCall(r *wire.Reader) KickCall {
	reason, _ := r.ReadPrefixedString()
	return KickCall{Reason: reason}
}

// KickCall2 is an inbound disconnect notice carrying a preset reason code.
type KickCall2 struct{ Reason proto.KickReason }

func ReadKickCall2(r *wire.Reader) (KickCall2, error) {
	reason, err := proto.ReadKickReason(r)
	if err != nil {
		return KickCall2{}, err
	}
	return KickCall2{Reason: reason}, nil
}

// SpawnCall announces a new entity's tile-aligned spawn point.
type SpawnCall struct {
	TileX, TileY int16
	Entity       uint32
}

func ReadSpawnCall(r *wire.Reader) SpawnCall {
	return SpawnCall{TileX: r.Int16(), TileY: r.Int16(), Entity: r.Uint32()}
}

// SendChatMessageCall is an outbound chat message.
func WriteSendChatMessageCall(message string) []byte {
	w := wire.NewWriter()
	w.WriteLengthString(message)
	return w.Bytes()
}

// SendMessageCall2 is an inbound chat message, possibly with a sender id and
// a separate unformatted copy.
type SendMessageCall2 struct {
	Message      string
	Unformatted  string
	HasUnformatted bool
	Sender       uint32
}

func ReadSendMessageCall2(r *wire.Reader) SendMessageCall2 {
	message, _ := r.ReadPrefixedString()
	unformatted, hasUnformatted := r.ReadPrefixedString()
	sender := r.Uint32()
	return SendMessageCall2{Message: message, Unformatted: unformatted, HasUnformatted: hasUnformatted, Sender: sender}
}
