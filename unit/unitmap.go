// Package unit implements the FullUnit tagged union: dispatch from a u8
// type id to one of 7 outer shapes, and the long, order-sensitive GenericUnit
// field schedule shared by every physical unit kind.
package unit

// unitMap is the fixed, sparse u8 type_id -> kind-name table the protocol
// uses to decide which outer FullUnit shape and, for GenericUnit, which
// optional fields apply. Entries not present here (or mapping to "") are
// Unknown: no byte consumption, a protocol error if the caller expected a
// unit (see spec.md §9 design notes).
var unitMap = map[uint8]string{
	0:  "UnitEntity",
	2:  "BlockUnitUnit",
	3:  "UnitEntity",
	4:  "MechUnit",
	5:  "PayloadUnit",
	10: "Fire",
	12: "Player",
	13: "Puddle",
	14: "WeatherState",
	16: "UnitEntity",
	17: "MechUnit",
	18: "UnitEntity",
	19: "MechUnit",
	20: "UnitWaterMove",
	21: "LegsUnit",
	24: "LegsUnit",
	26: "PayloadUnit",
	29: "LegsUnit",
	30: "UnitEntity",
	31: "UnitEntity",
	32: "MechUnit",
	33: "LegsUnit",
	35: "WorldLabel",
	36: "BuildingTetherPayloadUnit",
	39: "TimedKillUnit",
	43: "TankUnit",
	45: "ElevationMoveUnit",
	46: "CrawlUnit",
}

// genericUnitKinds is the subset of kind names that use the GenericUnit
// field schedule (every physical, moving unit).
var genericUnitKinds = map[string]bool{
	"MechUnit":                  true,
	"CrawlUnit":                 true,
	"ElevationMoveUnit":         true,
	"TankUnit":                  true,
	"UnitEntity":                true,
	"BlockUnitUnit":             true,
	"UnitWaterMove":             true,
	"LegsUnit":                  true,
	"TimedKillUnit":             true,
	"PayloadUnit":               true,
	"BuildingTetherPayloadUnit": true,
}
