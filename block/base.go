// Package block implements block-entity decoding: the BaseBlockState every
// block shares, the SpecificBlockState dispatch keyed by block-type name
// (ten block types are decoded field by field; every other type is not
// decoded, see SpecificBlockState.Opaque), and Payload (which recursively needs a full block-entity
// decode, the reason it lives here rather than in package unit — see
// DESIGN.md on the unit_io.rs/block_io.rs mutual dependency).
package block

import (
	"fmt"

	"mindustry-netclient/content"
	"mindustry-netclient/proto"
	"mindustry-netclient/wire"
)

// StackEntry is one (id, amount) pair in an items or liquids sub-record.
type StackEntry struct {
	ID     int32
	Amount uint32
}

// PowerState is a block's power-graph link list plus its status fraction.
type PowerState struct {
	Links  []proto.Point2
	Status float32
}

// BaseBlockState is the state layout every BlockEntity begins with,
// regardless of block type.
type BaseBlockState struct {
	Health float32

	RotationByte uint8
	Legacy       bool
	Version      uint8
	On           bool
	ModuleBitmask uint8

	Team uint8

	Items   []StackEntry
	Power   *PowerState
	Liquids []StackEntry

	// Reserved is the single consumed-but-unused byte for version <= 2.
	Reserved uint8
	// Efficiency/OptimalEfficiency are only populated for version >= 3.
	Efficiency        uint8
	OptimalEfficiency uint8
}

// Rotation is the effective rotation, with the has-extended-header marker
// bit masked off.
func (b BaseBlockState) Rotation() uint8 {
	return b.RotationByte & 0x7F
}

const (
	moduleBitItems   = 1 << 0
	moduleBitPower   = 1 << 1
	moduleBitLiquids = 1 << 2
)

func moduleBitmaskFromParams(p content.BlockParams) uint8 {
	var bm uint8
	if p.HasItems {
		bm |= moduleBitItems
	}
	if p.HasPower {
		bm |= moduleBitPower
	}
	if p.HasLiquids {
		bm |= moduleBitLiquids
	}
	return bm
}

// readBaseBlockState reads the BaseBlockState fields per §4.E. params is the
// legacy has-items/has-power/has-liquids lookup used when the block has no
// extended header, or has one but an old enough version to predate the
// module-bitmask byte.
func readBaseBlockState(r *wire.Reader, params content.BlockParams) BaseBlockState {
	var b BaseBlockState
	b.Health = r.Float32()
	b.RotationByte = r.Byte()
	b.Team = r.Byte()

	if b.RotationByte&0x80 != 0 {
		b.Legacy = false
		b.Version = r.Byte()
		if b.Version >= 1 {
			b.On = r.Bool()
		}
		if b.Version >= 2 {
			b.ModuleBitmask = r.Byte()
		} else {
			b.ModuleBitmask = moduleBitmaskFromParams(params)
		}
	} else {
		b.Legacy = true
		b.ModuleBitmask = moduleBitmaskFromParams(params)
	}

	if b.ModuleBitmask&moduleBitItems != 0 {
		b.Items = readStackList(r, b.Legacy)
	}
	if b.ModuleBitmask&moduleBitPower != 0 {
		b.Power = readPowerState(r)
	}
	if b.ModuleBitmask&moduleBitLiquids != 0 {
		b.Liquids = readStackList(r, b.Legacy)
	}

	if b.Version <= 2 {
		b.Reserved = r.Byte()
	} else {
		b.Efficiency = r.Byte()
		b.OptimalEfficiency = r.Byte()
	}

	return b
}

// readStackList reads an items/liquids sub-record: a count (u8 in legacy
// mode, i16 otherwise) then that many (id, amount) pairs, id sharing the
// count's width.
func readStackList(r *wire.Reader, legacy bool) []StackEntry {
	var count int
	if legacy {
		count = int(r.Byte())
	} else {
		count = int(r.Int16())
	}
	entries := make([]StackEntry, 0, count)
	for i := 0; i < count; i++ {
		var id int32
		if legacy {
			id = int32(r.Byte())
		} else {
			id = int32(r.Int16())
		}
		amount := r.Uint32()
		entries = append(entries, StackEntry{ID: id, Amount: amount})
	}
	return entries
}

func readPowerState(r *wire.Reader) *PowerState {
	linkCount := r.Int16()
	links := make([]proto.Point2, 0, max16(linkCount))
	for i := int16(0); i < linkCount; i++ {
		links = append(links, proto.UnpackPoint2(r.Uint32()))
	}
	status := r.Float32()
	return &PowerState{Links: links, Status: status}
}

func max16(n int16) int16 {
	if n < 0 {
		return 0
	}
	return n
}

// ErrBlockLengthMismatch is returned when a block-entity's declared
// entity_length does not match the number of bytes its decoder actually
// consumed. Fatal to the surrounding WorldStream/BlockSnapshot load.
type ErrBlockLengthMismatch struct {
	BlockName string
	Declared  int
	Remaining int
}

func (e ErrBlockLengthMismatch) Error() string {
	return fmt.Sprintf("block: length mismatch decoding %q: %d bytes undeclared/unconsumed (declared %d)",
		e.BlockName, e.Remaining, e.Declared)
}
