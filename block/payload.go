package block

import (
	"mindustry-netclient/content"
	"mindustry-netclient/proto"
	"mindustry-netclient/wire"
)

// Payload is a unit's carried cargo: either a full block entity (for
// payload-carrying units moving a building) or a bare unit handle. It lives
// in this package, not package unit, because its block branch needs a full
// recursive BlockEntity decode — see the package doc comment and
// DESIGN.md for why that makes this the right side of the
// unit_io.rs/block_io.rs mutual dependency to collapse.
type Payload struct {
	Present bool
	IsBlock bool

	// Block branch (IsBlock == true).
	BlockID int16
	Version uint8
	Block   *BlockEntity

	// Unit branch (IsBlock == false).
	Unit proto.UnitHandle
}

const payloadTypeBlock = 1

// ReadPayload reads a single Payload: a presence bool, and if present a
// payload_type byte selecting the block or unit branch.
func ReadPayload(r *wire.Reader, cm *content.Map, tables *content.SideTables) (Payload, error) {
	if !r.Bool() {
		return Payload{}, nil
	}

	payloadType := r.Byte()
	if payloadType == payloadTypeBlock {
		blockID := r.Int16()
		version := r.Byte()

		blockName, err := cm.Name("block", int(blockID))
		if err != nil {
			return Payload{}, err
		}
		blockType, ok := tables.BlockTypes[blockName]
		if !ok {
			blockType = blockName
		}
		params := tables.BlockParams[blockType]

		// r is the shared reader for the enclosing unit record, not a
		// length-bounded slice — an unmodeled block type must not consume
		// its remainder here, see ReadBlockEntity's bounded parameter.
		entity, err := ReadBlockEntity(r, blockType, version, params, false)
		if err != nil {
			return Payload{}, err
		}
		return Payload{
			Present: true,
			IsBlock: true,
			BlockID: blockID,
			Version: version,
			Block:   &entity,
		}, nil
	}

	return Payload{Present: true, Unit: proto.ReadUnitHandle(r)}, nil
}

// ReadPayloads reads a payload list with a u32 count.
func ReadPayloads(r *wire.Reader, cm *content.Map, tables *content.SideTables) ([]Payload, error) {
	count := r.Uint32()
	payloads := make([]Payload, 0, count)
	for i := uint32(0); i < count; i++ {
		p, err := ReadPayload(r, cm, tables)
		if err != nil {
			return nil, err
		}
		payloads = append(payloads, p)
	}
	return payloads, nil
}
