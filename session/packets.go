package session

import (
	"mindustry-netclient/block"
	"mindustry-netclient/content"
	"mindustry-netclient/proto"
	"mindustry-netclient/wire"
)

// beginPlace is the inbound twin of netcode.WriteBeginPlaceCall: packet id 10
// is reused in both directions (the client requests a placement, the server
// echoes or broadcasts one), so this reads the exact same field layout.
// There is no dedicated block-id field in that layout — "result" is spec's
// name for it without saying what it holds, and pairing it with "write
// block_id" in §4.J's BeginPlace handling is the only field that fits — so
// this module treats result as the placed block's content id. x/y are
// world-pixel coordinates; tiles are 8 units square, the same convention
// SpawnCall's tile*8 uses.
type beginPlace struct {
	Tile     proto.Tile
	BlockID  uint16
	Rotation uint8
	Team     uint8
}

func readBeginPlace(r *wire.Reader) beginPlace {
	r.Uint32() // unit id
	r.Byte()   // unit type
	result := r.Int16()
	team := r.Byte()
	x := r.Uint32()
	y := r.Uint32()
	rotation := r.Uint32()
	return beginPlace{
		Tile:     proto.Tile{X: int16(x / 8), Y: int16(y / 8)},
		BlockID:  uint16(result),
		Rotation: uint8(rotation),
		Team:     team,
	}
}

// constructFinish has no wire layout in the stub source (parse_regular_packet
// never grew a match arm for id 23) — this is a from-spec design: enough to
// resolve the finished block's type and apply it to the placeholder §4.J
// describes ConstructFinish mutating.
type constructFinish struct {
	Tile     proto.Tile
	BlockID  uint16
	Rotation uint8
	Team     uint8
}

func readConstructFinish(r *wire.Reader) constructFinish {
	tile := proto.ReadTile(r)
	blockID := r.Uint16()
	rotation := r.Byte()
	team := r.Byte()
	return constructFinish{Tile: tile, BlockID: blockID, Rotation: rotation, Team: team}
}

// deconstructFinish carries just the cleared tile — §4.J's handling is
// "clear block_id and entity", nothing else to read.
type deconstructFinish struct {
	Tile proto.Tile
}

func readDeconstructFinish(r *wire.Reader) deconstructFinish {
	return deconstructFinish{Tile: proto.ReadTile(r)}
}

// rotateBlockCall names the tile whose base rotation changed and the new
// value.
type rotateBlockCall struct {
	Tile     proto.Tile
	Rotation uint8
}

func readRotateBlockCall(r *wire.Reader) rotateBlockCall {
	return rotateBlockCall{Tile: proto.ReadTile(r), Rotation: r.Byte()}
}

// blockSnapshotEntry is one tile's worth of a BlockSnapshot packet: a tile, a
// declared block id to cross-check against local state, and the block-entity
// record itself — bounded to a declared length and version-prefixed, the same
// shape the map grid's blocks pass uses for center-tile entities.
type blockSnapshotEntry struct {
	Tile    proto.Tile
	BlockID int16
	Entity  block.BlockEntity
}

func readBlockSnapshot(r *wire.Reader, cm *content.Map, tables *content.SideTables) ([]blockSnapshotEntry, error) {
	amount := int(r.Int16())
	entries := make([]blockSnapshotEntry, 0, amount)
	for i := 0; i < amount; i++ {
		tile := proto.ReadTile(r)
		blockID := r.Int16()

		length := int(r.Int16())
		body := wire.NewReader(r.Bytes(length))

		blockName, err := cm.Name("block", int(blockID))
		if err != nil {
			return nil, err
		}
		blockType, ok := tables.BlockTypes[blockName]
		if !ok {
			blockType = blockName
		}
		params := tables.BlockParams[blockType]

		version := body.Byte()
		entity, err := block.ReadBlockEntity(body, blockType, version, params, true)
		if err != nil {
			return nil, err
		}
		if body.Remaining() != 0 {
			return nil, block.ErrBlockLengthMismatch{
				BlockName: blockName,
				Declared:  length,
				Remaining: body.Remaining(),
			}
		}

		entries = append(entries, blockSnapshotEntry{Tile: tile, BlockID: blockID, Entity: entity})
	}
	return entries, nil
}
