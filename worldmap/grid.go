package worldmap

import (
	"fmt"

	"mindustry-netclient/block"
	"mindustry-netclient/content"
	"mindustry-netclient/wire"
)

// Tile is one cell of the decoded grid: a floor id, an optional ore id, an
// optional block id, and — only for the tile at a multi-tile block's
// center — its full decoded entity.
type Tile struct {
	Floor  uint16
	Ore    uint16
	HasOre bool
	Block  uint16

	Entity   *block.BlockEntity
	HasEntity bool
}

// Map is the decoded tile grid for one WorldStream.
type Map struct {
	Width, Height int
	Tiles         []Tile // row-major, length Width*Height
}

func (m *Map) at(x, y int) *Tile {
	return &m.Tiles[y*m.Width+x]
}

// ErrBlockLengthMismatch is re-exported so worldmap callers can errors.As
// against it without importing package block directly for that purpose.
type ErrBlockLengthMismatch = block.ErrBlockLengthMismatch

// ReadMap decodes a WorldStream's tile grid: width/height, then the
// floors+ores run-length pass, then the blocks run-length pass (including
// any per-tile block entity).
func ReadMap(r *wire.Reader, cm *content.Map, tables *content.SideTables) (*Map, error) {
	width := int(r.Int16())
	height := int(r.Int16())

	m := &Map{Width: width, Height: height, Tiles: make([]Tile, width*height)}

	readFloorsAndOres(r, m)

	if err := readBlocks(r, m, cm, tables); err != nil {
		return nil, err
	}

	return m, nil
}

// readFloorsAndOres implements the shared-run-length floors/ores pass: one
// consecutive_count byte per step fills both the floor and (if present) the
// ore id for that many tiles following the one just read.
func readFloorsAndOres(r *wire.Reader, m *Map) {
	total := m.Width * m.Height
	i := 0
	for i < total {
		x, y := i%m.Width, i/m.Width
		floorID := r.Uint16()
		oreID := r.Uint16()
		consecutive := int(r.Byte())

		setFloorOre(m, x, y, floorID, oreID)

		for j := i + 1; j < i+1+consecutive; j++ {
			nx, ny := j%m.Width, j/m.Width
			setFloorOre(m, nx, ny, floorID, oreID)
		}

		i += consecutive + 1
	}
}

func setFloorOre(m *Map, x, y int, floorID, oreID uint16) {
	t := m.at(x, y)
	t.Floor = floorID
	if oreID != 0 {
		t.Ore = oreID
		t.HasOre = true
	}
}

const packedCheckHadEntity = 1 << 0
const packedCheckHadData = 1 << 2

// readBlocks implements the blocks run-length pass: per step a block id, a
// packed-check byte selecting whether per-tile data and/or an entity follow,
// and — for entity-bearing center tiles — the entity itself bounded to its
// declared length. Non-entity runs use their own trailing consecutive_count
// byte, mutually exclusive with the had-data case.
func readBlocks(r *wire.Reader, m *Map, cm *content.Map, tables *content.SideTables) error {
	total := m.Width * m.Height
	i := 0
	for i < total {
		x, y := i%m.Width, i/m.Width

		blockID := r.Uint16()
		packedCheck := r.Byte()
		hadEntity := packedCheck&packedCheckHadEntity != 0
		hadData := packedCheck&packedCheckHadData != 0

		isCenter := true
		if hadData {
			r.Byte()    // tile data
			r.Byte()    // floor data
			r.Byte()    // overlay data
			r.Uint32()  // extra data
		}
		if hadEntity {
			isCenter = r.Bool()
		}

		if isCenter && blockID != 0 {
			m.at(x, y).Block = blockID
		}

		if hadEntity {
			if isCenter {
				if err := readTileEntity(r, m, x, y, blockID, cm, tables); err != nil {
					return err
				}
			}
		} else if !hadData {
			consecutive := int(r.Byte())
			for j := i + 1; j < i+1+consecutive; j++ {
				if blockID != 0 {
					nx, ny := j%m.Width, j/m.Width
					m.at(nx, ny).Block = blockID
				}
			}
			i += consecutive
		}

		i++
	}
	return nil
}

// readTileEntity reads one center-tile block entity: a declared byte length,
// then the externally-supplied version byte, then the entity body bounded to
// exactly that many bytes. A short or long decode raises
// ErrBlockLengthMismatch rather than the source's panic, per this module's
// framing of a corrupt load as a recoverable error.
func readTileEntity(r *wire.Reader, m *Map, x, y int, blockID uint16, cm *content.Map, tables *content.SideTables) error {
	length := int(r.Int16())
	body := wire.NewReader(r.Bytes(length))

	blockName, err := cm.Name("block", int(blockID))
	if err != nil {
		return err
	}
	blockType, ok := tables.BlockTypes[blockName]
	if !ok {
		blockType = blockName
	}
	params := tables.BlockParams[blockType]

	version := body.Byte()
	entity, err := block.ReadBlockEntity(body, blockType, version, params, true)
	if err != nil {
		return err
	}

	if body.Remaining() != 0 {
		return block.ErrBlockLengthMismatch{
			BlockName: fmt.Sprintf("%s@[%d,%d]", blockName, x, y),
			Declared:  length,
			Remaining: body.Remaining(),
		}
	}

	t := m.at(x, y)
	t.Entity = &entity
	t.HasEntity = true
	return nil
}
