package worldmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindustry-netclient/content"
	"mindustry-netclient/wire"
)

func TestReadContentHeaderResolvesCategoryAndNames(t *testing.T) {
	tables := &content.SideTables{ContentTypes: []string{"item", "block", "unit"}}

	w := wire.NewWriter()
	w.WriteByte8(1) // mapped count
	w.WriteByte8(1) // content_type_index -> "block"
	w.WriteInt16(2) // count
	w.WriteLengthString("conveyor")
	w.WriteLengthString("router")

	r := wire.NewReader(w.Bytes())
	result, err := ReadContentHeader(r, tables)
	require.NoError(t, err)
	assert.Equal(t, []string{"conveyor", "router"}, result["block"])
	assert.Equal(t, 0, r.Remaining())
}

func TestReadContentHeaderUnknownIndexErrors(t *testing.T) {
	tables := &content.SideTables{ContentTypes: []string{"item"}}
	w := wire.NewWriter()
	w.WriteByte8(1)
	w.WriteByte8(5) // out of range
	w.WriteInt16(0)

	r := wire.NewReader(w.Bytes())
	_, err := ReadContentHeader(r, tables)
	require.Error(t, err)
}

func newGridContext() (*content.Map, *content.SideTables) {
	cm := content.NewMap()
	cm.Set("block", []string{"air", "conveyor"})
	tables := &content.SideTables{
		BlockTypes:  map[string]string{"conveyor": "Conveyor"},
		BlockParams: map[string]content.BlockParams{},
	}
	return cm, tables
}

func TestReadMapFloorsAndOresRunLength(t *testing.T) {
	cm, tables := newGridContext()
	w := wire.NewWriter()
	w.WriteInt16(3) // width
	w.WriteInt16(1) // height

	// Floors/ores: one run covering all 3 tiles.
	w.WriteUint16(5) // floor id
	w.WriteUint16(0) // ore id
	w.WriteByte8(2)  // consecutive_count: 2 more tiles share this run

	// Blocks: one run of 3 tiles, block id 0, no data/entity.
	w.WriteUint16(0) // block id
	w.WriteByte8(0)  // packed_check: no entity, no data
	w.WriteByte8(2)  // consecutive_count

	r := wire.NewReader(w.Bytes())
	m, err := ReadMap(r, cm, tables)
	require.NoError(t, err)
	require.Len(t, m.Tiles, 3)
	for _, tile := range m.Tiles {
		assert.Equal(t, uint16(5), tile.Floor)
		assert.False(t, tile.HasOre)
		assert.Equal(t, uint16(0), tile.Block)
	}
	assert.Equal(t, 0, r.Remaining())
}

func TestReadMapBlockEntityBoundedByDeclaredLength(t *testing.T) {
	cm, tables := newGridContext()
	w := wire.NewWriter()
	w.WriteInt16(1)
	w.WriteInt16(1)

	// Floors/ores: single tile, no run.
	w.WriteUint16(1)
	w.WriteUint16(0)
	w.WriteByte8(0)

	// Blocks: single tile, block id 1 (conveyor), with entity.
	w.WriteUint16(1)
	w.WriteByte8(1)    // packed_check: had_entity only
	w.WriteBool(true)  // is_center, read before the length-bounded entity body

	// Entity body: length-prefixed, then exactly that many bytes (version +
	// base state + specific state).
	entity := wire.NewWriter()
	entity.WriteByte8(0)      // version (legacy, no extended header content needed here)
	entity.WriteFloat32(100)  // health
	entity.WriteByte8(0x02)   // rotation byte, legacy
	entity.WriteByte8(3)      // team
	entity.WriteByte8(0)      // reserved byte (version<=2)
	// Conveyor specific state: count=0
	entity.WriteInt32(0)

	body := entity.Bytes()
	w.WriteInt16(int16(len(body)))
	w.Write(body)

	r := wire.NewReader(w.Bytes())
	m, err := ReadMap(r, cm, tables)
	require.NoError(t, err)
	tile := m.at(0, 0)
	require.True(t, tile.HasEntity)
	assert.Equal(t, uint16(1), tile.Block)
	assert.Equal(t, 0, r.Remaining())
}
