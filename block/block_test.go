package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindustry-netclient/content"
	"mindustry-netclient/wire"
)

func TestConveyorVersion0Packing(t *testing.T) {
	// count=2, then two packed (item,x,y) u32 words.
	buf := []byte{
		0x00, 0x00, 0x00, 0x02,
		0x00, 0x01, 0x00, 0x00,
		0x00, 0x02, 0x00, 0x00,
	}
	r := wire.NewReader(buf)
	state := readConveyor(r, 0)
	require.Len(t, state.Slots, 2)
	assert.Equal(t, int16(1), state.Slots[0].Item)
	assert.Equal(t, int16(2), state.Slots[1].Item)
	assert.Equal(t, 0, r.Remaining())
}

func TestConveyorVersionGE1Packing(t *testing.T) {
	buf := []byte{
		0x00, 0x00, 0x00, 0x01,
		0x00, 0x05, 0x03, 0x04,
	}
	r := wire.NewReader(buf)
	state := readConveyor(r, 1)
	require.Len(t, state.Slots, 1)
	assert.Equal(t, ConveyorSlot{Item: 5, X: 3, Y: 4}, state.Slots[0])
}

func TestJunctionCapacityLimitsRetainedEntries(t *testing.T) {
	w := wire.NewWriter()
	for d := 0; d < 4; d++ {
		w.WriteByte8(uint8(d))
		w.WriteByte8(10) // more entries than junction capacity (6)
		for i := 0; i < 10; i++ {
			w.WriteUint64(uint64(i))
		}
	}
	r := wire.NewReader(w.Bytes())
	state := readJunctionFamily(r, junctionCapacity)
	for d := 0; d < 4; d++ {
		assert.Len(t, state.Buffers[d].Entries, junctionCapacity)
	}
	assert.Equal(t, 0, r.Remaining())
}

func TestMassDriverUnknownStateErrors(t *testing.T) {
	w := wire.NewWriter()
	w.WriteUint32(1)
	w.WriteFloat32(0.5)
	w.WriteByte8(9) // invalid state
	r := wire.NewReader(w.Bytes())
	_, err := readMassDriver(r)
	require.Error(t, err)
}

func TestBaseBlockStateLegacyUsesParams(t *testing.T) {
	w := wire.NewWriter()
	w.WriteFloat32(100)
	w.WriteByte8(0x02) // rotation byte, bit7 clear => legacy
	w.WriteByte8(7)    // team
	// no items/power/liquids sub-records expected since params below has none set
	w.WriteByte8(0) // reserved byte (version<=2 branch, version==0 here)

	r := wire.NewReader(w.Bytes())
	base := readBaseBlockState(r, content.BlockParams{})
	assert.True(t, base.Legacy)
	assert.Equal(t, uint8(2), base.Rotation())
	assert.Equal(t, uint8(7), base.Team)
	assert.Equal(t, 0, r.Remaining())
}

func TestBaseBlockStateExtendedHeaderVersion3HasEfficiency(t *testing.T) {
	w := wire.NewWriter()
	w.WriteFloat32(50)
	w.WriteByte8(0x80 | 4) // extended header, rotation 4
	w.WriteByte8(1)        // team
	w.WriteByte8(3)        // version
	w.WriteBool(true)      // on
	w.WriteByte8(0)        // module bitmask: nothing
	w.WriteByte8(200)      // efficiency
	w.WriteByte8(180)      // optimal efficiency

	r := wire.NewReader(w.Bytes())
	base := readBaseBlockState(r, content.BlockParams{})
	assert.False(t, base.Legacy)
	assert.Equal(t, uint8(3), base.Version)
	assert.True(t, base.On)
	assert.Equal(t, uint8(200), base.Efficiency)
	assert.Equal(t, uint8(180), base.OptimalEfficiency)
	assert.Equal(t, 0, r.Remaining())
}

func TestUnknownBlockTypeConsumesRemainderOpaquelyWhenBounded(t *testing.T) {
	r := wire.NewReader([]byte{1, 2, 3, 4})
	state, err := readSpecificBlockState(r, "SomeFutureBlock", 0, true)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, state.Opaque)
	assert.Equal(t, 0, r.Remaining())
}

func TestUnknownBlockTypeConsumesNothingWhenUnbounded(t *testing.T) {
	r := wire.NewReader([]byte{1, 2, 3, 4})
	state, err := readSpecificBlockState(r, "SomeFutureBlock", 0, false)
	require.NoError(t, err)
	assert.Nil(t, state.Opaque)
	assert.Equal(t, 4, r.Remaining())
}
