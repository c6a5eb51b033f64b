package proto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindustry-netclient/wire"
)

func TestTileRoundTrip(t *testing.T) {
	w := wire.NewWriter()
	WriteTile(w, Tile{X: -3, Y: 17})

	got := ReadTile(wire.NewReader(w.Bytes()))
	assert.Equal(t, Tile{X: -3, Y: 17}, got)
}

func TestUnitHandleFieldOrderIsAsymmetric(t *testing.T) {
	w := wire.NewWriter()
	WriteUnitHandle(w, UnitHandle{Type: 5, ID: 99})

	r := wire.NewReader(w.Bytes())
	id := r.Uint32()
	unitType := r.Byte()
	assert.Equal(t, uint32(99), id)
	assert.Equal(t, uint8(5), unitType)
}

func TestVec2NullableRoundTripsPresentValue(t *testing.T) {
	w := wire.NewWriter()
	WriteVec2Nullable(w, Vec2{X: 1.5, Y: -2.5}, true)

	v, ok := ReadVec2Nullable(wire.NewReader(w.Bytes()))
	require.True(t, ok)
	assert.Equal(t, Vec2{X: 1.5, Y: -2.5}, v)
}

func TestVec2NullableTreatsNaNAsAbsent(t *testing.T) {
	w := wire.NewWriter()
	WriteVec2Nullable(w, Vec2{}, false)

	_, ok := ReadVec2Nullable(wire.NewReader(w.Bytes()))
	assert.False(t, ok)
}

func TestPlanRoundTripBreak(t *testing.T) {
	w := wire.NewWriter()
	require.NoError(t, WritePlan(w, Plan{PlanType: 1, Position: Tile{X: 2, Y: 3}}))

	got, err := ReadPlan(wire.NewReader(w.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, Plan{PlanType: 1, Position: Tile{X: 2, Y: 3}}, got)
}

func TestPlanRoundTripPlaceCarriesExtendedFields(t *testing.T) {
	w := wire.NewWriter()
	p := Plan{PlanType: 0, Position: Tile{X: 1, Y: 1}, Block: 42, Rotation: 3, HasConfig: false, Config: wire.Object{Tag: wire.TagNull}}
	require.NoError(t, WritePlan(w, p))

	got, err := ReadPlan(wire.NewReader(w.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, int16(42), got.Block)
	assert.Equal(t, uint8(3), got.Rotation)
}

func TestReadPlansUsesI16Count(t *testing.T) {
	w := wire.NewWriter()
	w.WriteInt16(2)
	require.NoError(t, WritePlan(w, Plan{PlanType: 1, Position: Tile{X: 0, Y: 0}}))
	require.NoError(t, WritePlan(w, Plan{PlanType: 1, Position: Tile{X: 1, Y: 1}}))

	plans, err := ReadPlans(wire.NewReader(w.Bytes()))
	require.NoError(t, err)
	assert.Len(t, plans, 2)
}

func TestReadPlansQueueUsesU32Count(t *testing.T) {
	w := wire.NewWriter()
	w.WriteUint32(1)
	require.NoError(t, WritePlan(w, Plan{PlanType: 1, Position: Tile{X: 5, Y: 5}}))

	plans, err := ReadPlansQueue(wire.NewReader(w.Bytes()))
	require.NoError(t, err)
	assert.Len(t, plans, 1)
}

func TestKickReasonRejectsOutOfRangeValue(t *testing.T) {
	w := wire.NewWriter()
	w.WriteByte8(200)

	_, err := ReadKickReason(wire.NewReader(w.Bytes()))
	assert.Error(t, err)
}

func TestReadControllerTagZeroReadsFormationLeader(t *testing.T) {
	w := wire.NewWriter()
	w.WriteByte8(0)
	w.WriteUint32(123)

	c := ReadController(wire.NewReader(w.Bytes()))
	assert.Equal(t, uint32(123), c.FormationLeaderID)
}

func TestReadControllerTagEightReadsStanceUnlessFF(t *testing.T) {
	w := wire.NewWriter()
	w.WriteByte8(8)
	w.WriteBool(false) // has_attack
	w.WriteBool(false) // has_pos
	w.WriteByte8(7)    // id
	w.WriteByte8(0)    // attack info length
	w.WriteByte8(0xFF) // stance absent marker

	c := ReadController(wire.NewReader(w.Bytes()))
	assert.False(t, c.HasStance)
}

func TestReadStatusesCountsWithU32(t *testing.T) {
	w := wire.NewWriter()
	w.WriteUint32(1)
	w.WriteInt16(4)
	w.WriteFloat32(1.25)

	statuses := ReadStatuses(wire.NewReader(w.Bytes()))
	require.Len(t, statuses, 1)
	assert.Equal(t, int16(4), statuses[0].ID)
}

func TestReadMountsCountsWithByte(t *testing.T) {
	w := wire.NewWriter()
	w.WriteByte8(1)
	w.WriteByte8(2)
	w.WriteFloat32(1)
	w.WriteFloat32(2)

	mounts := ReadMounts(wire.NewReader(w.Bytes()))
	require.Len(t, mounts, 1)
	assert.Equal(t, uint8(2), mounts[0].State)
}
