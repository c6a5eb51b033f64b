package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindustry-netclient/config"
	"mindustry-netclient/content"
	"mindustry-netclient/netcode"
	"mindustry-netclient/proto"
	"mindustry-netclient/transport"
	"mindustry-netclient/wire"
	"mindustry-netclient/worldmap"
)

func newTestSession() *Session {
	cm := content.NewMap()
	cm.SetAll(map[string][]string{"block": {"air", "conveyor"}})
	tables := &content.SideTables{
		BlockTypes:  map[string]string{"conveyor": "Conveyor"},
		BlockParams: map[string]content.BlockParams{},
	}
	s := NewSession(cm, tables, "")
	s.worldMap = &worldmap.Map{Width: 2, Height: 2, Tiles: make([]worldmap.Tile, 4)}
	return s
}

func drainEvent(t *testing.T, s *Session) Event {
	t.Helper()
	select {
	case ev := <-s.events:
		return ev
	default:
		t.Fatal("expected an emitted event")
		return Event{}
	}
}

func TestHandleBeginPlaceInstallsPlaceholder(t *testing.T) {
	s := newTestSession()
	s.handleBeginPlace(beginPlace{Tile: proto.Tile{X: 1, Y: 0}, BlockID: 1, Rotation: 2, Team: 3})

	tile := s.worldMap.Tiles[1]
	assert.Equal(t, uint16(1), tile.Block)
	require.True(t, tile.HasEntity)
	require.NotNil(t, tile.Entity)
	assert.Equal(t, uint8(3), tile.Entity.Base.Team)
	assert.Equal(t, uint8(2), tile.Entity.Base.RotationByte)

	assert.Equal(t, EventBlockChanged, drainEvent(t, s).Kind)
}

func TestHandleBeginPlaceMissingTileIsDropped(t *testing.T) {
	s := newTestSession()
	s.handleBeginPlace(beginPlace{Tile: proto.Tile{X: 9, Y: 9}, BlockID: 1})

	select {
	case <-s.events:
		t.Fatal("expected no event for an out-of-range tile")
	default:
	}
}

func TestHandleConstructFinishMutatesPlaceholder(t *testing.T) {
	s := newTestSession()
	s.handleBeginPlace(beginPlace{Tile: proto.Tile{X: 0, Y: 0}, BlockID: 1, Rotation: 0, Team: 1})
	drainEvent(t, s)

	s.handleConstructFinish(constructFinish{Tile: proto.Tile{X: 0, Y: 0}, BlockID: 1, Rotation: 4, Team: 2})

	tile := s.worldMap.Tiles[0]
	assert.Equal(t, uint8(2), tile.Entity.Base.Team)
	assert.Equal(t, uint8(4), tile.Entity.Base.RotationByte)
	assert.Equal(t, EventBlockChanged, drainEvent(t, s).Kind)
}

func TestHandleConstructFinishWithoutPlaceholderIsDropped(t *testing.T) {
	s := newTestSession()
	s.handleConstructFinish(constructFinish{Tile: proto.Tile{X: 0, Y: 0}, BlockID: 1})

	select {
	case <-s.events:
		t.Fatal("expected no event when there is no placeholder")
	default:
	}
}

func TestHandleDeconstructFinishClearsTile(t *testing.T) {
	s := newTestSession()
	s.handleBeginPlace(beginPlace{Tile: proto.Tile{X: 0, Y: 0}, BlockID: 1})
	drainEvent(t, s)

	s.handleDeconstructFinish(deconstructFinish{Tile: proto.Tile{X: 0, Y: 0}})

	tile := s.worldMap.Tiles[0]
	assert.Equal(t, uint16(0), tile.Block)
	assert.False(t, tile.HasEntity)
	assert.Nil(t, tile.Entity)
	assert.Equal(t, EventBlockChanged, drainEvent(t, s).Kind)
}

func TestHandleRotateBlockCallPreservesExtendedHeaderBit(t *testing.T) {
	s := newTestSession()
	s.handleBeginPlace(beginPlace{Tile: proto.Tile{X: 0, Y: 0}, BlockID: 1, Rotation: 0x80 | 3})
	drainEvent(t, s)

	s.handleRotateBlockCall(rotateBlockCall{Tile: proto.Tile{X: 0, Y: 0}, Rotation: 5})

	tile := s.worldMap.Tiles[0]
	assert.Equal(t, uint8(0x80|5), tile.Entity.Base.RotationByte)
	assert.Equal(t, EventBlockChanged, drainEvent(t, s).Kind)
}

func TestHandleSpawnCallSetsPositionForOwnPlayer(t *testing.T) {
	s := newTestSession()
	s.state.SetPlayerID(42)

	s.handleSpawnCall(netcode.SpawnCall{TileX: 3, TileY: 4, Entity: 42})

	snap := s.state.Snapshot()
	assert.Equal(t, float32(24), snap.X)
	assert.Equal(t, float32(32), snap.Y)
}

func TestHandleSpawnCallIgnoresOtherEntities(t *testing.T) {
	s := newTestSession()
	s.state.SetPlayerID(42)
	s.state.SetPosition(-1, -1)

	s.handleSpawnCall(netcode.SpawnCall{TileX: 3, TileY: 4, Entity: 99})

	snap := s.state.Snapshot()
	assert.Equal(t, float32(-1), snap.X)
}

func TestDispatchRegularKickCallEmitsEvent(t *testing.T) {
	s := newTestSession()
	w := wire.NewWriter()
	require.NoError(t, w.WritePrefixedString("server full"))

	require.NoError(t, s.dispatchRegular(netcode.PacketKickCall, w.Bytes()))

	ev := drainEvent(t, s)
	assert.Equal(t, EventKicked, ev.Kind)
	assert.Equal(t, "server full", ev.KickReason)
}

func TestDispatchRegularStreamReassemblyRedispatches(t *testing.T) {
	s := newTestSession()

	kick := wire.NewWriter()
	require.NoError(t, kick.WritePrefixedString("bye"))
	payload := kick.Bytes()

	begin := wire.NewWriter()
	begin.WriteUint32(1)
	begin.WriteUint32(uint32(len(payload)))
	begin.WriteByte8(netcode.PacketKickCall)
	require.NoError(t, s.dispatchRegular(netcode.PacketStreamBegin, begin.Bytes()))

	chunk := wire.NewWriter()
	chunk.WriteUint32(1)
	chunk.WriteInt16(int16(len(payload)))
	chunk.Write(payload)
	require.NoError(t, s.dispatchRegular(netcode.PacketStreamChunk, chunk.Bytes()))

	ev := drainEvent(t, s)
	assert.Equal(t, EventKicked, ev.Kind)
	assert.Equal(t, "bye", ev.KickReason)
}

func TestHandshakeCompletesOnRegisterSequence(t *testing.T) {
	tr := &transport.Transport{Frames: make(chan netcode.Frame, 4)}
	s := newTestSession()
	cfg := &config.Config{}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	go func() {
		tr.Frames <- netcode.Frame{IsFramework: true, FrameworkKind: netcode.FrameworkRegisterTCP, RegisterID: 7}
		tr.Frames <- netcode.Frame{IsFramework: true, FrameworkKind: netcode.FrameworkRegisterUDP}
	}()

	require.NoError(t, s.handshake(ctx, tr, cfg))
}

func TestHandshakeTimesOutWithoutRegisterTCP(t *testing.T) {
	tr := &transport.Transport{Frames: make(chan netcode.Frame, 1)}
	s := newTestSession()
	cfg := &config.Config{}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := s.handshake(ctx, tr, cfg)
	require.Error(t, err)
}
