// Package session implements the client state machine: handshake, inbound
// packet dispatch, and the background snapshot/keep-alive task — client.rs's
// Session, generalized off the teacher's accept/parse/dispatch loop.
package session

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"mindustry-netclient/block"
	"mindustry-netclient/config"
	"mindustry-netclient/content"
	"mindustry-netclient/netcode"
	"mindustry-netclient/proto"
	"mindustry-netclient/transport"
	"mindustry-netclient/wire"
	"mindustry-netclient/worldmap"
)

// Session owns everything one connected client needs: the content map and
// side tables, the decoded world grid, the session state, the stream
// reassembler, and the outbound event feed.
type Session struct {
	cm     *content.Map
	tables *content.SideTables

	mapMu    sync.Mutex
	worldMap *worldmap.Map

	state   *State
	streams *netcode.StreamBuilder
	events  chan Event

	persistedMapPath string

	log *logrus.Entry
}

// NewSession builds an empty session against the given content map and side
// tables. persistedMapPath is where a fresh content-map.json snapshot is
// written on every WorldStream (§6); pass "" to disable persistence.
func NewSession(cm *content.Map, tables *content.SideTables, persistedMapPath string) *Session {
	return &Session{
		cm:               cm,
		tables:           tables,
		state:            NewState(),
		streams:          netcode.NewStreamBuilder(),
		events:           make(chan Event, 64),
		persistedMapPath: persistedMapPath,
		log:              logrus.WithField("component", "session"),
	}
}

// Events returns the channel user-visible state transitions are posted on.
func (s *Session) Events() <-chan Event { return s.events }

// State returns the session's mutable client-side model.
func (s *Session) State() *State { return s.state }

// Run drives the full client lifecycle over tr: handshake, then the
// dispatcher loop alongside the background snapshot task, until ctx is
// cancelled or the transport reports a fatal I/O error.
func (s *Session) Run(ctx context.Context, tr *transport.Transport, cfg *config.Config) error {
	if err := s.handshake(ctx, tr, cfg); err != nil {
		return err
	}

	go s.snapshotTask(ctx, tr, cfg)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-tr.Errors:
			s.log.WithError(err).Error("transport error, ending session")
			return err
		case frame := <-tr.Frames:
			s.dispatch(frame)
		}
	}
}

// handshake implements §4.J's startup sequence: wait for the server's
// framework RegisterTCP, echo RegisterUDP on the datagram channel, wait for
// its RegisterUDP echo, then send Connect and ConnectCallConfirm.
func (s *Session) handshake(ctx context.Context, tr *transport.Transport, cfg *config.Config) error {
	sessionID, err := s.awaitFramework(ctx, tr, netcode.FrameworkRegisterTCP)
	if err != nil {
		return err
	}
	tr.Send(netcode.WriteRegisterUDP(sessionID), false)

	if _, err := s.awaitFramework(ctx, tr, netcode.FrameworkRegisterUDP); err != nil {
		return err
	}

	connectPayload, err := netcode.WriteConnect(buildConnect(cfg))
	if err != nil {
		return err
	}
	connectFrame, err := netcode.WritePacket(netcode.PacketConnect, connectPayload)
	if err != nil {
		return err
	}
	tr.Send(connectFrame, true)

	confirmFrame, err := netcode.WritePacket(netcode.PacketConnectCallConfirm, nil)
	if err != nil {
		return err
	}
	tr.Send(confirmFrame, true)

	s.log.Info("handshake complete")
	return nil
}

func (s *Session) awaitFramework(ctx context.Context, tr *transport.Transport, kind uint8) (uint32, error) {
	for {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case frame := <-tr.Frames:
			if frame.IsFramework && frame.FrameworkKind == kind {
				return frame.RegisterID, nil
			}
		}
	}
}

func buildConnect(cfg *config.Config) netcode.Connect {
	uuidBytes, _ := base64.StdEncoding.DecodeString(cfg.UUID)
	return netcode.Connect{
		Version: config.DefaultProtocolVersion,
		Client:  config.DefaultClient,
		Name:    cfg.PlayerName,
		Lang:    cfg.Lang,
		Usid:    cfg.Usid,
		UUID:    uuidBytes,
		Mobile:  cfg.Mobile,
		Color:   cfg.Color,
		Mods:    cfg.Mods,
	}
}

// snapshotTask is client.rs's single background task: a tick at cfg's
// snapshot rate (200ms/5Hz by default) emits a ClientSnapshot every tick, a
// reliable KeepAlive every 5th tick (every 1s at 5Hz), and a datagram
// KeepAlive every 15th tick (every 3s at 5Hz).
func (s *Session) snapshotTask(ctx context.Context, tr *transport.Transport, cfg *config.Config) {
	rate := cfg.SnapshotRateHz
	if rate <= 0 {
		rate = config.DefaultSnapshotRateHz
	}
	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	var tick uint32
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// client.rs increments its tick counter before using it, so the
			// first ClientSnapshot carries snapshot_id 1 and the first
			// reliable/datagram KeepAlives fire at tick 5/15, not both on
			// the very first tick at connect.
			tick++
			s.emitSnapshot(tr, tick)
			if tick%5 == 0 {
				tr.Send(netcode.WriteKeepAlive(), true)
			}
			if tick%15 == 0 {
				tr.Send(netcode.WriteKeepAlive(), false)
			}
		}
	}
}

func (s *Session) emitSnapshot(tr *transport.Transport, tick uint32) {
	snap := s.state.Snapshot()
	data, err := netcode.WriteClientSnapshot(netcode.ClientSnapshot{
		SnapshotID: tick,
		UnitID:     snap.UnitID,
		X:          snap.X,
		Y:          snap.Y,
		Chatting:   snap.Chatting,
		Plans:      snap.Plans,
	})
	if err != nil {
		s.log.WithError(err).Warn("failed to encode client snapshot")
		return
	}
	framed, err := netcode.WritePacket(netcode.PacketClientSnapshot, data)
	if err != nil {
		s.log.WithError(err).Warn("failed to frame client snapshot")
		return
	}
	tr.Send(framed, true)
}

func (s *Session) dispatch(frame netcode.Frame) {
	if frame.IsFramework {
		s.log.WithField("kind", frame.FrameworkKind).Debug("framework frame after handshake")
		return
	}
	if err := s.dispatchRegular(frame.ID, frame.Payload); err != nil {
		s.log.WithError(err).WithField("packet_id", frame.ID).Warn("dropping packet")
	}
}

// dispatchRegular implements §4.J's inbound dispatch table.
func (s *Session) dispatchRegular(id uint8, payload []byte) error {
	switch id {
	case netcode.PacketStreamBegin:
		s.streams.Begin(netcode.ReadStreamBegin(wire.NewReader(payload)))

	case netcode.PacketStreamChunk:
		data, streamType, done := s.streams.Chunk(netcode.ReadStreamChunk(wire.NewReader(payload)))
		if done {
			return s.dispatchRegular(streamType, data)
		}

	case netcode.PacketWorldStream:
		return s.handleWorldStream(payload)

	case netcode.PacketBeginPlaceCall:
		s.handleBeginPlace(readBeginPlace(wire.NewReader(payload)))

	case netcode.PacketConstructFinish:
		s.handleConstructFinish(readConstructFinish(wire.NewReader(payload)))

	case netcode.PacketDeconstructFinish:
		s.handleDeconstructFinish(readDeconstructFinish(wire.NewReader(payload)))

	case netcode.PacketBlockSnapshot:
		entries, err := readBlockSnapshot(wire.NewReader(payload), s.cm, s.tables)
		if err != nil {
			return err
		}
		s.handleBlockSnapshot(entries)

	case netcode.PacketEntitySnapshot:
		es, err := netcode.ReadEntitySnapshot(wire.NewReader(payload), s.cm, s.tables)
		if err != nil {
			return err
		}
		s.handleEntitySnapshot(es)

	case netcode.PacketKickCall:
		s.emit(Event{Kind: EventKicked, KickReason: netcode.ReadKickCall(wire.NewReader(payload)).Reason})

	case netcode.PacketKickCall2:
		kc, err := netcode.ReadKickCall2(wire.NewReader(payload))
		if err != nil {
			return err
		}
		s.emit(Event{Kind: EventKicked, KickReason: fmt.Sprintf("%d", kc.Reason)})

	case netcode.PacketSpawnCall:
		s.handleSpawnCall(netcode.ReadSpawnCall(wire.NewReader(payload)))

	case netcode.PacketRotateBlockCall:
		s.handleRotateBlockCall(readRotateBlockCall(wire.NewReader(payload)))

	case netcode.PacketSendMessageCall2:
		sm := netcode.ReadSendMessageCall2(wire.NewReader(payload))
		s.emit(Event{Kind: EventChatMessage, Message: sm.Message, Sender: sm.Sender})

	default:
		s.log.WithField("packet_id", id).Debug("ignoring unhandled packet")
	}
	return nil
}

func (s *Session) handleWorldStream(payload []byte) error {
	header, err := netcode.ReadWorldStream(payload)
	if err != nil {
		return err
	}

	r := wire.NewReader(header.Remaining)
	categories, err := worldmap.ReadContentHeader(r, s.tables)
	if err != nil {
		return err
	}
	s.cm.SetAll(categories)

	m, err := worldmap.ReadMap(r, s.cm, s.tables)
	if err != nil {
		return err
	}

	s.mapMu.Lock()
	s.worldMap = m
	s.mapMu.Unlock()

	s.state.SetPlayerID(header.ID)

	if s.persistedMapPath != "" {
		if err := content.SavePersistedContentMap(s.persistedMapPath, categories); err != nil {
			s.log.WithError(err).Warn("failed to persist content map")
		}
	}

	s.emit(Event{Kind: EventMapLoaded})
	return nil
}

// tileAt resolves t against the current world map. Callers must hold mapMu.
func (s *Session) tileAt(t proto.Tile) (*worldmap.Tile, bool) {
	if s.worldMap == nil {
		return nil, false
	}
	x, y := int(t.X), int(t.Y)
	if x < 0 || x >= s.worldMap.Width || y < 0 || y >= s.worldMap.Height {
		return nil, false
	}
	return &s.worldMap.Tiles[y*s.worldMap.Width+x], true
}

func (s *Session) handleBeginPlace(bp beginPlace) {
	s.mapMu.Lock()
	defer s.mapMu.Unlock()

	tile, ok := s.tileAt(bp.Tile)
	if !ok {
		s.log.WithField("tile", bp.Tile).Warn("BeginPlace: tile not in map")
		return
	}
	tile.Block = bp.BlockID
	tile.Entity = &block.BlockEntity{
		Base: block.BaseBlockState{
			RotationByte: bp.Rotation,
			Legacy:       true,
			Team:         bp.Team,
		},
	}
	tile.HasEntity = true
	s.emit(Event{Kind: EventBlockChanged, Tile: bp.Tile})
}

func (s *Session) handleConstructFinish(cf constructFinish) {
	s.mapMu.Lock()
	defer s.mapMu.Unlock()

	tile, ok := s.tileAt(cf.Tile)
	if !ok || !tile.HasEntity || tile.Entity == nil {
		s.log.WithField("tile", cf.Tile).Warn("ConstructFinish: no placeholder entity")
		return
	}
	tile.Block = cf.BlockID
	tile.Entity.Base.RotationByte = cf.Rotation
	tile.Entity.Base.Team = cf.Team
	s.emit(Event{Kind: EventBlockChanged, Tile: cf.Tile})
}

func (s *Session) handleDeconstructFinish(df deconstructFinish) {
	s.mapMu.Lock()
	defer s.mapMu.Unlock()

	tile, ok := s.tileAt(df.Tile)
	if !ok {
		s.log.WithField("tile", df.Tile).Warn("DeconstructFinish: tile not in map")
		return
	}
	tile.Block = 0
	tile.Entity = nil
	tile.HasEntity = false
	s.emit(Event{Kind: EventBlockChanged, Tile: df.Tile})
}

func (s *Session) handleBlockSnapshot(entries []blockSnapshotEntry) {
	s.mapMu.Lock()
	defer s.mapMu.Unlock()

	for _, e := range entries {
		tile, ok := s.tileAt(e.Tile)
		if !ok {
			s.log.WithField("tile", e.Tile).Warn("BlockSnapshot: tile not in map")
			continue
		}
		if tile.Block != uint16(e.BlockID) {
			s.log.WithFields(logrus.Fields{
				"tile": e.Tile, "local": tile.Block, "remote": e.BlockID,
			}).Warn("BlockSnapshot: block id mismatch")
		}
		entity := e.Entity
		tile.Entity = &entity
		tile.HasEntity = true
		s.emit(Event{Kind: EventBlockChanged, Tile: e.Tile})
	}
}

func (s *Session) handleEntitySnapshot(es netcode.EntitySnapshot) {
	s.state.ReplaceUnits(es.Units)
	s.emit(Event{Kind: EventUnitSnapshot, UnitCount: len(es.Units)})
}

func (s *Session) handleSpawnCall(sc netcode.SpawnCall) {
	snap := s.state.Snapshot()
	if sc.Entity == snap.PlayerID {
		s.state.SetPosition(float32(sc.TileX)*8, float32(sc.TileY)*8)
	}
}

func (s *Session) handleRotateBlockCall(rb rotateBlockCall) {
	s.mapMu.Lock()
	defer s.mapMu.Unlock()

	tile, ok := s.tileAt(rb.Tile)
	if !ok || tile.Entity == nil {
		s.log.WithField("tile", rb.Tile).Warn("RotateBlockCall: no entity at tile")
		return
	}
	tile.Entity.Base.RotationByte = (tile.Entity.Base.RotationByte & 0x80) | (rb.Rotation & 0x7F)
	s.emit(Event{Kind: EventBlockChanged, Tile: rb.Tile})
}

func (s *Session) emit(ev Event) {
	select {
	case s.events <- ev:
	default:
		s.log.Warn("event channel full, dropping event")
	}
}
