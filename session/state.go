package session

import (
	"sync"

	"mindustry-netclient/proto"
	"mindustry-netclient/unit"
)

// State is the session's mutable client-side model — client.rs's State
// struct, carried over field-for-field: the local player's id, its own unit
// handle, position, chat-open flag, pending build plans, and the full
// units-by-id map from the last EntitySnapshot.
type State struct {
	mu sync.Mutex

	PlayerID uint32
	Unit     proto.UnitHandle
	X, Y     float32
	Chatting bool
	Plans    []proto.Plan

	Units map[uint32]unit.FullUnit
}

// NewState returns an empty session state with sentinel position, per §4.J's
// startup step ("set the session x/y to sentinels").
func NewState() *State {
	return &State{
		X: sentinelCoordinate, Y: sentinelCoordinate,
		Units: make(map[uint32]unit.FullUnit),
	}
}

// sentinelCoordinate marks "position not yet known" until a SpawnCall for the
// player's own entity sets the real position (EntitySnapshot does not touch
// X/Y).
const sentinelCoordinate = -1

// Snapshot is an immutable copy of the fields a ClientSnapshot needs, taken
// atomically so the snapshot task never holds State's lock across a channel
// send.
type Snapshot struct {
	PlayerID uint32
	UnitID   uint32
	X, Y     float32
	Chatting bool
	Plans    []proto.Plan
}

// Snapshot copies out the scalar state plus a defensive copy of Plans.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	plans := make([]proto.Plan, len(s.Plans))
	copy(plans, s.Plans)
	return Snapshot{
		PlayerID: s.PlayerID,
		UnitID:   s.Unit.ID,
		X:        s.X,
		Y:        s.Y,
		Chatting: s.Chatting,
		Plans:    plans,
	}
}

func (s *State) SetPlayerID(id uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.PlayerID = id
}

func (s *State) SetPosition(x, y float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.X, s.Y = x, y
}

func (s *State) SetUnit(u proto.UnitHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Unit = u
}

func (s *State) SetChatting(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Chatting = v
}

func (s *State) SetPlans(plans []proto.Plan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Plans = plans
}

// ReplaceUnits captures the local player's unit handle out of the current
// (about-to-be-replaced) units map before installing fresh, per §4.J's
// EntitySnapshot handling: the player's avatar entity is keyed in the units
// map under the session's own player id, so its type tag is read from there
// and written to State.Unit before the old map is discarded.
func (s *State) ReplaceUnits(fresh map[uint32]unit.FullUnit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.Units[s.PlayerID]; ok {
		s.Unit = proto.UnitHandle{Type: u.TypeID, ID: s.PlayerID}
	}
	s.Units = fresh
}
