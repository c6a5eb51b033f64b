package session

import "mindustry-netclient/proto"

// Event is the user-visible half of §7's error policy: "user-visible events
// are emitted only for observable state transitions... errors surface via
// log only." Only the fields commented with the event's Kind below are
// populated; MapLoaded carries none.
type Event struct {
	Kind EventKind

	Tile proto.Tile // BlockChanged

	UnitCount int // UnitSnapshot

	Message  string // ChatMessage
	Sender   uint32 // ChatMessage

	KickReason string // KickCall / KickCall2, stringified
}

// EventKind selects which of Event's fields are meaningful.
type EventKind uint8

const (
	EventMapLoaded EventKind = iota
	EventBlockChanged
	EventUnitSnapshot
	EventChatMessage
	EventKicked
)
