package proto

import (
	"fmt"

	"mindustry-netclient/wire"
)

// KickReason is the fixed enum a KickCall2 packet's single byte maps to.
type KickReason uint8

// KickReason values, matching the wire's [0,15] range exactly.
const (
	KickReasonKick KickReason = iota
	KickReasonClientOutdated
	KickReasonServerOutdated
	KickReasonBanned
	KickReasonGameOver
	KickReasonRecentKick
	KickReasonNameInUse
	KickReasonIDInUse
	KickReasonNameEmpty
	KickReasonCustomClient
	KickReasonServerClose
	KickReasonVote
	KickReasonTypeMismatch
	KickReasonWhitelist
	KickReasonPlayerLimit
	KickReasonServerRestarting
)

// ErrUnknownKickReason is returned when a kick byte falls outside [0,15].
type ErrUnknownKickReason struct{ Value uint8 }

func (e ErrUnknownKickReason) Error() string {
	return fmt.Sprintf("proto: unknown kick reason %d", e.Value)
}

// ReadKickReason reads a single byte and maps it to a KickReason.
func ReadKickReason(r *wire.Reader) (KickReason, error) {
	v := r.Byte()
	if v > uint8(KickReasonServerRestarting) {
		return 0, ErrUnknownKickReason{Value: v}
	}
	return KickReason(v), nil
}

// WriteKickReason writes the reason's byte value.
func WriteKickReason(w *wire.Writer, reason KickReason) {
	w.WriteByte8(uint8(reason))
}
