package block

import (
	"mindustry-netclient/content"
	"mindustry-netclient/wire"
)

// BlockEntity is the full per-tile persistent state for a placed building:
// the common BaseBlockState plus the block-type-specific state.
type BlockEntity struct {
	Base     BaseBlockState
	Specific SpecificBlockState
}

// ReadBlockEntity reads a full block-entity record from r: BaseBlockState,
// then SpecificBlockState dispatched on blockTypeName. version selects the
// SpecificBlockState schedule (e.g. Conveyor's packed-vs-separate fields) and
// is a distinct value from BaseBlockState.Version: the caller reads it off
// the wire itself (the map-grid blocks pass reads one version byte per
// entity before handing off to this decode, and Payload's block branch does
// the same) — it is never derived from the entity's own rotation byte.
//
// bounded tells the unmodeled-block-type fallback whether it is safe to
// consume the rest of r: true when the caller has already sliced r down to
// exactly the declared entity_length (the map-grid blocks pass, §4.D, and
// BlockSnapshot), false when r is the shared reader for an entire
// EntitySnapshot or unit record (Payload's block branch) and consuming its
// remainder would destroy the framing of every byte that follows. When
// bounded, the caller checks r.Remaining() == 0 afterward and raises
// ErrBlockLengthMismatch if not, which is how this module enforces §4.D's
// invariant without threading a length parameter through every decoder.
func ReadBlockEntity(r *wire.Reader, blockTypeName string, version uint8, params content.BlockParams, bounded bool) (BlockEntity, error) {
	base := readBaseBlockState(r, params)
	specific, err := readSpecificBlockState(r, blockTypeName, version, bounded)
	if err != nil {
		return BlockEntity{}, err
	}
	return BlockEntity{Base: base, Specific: specific}, nil
}
