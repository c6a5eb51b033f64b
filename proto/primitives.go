// Package proto implements the protocol's domain primitives: tiles, unit
// handles, items, vectors, plans, statuses, mounts and unit controllers.
// Everything here is built directly on wire.Reader/wire.Writer.
package proto

import (
	"math"

	"mindustry-netclient/wire"
)

// Tile is a grid coordinate; it carries no identity beyond its position.
type Tile struct {
	X, Y int16
}

// ReadTile reads a Tile as two i16s.
func ReadTile(r *wire.Reader) Tile {
	return Tile{X: r.Int16(), Y: r.Int16()}
}

// WriteTile writes a Tile as two i16s.
func WriteTile(w *wire.Writer, t Tile) {
	w.WriteInt16(t.X)
	w.WriteInt16(t.Y)
}

// UnitHandle addresses a unit without carrying its full state.
type UnitHandle struct {
	Type uint8
	ID   uint32
}

// ReadUnitHandle reads (unit_type u8, id u32).
func ReadUnitHandle(r *wire.Reader) UnitHandle {
	unitType := r.Byte()
	id := r.Uint32()
	return UnitHandle{Type: unitType, ID: id}
}

// WriteUnitHandle writes (id u32, unit_type u8) — note the inverse field
// order relative to ReadUnitHandle.
func WriteUnitHandle(w *wire.Writer, u UnitHandle) {
	w.WriteUint32(u.ID)
	w.WriteByte8(u.Type)
}

// Items is a single item-stack reference.
type Items struct {
	ID    int16
	Count uint32
}

// ReadItems reads (id i16, count u32).
func ReadItems(r *wire.Reader) Items {
	return Items{ID: r.Int16(), Count: r.Uint32()}
}

// Vec2 is a plain 2D float vector.
type Vec2 struct {
	X, Y float32
}

// ReadVec2 reads two plain f32s.
func ReadVec2(r *wire.Reader) Vec2 {
	return Vec2{X: r.Float32(), Y: r.Float32()}
}

// WriteVec2 writes two plain f32s.
func WriteVec2(w *wire.Writer, v Vec2) {
	w.WriteFloat32(v.X)
	w.WriteFloat32(v.Y)
}

// ReadVec2Nullable reads two f32s and treats either component being NaN as
// "absent". The source leaves this as an unimplemented TODO (it just reads
// two plain floats); this is the NaN-absent semantics spec asks for.
func ReadVec2Nullable(r *wire.Reader) (Vec2, bool) {
	v := ReadVec2(r)
	if math.IsNaN(float64(v.X)) || math.IsNaN(float64(v.Y)) {
		return Vec2{}, false
	}
	return v, true
}

// WriteVec2Nullable writes v if present, or NaN in both components if not.
func WriteVec2Nullable(w *wire.Writer, v Vec2, present bool) {
	if !present {
		nan := float32(math.NaN())
		w.WriteFloat32(nan)
		w.WriteFloat32(nan)
		return
	}
	WriteVec2(w, v)
}

// Point2 re-exports the wire-level packed tile coordinate type used by the
// tagged-object codec and several block-entity fields (e.g. MassDriver link,
// power link lists).
type Point2 = wire.Point2

// PackPoint2 and UnpackPoint2 re-export the wire-level pack/unpack helpers.
var (
	PackPoint2   = wire.PackPoint2
	UnpackPoint2 = wire.UnpackPoint2
)
