package proto

import "mindustry-netclient/wire"

// Status is a timed status effect applied to a unit.
type Status struct {
	ID   int16
	Time float32
}

// ReadStatus reads (id i16, time f32).
func ReadStatus(r *wire.Reader) Status {
	return Status{ID: r.Int16(), Time: r.Float32()}
}

// ReadStatuses reads a status list with a u32 count.
func ReadStatuses(r *wire.Reader) []Status {
	count := r.Uint32()
	statuses := make([]Status, 0, count)
	for i := uint32(0); i < count; i++ {
		statuses = append(statuses, ReadStatus(r))
	}
	return statuses
}

// Mount is a weapon/mount slot's firing state.
type Mount struct {
	State uint8
	X, Y  float32
}

// ReadMounts reads a mount list with a u8 count.
func ReadMounts(r *wire.Reader) []Mount {
	count := int(r.Byte())
	mounts := make([]Mount, 0, count)
	for i := 0; i < count; i++ {
		mounts = append(mounts, Mount{State: r.Byte(), X: r.Float32(), Y: r.Float32()})
	}
	return mounts
}
