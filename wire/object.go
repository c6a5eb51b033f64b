package wire

import "fmt"

// Tag identifies the wire representation of a TaggedObject.
type Tag uint8

// Tag values. Several are reserved in the sense that this module never needs
// the decoded value, but their payload still has a fixed width that must be
// consumed exactly so the surrounding decoder's position stays in sync.
const (
	TagNull           Tag = 0
	TagInt32          Tag = 1
	TagInt64          Tag = 2
	TagFloat32        Tag = 3
	TagPrefixedString Tag = 4
	TagContentRef     Tag = 5 // reserved: u8 category, i16 id
	TagIntArray       Tag = 6
	TagPoint2         Tag = 7
	TagPoint2Array    Tag = 8
	TagItemStack      Tag = 9 // reserved: u8 item, i16 count
	TagBool           Tag = 10
	TagFloat64        Tag = 11
	TagBlockRef       Tag = 12 // reserved: u32
	TagLiquidRef      Tag = 13 // reserved: i16
	TagByteArray      Tag = 14
	TagByteRef1       Tag = 15 // reserved: single u8
	TagBoolArray      Tag = 16
	TagUnitRef        Tag = 17 // reserved: u32
	TagVec2Array      Tag = 18
	TagVec2           Tag = 19
	TagByteRef2       Tag = 20 // reserved: single u8
	TagIntArray2      Tag = 21
	TagObjectArray    Tag = 22
	TagByteRef3       Tag = 23 // reserved: single u8
)

// Object is a decoded TaggedObject. Only one of the fields is meaningful,
// selected by Tag; reserved tags that this module never interprets still
// keep their consumed values in Bytes and Int for round-tripping.
type Object struct {
	Tag     Tag
	Int     int64
	Float   float64
	Str     string
	Bool    bool
	Bytes   []byte
	Ints    []int32
	Bools   []bool
	Points  []Point2
	Vecs    []Vec2
	Objects []Object
}

// Point2 is the unpacked form of a protocol Point2 word.
type Point2 struct {
	X, Y int16
}

// PackPoint2 packs (x, y) into the wire's single u32 word: x in the upper 16
// bits, y in the lower 16 (two's complement preserved via the uint16 cast).
func PackPoint2(x, y int16) uint32 {
	return uint32(uint16(x))<<16 | uint32(uint16(y))
}

// UnpackPoint2 is the inverse of PackPoint2.
func UnpackPoint2(v uint32) Point2 {
	return Point2{X: int16(v >> 16), Y: int16(v & 0xFFFF)}
}

// Vec2 is a plain 2-float vector.
type Vec2 struct {
	X, Y float32
}

// ErrUnknownObjectTag is returned when a tag byte does not match any of the
// 24 defined tags.
type ErrUnknownObjectTag struct{ Tag uint8 }

func (e ErrUnknownObjectTag) Error() string {
	return fmt.Sprintf("wire: unknown object tag %d", e.Tag)
}

// ReadObject decodes one TaggedObject, dispatching on the leading tag byte.
// Every tag's payload is consumed to its exact fixed width regardless of
// whether the resulting Object retains the value, so the caller's cursor
// stays aligned with the wire schedule.
func ReadObject(r *Reader) (Object, error) {
	tag := Tag(r.Byte())
	switch tag {
	case TagNull:
		return Object{Tag: tag}, nil
	case TagInt32:
		return Object{Tag: tag, Int: int64(r.Int32())}, nil
	case TagInt64:
		return Object{Tag: tag, Int: int64(r.Uint64())}, nil
	case TagFloat32:
		return Object{Tag: tag, Float: float64(r.Float32())}, nil
	case TagPrefixedString:
		s, _ := r.ReadPrefixedString()
		return Object{Tag: tag, Str: s}, nil
	case TagContentRef:
		category := r.Byte()
		id := r.Int16()
		return Object{Tag: tag, Bytes: []byte{category}, Int: int64(id)}, nil
	case TagIntArray:
		n := r.Int16()
		vals := make([]int32, 0, max16(n))
		for i := int16(0); i < n; i++ {
			vals = append(vals, r.Int32())
		}
		return Object{Tag: tag, Ints: vals}, nil
	case TagPoint2:
		p := UnpackPoint2(r.Uint32())
		return Object{Tag: tag, Points: []Point2{p}}, nil
	case TagPoint2Array:
		n := r.Byte()
		pts := make([]Point2, 0, n)
		for i := uint8(0); i < n; i++ {
			pts = append(pts, UnpackPoint2(r.Uint32()))
		}
		return Object{Tag: tag, Points: pts}, nil
	case TagItemStack:
		item := r.Byte()
		count := r.Int16()
		return Object{Tag: tag, Bytes: []byte{item}, Int: int64(count)}, nil
	case TagBool:
		return Object{Tag: tag, Bool: r.Bool()}, nil
	case TagFloat64:
		return Object{Tag: tag, Float: r.Float64()}, nil
	case TagBlockRef:
		return Object{Tag: tag, Int: int64(r.Uint32())}, nil
	case TagLiquidRef:
		return Object{Tag: tag, Int: int64(r.Int16())}, nil
	case TagByteArray:
		n := r.Uint32()
		return Object{Tag: tag, Bytes: r.Bytes(int(n))}, nil
	case TagByteRef1, TagByteRef2, TagByteRef3:
		return Object{Tag: tag, Bytes: []byte{r.Byte()}}, nil
	case TagBoolArray:
		n := r.Uint16()
		bools := make([]bool, 0, n)
		for i := uint16(0); i < n; i++ {
			bools = append(bools, r.Bool())
		}
		return Object{Tag: tag, Bools: bools}, nil
	case TagUnitRef:
		return Object{Tag: tag, Int: int64(r.Uint32())}, nil
	case TagVec2Array:
		n := r.Uint16()
		vecs := make([]Vec2, 0, n)
		for i := uint16(0); i < n; i++ {
			vecs = append(vecs, Vec2{X: r.Float32(), Y: r.Float32()})
		}
		return Object{Tag: tag, Vecs: vecs}, nil
	case TagVec2:
		return Object{Tag: tag, Vecs: []Vec2{{X: r.Float32(), Y: r.Float32()}}}, nil
	case TagIntArray2:
		n := r.Uint16()
		vals := make([]int32, 0, n)
		for i := uint16(0); i < n; i++ {
			vals = append(vals, r.Int32())
		}
		return Object{Tag: tag, Ints: vals}, nil
	case TagObjectArray:
		n := r.Int16()
		objs := make([]Object, 0, max16(n))
		for i := int16(0); i < n; i++ {
			obj, err := ReadObject(r)
			if err != nil {
				return Object{}, err
			}
			objs = append(objs, obj)
		}
		return Object{Tag: tag, Objects: objs}, nil
	default:
		return Object{}, ErrUnknownObjectTag{Tag: uint8(tag)}
	}
}

func max16(n int16) int16 {
	if n < 0 {
		return 0
	}
	return n
}

// WriteObject encodes o's tag and payload, producing byte-identical output
// for every tag ReadObject supports. A tag byte is never written without its
// full payload, even for tags this module only round-trips.
func WriteObject(w *Writer, o Object) error {
	w.WriteByte8(uint8(o.Tag))
	switch o.Tag {
	case TagNull:
	case TagInt32:
		w.WriteInt32(int32(o.Int))
	case TagInt64:
		w.WriteUint64(uint64(o.Int))
	case TagFloat32:
		w.WriteFloat32(float32(o.Float))
	case TagPrefixedString:
		return w.WritePrefixedString(o.Str)
	case TagContentRef:
		var category uint8
		if len(o.Bytes) > 0 {
			category = o.Bytes[0]
		}
		w.WriteByte8(category)
		w.WriteInt16(int16(o.Int))
	case TagIntArray:
		w.WriteInt16(int16(len(o.Ints)))
		for _, v := range o.Ints {
			w.WriteInt32(v)
		}
	case TagPoint2:
		var p Point2
		if len(o.Points) > 0 {
			p = o.Points[0]
		}
		w.WriteUint32(PackPoint2(p.X, p.Y))
	case TagPoint2Array:
		w.WriteByte8(uint8(len(o.Points)))
		for _, p := range o.Points {
			w.WriteUint32(PackPoint2(p.X, p.Y))
		}
	case TagItemStack:
		var item uint8
		if len(o.Bytes) > 0 {
			item = o.Bytes[0]
		}
		w.WriteByte8(item)
		w.WriteInt16(int16(o.Int))
	case TagBool:
		w.WriteBool(o.Bool)
	case TagFloat64:
		w.WriteFloat64(o.Float)
	case TagBlockRef, TagUnitRef:
		w.WriteUint32(uint32(o.Int))
	case TagLiquidRef:
		w.WriteInt16(int16(o.Int))
	case TagByteArray:
		w.WriteUint32(uint32(len(o.Bytes)))
		w.Write(o.Bytes)
	case TagByteRef1, TagByteRef2, TagByteRef3:
		var b uint8
		if len(o.Bytes) > 0 {
			b = o.Bytes[0]
		}
		w.WriteByte8(b)
	case TagBoolArray:
		w.WriteUint16(uint16(len(o.Bools)))
		for _, b := range o.Bools {
			w.WriteBool(b)
		}
	case TagVec2Array:
		w.WriteUint16(uint16(len(o.Vecs)))
		for _, v := range o.Vecs {
			w.WriteFloat32(v.X)
			w.WriteFloat32(v.Y)
		}
	case TagVec2:
		var v Vec2
		if len(o.Vecs) > 0 {
			v = o.Vecs[0]
		}
		w.WriteFloat32(v.X)
		w.WriteFloat32(v.Y)
	case TagIntArray2:
		w.WriteUint16(uint16(len(o.Ints)))
		for _, v := range o.Ints {
			w.WriteInt32(v)
		}
	case TagObjectArray:
		w.WriteInt16(int16(len(o.Objects)))
		for _, obj := range o.Objects {
			if err := WriteObject(w, obj); err != nil {
				return err
			}
		}
	default:
		return ErrUnknownObjectTag{Tag: uint8(o.Tag)}
	}
	return nil
}
