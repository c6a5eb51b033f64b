package wire

import (
	"bytes"
	"errors"
	"math"
)

// ErrEncodingTooLong is returned when a string's UTF-8 encoding does not fit
// in the u16 length prefix used by both string encodings.
var ErrEncodingTooLong = errors.New("wire: string too long for u16 length prefix")

// Writer accumulates bytes for a packet body using the same big-endian
// primitive encodings Reader decodes.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the accumulated buffer.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Write appends raw bytes.
func (w *Writer) Write(b []byte) {
	w.buf.Write(b)
}

// WriteByte8 appends a single u8.
func (w *Writer) WriteByte8(v uint8) {
	w.buf.WriteByte(v)
}

// WriteBool appends a u8, 1 for true and 0 for false.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

// WriteUint16 appends a big-endian u16.
func (w *Writer) WriteUint16(v uint16) {
	w.buf.WriteByte(byte(v >> 8))
	w.buf.WriteByte(byte(v))
}

// WriteInt16 appends a big-endian i16.
func (w *Writer) WriteInt16(v int16) {
	w.WriteUint16(uint16(v))
}

// WriteUint32 appends a big-endian u32.
func (w *Writer) WriteUint32(v uint32) {
	w.buf.WriteByte(byte(v >> 24))
	w.buf.WriteByte(byte(v >> 16))
	w.buf.WriteByte(byte(v >> 8))
	w.buf.WriteByte(byte(v))
}

// WriteInt32 appends a big-endian i32.
func (w *Writer) WriteInt32(v int32) {
	w.WriteUint32(uint32(v))
}

// WriteUint64 appends a big-endian u64.
func (w *Writer) WriteUint64(v uint64) {
	for shift := 56; shift >= 0; shift -= 8 {
		w.buf.WriteByte(byte(v >> uint(shift)))
	}
}

// WriteFloat32 appends a big-endian f32.
func (w *Writer) WriteFloat32(v float32) {
	w.WriteUint32(math.Float32bits(v))
}

// WriteFloat64 appends a big-endian f64.
func (w *Writer) WriteFloat64(v float64) {
	w.WriteUint64(math.Float64bits(v))
}

// WriteLengthString mirrors ReadString: a u16 length then UTF-8 bytes, 0 for
// an empty/absent string.
func (w *Writer) WriteLengthString(s string) error {
	if len(s) == 0 {
		w.WriteUint16(0)
		return nil
	}
	if len(s) > math.MaxUint16 {
		return ErrEncodingTooLong
	}
	w.WriteUint16(uint16(len(s)))
	w.buf.WriteString(s)
	return nil
}

// WritePrefixedString mirrors ReadPrefixedString: a presence byte, then (if
// non-empty) a u16 length and UTF-8 bytes. Empty strings write a single zero
// byte and nothing else.
func (w *Writer) WritePrefixedString(s string) error {
	if len(s) == 0 {
		w.buf.WriteByte(0)
		return nil
	}
	if len(s) > math.MaxUint16 {
		return ErrEncodingTooLong
	}
	w.buf.WriteByte(1)
	w.WriteUint16(uint16(len(s)))
	w.buf.WriteString(s)
	return nil
}
