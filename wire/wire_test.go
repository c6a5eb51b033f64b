package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimitiveRoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteByte8(0xAB)
	w.WriteBool(true)
	w.WriteUint16(0xBEEF)
	w.WriteInt16(-12345)
	w.WriteUint32(0xDEADBEEF)
	w.WriteUint64(0x0102030405060708)
	w.WriteFloat32(3.5)
	w.WriteFloat64(-2.25)

	r := NewReader(w.Bytes())
	assert.Equal(t, uint8(0xAB), r.Byte())
	assert.True(t, r.Bool())
	assert.Equal(t, uint16(0xBEEF), r.Uint16())
	assert.Equal(t, int16(-12345), r.Int16())
	assert.Equal(t, uint32(0xDEADBEEF), r.Uint32())
	assert.Equal(t, uint64(0x0102030405060708), r.Uint64())
	assert.Equal(t, float32(3.5), r.Float32())
	assert.Equal(t, -2.25, r.Float64())
	assert.Equal(t, 0, r.Remaining())
}

func TestReaderSaturatesPastEnd(t *testing.T) {
	r := NewReader([]byte{0x01})
	assert.Equal(t, uint32(0x01000000), r.Uint32())
	assert.Equal(t, 0, r.Remaining())
	assert.Equal(t, uint8(0), r.Byte())
}

func TestReadStringAbsentOnZeroLength(t *testing.T) {
	r := NewReader([]byte{0x00, 0x00})
	s, ok := r.ReadString()
	assert.False(t, ok)
	assert.Empty(t, s)
}

func TestReadStringRoundTrip(t *testing.T) {
	w := NewWriter()
	require.NoError(t, w.WriteLengthString("hello"))
	r := NewReader(w.Bytes())
	s, ok := r.ReadString()
	require.True(t, ok)
	assert.Equal(t, "hello", s)
}

func TestReadPrefixedStringAbsentCases(t *testing.T) {
	// no presence byte at all
	r := NewReader(nil)
	_, ok := r.ReadPrefixedString()
	assert.False(t, ok)

	// presence byte is zero
	r = NewReader([]byte{0x00})
	_, ok = r.ReadPrefixedString()
	assert.False(t, ok)

	// presence byte set but length truncated
	r = NewReader([]byte{0x01, 0x00})
	_, ok = r.ReadPrefixedString()
	assert.False(t, ok)

	// presence byte set, declared length exceeds remaining
	r = NewReader([]byte{0x01, 0x00, 0x05, 'h', 'i'})
	_, ok = r.ReadPrefixedString()
	assert.False(t, ok)
}

func TestWritePrefixedStringRoundTrip(t *testing.T) {
	w := NewWriter()
	require.NoError(t, w.WritePrefixedString("hello"))
	r := NewReader(w.Bytes())
	s, ok := r.ReadPrefixedString()
	require.True(t, ok)
	assert.Equal(t, "hello", s)

	w = NewWriter()
	require.NoError(t, w.WritePrefixedString(""))
	assert.Equal(t, []byte{0x00}, w.Bytes())
}

func TestPoint2PackUnpackFullRange(t *testing.T) {
	samples := []int16{0, 1, -1, 32767, -32768, 1234, -1234}
	for _, x := range samples {
		for _, y := range samples {
			p := UnpackPoint2(PackPoint2(x, y))
			assert.Equal(t, x, p.X)
			assert.Equal(t, y, p.Y)
		}
	}
}

func TestObjectRoundTripPrimitives(t *testing.T) {
	cases := []Object{
		{Tag: TagNull},
		{Tag: TagInt32, Int: -42},
		{Tag: TagInt64, Int: 1 << 40},
		{Tag: TagFloat32, Float: 1.5},
		{Tag: TagPrefixedString, Str: "plan"},
		{Tag: TagBool, Bool: true},
		{Tag: TagFloat64, Float: -9.5},
		{Tag: TagPoint2, Points: []Point2{{X: 5, Y: -5}}},
		{Tag: TagVec2, Vecs: []Vec2{{X: 1, Y: 2}}},
		{Tag: TagByteArray, Bytes: []byte{1, 2, 3}},
	}

	for _, c := range cases {
		w := NewWriter()
		require.NoError(t, WriteObject(w, c))
		r := NewReader(w.Bytes())
		got, err := ReadObject(r)
		require.NoError(t, err)
		assert.Equal(t, c.Tag, got.Tag)
		assert.Equal(t, 0, r.Remaining())
	}
}

func TestObjectArrayRoundTrip(t *testing.T) {
	obj := Object{
		Tag: TagObjectArray,
		Objects: []Object{
			{Tag: TagInt32, Int: 1},
			{Tag: TagBool, Bool: true},
		},
	}
	w := NewWriter()
	require.NoError(t, WriteObject(w, obj))
	r := NewReader(w.Bytes())
	got, err := ReadObject(r)
	require.NoError(t, err)
	require.Len(t, got.Objects, 2)
	assert.Equal(t, int64(1), got.Objects[0].Int)
	assert.True(t, got.Objects[1].Bool)
}

func TestUnknownObjectTagErrors(t *testing.T) {
	r := NewReader([]byte{255})
	_, err := ReadObject(r)
	require.Error(t, err)
	var tagErr ErrUnknownObjectTag
	require.ErrorAs(t, err, &tagErr)
	assert.Equal(t, uint8(255), tagErr.Tag)
}
