// Package netcode implements the length-prefixed packet framing, its small
// framework sub-protocol, LZ4-block/zlib payload compression, and the
// multi-chunk stream reassembler that sits underneath the session layer.
package netcode

import (
	"errors"

	"mindustry-netclient/wire"
)

// frameworkMarker is the packet id that routes to the framework sub-protocol
// instead of a regular packet.
const frameworkMarker = 0xFE

// Framework sub-protocol ids (read side, per parse_framework_packet).
const (
	FrameworkDiscoverHost = 1
	FrameworkKeepAlive    = 2
	FrameworkRegisterUDP  = 3
	FrameworkRegisterTCP  = 4
)

const compressionThreshold = 35

// ErrUnknownFrameworkPacket is returned for a framework sub-id outside
// {1,2,3,4}.
var ErrUnknownFrameworkPacket = errors.New("netcode: unknown framework packet")

// Frame is a decoded wire frame: either a framework packet (IsFramework)
// or a regular packet's id and fully-decompressed payload.
type Frame struct {
	IsFramework   bool
	FrameworkKind uint8
	RegisterID    uint32 // RegisterUDP/RegisterTCP payload

	ID      uint8
	Payload []byte
}

// ReadFrame decodes one frame from buf, which must already have had its
// outer u16 length prefix stripped by the transport layer (the length only
// tells the caller how many bytes to read off the stream; it carries no
// further information once the full frame is in memory).
func ReadFrame(buf []byte) (Frame, error) {
	r := wire.NewReader(buf)
	id := r.Byte()

	if id == frameworkMarker {
		return readFrameworkFrame(r)
	}

	declaredLen := r.Uint16()
	compressed := r.Byte()
	payload := r.ReadRemaining()

	if compressed == 1 {
		decoded, err := decompressBlock(payload, int(declaredLen))
		if err != nil {
			return Frame{}, err
		}
		payload = decoded
	}

	return Frame{ID: id, Payload: payload}, nil
}

func readFrameworkFrame(r *wire.Reader) (Frame, error) {
	sub := r.Byte()
	switch sub {
	case FrameworkDiscoverHost, FrameworkKeepAlive:
		return Frame{IsFramework: true, FrameworkKind: sub}, nil
	case FrameworkRegisterUDP, FrameworkRegisterTCP:
		return Frame{IsFramework: true, FrameworkKind: sub, RegisterID: r.Uint32()}, nil
	default:
		return Frame{}, ErrUnknownFrameworkPacket
	}
}

// WriteKeepAlive encodes an outbound framework KeepAlive. The source's
// write_framework_packet hardcodes a literal byte sequence containing sub-id
// 0x03 (RegisterUDP's id) here, a bug inconsistent with its own read-side
// dispatch (2 => KeepAlive); this writes the spec-correct sub-id 2 instead —
// see DESIGN.md.
func WriteKeepAlive() []byte {
	return []byte{0x00, 0x06, frameworkMarker, FrameworkKeepAlive, 0x00, 0x00, 0x00, 0x00}
}

// WriteRegisterUDP encodes an outbound RegisterUDP framework packet.
func WriteRegisterUDP(id uint32) []byte {
	return writeRegisterFrame(FrameworkRegisterUDP, id)
}

// WriteRegisterTCP encodes an outbound RegisterTCP framework packet.
func WriteRegisterTCP(id uint32) []byte {
	return writeRegisterFrame(FrameworkRegisterTCP, id)
}

func writeRegisterFrame(sub uint8, id uint32) []byte {
	w := wire.NewWriter()
	w.WriteUint16(6) // outer length: marker + sub-id + u32 id
	w.WriteByte8(frameworkMarker)
	w.WriteByte8(sub)
	w.WriteUint32(id)
	return w.Bytes()
}

// WritePacket frames a regular packet body (already encoded by the caller)
// under id, applying §4.G's compression threshold: a total framed length
// over 35 bytes triggers LZ4-block compression of the payload, with the
// length field always covering id + declared_inner_length + compressed_flag
// (4 bytes) plus the payload itself.
func WritePacket(id uint8, data []byte) ([]byte, error) {
	totalUncompressed := len(data) + 4

	w := wire.NewWriter()
	if totalUncompressed > compressionThreshold {
		compressed, err := compressBlock(data)
		if err != nil {
			return nil, err
		}
		w.WriteUint16(uint16(len(compressed) + 4))
		w.WriteByte8(id)
		w.WriteUint16(uint16(len(data)))
		w.WriteByte8(0x01)
		w.Write(compressed)
		return w.Bytes(), nil
	}

	w.WriteUint16(uint16(totalUncompressed))
	w.WriteByte8(id)
	w.WriteUint16(uint16(len(data)))
	w.WriteByte8(0x00)
	w.Write(data)
	return w.Bytes(), nil
}
