package netcode

import (
	"bytes"
	"compress/zlib"
	"errors"
	"io"

	"github.com/pierrec/lz4/v4"
)

// ErrDecompressionFailed wraps a failed LZ4-block payload decompression.
var ErrDecompressionFailed = errors.New("netcode: payload decompression failed")

// ErrWorldDataDecompressionFailed wraps a failed zlib WorldStream body
// decompression.
var ErrWorldDataDecompressionFailed = errors.New("netcode: world data decompression failed")

// decompressBlock reverses compressBlock: src is LZ4-block compressed data,
// uncompressedLen is the exact output size the protocol declared.
func decompressBlock(src []byte, uncompressedLen int) ([]byte, error) {
	dst := make([]byte, uncompressedLen)
	n, err := lz4.UncompressBlock(src, dst)
	if err != nil {
		return nil, errors.Join(ErrDecompressionFailed, err)
	}
	return dst[:n], nil
}

// compressBlock LZ4-block compresses src. The caller already knows src's
// length (it is written alongside the compressed payload as
// uncompressed_length), so no separate header is needed here.
func compressBlock(src []byte) ([]byte, error) {
	dst := make([]byte, lz4.CompressBlockBound(len(src)))
	hashTable := make([]int, 1<<16)
	n, err := lz4.CompressBlock(src, dst, hashTable)
	if err != nil {
		return nil, errors.Join(ErrDecompressionFailed, err)
	}
	if n == 0 {
		// Incompressible input: lz4.CompressBlock declines to emit a
		// compressed sequence block for it. WritePacket marks every payload
		// it compresses here as LZ4-compressed (framing.go), so the bytes returned here
		// must still be a valid LZ4 block, not raw src — otherwise
		// decompressBlock's UncompressBlock call fails on the very packets
		// most likely to hit this path (Connect's UUID/color/CRC payload).
		// Encode src as a single literals-only sequence, which is a valid
		// minimal LZ4 block with no match part.
		return lz4LiteralBlock(src), nil
	}
	return dst[:n], nil
}

// lz4LiteralBlock encodes src as a single final LZ4 sequence carrying only
// literals: a token byte (literal-length nibble, extended with 0xFF-capped
// extra bytes past 15) followed by the literal bytes themselves. A
// literals-only final sequence needs no offset or match-length field, so
// this is a complete, independently decodable LZ4 block.
func lz4LiteralBlock(src []byte) []byte {
	litLen := len(src)
	out := make([]byte, 0, litLen+litLen/255+2)

	if litLen < 15 {
		out = append(out, byte(litLen<<4))
	} else {
		out = append(out, 0xF0)
		rem := litLen - 15
		for rem >= 255 {
			out = append(out, 255)
			rem -= 255
		}
		out = append(out, byte(rem))
	}
	return append(out, src...)
}

// decompressWorldStream reverses the WorldStream body's zlib (DEFLATE)
// framing.
func decompressWorldStream(src []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, errors.Join(ErrWorldDataDecompressionFailed, err)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, errors.Join(ErrWorldDataDecompressionFailed, err)
	}
	return out, nil
}
