// Package blockframe defines the on-disk block frame shared by the writer
// and the reader: a small header, the compressed payload, zero padding out
// to a 16-byte boundary, and a trailer carrying enough to reconstruct each
// chunk's place in the block without touching the compressed payload.
//
//	uncompressed_len(4) | compressed_len(4) | payload | pad-to-16 |
//	chunk_hashes[N](8) | chunk_sizes[N](4) | N(4)
package blockframe

import (
	"encoding/binary"
	"fmt"
)

// HeaderSize is the length of the uncompressed_len/compressed_len header.
const HeaderSize = 8

// Align is the byte boundary the payload is padded out to before the trailer.
const Align = 16

// FileName returns the canonical block file name for a block hash.
func FileName(blockHash uint64) string {
	return fmt.Sprintf("0x%016x.lrb", blockHash)
}

// RoundUpToAlign rounds n up to the next multiple of Align.
func RoundUpToAlign(n int) int {
	rem := n % Align
	if rem == 0 {
		return n
	}
	return n + (Align - rem)
}

// Build assembles a complete block image from a compressed payload and the
// parallel chunk-hash/chunk-size arrays for the chunks it contains, in the
// order they were concatenated into the payload.
func Build(uncompressedLen int, compressed []byte, chunkHashes []uint64, chunkSizes []uint32) []byte {
	n := len(chunkHashes)
	payloadEnd := HeaderSize + len(compressed)
	paddedEnd := RoundUpToAlign(payloadEnd)
	trailerLen := 8*n + 4*n + 4

	buf := make([]byte, paddedEnd+trailerLen)

	binary.LittleEndian.PutUint32(buf[0:4], uint32(uncompressedLen))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(compressed)))
	copy(buf[HeaderSize:payloadEnd], compressed)
	// buf[payloadEnd:paddedEnd] is already zero from make().

	off := paddedEnd
	for _, h := range chunkHashes {
		binary.LittleEndian.PutUint64(buf[off:off+8], h)
		off += 8
	}
	for _, s := range chunkSizes {
		binary.LittleEndian.PutUint32(buf[off:off+4], s)
		off += 4
	}
	binary.LittleEndian.PutUint32(buf[off:off+4], uint32(n))

	return buf
}

// Parsed is a block image split back into its parts, with offsets left
// unresolved (compressed payload bytes and trailer arrays only).
type Parsed struct {
	UncompressedLen int
	Compressed      []byte
	ChunkHashes     []uint64
	ChunkSizes      []uint32
}

// Parse validates and decodes a complete block image.
func Parse(data []byte) (*Parsed, error) {
	if len(data) < HeaderSize+4 {
		return nil, fmt.Errorf("blockframe: image too short (%d bytes)", len(data))
	}

	uncompressedLen := int(binary.LittleEndian.Uint32(data[0:4]))
	compressedLen := int(binary.LittleEndian.Uint32(data[4:8]))

	payloadEnd := HeaderSize + compressedLen
	if payloadEnd > len(data) {
		return nil, fmt.Errorf("blockframe: declared compressed_len %d overruns image of length %d", compressedLen, len(data))
	}
	paddedEnd := RoundUpToAlign(payloadEnd)

	n := int(binary.LittleEndian.Uint32(data[len(data)-4:]))
	trailerLen := 8*n + 4*n + 4
	wantLen := paddedEnd + trailerLen
	if wantLen != len(data) {
		return nil, fmt.Errorf("blockframe: trailer chunk count %d implies image length %d, got %d", n, wantLen, len(data))
	}

	compressed := data[HeaderSize:payloadEnd]

	off := paddedEnd
	chunkHashes := make([]uint64, n)
	for i := 0; i < n; i++ {
		chunkHashes[i] = binary.LittleEndian.Uint64(data[off : off+8])
		off += 8
	}
	chunkSizes := make([]uint32, n)
	for i := 0; i < n; i++ {
		chunkSizes[i] = binary.LittleEndian.Uint32(data[off : off+4])
		off += 4
	}

	return &Parsed{
		UncompressedLen: uncompressedLen,
		Compressed:      compressed,
		ChunkHashes:     chunkHashes,
		ChunkSizes:      chunkSizes,
	}, nil
}
