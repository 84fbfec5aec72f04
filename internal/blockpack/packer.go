// Package blockpack implements a deterministic first-fit block packer:
// group a version's unique chunks into size-bounded blocks, overshooting
// max_block_size by up to 10% rather than splitting a chunk across blocks,
// and sealing a block once max_chunks_per_block is reached.
//
// The accumulator that tracks the current block's size is never shadowed
// by an inner scope, so the last, possibly partial, block is always sealed
// exactly once after the loop ends.
package blockpack

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/prn-tf/contentstore/internal/contentindex"
	"github.com/prn-tf/contentstore/internal/port"
)

// Options bounds the block sizes and chunk counts the packer produces.
type Options struct {
	MaxBlockSize      uint32
	MaxChunksPerBlock uint32
}

// overshootNumerator/Denominator give the 10% tolerance: a block may grow
// past MaxBlockSize by up to one tenth before it is sealed, so a single
// large chunk never forces an otherwise-empty block to exceed its budget by
// more than a chunk's own size.
const (
	overshootNumerator   = 11
	overshootDenominator = 10
)

// Pack groups chunkHashes/chunkSizes (parallel, same order as a
// VersionIndex's unique chunk table) into blocks and returns the resulting
// ContentIndex. Both slices must have the same length; pass the unique
// chunk table of a VersionIndex, not its per-asset chunk-index list.
func Pack(hasher port.Hasher, chunkHashes []uint64, chunkSizes []uint32, opts Options) (*contentindex.Index, error) {
	if len(chunkHashes) != len(chunkSizes) {
		return nil, fmt.Errorf("blockpack: chunkHashes length %d != chunkSizes length %d", len(chunkHashes), len(chunkSizes))
	}
	if opts.MaxChunksPerBlock == 0 {
		return nil, fmt.Errorf("blockpack: MaxChunksPerBlock must be > 0")
	}
	if len(chunkHashes) == 0 {
		return contentindex.Empty(), nil
	}

	overshootLimit := uint64(opts.MaxBlockSize) * overshootNumerator / overshootDenominator

	var blockRuns [][]int
	var current []int
	var currentSize uint64

	for i, size := range chunkSizes {
		wouldOverflow := len(current) > 0 && (currentSize+uint64(size) > overshootLimit || uint32(len(current)) >= opts.MaxChunksPerBlock)
		if wouldOverflow {
			blockRuns = append(blockRuns, current)
			current = nil
			currentSize = 0
		}
		current = append(current, i)
		currentSize += uint64(size)
	}
	if len(current) > 0 {
		blockRuns = append(blockRuns, current)
	}

	idx := &contentindex.Index{
		BlockCount: uint64(len(blockRuns)),
		ChunkCount: uint64(len(chunkHashes)),
	}
	idx.BlockHashes = make([]uint64, len(blockRuns))
	idx.ChunkHashes = make([]uint64, 0, len(chunkHashes))
	idx.ChunkBlockIndexes = make([]uint64, 0, len(chunkHashes))
	idx.ChunkBlockOffsets = make([]uint32, 0, len(chunkHashes))
	idx.ChunkLengths = make([]uint32, 0, len(chunkHashes))

	for blockIdx, run := range blockRuns {
		idx.BlockHashes[blockIdx] = blockHash(hasher, chunkHashes, chunkSizes, run)

		var offset uint32
		for _, ci := range run {
			idx.ChunkHashes = append(idx.ChunkHashes, chunkHashes[ci])
			idx.ChunkBlockIndexes = append(idx.ChunkBlockIndexes, uint64(blockIdx))
			idx.ChunkBlockOffsets = append(idx.ChunkBlockOffsets, offset)
			idx.ChunkLengths = append(idx.ChunkLengths, chunkSizes[ci])
			offset += chunkSizes[ci]
		}
	}

	if err := idx.Validate(); err != nil {
		return nil, fmt.Errorf("blockpack: packed index failed validation: %w", err)
	}
	return idx, nil
}

// blockHash derives a block's identity by hashing the concatenation of its
// chunk hashes, its chunk sizes, and its chunk count, then truncating to 64
// bits: two blocks with the same chunks in the same order always get the
// same name, so repacking identical content is a no-op against an existing
// store.
func blockHash(hasher port.Hasher, chunkHashes []uint64, chunkSizes []uint32, run []int) uint64 {
	buf := bytes.NewBuffer(make([]byte, 0, len(run)*12+4))

	var hb [8]byte
	for _, ci := range run {
		binary.LittleEndian.PutUint64(hb[:], chunkHashes[ci])
		buf.Write(hb[:])
	}
	var sb [4]byte
	for _, ci := range run {
		binary.LittleEndian.PutUint32(sb[:], chunkSizes[ci])
		buf.Write(sb[:])
	}
	binary.LittleEndian.PutUint32(sb[:], uint32(len(run)))
	buf.Write(sb[:])

	st := hasher.NewState()
	st.Absorb(buf.Bytes())
	return st.Finalize().Truncate()
}
