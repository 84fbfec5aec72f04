package blockpack

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prn-tf/contentstore/internal/adapter/blakehash"
)

func TestPack_RejectsMismatchedLengths(t *testing.T) {
	_, err := Pack(blakehash.New(), []uint64{1, 2}, []uint32{10}, Options{MaxBlockSize: 100, MaxChunksPerBlock: 10})
	require.Error(t, err)
}

func TestPack_RejectsZeroMaxChunksPerBlock(t *testing.T) {
	_, err := Pack(blakehash.New(), []uint64{1}, []uint32{10}, Options{MaxBlockSize: 100, MaxChunksPerBlock: 0})
	require.Error(t, err)
}

func TestPack_EmptyInputReturnsEmptyIndex(t *testing.T) {
	idx, err := Pack(blakehash.New(), nil, nil, Options{MaxBlockSize: 100, MaxChunksPerBlock: 10})
	require.NoError(t, err)
	require.Equal(t, uint64(0), idx.BlockCount)
	require.Equal(t, uint64(0), idx.ChunkCount)
}

func TestPack_SealsOnMaxChunksPerBlock(t *testing.T) {
	hashes := []uint64{1, 2, 3, 4, 5}
	sizes := []uint32{1, 1, 1, 1, 1}

	idx, err := Pack(blakehash.New(), hashes, sizes, Options{MaxBlockSize: 1000, MaxChunksPerBlock: 2})
	require.NoError(t, err)

	require.Equal(t, uint64(3), idx.BlockCount)
	require.Equal(t, uint64(5), idx.ChunkCount)
	require.Equal(t, []uint64{0, 0, 1, 1, 2}, idx.ChunkBlockIndexes)
	require.NoError(t, idx.Validate())
}

func TestPack_SealsOnOvershootLimit(t *testing.T) {
	hashes := []uint64{1, 2, 3}
	sizes := []uint32{60, 60, 1}

	idx, err := Pack(blakehash.New(), hashes, sizes, Options{MaxBlockSize: 100, MaxChunksPerBlock: 100})
	require.NoError(t, err)

	require.Equal(t, uint64(2), idx.BlockCount)
	require.Equal(t, []uint64{0, 1, 1}, idx.ChunkBlockIndexes)
}

func TestPack_SingleOversizedChunkGetsItsOwnBlock(t *testing.T) {
	hashes := []uint64{1}
	sizes := []uint32{5000}

	idx, err := Pack(blakehash.New(), hashes, sizes, Options{MaxBlockSize: 100, MaxChunksPerBlock: 10})
	require.NoError(t, err)

	require.Equal(t, uint64(1), idx.BlockCount)
	require.Equal(t, uint32(5000), idx.ChunkLengths[0])
}

func TestPack_BlockOffsetsArePrefixSums(t *testing.T) {
	hashes := []uint64{1, 2, 3}
	sizes := []uint32{10, 20, 30}

	idx, err := Pack(blakehash.New(), hashes, sizes, Options{MaxBlockSize: 1000, MaxChunksPerBlock: 10})
	require.NoError(t, err)

	require.Equal(t, []uint32{0, 10, 30}, idx.ChunkBlockOffsets)
}

func TestPack_SameChunksProduceSameBlockHash(t *testing.T) {
	hashes := []uint64{1, 2, 3}
	sizes := []uint32{10, 20, 30}
	opts := Options{MaxBlockSize: 1000, MaxChunksPerBlock: 10}

	a, err := Pack(blakehash.New(), hashes, sizes, opts)
	require.NoError(t, err)
	b, err := Pack(blakehash.New(), hashes, sizes, opts)
	require.NoError(t, err)

	require.Equal(t, a.BlockHashes, b.BlockHashes)
}

func TestPack_DifferentChunksProduceDifferentBlockHash(t *testing.T) {
	opts := Options{MaxBlockSize: 1000, MaxChunksPerBlock: 10}

	a, err := Pack(blakehash.New(), []uint64{1, 2}, []uint32{10, 20}, opts)
	require.NoError(t, err)
	b, err := Pack(blakehash.New(), []uint64{1, 3}, []uint32{10, 20}, opts)
	require.NoError(t, err)

	require.NotEqual(t, a.BlockHashes, b.BlockHashes)
}
