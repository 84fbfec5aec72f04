package blockpack

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prn-tf/contentstore/internal/adapter/blakehash"
	"github.com/prn-tf/contentstore/internal/contentindex"
	"github.com/prn-tf/contentstore/internal/versionindex"
)

func TestMissingContent_ReturnsEmptyWhenLocalHasEverything(t *testing.T) {
	local := &contentindex.Index{
		BlockCount:        1,
		ChunkCount:        2,
		BlockHashes:       []uint64{0x1},
		ChunkHashes:       []uint64{1, 2},
		ChunkBlockIndexes: []uint64{0, 0},
		ChunkBlockOffsets: []uint32{0, 10},
		ChunkLengths:      []uint32{10, 10},
	}
	remote := &versionindex.Index{
		ChunkCount:  2,
		ChunkHashes: []uint64{1, 2},
		ChunkSizes:  []uint32{10, 10},
	}

	idx, err := MissingContent(blakehash.New(), local, remote, Options{MaxBlockSize: 100, MaxChunksPerBlock: 10})
	require.NoError(t, err)
	require.Equal(t, uint64(0), idx.BlockCount)
}

func TestMissingContent_PacksOnlyAbsentChunks(t *testing.T) {
	local := &contentindex.Index{
		BlockCount:        1,
		ChunkCount:        1,
		BlockHashes:       []uint64{0x1},
		ChunkHashes:       []uint64{1},
		ChunkBlockIndexes: []uint64{0},
		ChunkBlockOffsets: []uint32{0},
		ChunkLengths:      []uint32{10},
	}
	remote := &versionindex.Index{
		ChunkCount:  2,
		ChunkHashes: []uint64{1, 2},
		ChunkSizes:  []uint32{10, 20},
	}

	idx, err := MissingContent(blakehash.New(), local, remote, Options{MaxBlockSize: 100, MaxChunksPerBlock: 10})
	require.NoError(t, err)
	require.Equal(t, uint64(1), idx.ChunkCount)
	require.Equal(t, []uint64{2}, idx.ChunkHashes)
	require.Equal(t, []uint32{20}, idx.ChunkLengths)
}
