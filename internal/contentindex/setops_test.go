package contentindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiff_FindsAddedAndRemoved(t *testing.T) {
	ref := []uint64{1, 2, 3}
	newSet := []uint64{2, 3, 4}

	added, removed := Diff(ref, newSet)

	assert.Equal(t, []uint64{4}, added)
	assert.Equal(t, []uint64{1}, removed)
}

func TestDiff_IdenticalSetsYieldNoChanges(t *testing.T) {
	added, removed := Diff([]uint64{1, 2}, []uint64{2, 1})

	assert.Empty(t, added)
	assert.Empty(t, removed)
}

func TestDiff_DeduplicatesInputs(t *testing.T) {
	added, removed := Diff([]uint64{1, 1, 2}, []uint64{2, 2, 2})

	assert.Empty(t, added)
	assert.Equal(t, []uint64{1}, removed)
}

func TestDiff_EmptyRefMeansEverythingAdded(t *testing.T) {
	added, removed := Diff(nil, []uint64{1, 2})

	assert.Equal(t, []uint64{1, 2}, added)
	assert.Empty(t, removed)
}

func TestSortedUnique(t *testing.T) {
	assert.Equal(t, []uint64{1, 2, 3}, sortedUnique([]uint64{3, 1, 2, 1, 3}))
	assert.Empty(t, sortedUnique(nil))
}

func TestMerge_ConcatenatesAndShiftsBlockIndexes(t *testing.T) {
	a := &Index{
		BlockCount:        1,
		ChunkCount:        1,
		BlockHashes:       []uint64{0xA},
		ChunkHashes:       []uint64{1},
		ChunkBlockIndexes: []uint64{0},
		ChunkBlockOffsets: []uint32{0},
		ChunkLengths:      []uint32{5},
	}
	b := &Index{
		BlockCount:        1,
		ChunkCount:        1,
		BlockHashes:       []uint64{0xB},
		ChunkHashes:       []uint64{2},
		ChunkBlockIndexes: []uint64{0},
		ChunkBlockOffsets: []uint32{0},
		ChunkLengths:      []uint32{7},
	}

	merged := Merge(a, b)

	assert.Equal(t, uint64(2), merged.BlockCount)
	assert.Equal(t, uint64(2), merged.ChunkCount)
	assert.Equal(t, []uint64{0xA, 0xB}, merged.BlockHashes)
	assert.Equal(t, []uint64{1, 2}, merged.ChunkHashes)
	assert.Equal(t, []uint64{0, 1}, merged.ChunkBlockIndexes)
	assert.NoError(t, merged.Validate())
}

func TestMerge_WithEmptyIsIdentity(t *testing.T) {
	a := &Index{
		BlockCount:        1,
		ChunkCount:        1,
		BlockHashes:       []uint64{0xA},
		ChunkHashes:       []uint64{1},
		ChunkBlockIndexes: []uint64{0},
		ChunkBlockOffsets: []uint32{0},
		ChunkLengths:      []uint32{5},
	}

	merged := Merge(a, Empty())

	assert.Equal(t, a.BlockCount, merged.BlockCount)
	assert.Equal(t, a.ChunkHashes, merged.ChunkHashes)
}
