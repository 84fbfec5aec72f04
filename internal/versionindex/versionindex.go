// Package versionindex builds and serializes the VersionIndex: the
// immutable, self-contained description of one version's assets and their
// chunk sequences.
package versionindex

import (
	"bytes"
	"fmt"

	"github.com/prn-tf/contentstore/internal/domain"
)

// Index is the in-memory view over a VersionIndex's packed field image: it
// holds owned parallel slices rather than raw offsets into a single
// backing blob, populated either by a Builder or by Decode reading a
// serialized image. Either way, the on-disk field layout is preserved
// byte for byte.
type Index struct {
	AssetCount           uint32
	ChunkCount           uint32
	AssetChunkIndexCount uint32

	PathHashes            []uint64
	ContentHashes         []uint64
	AssetSizes            []uint32
	AssetChunkCounts      []uint32
	AssetChunkIndexStarts []uint32

	AssetChunkIndexes []uint32

	ChunkHashes []uint64
	ChunkSizes  []uint32

	NameOffsets []uint32
	NameData    []byte
}

// Asset reconstructs the Asset value at position i.
func (idx *Index) Asset(i int) domain.Asset {
	return domain.Asset{
		Path:            idx.Path(i),
		PathHash:        idx.PathHashes[i],
		ContentHash:     idx.ContentHashes[i],
		Size:            uint64(idx.AssetSizes[i]),
		ChunkIndexStart: idx.AssetChunkIndexStarts[i],
		ChunkCount:      idx.AssetChunkCounts[i],
	}
}

// Path returns the NUL-terminated path string for asset i.
func (idx *Index) Path(i int) string {
	start := idx.NameOffsets[i]
	end := start
	for end < uint32(len(idx.NameData)) && idx.NameData[end] != 0 {
		end++
	}
	return string(idx.NameData[start:end])
}

// AssetChunks returns the chunk indexes (into the unique chunk table)
// belonging to asset i, in emission order.
func (idx *Index) AssetChunks(i int) []uint32 {
	start := idx.AssetChunkIndexStarts[i]
	count := idx.AssetChunkCounts[i]
	return idx.AssetChunkIndexes[start : start+count]
}

// Validate checks the index's internal consistency invariants. Used by
// Decode and by builders before returning, so a caller never observes a
// half-consistent Index.
func (idx *Index) Validate() error {
	if uint32(len(idx.PathHashes)) != idx.AssetCount ||
		uint32(len(idx.ContentHashes)) != idx.AssetCount ||
		uint32(len(idx.AssetSizes)) != idx.AssetCount ||
		uint32(len(idx.AssetChunkCounts)) != idx.AssetCount ||
		uint32(len(idx.AssetChunkIndexStarts)) != idx.AssetCount ||
		uint32(len(idx.NameOffsets)) != idx.AssetCount {
		return fmt.Errorf("versionindex: per-asset array length mismatch against AssetCount=%d", idx.AssetCount)
	}
	if uint32(len(idx.AssetChunkIndexes)) != idx.AssetChunkIndexCount {
		return fmt.Errorf("versionindex: AssetChunkIndexes length %d != AssetChunkIndexCount %d", len(idx.AssetChunkIndexes), idx.AssetChunkIndexCount)
	}
	if uint32(len(idx.ChunkHashes)) != idx.ChunkCount || uint32(len(idx.ChunkSizes)) != idx.ChunkCount {
		return fmt.Errorf("versionindex: chunk array length mismatch against ChunkCount=%d", idx.ChunkCount)
	}

	seen := make(map[uint64]struct{}, idx.ChunkCount)
	for _, h := range idx.ChunkHashes {
		if _, ok := seen[h]; ok {
			return fmt.Errorf("versionindex: duplicate chunk hash %016x in chunk table", h)
		}
		seen[h] = struct{}{}
	}

	for a := uint32(0); a < idx.AssetCount; a++ {
		nameOff := idx.NameOffsets[a]
		if nameOff >= uint32(len(idx.NameData)) || bytes.IndexByte(idx.NameData[nameOff:], 0) < 0 {
			return fmt.Errorf("versionindex: asset %d name at offset %d is not NUL-terminated within NameData", a, nameOff)
		}

		start := idx.AssetChunkIndexStarts[a]
		count := idx.AssetChunkCounts[a]
		if uint64(start)+uint64(count) > uint64(idx.AssetChunkIndexCount) {
			return fmt.Errorf("versionindex: asset %d chunk range [%d,%d) exceeds AssetChunkIndexCount %d", a, start, start+count, idx.AssetChunkIndexCount)
		}

		var sum uint64
		for _, ci := range idx.AssetChunkIndexes[start : start+count] {
			if ci >= idx.ChunkCount {
				return fmt.Errorf("versionindex: asset %d references chunk index %d >= ChunkCount %d", a, ci, idx.ChunkCount)
			}
			sum += uint64(idx.ChunkSizes[ci])
		}
		if !domain.IsDirPath(idx.Path(int(a))) && sum != uint64(idx.AssetSizes[a]) {
			return fmt.Errorf("versionindex: asset %d size %d != sum of chunk sizes %d", a, idx.AssetSizes[a], sum)
		}
	}

	return nil
}
