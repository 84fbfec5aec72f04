package cli

import (
	"encoding/binary"

	"github.com/prn-tf/contentstore/internal/contentindex"
	"github.com/prn-tf/contentstore/internal/versionindex"
)

// versionRootHash folds every asset's path and content hash into one
// 64-bit identifier, so the catalog can key a version without the engine
// needing a dedicated whole-tree digest of its own.
func versionRootHash(v *versionindex.Index) uint64 {
	state := buildHasher().NewState()
	buf := make([]byte, 8)
	for i := range v.PathHashes {
		binary.LittleEndian.PutUint64(buf, v.PathHashes[i])
		state.Absorb(buf)
		binary.LittleEndian.PutUint64(buf, v.ContentHashes[i])
		state.Absorb(buf)
	}
	return state.Finalize().Truncate()
}

// contentRootHash folds every block hash into one 64-bit identifier, zero
// for an empty content index.
func contentRootHash(c *contentindex.Index) uint64 {
	if len(c.BlockHashes) == 0 {
		return 0
	}
	state := buildHasher().NewState()
	buf := make([]byte, 8)
	for _, h := range c.BlockHashes {
		binary.LittleEndian.PutUint64(buf, h)
		state.Absorb(buf)
	}
	return state.Finalize().Truncate()
}

// totalAssetSize sums every asset's recorded size (directories are zero).
func totalAssetSize(v *versionindex.Index) uint64 {
	var total uint64
	for _, s := range v.AssetSizes {
		total += uint64(s)
	}
	return total
}
