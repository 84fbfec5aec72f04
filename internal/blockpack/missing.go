package blockpack

import (
	"github.com/prn-tf/contentstore/internal/contentindex"
	"github.com/prn-tf/contentstore/internal/port"
	"github.com/prn-tf/contentstore/internal/versionindex"
)

// MissingContent computes the subset of remote's chunks that local does not
// already hold, and packs that subset into a new ContentIndex ready to be
// written and then merged into local. Returns an empty ContentIndex when
// local already has every chunk remote needs.
func MissingContent(hasher port.Hasher, local *contentindex.Index, remote *versionindex.Index, opts Options) (*contentindex.Index, error) {
	added, _ := contentindex.Diff(local.ChunkHashes, remote.ChunkHashes)
	if len(added) == 0 {
		return contentindex.Empty(), nil
	}

	sizeOf := make(map[uint64]uint32, remote.ChunkCount)
	for i, h := range remote.ChunkHashes {
		sizeOf[h] = remote.ChunkSizes[i]
	}

	sizes := make([]uint32, len(added))
	for i, h := range added {
		sizes[i] = sizeOf[h]
	}

	return Pack(hasher, added, sizes, opts)
}
