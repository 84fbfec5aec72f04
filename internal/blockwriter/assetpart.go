package blockwriter

import "github.com/prn-tf/contentstore/internal/versionindex"

// AssetPart identifies where a chunk's raw bytes live in the source tree:
// the asset that contains them and the byte offset within that asset.
type AssetPart struct {
	Path   string
	Offset uint64
}

// BuildAssetPartIndex scans version in asset order and records, for every
// unique chunk, the first asset/offset pair that contains it: a chunk
// deduplicated across many assets is only ever read from one of them.
func BuildAssetPartIndex(version *versionindex.Index) map[uint64]AssetPart {
	lookup := make(map[uint64]AssetPart, version.ChunkCount)

	for a := uint32(0); a < version.AssetCount; a++ {
		path := version.Path(int(a))
		var offset uint64
		for _, ci := range version.AssetChunks(int(a)) {
			hash := version.ChunkHashes[ci]
			if _, ok := lookup[hash]; !ok {
				lookup[hash] = AssetPart{Path: path, Offset: offset}
			}
			offset += uint64(version.ChunkSizes[ci])
		}
	}

	return lookup
}
