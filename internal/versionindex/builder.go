package versionindex

// AssetResult is what the chunking pipeline (internal/chunking) produces
// for one asset: everything needed to add it to a VersionIndex except the
// unique chunk table, which the Builder assembles across all assets.
type AssetResult struct {
	Path        string
	PathHash    uint64
	ContentHash uint64
	Size        uint64

	// ChunkHashes and ChunkSizes are parallel, in emission order, empty for
	// directories.
	ChunkHashes []uint64
	ChunkSizes  []uint32
}

// Builder assembles a VersionIndex from per-asset results. It performs a
// serial post-processing step: building the version's unique chunk table
// by first-occurrence order and rewriting each asset's emission-ordered
// chunk hashes into indexes against that table.
type Builder struct {
	assets []AssetResult
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add records one asset's chunking result. Assets must be added in path-set
// order (the order that becomes the version's asset index).
func (b *Builder) Add(r AssetResult) {
	b.assets = append(b.assets, r)
}

// Build assembles the final Index. The unique chunk table's order is the
// first-occurrence order across assets in the order they were Added, which
// is what makes the block packer's output deterministic for a fixed source
// tree and fixed asset order.
func (b *Builder) Build() (*Index, error) {
	idx := &Index{
		AssetCount: uint32(len(b.assets)),
	}

	chunkIndexOf := make(map[uint64]uint32)
	var nameData []byte
	var nameOffsets []uint32
	var assetChunkIndexes []uint32
	var chunkStart uint32

	for _, a := range b.assets {
		idx.PathHashes = append(idx.PathHashes, a.PathHash)
		idx.ContentHashes = append(idx.ContentHashes, a.ContentHash)
		idx.AssetSizes = append(idx.AssetSizes, uint32(a.Size))
		idx.AssetChunkCounts = append(idx.AssetChunkCounts, uint32(len(a.ChunkHashes)))
		idx.AssetChunkIndexStarts = append(idx.AssetChunkIndexStarts, chunkStart)

		nameOffsets = append(nameOffsets, uint32(len(nameData)))
		nameData = append(nameData, a.Path...)
		nameData = append(nameData, 0)

		for i, h := range a.ChunkHashes {
			ci, ok := chunkIndexOf[h]
			if !ok {
				ci = uint32(len(idx.ChunkHashes))
				chunkIndexOf[h] = ci
				idx.ChunkHashes = append(idx.ChunkHashes, h)
				idx.ChunkSizes = append(idx.ChunkSizes, a.ChunkSizes[i])
			}
			assetChunkIndexes = append(assetChunkIndexes, ci)
		}

		chunkStart += uint32(len(a.ChunkHashes))
	}

	idx.AssetChunkIndexes = assetChunkIndexes
	idx.AssetChunkIndexCount = uint32(len(assetChunkIndexes))
	idx.ChunkCount = uint32(len(idx.ChunkHashes))
	idx.NameOffsets = nameOffsets
	idx.NameData = nameData

	if err := idx.Validate(); err != nil {
		return nil, err
	}
	return idx, nil
}
