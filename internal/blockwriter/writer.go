// Package blockwriter writes the blocks named by a ContentIndex: for each
// block, gather its chunks' raw bytes from the source tree, concatenate,
// compress, frame, and durably publish under the store.
package blockwriter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/rs/zerolog"

	"github.com/prn-tf/contentstore/internal/blockframe"
	"github.com/prn-tf/contentstore/internal/contentindex"
	"github.com/prn-tf/contentstore/internal/corerr"
	"github.com/prn-tf/contentstore/internal/port"
	"github.com/prn-tf/contentstore/internal/versionindex"
)

// WriteBlocks writes every block named by idx into storeDir on storeStorage,
// reading chunk bytes from root on sourceStorage via the asset-part lookup
// built from version. One job per block is submitted to runner; a block
// whose final name already exists is treated as a no-op success, since
// block identity is content-derived and re-packing identical content never
// needs to rewrite it.
func WriteBlocks(ctx context.Context, sourceStorage port.Storage, root string, storeStorage port.Storage, storeDir string, version *versionindex.Index, idx *contentindex.Index, compressor port.Compressor, runner port.JobRunner, logger zerolog.Logger) error {
	if idx.BlockCount == 0 {
		return nil
	}

	lookup := BuildAssetPartIndex(version)
	blockChunks := groupChunksByBlock(idx)

	jobs := make([]port.Job, 0, len(blockChunks))
	for blockIdx, positions := range blockChunks {
		blockIdx, positions := blockIdx, positions
		jobs = append(jobs, func(ctx context.Context) error {
			return writeOneBlock(ctx, sourceStorage, root, storeStorage, storeDir, idx, positions, lookup, compressor, logger, blockIdx)
		})
	}

	logger.Debug().Int("blocks", len(jobs)).Msg("starting block write fan-out")
	if err := runner.Run(ctx, jobs); err != nil {
		return corerr.JobFailure("blockwriter.WriteBlocks", err)
	}
	return nil
}

// groupChunksByBlock returns, per block index, the positions into idx's
// parallel chunk arrays belonging to that block, sorted by ChunkBlockOffset
// so payload concatenation reproduces the block's byte layout.
func groupChunksByBlock(idx *contentindex.Index) map[uint64][]int {
	groups := make(map[uint64][]int)
	for i, b := range idx.ChunkBlockIndexes {
		groups[b] = append(groups[b], i)
	}
	for _, positions := range groups {
		sort.Slice(positions, func(a, c int) bool {
			return idx.ChunkBlockOffsets[positions[a]] < idx.ChunkBlockOffsets[positions[c]]
		})
	}
	return groups
}

func writeOneBlock(ctx context.Context, sourceStorage port.Storage, root string, storeStorage port.Storage, storeDir string, idx *contentindex.Index, positions []int, lookup map[uint64]AssetPart, compressor port.Compressor, logger zerolog.Logger, blockIdx uint64) error {
	blockHash := idx.BlockHashes[blockIdx]
	finalName := storeStorage.Join(storeDir, blockframe.FileName(blockHash))

	if exists, _, err := storeStorage.Exists(ctx, finalName); err != nil {
		return corerr.IO("blockwriter.writeOneBlock.Exists", err)
	} else if exists {
		logger.Debug().Str("block", finalName).Msg("block already present, skipping write")
		return nil
	}

	assetCache := make(map[string][]byte)
	chunkHashes := make([]uint64, len(positions))
	chunkSizes := make([]uint32, len(positions))
	var payload bytes.Buffer

	for i, pos := range positions {
		hash := idx.ChunkHashes[pos]
		size := idx.ChunkLengths[pos]

		part, ok := lookup[hash]
		if !ok {
			return corerr.Inconsistency("blockwriter.writeOneBlock", fmt.Errorf("chunk %016x has no asset-part entry", hash))
		}

		assetBytes, ok := assetCache[part.Path]
		if !ok {
			rc, err := sourceStorage.Open(ctx, sourceStorage.Join(root, part.Path))
			if err != nil {
				return corerr.IO("blockwriter.writeOneBlock.Open", err)
			}
			assetBytes, err = io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return corerr.IO("blockwriter.writeOneBlock.Read", err)
			}
			assetCache[part.Path] = assetBytes
		}

		if part.Offset+uint64(size) > uint64(len(assetBytes)) {
			return corerr.Corruption("blockwriter.writeOneBlock", fmt.Errorf("chunk %016x range [%d,%d) exceeds asset %q length %d", hash, part.Offset, part.Offset+uint64(size), part.Path, len(assetBytes)))
		}

		payload.Write(assetBytes[part.Offset : part.Offset+uint64(size)])
		chunkHashes[i] = hash
		chunkSizes[i] = size
	}

	compressed, err := compressor.Compress(payload.Bytes())
	if err != nil || len(compressed) == 0 {
		return corerr.Corruption("blockwriter.writeOneBlock.Compress", fmt.Errorf("compressor returned empty output: %w", err))
	}

	image := blockframe.Build(payload.Len(), compressed, chunkHashes, chunkSizes)

	tempName := storeStorage.Join(storeDir, fmt.Sprintf("0x%016x.tmp", blockHash))
	w, err := storeStorage.Create(ctx, tempName)
	if err != nil {
		return corerr.IO("blockwriter.writeOneBlock.Create", err)
	}
	if _, err := w.Write(image); err != nil {
		w.Close()
		storeStorage.Remove(ctx, tempName)
		return corerr.IO("blockwriter.writeOneBlock.Write", err)
	}
	if err := w.Close(); err != nil {
		storeStorage.Remove(ctx, tempName)
		return corerr.IO("blockwriter.writeOneBlock.Close", err)
	}

	if err := storeStorage.Rename(ctx, tempName, finalName); err != nil {
		storeStorage.Remove(ctx, tempName)
		return corerr.IO("blockwriter.writeOneBlock.Rename", err)
	}

	logger.Debug().Str("block", finalName).Int("chunks", len(positions)).Int("bytes", payload.Len()).Msg("block written")
	return nil
}
