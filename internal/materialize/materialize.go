// Package materialize writes a version's assets out to a destination tree
// by reading chunk bytes from a content store. Assets whose chunks all
// come from one block are coalesced into per-block-run jobs that open the
// block exactly once; assets whose chunks span several blocks get one job
// each, with only the currently open block cached.
package materialize

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/prn-tf/contentstore/internal/blockreader"
	"github.com/prn-tf/contentstore/internal/contentindex"
	"github.com/prn-tf/contentstore/internal/corerr"
	"github.com/prn-tf/contentstore/internal/port"
	"github.com/prn-tf/contentstore/internal/versionindex"
)

// Materialize writes every asset in version into destRoot on destStorage,
// reading chunk bytes from storeDir on storeStorage according to idx. idx
// must contain every chunk version references; a chunk it lacks is reported
// as an inconsistency rather than attempted.
func Materialize(ctx context.Context, storeStorage port.Storage, storeDir string, destStorage port.Storage, destRoot string, version *versionindex.Index, idx *contentindex.Index, compressor port.Compressor, runner port.JobRunner, logger zerolog.Logger) error {
	if err := checkCoverage(version, idx); err != nil {
		return err
	}

	chunkIndexOf := idx.ChunkHashToIndex()
	p := buildPlan(version, chunkIndexOf, idx.ChunkBlockIndexes)

	var jobs []port.Job

	for _, a := range p.dirIdxs {
		a := a
		jobs = append(jobs, func(ctx context.Context) error {
			path := destStorage.Join(destRoot, version.Path(a))
			if err := destStorage.Mkdir(ctx, path); err != nil {
				return corerr.IO("materialize.Materialize.Mkdir", err)
			}
			return nil
		})
	}

	for _, a := range p.emptyFileIdxs {
		a := a
		jobs = append(jobs, func(ctx context.Context) error {
			path := destStorage.Join(destRoot, version.Path(a))
			w, err := destStorage.Create(ctx, path)
			if err != nil {
				return corerr.IO("materialize.Materialize.Create", err)
			}
			if err := w.Close(); err != nil {
				return corerr.IO("materialize.Materialize.Close", err)
			}
			return nil
		})
	}

	for _, run := range p.blockRuns {
		run := run
		jobs = append(jobs, func(ctx context.Context) error {
			return materializeBlockRun(ctx, storeStorage, storeDir, destStorage, destRoot, version, idx, run, compressor)
		})
	}

	for _, a := range p.fileMajors {
		a := a
		jobs = append(jobs, func(ctx context.Context) error {
			return materializeFileMajor(ctx, storeStorage, storeDir, destStorage, destRoot, version, idx, chunkIndexOf, a, compressor)
		})
	}

	logger.Debug().Int("dirs", len(p.dirIdxs)).Int("empty_files", len(p.emptyFileIdxs)).Int("block_runs", len(p.blockRuns)).Int("file_major", len(p.fileMajors)).Msg("starting materialize fan-out")
	if err := runner.Run(ctx, jobs); err != nil {
		return corerr.JobFailure("materialize.Materialize", err)
	}
	return nil
}

func checkCoverage(version *versionindex.Index, idx *contentindex.Index) error {
	have := make(map[uint64]struct{}, idx.ChunkCount)
	for _, h := range idx.ChunkHashes {
		have[h] = struct{}{}
	}
	for _, h := range version.ChunkHashes {
		if _, ok := have[h]; !ok {
			return corerr.Inconsistency("materialize.Materialize", fmt.Errorf("chunk %016x referenced by version is absent from content index", h))
		}
	}
	return nil
}

func materializeBlockRun(ctx context.Context, storeStorage port.Storage, storeDir string, destStorage port.Storage, destRoot string, version *versionindex.Index, idx *contentindex.Index, run blockMajorRun, compressor port.Compressor) error {
	blockHash := idx.BlockHashes[run.blockIndex]
	block, err := blockreader.Open(ctx, storeStorage, storeDir, blockHash, compressor)
	if err != nil {
		return fmt.Errorf("materialize: opening block for run: %w", err)
	}

	for _, a := range run.assetIdxs {
		if err := writeAssetFromBlock(ctx, destStorage, destRoot, version, a, block); err != nil {
			return err
		}
	}
	return nil
}

func writeAssetFromBlock(ctx context.Context, destStorage port.Storage, destRoot string, version *versionindex.Index, a int, block *blockreader.Block) error {
	path := destStorage.Join(destRoot, version.Path(a))
	w, err := destStorage.Create(ctx, path)
	if err != nil {
		return corerr.IO("materialize.writeAssetFromBlock.Create", err)
	}
	defer w.Close()

	for _, ci := range version.AssetChunks(a) {
		hash := version.ChunkHashes[ci]
		b, err := block.Chunk(hash)
		if err != nil {
			return fmt.Errorf("materialize: asset %q: %w", path, err)
		}
		if _, err := w.Write(b); err != nil {
			return corerr.IO("materialize.writeAssetFromBlock.Write", err)
		}
	}
	return nil
}

func materializeFileMajor(ctx context.Context, storeStorage port.Storage, storeDir string, destStorage port.Storage, destRoot string, version *versionindex.Index, idx *contentindex.Index, chunkIndexOf map[uint64]int, a int, compressor port.Compressor) error {
	path := destStorage.Join(destRoot, version.Path(a))
	w, err := destStorage.Create(ctx, path)
	if err != nil {
		return corerr.IO("materialize.materializeFileMajor.Create", err)
	}
	defer w.Close()

	cache := &blockCache{storage: storeStorage, dir: storeDir, compressor: compressor}

	for _, ci := range version.AssetChunks(a) {
		hash := version.ChunkHashes[ci]
		pos, ok := chunkIndexOf[hash]
		if !ok {
			return corerr.Inconsistency("materialize.materializeFileMajor", fmt.Errorf("chunk %016x missing from content index", hash))
		}
		blockHash := idx.BlockHashes[idx.ChunkBlockIndexes[pos]]

		block, err := cache.get(ctx, blockHash)
		if err != nil {
			return fmt.Errorf("materialize: asset %q: %w", path, err)
		}
		b, err := block.Chunk(hash)
		if err != nil {
			return fmt.Errorf("materialize: asset %q: %w", path, err)
		}
		if _, err := w.Write(b); err != nil {
			return corerr.IO("materialize.materializeFileMajor.Write", err)
		}
	}
	return nil
}

// blockCache holds at most the most-recently-opened block: a file whose
// chunks span many blocks only ever keeps one open at a time.
type blockCache struct {
	storage    port.Storage
	dir        string
	compressor port.Compressor

	have  bool
	hash  uint64
	block *blockreader.Block
}

func (c *blockCache) get(ctx context.Context, hash uint64) (*blockreader.Block, error) {
	if c.have && c.hash == hash {
		return c.block, nil
	}
	b, err := blockreader.Open(ctx, c.storage, c.dir, hash, c.compressor)
	if err != nil {
		return nil, err
	}
	c.have = true
	c.hash = hash
	c.block = b
	return b, nil
}
