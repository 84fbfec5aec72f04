// Package chunking implements the per-asset chunker+hasher pipeline: one
// job per asset, parallel fan-out via a JobRunner, each job double-hashing
// its file's bytes (per-chunk and whole-file), followed by the serial
// post-processing step (internal/versionindex.Builder) that assembles the
// unique chunk table.
package chunking

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/prn-tf/contentstore/internal/corerr"
	"github.com/prn-tf/contentstore/internal/domain"
	"github.com/prn-tf/contentstore/internal/pathset"
	"github.com/prn-tf/contentstore/internal/port"
	"github.com/prn-tf/contentstore/internal/versionindex"
)

// IndexTree runs the chunker+hasher pipeline over every path in paths,
// reading file content from storage, and returns the resulting
// VersionIndex. Directory entries are recorded with zero chunks and a zero
// content hash. Fan-out is one job per asset; when runner is the inline
// adapter, jobs execute in paths order with identical results to any
// parallel runner.
func IndexTree(ctx context.Context, storage port.Storage, root string, paths *pathset.PathSet, hasher port.Hasher, chunker port.Chunker, runner port.JobRunner, params port.Params, logger zerolog.Logger) (*versionindex.Index, error) {
	n := paths.Len()
	results := make([]versionindex.AssetResult, n)

	jobs := make([]port.Job, n)
	for i := 0; i < n; i++ {
		i := i
		jobs[i] = func(ctx context.Context) error {
			path := paths.At(i)
			r, err := indexAsset(ctx, storage, root, path, hasher, chunker, params)
			if err != nil {
				return fmt.Errorf("chunking asset %q: %w", path, err)
			}
			results[i] = r
			return nil
		}
	}

	logger.Debug().Int("assets", n).Msg("starting chunker+hasher fan-out")
	if err := runner.Run(ctx, jobs); err != nil {
		return nil, corerr.JobFailure("chunking.IndexTree", err)
	}

	builder := versionindex.NewBuilder()
	for _, r := range results {
		builder.Add(r)
	}

	idx, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("chunking: assembling version index: %w", err)
	}

	logger.Info().Int("assets", int(idx.AssetCount)).Int("unique_chunks", int(idx.ChunkCount)).Msg("indexed tree")
	return idx, nil
}

func indexAsset(ctx context.Context, storage port.Storage, root, path string, hasher port.Hasher, chunker port.Chunker, params port.Params) (versionindex.AssetResult, error) {
	pathHash := hashBytes(hasher, []byte(path))

	if domain.IsDirPath(path) {
		return versionindex.AssetResult{
			Path:     path,
			PathHash: pathHash,
		}, nil
	}

	rc, err := storage.Open(ctx, storage.Join(root, path))
	if err != nil {
		return versionindex.AssetResult{}, corerr.IO("chunking.indexAsset.Open", err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return versionindex.AssetResult{}, corerr.IO("chunking.indexAsset.Read", err)
	}

	ranges, err := chunker.Chunk(params, feederOverBuffer(content))
	if err != nil {
		return versionindex.AssetResult{}, fmt.Errorf("chunking.indexAsset: chunker failed: %w", err)
	}

	whole := hasher.NewState()
	chunkHashes := make([]uint64, 0, len(ranges))
	chunkSizes := make([]uint32, 0, len(ranges))

	for _, r := range ranges {
		b := content[r.Offset : r.Offset+r.Length]

		chunkState := hasher.NewState()
		chunkState.Absorb(b)
		chunkHashes = append(chunkHashes, chunkState.Finalize().Truncate())
		chunkSizes = append(chunkSizes, uint32(r.Length))

		whole.Absorb(b)
	}

	return versionindex.AssetResult{
		Path:        path,
		PathHash:    pathHash,
		ContentHash: whole.Finalize().Truncate(),
		Size:        uint64(len(content)),
		ChunkHashes: chunkHashes,
		ChunkSizes:  chunkSizes,
	}, nil
}

func hashBytes(hasher port.Hasher, b []byte) uint64 {
	st := hasher.NewState()
	st.Absorb(b)
	return st.Finalize().Truncate()
}

// feederOverBuffer returns a Feeder that serves requested lengths from an
// in-memory buffer, satisfying the Chunker port's pull-based contract
// without a second pass over the file for Chunker implementations that
// only need sequential access.
func feederOverBuffer(buf []byte) port.Feeder {
	pos := 0
	return func(requestedLen int) ([]byte, error) {
		if pos >= len(buf) {
			return nil, nil
		}
		end := pos + requestedLen
		if end > len(buf) {
			end = len(buf)
		}
		out := buf[pos:end]
		pos = end
		return out, nil
	}
}
