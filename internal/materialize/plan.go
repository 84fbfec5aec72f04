package materialize

import (
	"github.com/prn-tf/contentstore/internal/domain"
	"github.com/prn-tf/contentstore/internal/versionindex"
)

// jobKind classifies how an asset's chunks relate to blocks.
type jobKind int

const (
	// kindDir is a directory entry: just create the path.
	kindDir jobKind = iota
	// kindEmptyFile is a zero-length regular file: create it, write nothing.
	kindEmptyFile
	// kindBlockMajor is a run of consecutive assets whose chunks all come
	// from a single, shared block: one job opens that block once and
	// writes every asset in the run.
	kindBlockMajor
	// kindFileMajor is a single asset whose chunks span more than one
	// block: one job per asset, opening blocks on demand.
	kindFileMajor
)

// blockMajorRun is a contiguous span of asset indexes that all draw every
// chunk from the same block.
type blockMajorRun struct {
	blockIndex uint64
	assetIdxs  []int
}

// plan partitions a version's assets into directory jobs, empty-file jobs,
// block-major runs, and file-major singletons, given a lookup from chunk
// hash to its position in a ContentIndex's parallel chunk arrays.
type plan struct {
	dirIdxs       []int
	emptyFileIdxs []int
	blockRuns     []blockMajorRun
	fileMajors    []int
}

func buildPlan(version *versionindex.Index, chunkIndexOf map[uint64]int, chunkBlockIndexes []uint64) plan {
	var p plan

	var curRun *blockMajorRun
	flush := func() {
		if curRun != nil {
			p.blockRuns = append(p.blockRuns, *curRun)
			curRun = nil
		}
	}

	for a := 0; a < int(version.AssetCount); a++ {
		chunks := version.AssetChunks(a)
		if len(chunks) == 0 {
			flush()
			if domain.IsDirPath(version.Path(a)) {
				p.dirIdxs = append(p.dirIdxs, a)
			} else {
				p.emptyFileIdxs = append(p.emptyFileIdxs, a)
			}
			continue
		}

		block, singleBlock := singleBlockFor(version, chunks, chunkIndexOf, chunkBlockIndexes)
		if !singleBlock {
			flush()
			p.fileMajors = append(p.fileMajors, a)
			continue
		}

		if curRun != nil && curRun.blockIndex == block {
			curRun.assetIdxs = append(curRun.assetIdxs, a)
			continue
		}
		flush()
		curRun = &blockMajorRun{blockIndex: block, assetIdxs: []int{a}}
	}
	flush()

	return p
}

func singleBlockFor(version *versionindex.Index, chunks []uint32, chunkIndexOf map[uint64]int, chunkBlockIndexes []uint64) (uint64, bool) {
	var block uint64
	first := true
	for _, ci := range chunks {
		pos, ok := chunkIndexOf[version.ChunkHashes[ci]]
		if !ok {
			return 0, false
		}
		b := chunkBlockIndexes[pos]
		if first {
			block = b
			first = false
			continue
		}
		if b != block {
			return 0, false
		}
	}
	return block, !first
}
