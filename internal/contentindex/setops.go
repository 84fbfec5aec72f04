package contentindex

import "sort"

// Diff compares two hash lists as sets and reports which
// hashes are only in new (added) and which are only in ref (removed):
// sort each input, uniquify, then merge-scan. Both outputs are returned
// in sorted order.
func Diff(ref, new []uint64) (added, removed []uint64) {
	r := sortedUnique(ref)
	n := sortedUnique(new)

	i, j := 0, 0
	for i < len(r) && j < len(n) {
		switch {
		case r[i] == n[j]:
			i++
			j++
		case r[i] < n[j]:
			removed = append(removed, r[i])
			i++
		default:
			added = append(added, n[j])
			j++
		}
	}
	removed = append(removed, r[i:]...)
	added = append(added, n[j:]...)

	return added, removed
}

func sortedUnique(hashes []uint64) []uint64 {
	out := make([]uint64, len(hashes))
	copy(out, hashes)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	uniq := out[:0]
	var last uint64
	first := true
	for _, h := range out {
		if first || h != last {
			uniq = append(uniq, h)
			last = h
			first = false
		}
	}
	return uniq
}

// Merge concatenates two content indices: block hashes of a then b, chunk
// records of a (block indexes unchanged) then b (block indexes shifted by
// a.BlockCount). Merge does not deduplicate blocks that happen to appear in
// both sides; BlockCount(Merge(a,b)) == BlockCount(a)+BlockCount(b) and
// likewise for ChunkCount.
func Merge(a, b *Index) *Index {
	out := &Index{
		BlockCount: a.BlockCount + b.BlockCount,
		ChunkCount: a.ChunkCount + b.ChunkCount,
	}

	out.BlockHashes = make([]uint64, 0, out.BlockCount)
	out.BlockHashes = append(out.BlockHashes, a.BlockHashes...)
	out.BlockHashes = append(out.BlockHashes, b.BlockHashes...)

	out.ChunkHashes = make([]uint64, 0, out.ChunkCount)
	out.ChunkHashes = append(out.ChunkHashes, a.ChunkHashes...)
	out.ChunkHashes = append(out.ChunkHashes, b.ChunkHashes...)

	out.ChunkBlockIndexes = make([]uint64, 0, out.ChunkCount)
	out.ChunkBlockIndexes = append(out.ChunkBlockIndexes, a.ChunkBlockIndexes...)
	for _, bi := range b.ChunkBlockIndexes {
		out.ChunkBlockIndexes = append(out.ChunkBlockIndexes, bi+a.BlockCount)
	}

	out.ChunkBlockOffsets = make([]uint32, 0, out.ChunkCount)
	out.ChunkBlockOffsets = append(out.ChunkBlockOffsets, a.ChunkBlockOffsets...)
	out.ChunkBlockOffsets = append(out.ChunkBlockOffsets, b.ChunkBlockOffsets...)

	out.ChunkLengths = make([]uint32, 0, out.ChunkCount)
	out.ChunkLengths = append(out.ChunkLengths, a.ChunkLengths...)
	out.ChunkLengths = append(out.ChunkLengths, b.ChunkLengths...)

	return out
}
