// Package pathset implements the packed path list that tree walking
// produces and indexing consumes. Paths are stored as one contiguous byte
// buffer plus a parallel offset array, like the packed name table
// (NameOffsets/NameData) of internal/versionindex.
package pathset

// PathSet is an ordered sequence of paths. Element order defines the
// "asset index" used throughout the engine: the position a path occupies
// here is the position its Asset occupies in a VersionIndex built from it.
type PathSet struct {
	data    []byte
	offsets []int // offsets[i] is the start of path i in data; len(offsets) == count+1
}

// New returns an empty, growable PathSet.
func New() *PathSet {
	return &PathSet{offsets: []int{0}}
}

// Add appends path to the set and returns its index.
func (p *PathSet) Add(path string) int {
	idx := len(p.offsets) - 1
	p.data = append(p.data, path...)
	p.offsets = append(p.offsets, len(p.data))
	return idx
}

// Len reports the number of paths in the set.
func (p *PathSet) Len() int {
	return len(p.offsets) - 1
}

// At returns the path at index i.
func (p *PathSet) At(i int) string {
	return string(p.data[p.offsets[i]:p.offsets[i+1]])
}

// Paths returns every path in order. Intended for small sets (tests,
// diagnostics); hot paths should use At to avoid the allocation.
func (p *PathSet) Paths() []string {
	out := make([]string, p.Len())
	for i := range out {
		out[i] = p.At(i)
	}
	return out
}
