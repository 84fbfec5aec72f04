package port

// Feeder pulls up to requestedLen bytes from a byte stream. It returns
// fewer bytes than requested only at end of stream (actualLen < requestedLen
// together with err == nil signals EOF after this call; a non-nil err
// signals a read failure). This callback shape, rather than io.Reader, lets
// a Chunker pull from sources that are not always contiguous readers (e.g.
// a block payload already in memory); adapters that do have an io.Reader
// wrap it in a Feeder (see adapter/cdcchunker.FeederFromReader).
type Feeder func(requestedLen int) (data []byte, err error)

// ChunkRange is one chunk's position within the stream the Chunker walked.
type ChunkRange struct {
	Offset int64
	Length int64
}

// Params bounds the sizes a Chunker may emit.
type Params struct {
	Min uint32
	Avg uint32
	Max uint32
}

// Chunker produces a deterministic sequence of (offset, length) pairs
// over a byte stream pulled through a Feeder. Implementations must emit
// chunks whose sizes lie in [Min, Max] except possibly the last, and must
// be deterministic given the same byte stream and Params: the choice of
// algorithm is an implementation detail, but it must be stable across runs
// and across processes.
type Chunker interface {
	// Chunk returns the sequence of chunk ranges for the stream pulled via
	// feeder. The sequence is fully resolved (not a channel) because
	// whole-file hashing needs to re-walk the same bytes; streaming variants
	// that want lazy emission can still implement this by buffering
	// internally. The interface only constrains inputs and outputs, not
	// eagerness.
	Chunk(params Params, feeder Feeder) ([]ChunkRange, error)
}
