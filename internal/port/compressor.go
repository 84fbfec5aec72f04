package port

// Compressor is a stateless codec. Compress and Decompress report failure
// by returning a zero-length result; callers must check len(dst) against
// the size they expected rather than relying on a non-nil error alone.
type Compressor interface {
	// Compress returns the compressed form of src.
	Compress(src []byte) (dst []byte, err error)

	// Decompress returns the decompressed form of src. expectedLen is the
	// uncompressed length recorded in the block frame; implementations use
	// it to pre-size the output buffer and MUST fail if the decompressed
	// length disagrees with it.
	Decompress(src []byte, expectedLen int) (dst []byte, err error)

	// MaxCompressedLen reports the maximum compressed length for a source
	// of the given length, so callers can pre-allocate.
	MaxCompressedLen(srcLen int) int
}
