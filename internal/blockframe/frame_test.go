package blockframe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildParse_RoundTrip(t *testing.T) {
	compressed := []byte{1, 2, 3, 4, 5}
	hashes := []uint64{0xAAAA, 0xBBBB}
	sizes := []uint32{10, 20}

	data := Build(100, compressed, hashes, sizes)

	parsed, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, 100, parsed.UncompressedLen)
	require.Equal(t, compressed, parsed.Compressed)
	require.Equal(t, hashes, parsed.ChunkHashes)
	require.Equal(t, sizes, parsed.ChunkSizes)
}

func TestBuildParse_ZeroChunks(t *testing.T) {
	data := Build(0, nil, nil, nil)

	parsed, err := Parse(data)
	require.NoError(t, err)
	require.Empty(t, parsed.ChunkHashes)
	require.Empty(t, parsed.ChunkSizes)
}

func TestParse_RejectsTooShortImage(t *testing.T) {
	_, err := Parse([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestParse_RejectsOverrunCompressedLen(t *testing.T) {
	data := Build(10, []byte{1, 2, 3}, nil, nil)
	binPutUint32Overrun(data)

	_, err := Parse(data)
	require.Error(t, err)
}

func TestParse_RejectsCorruptTrailerCount(t *testing.T) {
	data := Build(10, []byte{1, 2, 3}, []uint64{1}, []uint32{5})
	data[len(data)-1] = 0xFF

	_, err := Parse(data)
	require.Error(t, err)
}

func TestRoundUpToAlign(t *testing.T) {
	require.Equal(t, 0, RoundUpToAlign(0))
	require.Equal(t, 16, RoundUpToAlign(1))
	require.Equal(t, 16, RoundUpToAlign(16))
	require.Equal(t, 32, RoundUpToAlign(17))
}

func TestFileName(t *testing.T) {
	require.Equal(t, "0x00000000000000ff.lrb", FileName(0xff))
}

func binPutUint32Overrun(data []byte) {
	data[4] = 0xFF
	data[5] = 0xFF
	data[6] = 0xFF
	data[7] = 0xFF
}
