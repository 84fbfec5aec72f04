package versionindex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	idx := fileIndex()

	data := Encode(idx)
	got, err := Decode(data)
	require.NoError(t, err)

	require.Equal(t, idx.AssetCount, got.AssetCount)
	require.Equal(t, idx.ChunkCount, got.ChunkCount)
	require.Equal(t, idx.PathHashes, got.PathHashes)
	require.Equal(t, idx.ChunkHashes, got.ChunkHashes)
	require.Equal(t, "file.txt", got.Path(0))
	require.NoError(t, got.Validate())
}

func TestEncodeDecode_Empty(t *testing.T) {
	idx, err := NewBuilder().Build()
	require.NoError(t, err)

	data := Encode(idx)
	got, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, uint32(0), got.AssetCount)
}

func TestDecode_RejectsTruncatedData(t *testing.T) {
	data := Encode(fileIndex())

	_, err := Decode(data[:len(data)-4])
	require.Error(t, err)
}

func TestDecode_RejectsInconsistentImage(t *testing.T) {
	idx := fileIndex()
	idx.AssetSizes[0] = 999
	data := Encode(idx)

	_, err := Decode(data)
	require.Error(t, err)
}
