package blockreader

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prn-tf/contentstore/internal/adapter/memstorage"
	"github.com/prn-tf/contentstore/internal/adapter/zstdcodec"
	"github.com/prn-tf/contentstore/internal/blockframe"
)

func writeBlock(t *testing.T, s *memstorage.Storage, dir string, blockHash uint64, chunkHashes []uint64, chunkData [][]byte) {
	t.Helper()

	var payload []byte
	sizes := make([]uint32, len(chunkData))
	for i, d := range chunkData {
		payload = append(payload, d...)
		sizes[i] = uint32(len(d))
	}

	compressor, err := zstdcodec.New()
	require.NoError(t, err)
	compressed, err := compressor.Compress(payload)
	require.NoError(t, err)

	image := blockframe.Build(len(payload), compressed, chunkHashes, sizes)

	w, err := s.Create(context.Background(), s.Join(dir, blockframe.FileName(blockHash)))
	require.NoError(t, err)
	_, err = w.Write(image)
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func TestOpen_ReadsChunksBackCorrectly(t *testing.T) {
	s := memstorage.New()
	writeBlock(t, s, "blocks", 0xABCD, []uint64{1, 2}, [][]byte{[]byte("hello"), []byte("world!")})

	compressor, err := zstdcodec.New()
	require.NoError(t, err)

	b, err := Open(context.Background(), s, "blocks", 0xABCD, compressor)
	require.NoError(t, err)

	data, err := b.Chunk(1)
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))

	data, err = b.Chunk(2)
	require.NoError(t, err)
	require.Equal(t, "world!", string(data))
}

func TestOpen_MissingBlockReturnsError(t *testing.T) {
	s := memstorage.New()
	compressor, err := zstdcodec.New()
	require.NoError(t, err)

	_, err = Open(context.Background(), s, "blocks", 0xDEAD, compressor)
	require.Error(t, err)
}

func TestBlock_ChunkNotFoundReturnsError(t *testing.T) {
	s := memstorage.New()
	writeBlock(t, s, "blocks", 0x1, []uint64{1}, [][]byte{[]byte("x")})

	compressor, err := zstdcodec.New()
	require.NoError(t, err)

	b, err := Open(context.Background(), s, "blocks", 0x1, compressor)
	require.NoError(t, err)

	_, err = b.Chunk(0xFFFF)
	require.Error(t, err)
}

func TestBlock_ChunkHashesInPayloadOrder(t *testing.T) {
	s := memstorage.New()
	writeBlock(t, s, "blocks", 0x2, []uint64{9, 8, 7}, [][]byte{[]byte("a"), []byte("b"), []byte("c")})

	compressor, err := zstdcodec.New()
	require.NoError(t, err)

	b, err := Open(context.Background(), s, "blocks", 0x2, compressor)
	require.NoError(t, err)

	require.Equal(t, []uint64{9, 8, 7}, b.ChunkHashes())
}
