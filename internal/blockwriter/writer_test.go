package blockwriter

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/contentstore/internal/adapter/blakehash"
	"github.com/prn-tf/contentstore/internal/adapter/cdcchunker"
	"github.com/prn-tf/contentstore/internal/adapter/inlinerunner"
	"github.com/prn-tf/contentstore/internal/adapter/memstorage"
	"github.com/prn-tf/contentstore/internal/adapter/zstdcodec"
	"github.com/prn-tf/contentstore/internal/blockframe"
	"github.com/prn-tf/contentstore/internal/blockpack"
	"github.com/prn-tf/contentstore/internal/chunking"
	"github.com/prn-tf/contentstore/internal/contentindex"
	"github.com/prn-tf/contentstore/internal/pathset"
	"github.com/prn-tf/contentstore/internal/port"
)

func writeFile(t *testing.T, s *memstorage.Storage, path string, data []byte) {
	t.Helper()
	w, err := s.Create(context.Background(), path)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func TestWriteBlocks_WritesOneFilePerBlock(t *testing.T) {
	source := memstorage.New()
	writeFile(t, source, "a.txt", []byte("hello world, this is some test content for chunking"))
	writeFile(t, source, "b.txt", []byte("completely different content for the second file"))

	paths := pathset.New()
	paths.Add("a.txt")
	paths.Add("b.txt")

	params := port.Params{Min: 8, Avg: 16, Max: 64}
	version, err := chunking.IndexTree(context.Background(), source, "", paths, blakehash.New(), cdcchunker.New(), inlinerunner.New(), params, zerolog.Nop())
	require.NoError(t, err)

	content, err := blockpack.Pack(blakehash.New(), version.ChunkHashes, version.ChunkSizes, blockpack.Options{MaxBlockSize: 1 << 20, MaxChunksPerBlock: 1000})
	require.NoError(t, err)

	compressor, err := zstdcodec.New()
	require.NoError(t, err)

	store := memstorage.New()
	err = WriteBlocks(context.Background(), source, "", store, "blocks", version, content, compressor, inlinerunner.New(), zerolog.Nop())
	require.NoError(t, err)

	for _, h := range content.BlockHashes {
		name := store.Join("blocks", blockframe.FileName(h))
		ok, _, err := store.Exists(context.Background(), name)
		require.NoError(t, err)
		require.True(t, ok, "expected block file %s to exist", name)
	}
}

func TestWriteBlocks_NoOpWhenBlockCountIsZero(t *testing.T) {
	source := memstorage.New()
	store := memstorage.New()
	compressor, err := zstdcodec.New()
	require.NoError(t, err)

	version, err := chunking.IndexTree(context.Background(), source, "", pathset.New(), blakehash.New(), cdcchunker.New(), inlinerunner.New(), port.Params{Min: 4, Avg: 8, Max: 16}, zerolog.Nop())
	require.NoError(t, err)

	err = WriteBlocks(context.Background(), source, "", store, "blocks", version, contentindex.Empty(), compressor, inlinerunner.New(), zerolog.Nop())
	require.NoError(t, err)
}

func TestBuildAssetPartIndex_FirstOccurrenceWins(t *testing.T) {
	source := memstorage.New()
	writeFile(t, source, "a.txt", []byte("shared"))
	writeFile(t, source, "b.txt", []byte("shared"))

	paths := pathset.New()
	paths.Add("a.txt")
	paths.Add("b.txt")

	params := port.Params{Min: 2, Avg: 4, Max: 32}
	version, err := chunking.IndexTree(context.Background(), source, "", paths, blakehash.New(), cdcchunker.New(), inlinerunner.New(), params, zerolog.Nop())
	require.NoError(t, err)

	lookup := BuildAssetPartIndex(version)
	require.Len(t, lookup, int(version.ChunkCount))
	for _, part := range lookup {
		require.Equal(t, "a.txt", part.Path)
	}
}
