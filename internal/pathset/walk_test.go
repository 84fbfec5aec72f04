package pathset

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prn-tf/contentstore/internal/adapter/memstorage"
)

func writeFile(t *testing.T, s *memstorage.Storage, path string) {
	t.Helper()
	w, err := s.Create(context.Background(), path)
	require.NoError(t, err)
	_, err = w.Write([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func TestWalk_CollectsFilesAndDirectories(t *testing.T) {
	s := memstorage.New()
	writeFile(t, s, "a.txt")
	writeFile(t, s, "dir/b.txt")

	set, err := Walk(context.Background(), s, "", WalkOptions{})
	require.NoError(t, err)

	paths := set.Paths()
	require.Contains(t, paths, "a.txt")
	require.Contains(t, paths, "dir/")
	require.Contains(t, paths, "dir/b.txt")
}

func TestWalk_ExcludesMatchingPatterns(t *testing.T) {
	s := memstorage.New()
	writeFile(t, s, "keep.txt")
	writeFile(t, s, "build/out.tmp")

	set, err := Walk(context.Background(), s, "", WalkOptions{ExcludePatterns: []string{"**/*.tmp"}})
	require.NoError(t, err)

	paths := set.Paths()
	require.Contains(t, paths, "keep.txt")
	require.NotContains(t, paths, "build/out.tmp")
}

func TestWalk_EmptyTree(t *testing.T) {
	s := memstorage.New()

	set, err := Walk(context.Background(), s, "", WalkOptions{})
	require.NoError(t, err)
	require.Equal(t, 0, set.Len())
}
