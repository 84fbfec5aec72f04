package memstorage

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prn-tf/contentstore/internal/port"
)

func writeFile(t *testing.T, s *Storage, path string, data []byte) {
	t.Helper()
	w, err := s.Create(context.Background(), path)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func TestStorage_CreateThenOpen(t *testing.T) {
	s := New()
	writeFile(t, s, "a/b.txt", []byte("hello"))

	r, err := s.Open(context.Background(), "a/b.txt")
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))
}

func TestStorage_OpenMissingReturnsError(t *testing.T) {
	s := New()
	_, err := s.Open(context.Background(), "missing.txt")
	require.Error(t, err)
}

func TestStorage_SizeMatchesWrittenLength(t *testing.T) {
	s := New()
	writeFile(t, s, "f.bin", []byte{1, 2, 3, 4})

	size, err := s.Size(context.Background(), "f.bin")
	require.NoError(t, err)
	require.Equal(t, int64(4), size)
}

func TestStorage_RenameMovesFile(t *testing.T) {
	s := New()
	writeFile(t, s, "old.txt", []byte("x"))

	require.NoError(t, s.Rename(context.Background(), "old.txt", "new.txt"))

	_, err := s.Open(context.Background(), "old.txt")
	require.Error(t, err)
	r, err := s.Open(context.Background(), "new.txt")
	require.NoError(t, err)
	data, _ := io.ReadAll(r)
	require.Equal(t, "x", string(data))
}

func TestStorage_ExistsReportsKind(t *testing.T) {
	s := New()
	writeFile(t, s, "dir/f.txt", []byte("x"))

	ok, kind, err := s.Exists(context.Background(), "dir/f.txt")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, port.EntryFile, kind)

	ok, kind, err = s.Exists(context.Background(), "dir")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, port.EntryDir, kind)

	ok, _, err = s.Exists(context.Background(), "nope")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStorage_EnumerateListsFilesAndDirs(t *testing.T) {
	s := New()
	writeFile(t, s, "root/a.txt", []byte("a"))
	writeFile(t, s, "root/sub/b.txt", []byte("b"))

	entries, err := s.Enumerate(context.Background(), "root")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	names := map[string]port.EntryKind{}
	for _, e := range entries {
		names[e.Name] = e.Kind
	}
	require.Equal(t, port.EntryFile, names["a.txt"])
	require.Equal(t, port.EntryDir, names["sub"])
}

func TestStorage_RemoveDeletesFile(t *testing.T) {
	s := New()
	writeFile(t, s, "f.txt", []byte("x"))

	require.NoError(t, s.Remove(context.Background(), "f.txt"))

	_, err := s.Open(context.Background(), "f.txt")
	require.Error(t, err)
}
