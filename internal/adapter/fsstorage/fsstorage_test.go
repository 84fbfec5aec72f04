package fsstorage

import (
	"context"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/contentstore/internal/port"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	return s
}

func writeFile(t *testing.T, s *Storage, path string, data []byte) {
	t.Helper()
	w, err := s.Create(context.Background(), path)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func TestStorage_CreateThenOpen(t *testing.T) {
	s := newTestStorage(t)
	writeFile(t, s, "a/b.txt", []byte("hello"))

	r, err := s.Open(context.Background(), "a/b.txt")
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))
}

func TestStorage_OpenMissingReturnsError(t *testing.T) {
	s := newTestStorage(t)
	_, err := s.Open(context.Background(), "missing.txt")
	require.Error(t, err)
}

func TestStorage_SizeMatchesWrittenLength(t *testing.T) {
	s := newTestStorage(t)
	writeFile(t, s, "f.bin", []byte{1, 2, 3, 4, 5})

	size, err := s.Size(context.Background(), "f.bin")
	require.NoError(t, err)
	require.Equal(t, int64(5), size)
}

func TestStorage_RenameMovesFile(t *testing.T) {
	s := newTestStorage(t)
	writeFile(t, s, "old.txt", []byte("x"))

	require.NoError(t, s.Rename(context.Background(), "old.txt", "sub/new.txt"))

	exists, _, err := s.Exists(context.Background(), "old.txt")
	require.NoError(t, err)
	require.False(t, exists)

	exists, kind, err := s.Exists(context.Background(), "sub/new.txt")
	require.NoError(t, err)
	require.True(t, exists)
	require.Equal(t, port.EntryFile, kind)
}

func TestStorage_MkdirThenExists(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.Mkdir(context.Background(), "a/b/c"))

	exists, kind, err := s.Exists(context.Background(), "a/b/c")
	require.NoError(t, err)
	require.True(t, exists)
	require.Equal(t, port.EntryDir, kind)
}

func TestStorage_EnumerateListsEntries(t *testing.T) {
	s := newTestStorage(t)
	writeFile(t, s, "dir/a.txt", []byte("a"))
	require.NoError(t, s.Mkdir(context.Background(), "dir/sub"))

	entries, err := s.Enumerate(context.Background(), "dir")
	require.NoError(t, err)

	names := map[string]port.EntryKind{}
	for _, e := range entries {
		names[e.Name] = e.Kind
	}
	require.Equal(t, port.EntryFile, names["a.txt"])
	require.Equal(t, port.EntryDir, names["sub"])
}

func TestStorage_RemoveDeletesFile(t *testing.T) {
	s := newTestStorage(t)
	writeFile(t, s, "f.txt", []byte("x"))

	require.NoError(t, s.Remove(context.Background(), "f.txt"))

	exists, _, err := s.Exists(context.Background(), "f.txt")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestStorage_RemoveMissingIsNoOp(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.Remove(context.Background(), "never-existed.txt"))
}

func TestStorage_HealthCheckPassesOnValidRoot(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.HealthCheck(context.Background()))
}
