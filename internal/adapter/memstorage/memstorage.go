// Package memstorage is an in-memory internal/port.Storage, used by tests
// in place of a real filesystem.
package memstorage

import (
	"bytes"
	"context"
	"io"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/prn-tf/contentstore/internal/corerr"
	"github.com/prn-tf/contentstore/internal/port"
)

// Storage is a path -> bytes map guarded by a single mutex; adequate for
// tests, not for production volumes.
type Storage struct {
	mu    sync.RWMutex
	files map[string][]byte
	dirs  map[string]bool
}

// New returns an empty Storage.
func New() *Storage {
	return &Storage{
		files: make(map[string][]byte),
		dirs:  map[string]bool{"": true},
	}
}

func clean(p string) string {
	return strings.TrimPrefix(path.Clean("/"+p), "/")
}

type writeBuf struct {
	s    *Storage
	path string
	buf  bytes.Buffer
}

func (w *writeBuf) Write(p []byte) (int, error) { return w.buf.Write(p) }

func (w *writeBuf) Close() error {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	w.s.files[w.path] = append([]byte(nil), w.buf.Bytes()...)
	w.s.ensureParents(w.path)
	return nil
}

func (s *Storage) ensureParents(p string) {
	for dir := path.Dir(p); dir != "." && dir != "/"; dir = path.Dir(dir) {
		s.dirs[clean(dir)] = true
	}
}

func (s *Storage) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	p = clean(p)
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.files[p]
	if !ok {
		return nil, corerr.IO("memstorage.Open", corerr.ErrNotExist)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *Storage) Create(ctx context.Context, p string) (io.WriteCloser, error) {
	return &writeBuf{s: s, path: clean(p)}, nil
}

func (s *Storage) Size(ctx context.Context, p string) (int64, error) {
	p = clean(p)
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.files[p]
	if !ok {
		return 0, corerr.IO("memstorage.Size", corerr.ErrNotExist)
	}
	return int64(len(data)), nil
}

func (s *Storage) Mkdir(ctx context.Context, p string) error {
	p = clean(p)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirs[p] = true
	s.ensureParents(p + "/x")
	return nil
}

func (s *Storage) Enumerate(ctx context.Context, dir string) ([]port.DirEntry, error) {
	dir = clean(dir)
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]port.EntryKind)
	add := func(name string, kind port.EntryKind) {
		if existing, ok := seen[name]; !ok || existing == port.EntryFile {
			seen[name] = kind
		}
	}

	for p := range s.files {
		if path.Dir(p) == dir || (dir == "" && path.Dir(p) == ".") {
			add(path.Base(p), port.EntryFile)
		}
	}
	for d := range s.dirs {
		if d == dir || d == "" {
			continue
		}
		if path.Dir(d) == dir || (dir == "" && !strings.Contains(d, "/")) {
			add(path.Base(d), port.EntryDir)
		}
	}

	out := make([]port.DirEntry, 0, len(seen))
	for name, kind := range seen {
		out = append(out, port.DirEntry{Name: name, Kind: kind})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Storage) Join(elem ...string) string {
	return path.Join(elem...)
}

func (s *Storage) Rename(ctx context.Context, oldPath, newPath string) error {
	oldPath, newPath = clean(oldPath), clean(newPath)
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[oldPath]
	if !ok {
		return corerr.IO("memstorage.Rename", corerr.ErrNotExist)
	}
	s.files[newPath] = data
	delete(s.files, oldPath)
	s.ensureParents(newPath)
	return nil
}

func (s *Storage) Exists(ctx context.Context, p string) (bool, port.EntryKind, error) {
	p = clean(p)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.files[p]; ok {
		return true, port.EntryFile, nil
	}
	if s.dirs[p] {
		return true, port.EntryDir, nil
	}
	return false, 0, nil
}

func (s *Storage) Remove(ctx context.Context, p string) error {
	p = clean(p)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, p)
	return nil
}

var _ port.Storage = (*Storage)(nil)
