// Package port declares the narrow capability interfaces the core depends
// on: Storage, Hasher, Compressor, JobRunner, and Chunker. Concrete
// implementations are collaborators living outside this package (see
// internal/adapter/...); the core never imports a concrete implementation.
package port

import (
	"context"
	"io"
)

// EntryKind tags a directory entry as a file or a subdirectory.
type EntryKind int

const (
	// EntryFile is a regular file entry.
	EntryFile EntryKind = iota
	// EntryDir is a subdirectory entry.
	EntryDir
)

// DirEntry is one entry returned by Storage.Enumerate.
type DirEntry struct {
	Name string
	Kind EntryKind
}

// Storage opens files as whole streams for read/write (there is no
// offset-based access), reports size, creates directories, enumerates
// directories, and renames files
// atomically. Two independent Storage instances are always passed to core
// operations (source tree and content store); they may be the same backend
// or different ones. All operations report success/failure; partial writes
// are never tolerated, since a failed Write must leave no caller-visible
// partial state for the core to reason about.
type Storage interface {
	// Open opens path for reading. Returns corerr-wrapped ErrNotExist style
	// errors (via errors.Is) when path is absent.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Create creates (or truncates) path for writing, creating parent
	// directories as needed.
	Create(ctx context.Context, path string) (io.WriteCloser, error)

	// Size reports the byte length of path.
	Size(ctx context.Context, path string) (int64, error)

	// Mkdir creates path and any missing parents.
	Mkdir(ctx context.Context, path string) error

	// Enumerate lists the immediate children of dir.
	Enumerate(ctx context.Context, dir string) ([]DirEntry, error)

	// Join joins path elements using the backend's separator.
	Join(elem ...string) string

	// Rename atomically renames oldPath to newPath. Implementations must
	// make the new name appear in one atomic step so a concurrent reader
	// never observes a partially written destination.
	Rename(ctx context.Context, oldPath, newPath string) error

	// Exists reports whether path is present, and if so, what kind it is.
	Exists(ctx context.Context, path string) (bool, EntryKind, error)

	// Remove deletes path. Used by writers to clean up temp files on error.
	Remove(ctx context.Context, path string) error
}
