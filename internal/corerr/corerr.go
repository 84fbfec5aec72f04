// Package corerr defines the error taxonomy shared by every core package:
// IO, Corruption, Inconsistency, and JobFailure, as named by the engine's
// error handling design. Operations return these instead of panicking so a
// caller can branch on Kind with errors.As.
package corerr

import (
	"errors"
	"fmt"
)

// Kind classifies why an operation failed.
type Kind string

const (
	// KindIO covers open/read/write/rename/enumerate failures from a Storage backend.
	KindIO Kind = "io"

	// KindCorruption covers framing mismatches: a trailer that disagrees with
	// file length, a decompressed length that disagrees with the declared
	// length, or a hash lookup that must succeed but doesn't.
	KindCorruption Kind = "corruption"

	// KindInconsistency covers a chunk referenced by a VersionIndex that is
	// absent from the ContentIndex supplied for materialization.
	KindInconsistency Kind = "inconsistency"

	// KindJobFailure covers at least one parallel job reporting failure.
	KindJobFailure Kind = "job_failure"
)

// Error is the concrete error type returned by core operations.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, &corerr.Error{Kind: corerr.KindIO}) style checks
// work against the Kind by comparing against a sentinel-ish *Error with only
// Kind set.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newErr(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// IO wraps err as a KindIO error attributed to op.
func IO(op string, err error) *Error { return newErr(KindIO, op, err) }

// Corruption wraps err as a KindCorruption error attributed to op.
func Corruption(op string, err error) *Error { return newErr(KindCorruption, op, err) }

// Inconsistency wraps err as a KindInconsistency error attributed to op.
func Inconsistency(op string, err error) *Error { return newErr(KindInconsistency, op, err) }

// JobFailure wraps err as a KindJobFailure error attributed to op.
func JobFailure(op string, err error) *Error { return newErr(KindJobFailure, op, err) }

// KindOf reports the Kind of err, if it (or something it wraps) is an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// Sentinel errors used by adapters and core components alike, following the
// package-level var Err... pattern.
var (
	// ErrBlockExists indicates a write was skipped because the block's final
	// name already exists; this is treated as a no-op success by the writer.
	ErrBlockExists = errors.New("block already exists")

	// ErrChunkNotFound indicates a chunk hash has no entry in an index.
	ErrChunkNotFound = errors.New("chunk not found")

	// ErrAssetNotFound indicates a path has no entry in a VersionIndex.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrNotExist indicates a Storage path does not exist.
	ErrNotExist = errors.New("path does not exist")
)
