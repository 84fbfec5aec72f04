package corerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := IO("fsstorage.Create", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "io")
	assert.Contains(t, err.Error(), "disk full")
}

func TestError_IsComparesKind(t *testing.T) {
	a := IO("op-a", errors.New("x"))
	b := IO("op-b", errors.New("y"))
	c := Corruption("op-c", errors.New("z"))

	assert.True(t, errors.Is(a, b))
	assert.False(t, errors.Is(a, c))
}

func TestKindOf(t *testing.T) {
	err := JobFailure("materialize", errors.New("worker panicked"))

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindJobFailure, kind)

	_, ok = KindOf(errors.New("plain error"))
	assert.False(t, ok)
}

func TestKindOf_UnwrapsWrappedError(t *testing.T) {
	inner := Inconsistency("materialize.checkCoverage", errors.New("missing chunk"))
	wrapped := fmt.Errorf("orchestrator: %w", inner)

	kind, ok := KindOf(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindInconsistency, kind)
}
