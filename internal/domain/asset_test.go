package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDirPath(t *testing.T) {
	assert.True(t, IsDirPath("a/b/"))
	assert.False(t, IsDirPath("a/b"))
	assert.False(t, IsDirPath(""))
}

func TestAsset_IsDir(t *testing.T) {
	assert.True(t, Asset{Path: "dir/"}.IsDir())
	assert.False(t, Asset{Path: "file.txt"}.IsDir())
}
