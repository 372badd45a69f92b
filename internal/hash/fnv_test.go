package hash

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFNV1a64File(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "a.txt")
	assert.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	h1 := FNV1a64File(path)
	h2 := FNV1a64File(path)
	assert.NotEqual(t, Zero, h1)
	assert.Equal(t, h1, h2, "hashing the same content twice must be deterministic")

	assert.NoError(t, os.WriteFile(path, []byte("hello!"), 0644))
	h3 := FNV1a64File(path)
	assert.NotEqual(t, h1, h3, "changed content must produce a different hash")
}

func TestFNV1a64FileMissing(t *testing.T) {
	assert.Equal(t, Zero, FNV1a64File(filepath.Join(t.TempDir(), "does-not-exist.txt")))
}

func TestFNV1a64KnownVector(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.txt")
	assert.NoError(t, os.WriteFile(path, []byte{}, 0644))

	assert.Equal(t, offsetBasis64, FNV1a64File(path), "hashing zero bytes must leave the offset basis untouched")
}
