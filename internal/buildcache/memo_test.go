package buildcache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashMemoReusesValueUntilMtimeChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.h")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0644))

	m := newHashMemo()
	h1 := m.hashPath(path)
	assert.Len(t, m.entries, 1)

	h2 := m.hashPath(path)
	assert.Equal(t, h1, h2)

	// bump mtime into the future so the test is robust to filesystems with
	// coarse mtime resolution.
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))
	require.NoError(t, os.WriteFile(path, []byte("v2"), 0644))
	require.NoError(t, os.Chtimes(path, future, future))

	h3 := m.hashPath(path)
	assert.NotEqual(t, h1, h3)
}

func TestHashMemoMissingFile(t *testing.T) {
	m := newHashMemo()
	assert.Equal(t, uint64(0), m.hashPath(filepath.Join(t.TempDir(), "missing.h")))
}
