package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSourceFile(t *testing.T) {
	assert.True(t, IsTranslationUnit("a.c"))
	assert.True(t, IsTranslationUnit("a.cpp"))
	assert.True(t, IsTranslationUnit("a.cc"))
	assert.False(t, IsTranslationUnit("a.h"))

	assert.True(t, IsHeader("a.h"))
	assert.True(t, IsHeader("a.hpp"))
	assert.False(t, IsHeader("a.c"))

	assert.True(t, IsSourceFile("a.c"))
	assert.True(t, IsSourceFile("a.h"))
	assert.False(t, IsSourceFile("a.txt"))
}

func TestWalkRespectsDefaultExclusions(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.c"), []byte{}, 0644))

	vendored := filepath.Join(dir, "vendor")
	require.NoError(t, os.MkdirAll(vendored, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(vendored, "lib.c"), []byte{}, 0644))

	gitDir := filepath.Join(dir, ".git")
	require.NoError(t, os.MkdirAll(gitDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(gitDir, "hooks.c"), []byte{}, 0644))

	files, err := Walk(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "main.c")}, files)
}

func TestWalkHonorsExtraGlobExclude(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.c"), []byte{}, 0644))
	genDir := filepath.Join(dir, "generated")
	require.NoError(t, os.MkdirAll(genDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(genDir, "x.c"), []byte{}, 0644))

	files, err := Walk(dir, []string{"gen*"})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "main.c")}, files)
}

func TestExistsAndIsDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(file, []byte{}, 0644))

	assert.True(t, Exists(file))
	assert.False(t, Exists(dir))
	assert.True(t, IsDir(dir))
	assert.False(t, IsDir(file))
	assert.False(t, Exists(filepath.Join(dir, "missing")))
}
