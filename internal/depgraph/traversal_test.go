package depgraph

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitiveClosure(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.h"), []byte(""), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.h"), []byte(`#include "a.h"`+"\n"), 0644))
	main := filepath.Join(dir, "m.c")
	require.NoError(t, os.WriteFile(main, []byte(`#include "b.h"`+"\nint main() {}\n"), 0644))

	g := New()
	require.NoError(t, g.AddFile(main))

	buf := make([]string, 4)
	n, err := g.TransitiveClosure(main, buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.ElementsMatch(t, []string{filepath.Join(dir, "a.h"), filepath.Join(dir, "b.h")}, buf[:n])
}

func TestTransitiveClosureBoundedByBuffer(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.h"), []byte(""), 0644))
	main := filepath.Join(dir, "m.c")
	require.NoError(t, os.WriteFile(main, []byte(`#include "a.h"`+"\nint main() {}\n"), 0644))

	g := New()
	require.NoError(t, g.AddFile(main))

	buf := make([]string, 0)
	n, err := g.TransitiveClosure(main, buf)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "a zero-length buffer must bound the walk to nothing written, not panic")
}

func TestTransitiveClosureUnknownStart(t *testing.T) {
	g := New()
	_, err := g.TransitiveClosure("/does/not/exist.c", make([]string, 4))
	assert.Error(t, err)
}
