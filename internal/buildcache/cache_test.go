package buildcache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecbuild/ecbuild/internal/depgraph"
)

func writeSource(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestNeedsRecompilationFreshSource(t *testing.T) {
	dir := t.TempDir()
	c := empty(dir)

	src := filepath.Join(dir, "m.c")
	writeSource(t, src, "int main(){}")

	assert.True(t, c.NeedsRecompilation(src), "a source with no cache entry is always a miss")
}

func TestNeedsRecompilationUnchanged(t *testing.T) {
	dir := t.TempDir()
	c := empty(dir)

	src := filepath.Join(dir, "m.c")
	writeSource(t, src, "int main(){}")
	c.Update(src, filepath.Join(dir, "m.o"), depgraph.New())

	assert.False(t, c.NeedsRecompilation(src))
}

func TestNeedsRecompilationSourceChanged(t *testing.T) {
	dir := t.TempDir()
	c := empty(dir)

	src := filepath.Join(dir, "m.c")
	writeSource(t, src, "int main(){}")
	c.Update(src, filepath.Join(dir, "m.o"), depgraph.New())

	writeSource(t, src, "int main(){ return 1; }")
	assert.True(t, c.NeedsRecompilation(src))
}

func TestNeedsRecompilationMissingDependencyIsTolerated(t *testing.T) {
	dir := t.TempDir()
	c := empty(dir)

	src := filepath.Join(dir, "m.c")
	writeSource(t, src, "int main(){}")
	c.Update(src, filepath.Join(dir, "m.o"), depgraph.New())
	c.Entries[src].Deps = []DepHash{{Path: filepath.Join(dir, "gone.h"), Hash: 12345}}

	assert.False(t, c.NeedsRecompilation(src), "a dependency file that no longer exists must not force a rebuild")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	projectDir := t.TempDir()
	c := empty(projectDir)

	src := filepath.Join(projectDir, "m.c")
	writeSource(t, src, "int main(){}")
	c.Update(src, filepath.Join(projectDir, "build", "m.o"), depgraph.New())

	require.NoError(t, Save(c))

	loaded, err := Load(projectDir)
	require.NoError(t, err)
	require.Contains(t, loaded.Entries, src)
	assert.Equal(t, c.Entries[src].SourceHash, loaded.Entries[src].SourceHash)
	assert.Equal(t, c.Entries[src].ObjectPath, loaded.Entries[src].ObjectPath)
	assert.True(t, loaded.Entries[src].Valid)
}

func TestLoadMissingFileDegradesToEmpty(t *testing.T) {
	c, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, c.Entries)
}

func TestLoadCorruptFileDegradesToEmpty(t *testing.T) {
	projectDir := t.TempDir()
	cacheDir := filepath.Join(projectDir, DirName)
	require.NoError(t, os.MkdirAll(cacheDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(cacheDir, FileName), []byte("not a cache file"), 0644))

	c, err := Load(projectDir)
	assert.Error(t, err, "a corrupt file must surface a describable error")
	assert.Empty(t, c.Entries, "but the returned cache must still be usable, empty rather than nil")
}

func TestResolveProjectDir(t *testing.T) {
	assert.Equal(t, "/repo", ResolveProjectDir("/repo/build"))
	assert.Equal(t, "/repo", ResolveProjectDir("/repo/build/"))
}

func TestInvalidateDependents(t *testing.T) {
	dir := t.TempDir()
	c := empty(dir)

	header := filepath.Join(dir, "a.h")
	src := filepath.Join(dir, "m.c")
	writeSource(t, src, "int main(){}")
	c.Entries[src] = &Entry{
		SourcePath: src,
		Valid:      true,
		Deps:       []DepHash{{Path: header, Hash: 1}},
	}

	c.InvalidateDependents(header)
	assert.False(t, c.Entries[src].Valid)
	assert.Equal(t, int64(1), c.Invalidations)
}
