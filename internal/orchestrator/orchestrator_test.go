package orchestrator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecbuild/ecbuild/internal/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestDiscoverBuildsGraphAndFindsMain(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "util.c"), "void helper() {}\n")
	writeFile(t, filepath.Join(dir, "main.c"), `#include "util.c"`+"\nint main() { return 0; }\n")

	cfg := &config.BuildConfig{SourceDir: dir}
	graph, mainPath, err := discover(cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "main.c"), mainPath)
	assert.Len(t, graph.Nodes, 2)
}

func TestBuildChainSkipsHeadersAndOrdersCompileTasks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.h"), "")
	writeFile(t, filepath.Join(dir, "main.c"), `#include "a.h"`+"\nint main() {}\n")

	cfg := &config.BuildConfig{SourceDir: dir, OutputDir: filepath.Join(dir, "build")}
	graph, _, err := discover(cfg)
	require.NoError(t, err)

	order, err := graph.TopoSort()
	require.NoError(t, err)

	chain := buildChain(graph, order, cfg)
	require.Len(t, chain.Tasks, 1)
	assert.Contains(t, chain.Tasks[0].Name, "main.c")
}

func TestRunFailsWithoutAnyTranslationUnit(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.h"), "")

	cfg := &config.BuildConfig{
		SourceDir:    dir,
		OutputDir:    filepath.Join(dir, "build"),
		OutputBinary: "program",
		Compiler:     config.CompilerAuto,
		CompilerPath: "/bin/true", // bypasses compiler auto-detection entirely
	}

	_, err := Run(cfg)
	assert.Error(t, err, "a source tree with only headers must fail fast, never silently link nothing")
}
