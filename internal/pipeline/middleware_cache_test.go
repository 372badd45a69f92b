package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecbuild/ecbuild/internal/buildcache"
	"github.com/ecbuild/ecbuild/internal/depgraph"
)

func buildGraphWithOneSource(t *testing.T, dir string) (*depgraph.Graph, string) {
	t.Helper()
	src := filepath.Join(dir, "m.c")
	require.NoError(t, os.WriteFile(src, []byte("int main(){}"), 0644))

	g := depgraph.New()
	require.NoError(t, g.AddFile(src))
	return g, src
}

func TestCacheMiddlewareHeaderAlwaysHits(t *testing.T) {
	dir := t.TempDir()
	header := filepath.Join(dir, "a.h")
	require.NoError(t, os.WriteFile(header, []byte(""), 0644))

	g := depgraph.New()
	node := &depgraph.SourceNode{Path: header, IsHeader: true}
	cache, err := buildcache.Init(dir)
	require.NoError(t, err)

	called := false
	mw := CacheMiddleware(cache)
	handler := mw(func(t *Task, ctx *Context) Result {
		called = true
		return Result{Success: true}
	})

	task := &Task{Payload: &CompilePayload{Node: node}}
	ctx := NewContext()
	ctx.Set(KeyDependencyGraph, g)

	result := handler(task, ctx)
	assert.True(t, result.Success)
	assert.True(t, task.CacheHit)
	assert.False(t, called, "a header payload must never reach the compile step")
}

func TestCacheMiddlewareMissCompilesAndUpdatesCache(t *testing.T) {
	dir := t.TempDir()
	g, src := buildGraphWithOneSource(t, dir)
	cache, err := buildcache.Init(dir)
	require.NoError(t, err)
	object := filepath.Join(dir, "m.o")

	mw := CacheMiddleware(cache)
	handler := mw(func(task *Task, ctx *Context) Result {
		require.NoError(t, os.WriteFile(object, []byte{}, 0644))
		task.ObjectPath = object
		return Result{Success: true}
	})

	task := &Task{Payload: &CompilePayload{Node: mustFind(t, g, src), ObjectPath: object}}
	ctx := NewContext()
	ctx.Set(KeyDependencyGraph, g)

	result := handler(task, ctx)
	assert.True(t, result.Success)
	assert.False(t, task.CacheHit)
	assert.Contains(t, cache.Entries, src)
}

func TestCacheMiddlewareHitShortCircuitsWhenObjectExists(t *testing.T) {
	dir := t.TempDir()
	g, src := buildGraphWithOneSource(t, dir)
	object := filepath.Join(dir, "m.o")
	require.NoError(t, os.WriteFile(object, []byte{}, 0644))

	cache, err := buildcache.Init(dir)
	require.NoError(t, err)
	cache.Update(src, object, g)

	called := false
	mw := CacheMiddleware(cache)
	handler := mw(func(task *Task, ctx *Context) Result {
		called = true
		return Result{Success: true}
	})

	task := &Task{Payload: &CompilePayload{Node: mustFind(t, g, src), ObjectPath: object}}
	ctx := NewContext()
	ctx.Set(KeyDependencyGraph, g)

	result := handler(task, ctx)
	assert.True(t, result.Success)
	assert.True(t, task.CacheHit)
	assert.False(t, called, "an up-to-date entry with its object file present must short-circuit")
}

func TestCacheMiddlewareHitButObjectMissingFallsThrough(t *testing.T) {
	dir := t.TempDir()
	g, src := buildGraphWithOneSource(t, dir)
	object := filepath.Join(dir, "m.o") // never created on disk

	cache, err := buildcache.Init(dir)
	require.NoError(t, err)
	cache.Update(src, object, g)

	called := false
	mw := CacheMiddleware(cache)
	handler := mw(func(task *Task, ctx *Context) Result {
		called = true
		task.ObjectPath = object
		return Result{Success: true}
	})

	task := &Task{Payload: &CompilePayload{Node: mustFind(t, g, src), ObjectPath: object}}
	ctx := NewContext()
	ctx.Set(KeyDependencyGraph, g)

	result := handler(task, ctx)
	assert.True(t, result.Success)
	assert.False(t, task.CacheHit, "metadata survived but the object file didn't: must recompile, not claim a cache hit")
	assert.True(t, called)
}

func mustFind(t *testing.T, g *depgraph.Graph, path string) *depgraph.SourceNode {
	t.Helper()
	node, ok := g.Find(path)
	require.True(t, ok)
	return node
}
