package pipeline

import (
	"github.com/ecbuild/ecbuild/internal/buildcache"
	"github.com/ecbuild/ecbuild/internal/depgraph"
	"github.com/ecbuild/ecbuild/internal/fsutil"
)

// CacheMiddleware is the central caching decision:
//  1. non-compile task -> pass through
//  2. header payload -> immediate cache hit, never compiled
//  3. cache says unchanged AND object exists on disk -> cache hit,
//     short-circuit (no next call)
//  4. cache says unchanged BUT object missing -> cache metadata survived
//     build-dir deletion but artifacts didn't: fall through to compile,
//     without marking cache_hit
//  5. cache says changed -> fall through to compile
//
// After next returns successfully, the cache entry is updated from the
// dependency graph found in ctx under KeyDependencyGraph.
func CacheMiddleware(cache *buildcache.Cache) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(t *Task, ctx *Context) Result {
			payload, isCompile := t.Payload.(*CompilePayload)
			if !isCompile {
				return next(t, ctx)
			}

			if payload.Node.IsHeader {
				t.CacheHit = true
				return Result{Success: true}
			}

			source := payload.Node.Path
			objectPath := payload.ObjectPath

			if !cache.NeedsRecompilation(source) {
				cache.Hits++
				if fsutil.Exists(objectPath) {
					t.CacheHit = true
					t.Elapsed = 0
					t.ObjectPath = objectPath
					ctx.Set(ObjectKey(source), objectPath)
					return Result{Success: true}
				}
				// metadata survived, artifacts didn't: compile, don't mark cache_hit
			} else {
				cache.Misses++
			}

			result := next(t, ctx)
			if result.Success {
				graphVal, _ := ctx.Get(KeyDependencyGraph)
				if graph, ok := graphVal.(*depgraph.Graph); ok {
					cache.Update(source, t.ObjectPath, graph)
				}
				ctx.Set(ObjectKey(source), t.ObjectPath)
			}
			return result
		}
	}
}
