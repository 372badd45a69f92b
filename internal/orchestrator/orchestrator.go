// Package orchestrator implements the build driver: it wires the
// dependency graph, the persistent cache, and the middleware-composed
// pipeline into the five phases of a single build invocation.
package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ecbuild/ecbuild/internal/buildcache"
	"github.com/ecbuild/ecbuild/internal/compiler"
	"github.com/ecbuild/ecbuild/internal/config"
	"github.com/ecbuild/ecbuild/internal/depgraph"
	"github.com/ecbuild/ecbuild/internal/ecberr"
	"github.com/ecbuild/ecbuild/internal/ecblog"
	"github.com/ecbuild/ecbuild/internal/eventsvc"
	"github.com/ecbuild/ecbuild/internal/fsutil"
	"github.com/ecbuild/ecbuild/internal/pipeline"
	"github.com/ecbuild/ecbuild/internal/report"
)

// Run drives one complete build: discovery, cache init, chain
// construction, sequential compilation, link, and reporting. It never
// panics on a recoverable condition (a corrupt cache, a dropped
// include); it returns an error only for the fatal kinds enumerated in
// ecberr.Kind.IsFatal.
func Run(cfg *config.BuildConfig) (*report.Summary, error) {
	if cfg.Clean {
		if err := os.RemoveAll(cfg.OutputDir); err != nil && !os.IsNotExist(err) {
			ecblog.Error("clean: failed to remove", cfg.OutputDir, err)
		}
	}
	if err := fsutil.MkdirForFile(compiler.ObjectPathFor(cfg.OutputDir, "placeholder.c")); err != nil {
		return nil, ecberr.Wrap(ecberr.InvalidPath, "creating output directory", err)
	}

	// Phase 0: cache init. A corrupt or unreadable cache degrades to an
	// empty one rather than aborting the build.
	projectDir := buildcache.ResolveProjectDir(cfg.OutputDir)
	cache, cacheErr := buildcache.Init(projectDir)
	if cacheErr != nil {
		ecblog.Info(1, "cache: starting clean,", cacheErr)
	}

	compilerInfo, err := compiler.Detect(cfg.Compiler, cfg.CompilerPath)
	if err != nil {
		return nil, err
	}

	graph, mainPath, err := discover(cfg)
	if err != nil {
		return nil, err
	}
	if mainPath == "" {
		ecblog.Info(1, "no main() found under", cfg.SourceDir, "- linking as a library build")
	}

	order, err := graph.TopoSort()
	if err != nil {
		return nil, err
	}

	publisher := eventsvc.Dial(cfg.EventsAddr)
	defer publisher.Close()

	chain := buildChain(graph, order, cfg)
	if len(chain.Tasks) == 0 {
		return nil, ecberr.New(ecberr.FileNotFound, "no translation units found under "+cfg.SourceDir)
	}

	stats := pipeline.NewStats()
	attachMiddlewares(chain, cache, stats, cfg)

	pctx := pipeline.NewContext()
	pctx.Set(pipeline.KeyDependencyGraph, graph)
	pctx.Set(pipeline.KeyBuildConfig, cfg)
	pctx.Set(compilerInfoKey, compilerInfo)

	publisher.Publish(eventsvc.BuildEvent{Kind: eventsvc.BuildStarted, SourceDir: cfg.SourceDir})

	outcomes := chain.Run(pctx)

	for _, o := range outcomes {
		publisher.Publish(eventsvc.BuildEvent{
			Kind:          eventsvc.TaskFinished,
			TaskName:      o.Task.Name,
			Success:       o.Result.Success,
			CacheHit:      o.Task.CacheHit,
			ElapsedMillis: o.Task.Elapsed.Milliseconds(),
		})
	}

	summary := report.FromStats(stats, cache)

	var firstFailure error
	for _, o := range outcomes {
		if !o.Result.Success {
			firstFailure = o.Result.Err
			break
		}
	}

	if firstFailure == nil {
		summary.LinkSucceeded, summary.BinaryPath, err = link(compilerInfo, pctx, order, cfg)
		if err != nil {
			firstFailure = err
		}
	}

	if saveErr := buildcache.Save(cache); saveErr != nil {
		ecblog.Error("cache: save failed,", saveErr)
	}

	publisher.Publish(eventsvc.BuildEvent{
		Kind:          eventsvc.BuildFinished,
		Success:       firstFailure == nil,
		CompiledFiles: summary.CompiledFiles,
		CachedFiles:   summary.CachedFiles,
		FailedFiles:   summary.FailedFiles,
	})

	return &summary, firstFailure
}

// discover walks SourceDir, builds the dependency graph from every
// discovered translation unit, and identifies the program entry point.
func discover(cfg *config.BuildConfig) (*depgraph.Graph, string, error) {
	files, err := fsutil.Walk(cfg.SourceDir, cfg.ExtraExcludes)
	if err != nil {
		return nil, "", ecberr.Wrap(ecberr.FileNotFound, cfg.SourceDir, err)
	}

	graph := depgraph.New()
	for _, dir := range depgraph.AbsSearchDirs(cfg.SourceDir, cfg.IncludePaths) {
		if err := graph.AddSearchPath(dir); err != nil {
			return nil, "", err
		}
	}
	// the source tree itself is always a search path, for quoted includes
	// resolved relative to a common include root rather than the includer.
	_ = graph.AddSearchPath(cfg.SourceDir)

	for _, f := range files {
		if fsutil.IsTranslationUnit(f) {
			if err := graph.AddFile(f); err != nil {
				return nil, "", err
			}
		}
	}

	mainPath, _ := graph.FindMain()
	return graph, mainPath, nil
}

// buildChain creates one compile Task per non-header file in topological
// order.
func buildChain(graph *depgraph.Graph, order []string, cfg *config.BuildConfig) *pipeline.Chain {
	chain := pipeline.NewChain(pipeline.StrictPolicy)

	for _, path := range order {
		node, ok := graph.Find(path)
		if !ok || node.IsHeader {
			continue
		}

		object := compiler.ObjectPathFor(cfg.OutputDir, node.Path)
		payload := &pipeline.CompilePayload{Node: node, Config: cfg, ObjectPath: object}

		task := &pipeline.Task{
			Name:    pipeline.CompileTaskName(node.Path),
			Payload: payload,
		}
		task.Execute = func(ctx *pipeline.Context) pipeline.Result {
			return runCompile(ctx, task, payload)
		}
		chain.AddTask(task)
	}

	return chain
}

// runCompile invokes the detected compiler against one translation unit.
// It is the pipeline task's innermost Execute, called after every
// middleware layer has had a chance to short-circuit.
func runCompile(ctx *pipeline.Context, t *pipeline.Task, payload *pipeline.CompilePayload) pipeline.Result {
	infoVal, _ := ctx.Get(compilerInfoKey)
	info, _ := infoVal.(compiler.Info)

	args := compiler.CompileArgs(payload.Node.Path, payload.ObjectPath, payload.Config)
	res, err := compiler.Run(context.Background(), info.Path, args, payload.Config.SourceDir)
	if err != nil {
		return pipeline.Result{Success: false, Err: err, Kind: ecberr.CompilationFailed}
	}
	if !res.Success {
		return pipeline.Result{
			Success: false,
			Err:     ecberr.New(ecberr.CompilationFailed, fmt.Sprintf("%s: exit %d: %s", payload.Node.Path, res.ExitCode, res.Stderr)),
			Kind:    ecberr.CompilationFailed,
		}
	}

	t.ObjectPath = payload.ObjectPath
	return pipeline.Result{Success: true}
}

// compilerInfoKey threads the detected compiler.Info through the shared
// pipeline.Context so compile tasks don't each re-run detection.
const compilerInfoKey = "compiler.info"

// attachMiddlewares wires the middlewares in attach order: timing,
// cache, logging, statistics — since the last-attached middleware ends
// up outermost, this composes to the runtime order
// Statistics -> Logging -> Cache -> Timing -> task.
//
// Statistics and Logging must wrap Cache, not sit inside it: on a cache
// hit CacheMiddleware returns without calling next at all, so anything
// nested inside it never runs. Statistics needs to observe t.CacheHit
// on every task, hit or miss, to keep cached_files accurate, and Logging
// needs the same to print its "cached" line. Timing can safely sit
// inside Cache, since CacheMiddleware sets t.Elapsed = 0 itself on a hit.
func attachMiddlewares(chain *pipeline.Chain, cache *buildcache.Cache, stats *pipeline.Stats, cfg *config.BuildConfig) {
	chain.Attach(pipeline.TimingMiddleware(cfg.Verbose))
	chain.Attach(pipeline.CacheMiddleware(cache))
	chain.Attach(pipeline.LoggingMiddleware(!cfg.Verbose))
	chain.Attach(pipeline.StatisticsMiddleware(stats))
}

// link gathers every compiled task's object path (cache hits included,
// since their .o files are reused as-is) and invokes the linker.
func link(info compiler.Info, ctx *pipeline.Context, order []string, cfg *config.BuildConfig) (bool, string, error) {
	var objects []string
	for _, path := range order {
		if v, ok := ctx.Get(pipeline.ObjectKey(path)); ok {
			objects = append(objects, v.(string))
		}
	}
	if len(objects) == 0 {
		return false, "", ecberr.New(ecberr.LinkFailed, "no object files produced")
	}

	args := compiler.LinkArgs(objects, cfg)
	res, err := compiler.Run(context.Background(), info.Path, args, cfg.SourceDir)
	if err != nil {
		return false, "", ecberr.Wrap(ecberr.LinkFailed, "invoking linker", err)
	}
	if !res.Success {
		return false, "", ecberr.New(ecberr.LinkFailed, fmt.Sprintf("exit %d: %s", res.ExitCode, res.Stderr))
	}

	ecblog.Info(0, "link finished in", res.Elapsed)
	return true, filepath.Join(cfg.OutputDir, cfg.OutputBinaryName()), nil
}
