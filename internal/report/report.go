// Package report prints the final build summary: counters and cache
// statistics, colorized via fatih/color when stdout looks like a
// terminal.
package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/ecbuild/ecbuild/internal/buildcache"
	"github.com/ecbuild/ecbuild/internal/pipeline"
)

// Summary is the data the orchestrator hands back to its caller (and to
// the optional telemetry sink).
type Summary struct {
	CompiledFiles   int64
	CachedFiles     int64
	FailedFiles     int64
	CompilationTime int64 // nanoseconds
	CacheHits       int64
	CacheMisses     int64
	Invalidations   int64
	LinkSucceeded   bool
	BinaryPath      string
}

// FromStats builds a Summary from the pipeline statistics and the cache's
// own counters.
func FromStats(stats *pipeline.Stats, cache *buildcache.Cache) Summary {
	return Summary{
		CompiledFiles:   stats.CompiledFiles,
		CachedFiles:     stats.CachedFiles,
		FailedFiles:     stats.FailedFiles,
		CompilationTime: stats.CompilationTime,
		CacheHits:       cache.Hits,
		CacheMisses:     cache.Misses,
		Invalidations:   cache.Invalidations,
	}
}

// Print writes the human-readable summary to w.
func Print(w io.Writer, s Summary) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Fprintf(w, "%s %d, %s %d, %s %d\n",
		yellow("compiled:"), s.CompiledFiles,
		green("cached:"), s.CachedFiles,
		red("failed:"), s.FailedFiles)
	fmt.Fprintf(w, "cache: %d hits, %d misses, %d invalidations\n", s.CacheHits, s.CacheMisses, s.Invalidations)

	if s.FailedFiles == 0 {
		if s.LinkSucceeded {
			fmt.Fprintf(w, "%s %s\n", green("linked:"), s.BinaryPath)
		}
	}
}
