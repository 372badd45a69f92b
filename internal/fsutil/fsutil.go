// Package fsutil implements path normalization, existence checks and the
// recursive directory scan that seeds the dependency graph.
package fsutil

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/ecbuild/ecbuild/internal/ecblog"
)

// DefaultExclusions is the always-on basename exclusion set.
var DefaultExclusions = map[string]struct{}{
	"build":       {},
	"builds":      {},
	".git":        {},
	".svn":        {},
	".hg":         {},
	"node_modules": {},
	"vendor":      {},
	"__pycache__": {},
	".eventchains": {},
	"CMakeFiles":  {},
	".vs":         {},
	".vscode":     {},
	".idea":       {},
}

// translationUnitExts and headerExts are the recognized source extensions.
var translationUnitExts = map[string]struct{}{".c": {}, ".cpp": {}, ".cc": {}}
var headerExts = map[string]struct{}{".h": {}, ".hpp": {}}

// Normalize folds separators to the platform-canonical one and cleans the
// result with filepath.Clean, which also drops trailing separators and
// collapses "." and ".." elements, so equal paths compare equal.
func Normalize(path string) string {
	return filepath.Clean(filepath.FromSlash(path))
}

// Exists reports whether path is a regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// IsDir reports whether path is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// IsTranslationUnit classifies a file as a compilable C/C++ source.
func IsTranslationUnit(path string) bool {
	_, ok := translationUnitExts[strings.ToLower(filepath.Ext(path))]
	return ok
}

// IsHeader classifies a file as a C/C++ header.
func IsHeader(path string) bool {
	_, ok := headerExts[strings.ToLower(filepath.Ext(path))]
	return ok
}

// IsSourceFile reports whether path is a translation unit or a header.
func IsSourceFile(path string) bool {
	return IsTranslationUnit(path) || IsHeader(path)
}

// buildExclusionMatcher returns a function that tests a basename against
// the default exclusions unioned with extra, glob-capable basename patterns
// (e.g. "test_*") supplied via -e/--exclude.
func buildExclusionMatcher(extra []string) func(basename string) bool {
	patterns := make([]string, 0, len(extra))
	literal := make(map[string]struct{}, len(extra))
	for _, e := range extra {
		if strings.ContainsAny(e, "*?[") {
			patterns = append(patterns, e)
		} else {
			literal[e] = struct{}{}
		}
	}

	return func(basename string) bool {
		if _, ok := DefaultExclusions[basename]; ok {
			return true
		}
		if _, ok := literal[basename]; ok {
			return true
		}
		for _, pat := range patterns {
			if ok, _ := doublestar.Match(pat, basename); ok {
				return true
			}
		}
		return false
	}
}

// Walk recursively scans root for C/C++ source files, honoring the default
// exclusion set unioned with extraExcludes (basenames or glob patterns).
// A subdirectory scan failure (e.g. permission denied) is logged and
// skipped rather than failing the whole walk.
//
// Immediate subdirectories are scanned concurrently, one errgroup
// goroutine each with no limit set on their number, since this is filesystem discovery,
// not task execution — compile tasks themselves still run strictly
// sequentially. The returned list is sorted so that graph insertion order
// stays deterministic regardless of goroutine completion order.
func Walk(root string, extraExcludes []string) ([]string, error) {
	excluded := buildExclusionMatcher(extraExcludes)
	root = Normalize(root)

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		results []string
	)

	g, _ := errgroup.WithContext(context.Background())
	for _, entry := range entries {
		entry := entry
		name := entry.Name()
		if name == "." || name == ".." {
			continue
		}
		full := filepath.Join(root, name)

		if entry.IsDir() {
			if excluded(name) {
				continue
			}
			g.Go(func() error {
				sub, walkErr := Walk(full, extraExcludes)
				if walkErr != nil {
					ecblog.Info(1, "skipping directory", full, "due to", walkErr)
					return nil
				}
				mu.Lock()
				results = append(results, sub...)
				mu.Unlock()
				return nil
			})
			continue
		}

		if IsSourceFile(full) {
			mu.Lock()
			results = append(results, full)
			mu.Unlock()
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Strings(results)
	return results, nil
}
