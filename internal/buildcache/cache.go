// Package buildcache implements the persistent, content-hash-based
// incremental cache: a durable on-disk store mapping source path ->
// (content hash, dependency hashes, object path, timestamps), with
// atomic save and a purely content-driven staleness decision that
// survives build-directory deletion.
package buildcache

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ecbuild/ecbuild/internal/depgraph"
	"github.com/ecbuild/ecbuild/internal/ecberr"
	"github.com/ecbuild/ecbuild/internal/hash"
)

// FormatVersion is bumped whenever the on-disk record layout changes; a
// mismatch on load forces a clean cache rather than erroring.
const FormatVersion int32 = 1

// MaxDepsPerEntry bounds the number of direct-dependency hashes stored
// per entry.
const MaxDepsPerEntry = 128

// MaxEntries bounds the number of records trusted from an on-disk cache;
// a header claiming more is treated as corrupt.
const MaxEntries = 1 << 20

// DepHash pairs a direct dependency's path with its hash at last compile.
type DepHash struct {
	Path string
	Hash uint64
}

// Entry is the persisted state for one source file.
type Entry struct {
	SourcePath   string
	ObjectPath   string
	SourceHash   uint64
	SourceMtime  int64
	LastCompiled int64
	Deps         []DepHash
	Valid        bool
}

// Cache is the full persistent cache, one per project directory.
type Cache struct {
	Version    int32
	Entries    map[string]*Entry
	ProjectDir string
	CacheDir   string

	Hits          int64
	Misses        int64
	Invalidations int64

	memo *hashMemo
}

// DirName is the fixed subdirectory name under the project directory.
const DirName = ".eventchains"

// FileName is the cache file's name within CacheDir.
const FileName = "cache.dat"

// empty builds a fresh, empty cache rooted at projectDir.
func empty(projectDir string) *Cache {
	return &Cache{
		Version:    FormatVersion,
		Entries:    make(map[string]*Entry),
		ProjectDir: projectDir,
		CacheDir:   filepath.Join(projectDir, DirName),
		memo:       newHashMemo(),
	}
}

// ResolveProjectDir derives the project directory from the output
// directory: strip a trailing slash; if the cleaned path has a parent
// other than "." and other than itself (any absolute path below the root,
// or a relative path of two or more elements), that parent is the project
// dir; otherwise (a single relative element such as "build", or the root)
// the output dir itself is the project dir.
func ResolveProjectDir(outputDir string) string {
	trimmed := filepath.Clean(outputDir)
	parent := filepath.Dir(trimmed)
	if parent != "" && parent != "." && parent != trimmed {
		return parent
	}
	return trimmed
}

// Init loads or creates the cache rooted at projectDir. A load failure is
// never fatal: it degrades to an empty cache.
func Init(projectDir string) (*Cache, error) {
	c, err := Load(projectDir)
	if err != nil {
		return empty(projectDir), err
	}
	return c, nil
}

// NeedsRecompilation decides staleness for source:
//  1. no entry or entry invalid -> miss
//  2. current source hash is Zero -> miss
//  3. current hash != stored source hash -> miss
//  4. any stored dependency whose current hash is nonzero and mismatched -> miss
//     (a missing dependency file, hash Zero, is tolerated: treated as unchanged)
//  5. otherwise -> hit
//
// Object-file existence is deliberately NOT checked here; that is the
// cache middleware's job, keeping this decision purely content-driven so
// it survives build-directory deletion.
func (c *Cache) NeedsRecompilation(source string) bool {
	entry, ok := c.Entries[source]
	if !ok || !entry.Valid {
		return true
	}

	currentHash := c.memo.hashPath(source)
	if currentHash == hash.Zero {
		return true
	}
	if currentHash != entry.SourceHash {
		return true
	}

	for _, dep := range entry.Deps {
		depHash := c.memo.hashPath(dep.Path)
		if depHash == hash.Zero {
			continue // missing dependency file tolerated, e.g. a system header
		}
		if depHash != dep.Hash {
			return true
		}
	}

	return false
}

// Update upserts the entry for source after a successful compile, storing
// its current content hash, its modification time, the compile time, and
// the direct includes from the dependency graph (bounded to
// MaxDepsPerEntry).
func (c *Cache) Update(source, object string, g *depgraph.Graph) {
	node, ok := g.Find(source)
	deps := make([]DepHash, 0)
	if ok {
		for i, depIdx := range node.Includes {
			if i >= MaxDepsPerEntry {
				break
			}
			depNode := g.Nodes[depIdx]
			deps = append(deps, DepHash{Path: depNode.Path, Hash: c.memo.hashPath(depNode.Path)})
		}
	}

	var mtime int64
	if info, err := os.Stat(source); err == nil {
		mtime = info.ModTime().Unix()
	}

	now := time.Now().Unix()
	c.Entries[source] = &Entry{
		SourcePath:   source,
		ObjectPath:   object,
		SourceHash:   c.memo.hashPath(source),
		SourceMtime:  mtime,
		LastCompiled: now,
		Deps:         deps,
		Valid:        true,
	}
}

// Invalidate clears the validity tombstone on source's entry, if present.
func (c *Cache) Invalidate(path string) {
	if e, ok := c.Entries[path]; ok {
		e.Valid = false
		c.Invalidations++
	}
}

// InvalidateDependents clears validity on every entry that lists changed
// as a direct dependency. Deeper invalidation is realized only across
// multiple rebuild cycles, as each level's own hash changes propagate on
// the next inclusion-hash recheck — a documented limitation of
// direct-only tracking.
func (c *Cache) InvalidateDependents(changed string) {
	for _, e := range c.Entries {
		for _, dep := range e.Deps {
			if dep.Path == changed {
				e.Valid = false
				c.Invalidations++
				break
			}
		}
	}
}

// overflowError reports an over-limit condition when loading an untrusted
// on-disk entry count.
func overflowError(n int64) error {
	return ecberr.New(ecberr.CacheCorrupt, fmt.Sprintf("cache entry count %d exceeds limit %d", n, MaxEntries))
}
