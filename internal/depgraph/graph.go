// Package depgraph implements the in-memory dependency graph: file
// discovery via recursive add-file, topological sort, cycle detection,
// transitive closure and main/library classification.
//
// Nodes are stored in an arena addressed by a stable NodeIndex rather
// than as raw pointers carrying their own traversal flags — this removes
// the path-string search from Find (now a map lookup) and lets traversal
// state live in a separate, freshly allocated slice per traversal
// instead of being conflated with node identity.
package depgraph

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ecbuild/ecbuild/internal/depscan"
	"github.com/ecbuild/ecbuild/internal/ecberr"
	"github.com/ecbuild/ecbuild/internal/fsutil"
)

// Hard limits on graph size. These may be relaxed but some bound must
// always be enforced.
const (
	MaxFiles           = 1024
	MaxIncludesPerFile = 256
	MaxSearchPaths     = 64
)

// NodeIndex addresses a SourceNode within a Graph's arena.
type NodeIndex int

// SourceNode represents one discovered file.
type SourceNode struct {
	Path     string      // absolute, normalized
	IsHeader bool        // false => translation unit
	Includes []NodeIndex // resolved includes, in order of appearance
}

// Graph is the in-memory dependency graph. It is populated by AddFile,
// never mutated during sort or query, and its Nodes slice is the arena
// addressed by NodeIndex.
type Graph struct {
	Nodes       []*SourceNode
	pathIndex   map[string]NodeIndex
	insertOrder []NodeIndex // insertion order, for deterministic iteration
	SearchPaths []string
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		pathIndex: make(map[string]NodeIndex),
	}
}

// AddSearchPath appends a directory to the search-path list consulted for
// angle-bracket includes (and, secondarily, quoted includes not found next
// to the referring file).
func (g *Graph) AddSearchPath(dir string) error {
	if len(g.SearchPaths) >= MaxSearchPaths {
		return ecberr.New(ecberr.TooManyFiles, fmt.Sprintf("too many search paths (limit %d)", MaxSearchPaths))
	}
	g.SearchPaths = append(g.SearchPaths, fsutil.Normalize(dir))
	return nil
}

// Find looks up a node by its normalized path.
func (g *Graph) Find(path string) (*SourceNode, bool) {
	idx, ok := g.pathIndex[fsutil.Normalize(path)]
	if !ok {
		return nil, false
	}
	return g.Nodes[idx], true
}

// IndexOf returns the NodeIndex for path, if present.
func (g *Graph) IndexOf(path string) (NodeIndex, bool) {
	idx, ok := g.pathIndex[fsutil.Normalize(path)]
	return idx, ok
}

// AddFile discovers path, parses its #include directives, resolves each,
// and recursively adds every resolved include. It is idempotent: adding an
// already-present path is a no-op. Unresolved includes (system headers)
// are silently dropped from the node's edge list.
func (g *Graph) AddFile(path string) error {
	norm := fsutil.Normalize(path)
	if _, ok := g.pathIndex[norm]; ok {
		return nil
	}
	if !fsutil.IsSourceFile(norm) {
		return ecberr.New(ecberr.InvalidPath, fmt.Sprintf("not a C/C++ source file: %s", norm))
	}
	if !fsutil.Exists(norm) {
		return ecberr.New(ecberr.FileNotFound, norm)
	}
	if len(g.Nodes) >= MaxFiles {
		return ecberr.New(ecberr.TooManyFiles, fmt.Sprintf("limit of %d files exceeded", MaxFiles))
	}

	node := &SourceNode{Path: norm, IsHeader: fsutil.IsHeader(norm)}
	idx := NodeIndex(len(g.Nodes))
	g.Nodes = append(g.Nodes, node)
	g.pathIndex[norm] = idx
	g.insertOrder = append(g.insertOrder, idx)

	data, err := os.ReadFile(norm)
	if err != nil {
		return ecberr.Wrap(ecberr.FileNotFound, norm, err)
	}

	directives := depscan.ParseIncludes(data)
	for _, d := range directives {
		resolved, ok := depscan.ResolveInclude(d, norm, g.SearchPaths)
		if !ok {
			continue // system header or otherwise unresolved: not tracked, not an edge
		}

		if len(node.Includes) >= MaxIncludesPerFile {
			return ecberr.New(ecberr.TooManyIncludes, fmt.Sprintf("%s: limit of %d includes exceeded", norm, MaxIncludesPerFile))
		}

		if err := g.AddFile(resolved); err != nil {
			return err
		}
		depIdx, ok := g.IndexOf(resolved)
		if !ok {
			continue
		}
		node.Includes = append(node.Includes, depIdx)
	}

	return nil
}

// FindMain scans every translation unit for the textual occurrence of
// "int main" or "void main", first match wins, in insertion order. This is
// known-imprecise (may match inside comments/strings) — an accepted
// limitation of a textual scan with no real preprocessor behind it.
func (g *Graph) FindMain() (path string, ok bool) {
	for _, idx := range g.insertOrder {
		node := g.Nodes[idx]
		if node.IsHeader {
			continue
		}
		if hasMainFunction(node.Path) {
			return node.Path, true
		}
	}
	return "", false
}

func hasMainFunction(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.Contains(line, "int main") || strings.Contains(line, "void main") {
			return true
		}
	}
	return false
}

// LibrarySources returns every non-header translation unit that isn't the
// detected entry point.
func (g *Graph) LibrarySources() []string {
	mainPath, _ := g.FindMain()

	var libs []string
	for _, idx := range g.insertOrder {
		node := g.Nodes[idx]
		if node.IsHeader || node.Path == mainPath {
			continue
		}
		libs = append(libs, node.Path)
	}
	return libs
}

// AbsSearchDirs resolves SearchPaths relative to base for callers that
// build one from a source directory.
func AbsSearchDirs(base string, dirs []string) []string {
	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		if filepath.IsAbs(d) {
			out = append(out, d)
		} else {
			out = append(out, filepath.Join(base, d))
		}
	}
	return out
}
