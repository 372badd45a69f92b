package depscan

import (
	"os"
	"path/filepath"

	"github.com/ecbuild/ecbuild/internal/fsutil"
)

// ResolveInclude resolves a spelled #include against the referring file's
// directory, then the graph's search paths, then the process working
// directory, in that order. Angle-bracket includes skip step 1 (the
// quoted-next-to-referrer lookup).
func ResolveInclude(d IncludeDirective, referringFile string, searchPaths []string) (resolved string, ok bool) {
	if d.Quoted {
		candidate := filepath.Join(filepath.Dir(referringFile), d.Spelling)
		if fsutil.Exists(candidate) {
			return fsutil.Normalize(candidate), true
		}
	}

	for _, dir := range searchPaths {
		candidate := filepath.Join(dir, d.Spelling)
		if fsutil.Exists(candidate) {
			return fsutil.Normalize(candidate), true
		}
	}

	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, d.Spelling)
		if fsutil.Exists(candidate) {
			return fsutil.Normalize(candidate), true
		}
	}

	return "", false
}
