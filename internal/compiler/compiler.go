// Package compiler implements the compile/link driver: composing
// gcc-compatible command lines, auto-detecting a compiler, and invoking
// it as a subprocess.
package compiler

import (
	"os/exec"
	"path/filepath"

	"github.com/ecbuild/ecbuild/internal/config"
	"github.com/ecbuild/ecbuild/internal/ecberr"
	"github.com/ecbuild/ecbuild/internal/fsutil"
)

// Info describes a located compiler.
type Info struct {
	Kind config.CompilerKind
	Path string
}

// candidateOrder is the auto-detect search order.
var candidateOrder = []struct {
	kind config.CompilerKind
	name string
}{
	{config.CompilerGCC, "gcc"},
	{config.CompilerClang, "clang"},
	{config.CompilerMSVC, "cl"},
}

// Detect resolves which compiler to invoke. "auto" tries gcc, clang, cl
// in order via exec.LookPath (the portable equivalent of which/where);
// any other value looks up that specific binary. compilerPath, if set,
// overrides the located path outright.
func Detect(preferred config.CompilerKind, compilerPath string) (Info, error) {
	if compilerPath != "" {
		kind := preferred
		if kind == "" || kind == config.CompilerAuto {
			kind = config.CompilerGCC
		}
		return Info{Kind: kind, Path: compilerPath}, nil
	}

	if preferred != "" && preferred != config.CompilerAuto {
		for _, c := range candidateOrder {
			if c.kind == preferred {
				if path, err := exec.LookPath(c.name); err == nil {
					return Info{Kind: c.kind, Path: path}, nil
				}
				return Info{}, ecberr.New(ecberr.CompilerNotFound, string(preferred))
			}
		}
		return Info{}, ecberr.New(ecberr.CompilerNotFound, string(preferred))
	}

	for _, c := range candidateOrder {
		if path, err := exec.LookPath(c.name); err == nil {
			return Info{Kind: c.kind, Path: path}, nil
		}
	}
	return Info{}, ecberr.New(ecberr.CompilerNotFound, "none of gcc, clang, cl found in PATH")
}

// ObjectPathFor derives "<output_dir>/<basename-with-.o>" for source.
func ObjectPathFor(outputDir, source string) string {
	base := filepath.Base(source)
	return filepath.Join(outputDir, fsutil.ReplaceFileExt(base, ".o"))
}

// CompileArgs builds "<compiler> -c <source> -o <object> [-Ipath...] [cflags...]".
func CompileArgs(source, object string, cfg *config.BuildConfig) []string {
	args := make([]string, 0, 4+2*len(cfg.IncludePaths)+len(cfg.CFlags))
	args = append(args, "-c", source, "-o", object)
	for _, p := range cfg.IncludePaths {
		args = append(args, "-I"+p)
	}
	args = append(args, cfg.CFlags...)
	return args
}

// LinkArgs builds "<compiler> <objects...> -o <out>[.exe] [-Lpath...] [-llib...] [ldflags...]".
func LinkArgs(objects []string, cfg *config.BuildConfig) []string {
	outPath := filepath.Join(cfg.OutputDir, cfg.OutputBinaryName())

	args := make([]string, 0, len(objects)+2+2*len(cfg.LibraryPaths)+len(cfg.Libraries)+len(cfg.LDFlags))
	args = append(args, objects...)
	args = append(args, "-o", outPath)
	for _, p := range cfg.LibraryPaths {
		args = append(args, "-L"+p)
	}
	for _, l := range cfg.Libraries {
		args = append(args, "-l"+l)
	}
	args = append(args, cfg.LDFlags...)
	return args
}
