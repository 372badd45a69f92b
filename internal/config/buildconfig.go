package config

import (
	"path/filepath"
	"runtime"
	"strings"
)

// CompilerKind enumerates the compiler family ecbuild can target.
type CompilerKind string

const (
	CompilerAuto  CompilerKind = "auto"
	CompilerGCC   CompilerKind = "gcc"
	CompilerClang CompilerKind = "clang"
	CompilerMSVC  CompilerKind = "msvc"
)

// BuildConfig collects every option that shapes a single ecbuild invocation.
// It is the "HOW" that the pipeline and compiler driver consult; it is never
// mutated once Parse returns.
type BuildConfig struct {
	SourceDir     string
	Compiler      CompilerKind
	CompilerPath  string
	CFlags        []string
	LDFlags       []string
	IncludePaths  []string
	LibraryPaths  []string
	Libraries     []string
	OutputDir     string
	OutputBinary  string
	Verbose       bool
	Debug         bool
	Optimize      bool
	ParallelJobs  int64
	Clean         bool
	ExtraExcludes []string
	EventsAddr    string
}

// DefaultCFlags returns the baseline cflags before -g/-O2 are layered on.
func DefaultCFlags() []string {
	return []string{"-Wall"}
}

// Parse builds a BuildConfig from the CLI args, applying the full flag
// table below. It returns (cfg, showHelp, showVersion, error).
func Parse(args []string) (cfg *BuildConfig, showHelp, showVersion bool, err error) {
	help := CmdEnvBool("Print usage and exit.", false, "help", "")
	helpShort := CmdEnvBool("Print usage and exit.", false, "h", "")
	version := CmdEnvBool("Print version and exit.", false, "version", "")
	versionShort := CmdEnvBool("Print version and exit.", false, "V", "")
	verbose := CmdEnvBool("Print each compiler command.", false, "verbose", "ECBUILD_VERBOSE")
	verboseShort := CmdEnvBool("Print each compiler command.", false, "v", "")
	debug := CmdEnvBool("Add -g to cflags.", false, "debug", "ECBUILD_DEBUG")
	debugShort := CmdEnvBool("Add -g to cflags.", false, "d", "")
	noOptimize := CmdEnvBool("Disable default -O2.", false, "no-optimize", "ECBUILD_NO_OPTIMIZE")
	noOptimizeShort := CmdEnvBool("Disable default -O2.", false, "O0", "")
	output := CmdEnvString("Output binary name.", "program", "output", "ECBUILD_OUTPUT")
	outputShort := CmdEnvString("Output binary name.", "program", "o", "")
	buildDir := CmdEnvString("Output directory, resolved relative to the source dir.", "build", "build-dir", "ECBUILD_BUILD_DIR")
	buildDirShort := CmdEnvString("Output directory, resolved relative to the source dir.", "build", "b", "")
	jobs := CmdEnvInt("Parallel job count; accepted, clamped >= 1, not currently honored.", 1, "jobs", "ECBUILD_JOBS")
	jobsShort := CmdEnvInt("Parallel job count; accepted, clamped >= 1, not currently honored.", 1, "j", "")
	clean := CmdEnvBool("Remove the build directory before building.", false, "clean", "")
	cleanShort := CmdEnvBool("Remove the build directory before building.", false, "c", "")
	exclude := CmdEnvString("Additional directory-basename exclusions, comma-separated.", "", "exclude", "ECBUILD_EXCLUDE")
	excludeShort := CmdEnvString("Additional directory-basename exclusions, comma-separated.", "", "e", "")
	eventsAddr := CmdEnvString("Optional host:port of a build-event collector to stream progress to.", "", "events-addr", "ECBUILD_EVENTS_ADDR")

	if err = ParseCmdFlagsCombiningWithEnv(args); err != nil {
		return nil, false, false, err
	}

	showHelp = *help || *helpShort
	showVersion = *version || *versionShort
	if showHelp || showVersion {
		return nil, showHelp, showVersion, nil
	}

	sourceDir := "."
	if rest := TrailingArgs(); len(rest) > 0 {
		sourceDir = rest[0]
	}
	sourceDir, err = filepath.Abs(sourceDir)
	if err != nil {
		return nil, false, false, err
	}

	outBin := *output
	if *outputShort != "program" {
		outBin = *outputShort
	}
	outDir := *buildDir
	if *buildDirShort != "build" {
		outDir = *buildDirShort
	}
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(sourceDir, outDir)
	}

	jobN := *jobs
	if *jobsShort != 1 {
		jobN = *jobsShort
	}
	if jobN < 1 {
		jobN = 1
	}

	var excludes []string
	for _, csv := range []string{*exclude, *excludeShort} {
		if csv == "" {
			continue
		}
		for _, e := range strings.Split(csv, ",") {
			if e = strings.TrimSpace(e); e != "" {
				excludes = append(excludes, e)
			}
		}
	}

	cfg = &BuildConfig{
		SourceDir:     sourceDir,
		Compiler:      CompilerAuto,
		CFlags:        DefaultCFlags(),
		OutputDir:     outDir,
		OutputBinary:  outBin,
		Verbose:       *verbose || *verboseShort,
		Debug:         *debug || *debugShort,
		Optimize:      !(*noOptimize || *noOptimizeShort),
		ParallelJobs:  jobN,
		Clean:         *clean || *cleanShort,
		ExtraExcludes: excludes,
		EventsAddr:    *eventsAddr,
	}
	if cfg.Debug {
		cfg.CFlags = append(cfg.CFlags, "-g")
	}
	if cfg.Optimize {
		cfg.CFlags = append(cfg.CFlags, "-O2")
	}

	return cfg, false, false, nil
}

// OutputBinaryName returns the binary filename, with .exe appended on Windows.
func (cfg *BuildConfig) OutputBinaryName() string {
	if runtime.GOOS == "windows" && !strings.HasSuffix(cfg.OutputBinary, ".exe") {
		return cfg.OutputBinary + ".exe"
	}
	return cfg.OutputBinary
}
