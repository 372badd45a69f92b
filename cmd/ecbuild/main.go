// Command ecbuild is a zero-configuration C/C++ build driver: point it
// at a source directory and it discovers translation units, resolves
// their #include graph, compiles what changed, links, and reports.
package main

import (
	"fmt"
	"os"

	"github.com/ecbuild/ecbuild/internal/buildinfo"
	"github.com/ecbuild/ecbuild/internal/config"
	"github.com/ecbuild/ecbuild/internal/ecblog"
	"github.com/ecbuild/ecbuild/internal/orchestrator"
	"github.com/ecbuild/ecbuild/internal/report"
)

func failedStart(err interface{}) {
	_, _ = fmt.Fprintln(os.Stderr, "[ecbuild]", err)
	os.Exit(1)
}

func main() {
	cfg, showHelp, showVersion, err := config.Parse(os.Args[1:])
	if err != nil {
		failedStart(err)
	}

	if showVersion {
		fmt.Println(buildinfo.Version())
		os.Exit(0)
	}
	if showHelp {
		config.PrintUsage()
		os.Exit(0)
	}

	verbosity := 0
	if cfg.Verbose {
		verbosity = 1
	}
	if _, err := ecblog.Init("", verbosity, false); err != nil {
		failedStart(err)
	}

	summary, buildErr := orchestrator.Run(cfg)
	if summary != nil {
		report.Print(os.Stdout, *summary)
	}
	if buildErr != nil {
		_, _ = fmt.Fprintln(os.Stderr, "[ecbuild]", buildErr)
		os.Exit(1)
	}
	os.Exit(0)
}
