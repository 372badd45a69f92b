package config

import "flag"

// resetFlagsForTest clears the package-level flag registry between
// table-driven Parse calls: flag.CommandLine and allCmdLineArgs are
// process-global, and a second Parse would otherwise panic on
// "flag redefined".
func resetFlagsForTest() {
	flag.CommandLine = flag.NewFlagSet("", flag.ContinueOnError)
	allCmdLineArgs = nil
}
