// This module provides integration of the flag package with environment
// variables, so that any ecbuild flag declared with an env name can also
// be set as that ECBUILD_* env var.

package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
)

type cmdLineArg interface {
	flag.Value
	isFlagSet() bool
	getCmdName() string
	getEnvName() string
	getDescription() string
}

var allCmdLineArgs []cmdLineArg

type cmdLineArgString struct {
	cmdName, envName, usage string
	isSet                   bool
	defaultValue, value     string
}

func (s *cmdLineArgString) String() string { return s.value }
func (s *cmdLineArgString) Set(v string) error {
	s.isSet = true
	s.value = v
	return nil
}
func (s *cmdLineArgString) getCmdName() string     { return s.cmdName }
func (s *cmdLineArgString) getEnvName() string      { return s.envName }
func (s *cmdLineArgString) getDescription() string  { return s.usage }
func (s *cmdLineArgString) isFlagSet() bool         { return s.isSet }

type cmdLineArgBool struct {
	cmdName, envName, usage string
	isSet                   bool
	defaultValue, value     bool
}

func (s *cmdLineArgBool) String() string { return strconv.FormatBool(s.value) }
func (s *cmdLineArgBool) Set(v string) error {
	s.isSet = true
	b, err := strconv.ParseBool(v)
	if err != nil {
		return err
	}
	s.value = b
	return nil
}
func (s *cmdLineArgBool) IsBoolFlag() bool         { return true }
func (s *cmdLineArgBool) getCmdName() string       { return s.cmdName }
func (s *cmdLineArgBool) getEnvName() string       { return s.envName }
func (s *cmdLineArgBool) getDescription() string   { return s.usage }
func (s *cmdLineArgBool) isFlagSet() bool          { return s.isSet }

type cmdLineArgInt struct {
	cmdName, envName, usage string
	isSet                   bool
	defaultValue, value     int64
}

func (s *cmdLineArgInt) String() string { return strconv.FormatInt(s.value, 10) }
func (s *cmdLineArgInt) Set(v string) error {
	s.isSet = true
	n, err := strconv.ParseInt(v, 10, 0)
	if err != nil {
		return err
	}
	s.value = n
	return nil
}
func (s *cmdLineArgInt) getCmdName() string      { return s.cmdName }
func (s *cmdLineArgInt) getEnvName() string      { return s.envName }
func (s *cmdLineArgInt) getDescription() string  { return s.usage }
func (s *cmdLineArgInt) isFlagSet() bool         { return s.isSet }

func initCmdFlag(s cmdLineArg, cmdName, usage string) {
	if cmdName != "" {
		flag.Var(s, cmdName, usage)
	}
}

func customPrintUsage() {
	fmt.Printf("Usage of %s:\n\n", os.Args[0])
	for _, f := range allCmdLineArgs {
		valueHint := ""
		switch f.(type) {
		case *cmdLineArgString:
			valueHint = " string"
		case *cmdLineArgInt:
			valueHint = " integer"
		}
		if f.getCmdName() != "" {
			fmt.Printf("  -%s%s\n", f.getCmdName(), valueHint)
		}
		if f.getEnvName() != "" {
			fmt.Printf("  %s=\n", f.getEnvName())
		}
		fmt.Print("    \t")
		fmt.Print(strings.ReplaceAll(f.getDescription(), "\n", "\n    \t"))
		fmt.Print("\n\n")
	}
}

func CmdEnvString(usage, defaultValue, cmdFlagName, envName string) *string {
	sf := &cmdLineArgString{cmdFlagName, envName, usage, false, defaultValue, defaultValue}
	allCmdLineArgs = append(allCmdLineArgs, sf)
	initCmdFlag(sf, cmdFlagName, usage)
	return &sf.value
}

func CmdEnvBool(usage string, defaultValue bool, cmdFlagName, envName string) *bool {
	sf := &cmdLineArgBool{cmdFlagName, envName, usage, false, defaultValue, defaultValue}
	allCmdLineArgs = append(allCmdLineArgs, sf)
	initCmdFlag(sf, cmdFlagName, usage)
	return &sf.value
}

func CmdEnvInt(usage string, defaultValue int64, cmdFlagName, envName string) *int64 {
	sf := &cmdLineArgInt{cmdFlagName, envName, usage, false, defaultValue, defaultValue}
	allCmdLineArgs = append(allCmdLineArgs, sf)
	initCmdFlag(sf, cmdFlagName, usage)
	return &sf.value
}

// ParseCmdFlagsCombiningWithEnv parses args, then fills in any
// unset flag from its ENV_NAME fallback.
func ParseCmdFlagsCombiningWithEnv(args []string) error {
	flag.Usage = customPrintUsage
	if err := flag.CommandLine.Parse(args); err != nil {
		return err
	}
	for _, f := range allCmdLineArgs {
		if !f.isFlagSet() && f.getEnvName() != "" {
			if envVal := os.Getenv(f.getEnvName()); envVal != "" {
				if err := f.Set(envVal); err != nil {
					return fmt.Errorf("error parsing %s env var: %w", f.getEnvName(), err)
				}
			}
		}
	}
	return nil
}

// PrintUsage prints the generated -h/--help text.
func PrintUsage() {
	customPrintUsage()
}

// TrailingArgs returns the positional arguments left after flag parsing
// (e.g. the source directory in "ecbuild -v ./src").
func TrailingArgs() []string {
	return flag.CommandLine.Args()
}
