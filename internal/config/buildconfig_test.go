package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	resetFlagsForTest()
	dir := t.TempDir()

	cfg, showHelp, showVersion, err := Parse([]string{dir})
	require.NoError(t, err)
	assert.False(t, showHelp)
	assert.False(t, showVersion)
	assert.Equal(t, int64(1), cfg.ParallelJobs)
	assert.Contains(t, cfg.CFlags, "-O2")
	assert.NotContains(t, cfg.CFlags, "-g")
}

func TestParseDebugAndNoOptimize(t *testing.T) {
	resetFlagsForTest()
	dir := t.TempDir()

	cfg, _, _, err := Parse([]string{"-d", "-O0", dir})
	require.NoError(t, err)
	assert.Contains(t, cfg.CFlags, "-g")
	assert.NotContains(t, cfg.CFlags, "-O2")
}

func TestParseHelpShortCircuits(t *testing.T) {
	resetFlagsForTest()

	cfg, showHelp, _, err := Parse([]string{"-h"})
	require.NoError(t, err)
	assert.True(t, showHelp)
	assert.Nil(t, cfg)
}

func TestParseExcludeCommaList(t *testing.T) {
	resetFlagsForTest()
	dir := t.TempDir()

	cfg, _, _, err := Parse([]string{"-e", "vendor, generated", dir})
	require.NoError(t, err)
	assert.Equal(t, []string{"vendor", "generated"}, cfg.ExtraExcludes)
}
