package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintIncludesCoreCounters(t *testing.T) {
	var buf bytes.Buffer
	Print(&buf, Summary{
		CompiledFiles: 2,
		CachedFiles:   1,
		FailedFiles:   0,
		CacheHits:     1,
		CacheMisses:   2,
		LinkSucceeded: true,
		BinaryPath:    "/out/program",
	})

	out := buf.String()
	assert.Contains(t, out, "/out/program")
	assert.Contains(t, out, "1 hits, 2 misses")
}

func TestPrintOmitsLinkedLineOnFailure(t *testing.T) {
	var buf bytes.Buffer
	Print(&buf, Summary{FailedFiles: 1})
	assert.NotContains(t, buf.String(), "linked:")
}
