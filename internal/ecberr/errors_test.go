package ecberr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormattingAndUnwrap(t *testing.T) {
	cause := errors.New("permission denied")
	err := Wrap(CacheIOFailed, "writing cache.dat", cause)

	assert.Contains(t, err.Error(), "CacheIOFailed")
	assert.Contains(t, err.Error(), "permission denied")
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestIsFatal(t *testing.T) {
	assert.False(t, CacheCorrupt.IsFatal())
	assert.False(t, CacheIOFailed.IsFatal())
	assert.True(t, CircularDependency.IsFatal())
	assert.True(t, CompilationFailed.IsFatal())
}

func TestErrorsAsRoundTrip(t *testing.T) {
	var target *Error
	err := New(LinkFailed, "exit 1")
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, LinkFailed, target.Kind)
}
