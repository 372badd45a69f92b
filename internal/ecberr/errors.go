// Package ecberr defines the typed error kinds the build driver surfaces,
// per the propagation policy: most failures are recovered locally (dropped
// include, missing dependency file, corrupt cache), a short list is
// surfaced to the caller as a single summary line.
package ecberr

import "fmt"

// Kind classifies a failure for callers that want to branch on it
// (errors.As) without string matching.
type Kind int

const (
	Unknown Kind = iota
	NullInput
	FileNotFound
	ParseFailed
	CircularDependency
	TooManyFiles
	TooManyIncludes
	OutOfMemory
	InvalidPath
	SortFailed
	CompilerNotFound
	CompilationFailed
	LinkFailed
	CacheCorrupt   // non-fatal
	CacheIOFailed  // non-fatal
)

func (k Kind) String() string {
	switch k {
	case NullInput:
		return "NullInput"
	case FileNotFound:
		return "FileNotFound"
	case ParseFailed:
		return "ParseFailed"
	case CircularDependency:
		return "CircularDependency"
	case TooManyFiles:
		return "TooManyFiles"
	case TooManyIncludes:
		return "TooManyIncludes"
	case OutOfMemory:
		return "OutOfMemory"
	case InvalidPath:
		return "InvalidPath"
	case SortFailed:
		return "SortFailed"
	case CompilerNotFound:
		return "CompilerNotFound"
	case CompilationFailed:
		return "CompilationFailed"
	case LinkFailed:
		return "LinkFailed"
	case CacheCorrupt:
		return "CacheCorrupt"
	case CacheIOFailed:
		return "CacheIOFailed"
	default:
		return "Unknown"
	}
}

// IsFatal reports whether an error of this kind should abort the build,
// as opposed to being recovered locally (warned and continued).
func (k Kind) IsFatal() bool {
	switch k {
	case CacheCorrupt, CacheIOFailed:
		return false
	default:
		return true
	}
}

// Error is a typed, wrappable error carrying a Kind for classification.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an *Error with no wrapped cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap builds an *Error wrapping an underlying cause.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}
