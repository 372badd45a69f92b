// Package depscan implements the include parser and resolver: a
// line-oriented, preprocessor-agnostic scan for #include directives, and
// the search-path resolution that turns an include spelling into an
// absolute on-disk path.
//
// No #include_next, precompiled-header or per-translation-unit include
// caching layer: every textual #include is a dependency, full stop.
package depscan

// IncludeDirective is one #include "x" or #include <x> found in a file.
type IncludeDirective struct {
	Spelling string // text between the quotes/brackets
	Quoted   bool   // true for "x", false for <x>
}

// ParseIncludes scans data line by line for #include directives. Comments,
// string literals containing "#include", and conditional compilation are
// not honored — every textually-matched #include is emitted.
func ParseIncludes(data []byte) []IncludeDirective {
	var out []IncludeDirective

	lines := splitLines(data)
	for _, line := range lines {
		if d, ok := parseIncludeLine(line); ok {
			out = append(out, d)
		}
	}
	return out
}

func splitLines(data []byte) [][]byte {
	var lines [][]byte
	start := 0
	for i, b := range data {
		if b == '\n' {
			lines = append(lines, data[start:i])
			start = i + 1
		}
	}
	if start < len(data) {
		lines = append(lines, data[start:])
	}
	return lines
}

func parseIncludeLine(line []byte) (IncludeDirective, bool) {
	i := skipWhitespace(line, 0)
	if i >= len(line) || line[i] != '#' {
		return IncludeDirective{}, false
	}
	i++
	i = skipWhitespace(line, i)

	const kw = "include"
	if i+len(kw) > len(line) || string(line[i:i+len(kw)]) != kw {
		return IncludeDirective{}, false
	}
	i += len(kw)
	i = skipWhitespace(line, i)
	if i >= len(line) {
		return IncludeDirective{}, false
	}

	var closing byte
	quoted := false
	switch line[i] {
	case '"':
		closing = '"'
		quoted = true
	case '<':
		closing = '>'
	default:
		return IncludeDirective{}, false
	}
	i++
	start := i
	for i < len(line) && line[i] != closing {
		i++
	}
	if i >= len(line) {
		return IncludeDirective{}, false // unterminated, treat as buggy/non-directive
	}

	return IncludeDirective{Spelling: string(line[start:i]), Quoted: quoted}, true
}

func skipWhitespace(line []byte, i int) int {
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return i
}
