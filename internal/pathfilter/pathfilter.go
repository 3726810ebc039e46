// Package pathfilter decides which source files the pipeline feeds to the
// extractor, per spec.md §6: a default include/exclude set, extended or
// overridden by caller-supplied doublestar glob patterns (the CLI's
// --include/--exclude flags). Grounded on the teacher's
// FileScanner.shouldIncludeFast/shouldExcludeFast (internal/indexing/pipeline_types.go),
// kept as plain string-match passes rather than pre-compiled matcher objects
// since doublestar.Match compiles its pattern on every call anyway.
package pathfilter

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultIncludeExtensions are the dialect extensions extracted by default.
var DefaultIncludeExtensions = []string{".svelte", ".html", ".ts", ".js", ".tsx", ".jsx"}

// DefaultExcludeSubstrings are substring markers excluded by default.
// Note: ".spec." is deliberately NOT in this list; the default filter lets
// spec files through, matching the upstream behavior this tool mirrors.
var DefaultExcludeSubstrings = []string{".test.", "/test/", "/tests/", ".gen."}

// Filter decides whether a path should be fed to the extractor.
type Filter struct {
	includeExt    []string
	excludeSubstr []string
	includeGlobs  []string
	excludeGlobs  []string
}

// New builds a Filter from caller-supplied include/exclude globs, layered on
// top of the built-in extension/substring defaults.
func New(includeGlobs, excludeGlobs []string) *Filter {
	return &Filter{
		includeExt:    DefaultIncludeExtensions,
		excludeSubstr: DefaultExcludeSubstrings,
		includeGlobs:  includeGlobs,
		excludeGlobs:  excludeGlobs,
	}
}

// Accept reports whether path should be extracted. path is matched verbatim
// against glob patterns and substrings: Windows-style backslashes are not
// normalized to forward slashes, preserving the observed (if surprising)
// behavior of the system this mirrors rather than silently reinterpreting
// paths the caller handed us.
func (f *Filter) Accept(path string) bool {
	for _, substr := range f.excludeSubstr {
		if strings.Contains(path, substr) {
			return false
		}
	}
	for _, pattern := range f.excludeGlobs {
		if matched, err := doublestar.Match(pattern, path); err == nil && matched {
			return false
		}
	}

	if len(f.includeGlobs) > 0 {
		for _, pattern := range f.includeGlobs {
			if matched, err := doublestar.Match(pattern, path); err == nil && matched {
				return true
			}
		}
		return false
	}

	for _, ext := range f.includeExt {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
