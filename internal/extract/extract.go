// Package extract implements the Extractor (spec.md §4.B): it dispatches on
// file extension to a markup dialect, a script dialect, or inline-HTML
// markup, and never throws — a parse failure degrades to a single warning
// diagnostic with whatever was found before the failure retained. Grounded
// on internal/parser/parser.go's tree-sitter query-cursor walk for the
// script dialect and internal/core/line_scanner.go's zero-allocation
// byte-scanning style for the hand-rolled markup scanner (a real HTML
// grammar was deliberately not used: Svelte-style templates contain
// directives a strict HTML parser would reject, and mixing two different
// go-tree-sitter binding forks in one module for one dialect would be
// inconsistent with using the official binding everywhere else).
package extract

import (
	"fmt"
	"strings"

	"github.com/fuzdev/fuzcss/internal/diagnostic"
	"github.com/fuzdev/fuzcss/internal/location"
)

// Result is the per-file ExtractionResult. File always allocates every map,
// so an empty map means nothing of that kind was found; a Result restored
// from the cache carries only Classes and Diagnostics, with the other maps nil.
type Result struct {
	Classes      map[string][]location.SourceLocation
	Elements     map[string]struct{}
	CSSVariables map[string]struct{}
	TrackedVars  map[string]struct{}
	Diagnostics  []diagnostic.Diagnostic
}

func newResult() *Result {
	return &Result{
		Classes:      make(map[string][]location.SourceLocation),
		Elements:     make(map[string]struct{}),
		CSSVariables: make(map[string]struct{}),
		TrackedVars:  make(map[string]struct{}),
	}
}

func (r *Result) addClass(name string, loc location.SourceLocation) {
	r.Classes[name] = append(r.Classes[name], loc)
}

func (r *Result) addClasses(names []string, loc location.SourceLocation) {
	for _, n := range names {
		r.addClass(n, loc)
	}
}

// dialect classifies which parse path an extension takes.
type dialect int

const (
	dialectMarkup dialect = iota // template + embedded <script>, e.g. .svelte
	dialectScript                // script-only, e.g. .ts/.js/.tsx/.jsx
	dialectInline                // markup only, no script parse, e.g. .html
)

func dialectForExt(ext string) (dialect, bool) {
	switch ext {
	case ".svelte":
		return dialectMarkup, true
	case ".html":
		return dialectInline, true
	case ".ts", ".js", ".tsx", ".jsx":
		return dialectScript, true
	default:
		return 0, false
	}
}

// File extracts a single file's content. ext should include the leading
// dot (e.g. ".svelte"). path is recorded as the File of every
// SourceLocation in the result, for classes and diagnostics alike.
func File(path, ext string, content []byte) (res *Result) {
	d, ok := dialectForExt(ext)
	if !ok {
		return newResult()
	}

	idx := location.NewIndexer(path, content)
	r := newResult()

	defer func() {
		if rec := recover(); rec != nil {
			r.Diagnostics = append(r.Diagnostics, diagnostic.Extraction(
				diagnostic.LevelWarning,
				fmt.Sprintf("parse error: %v", rec),
				idx.Locate(0),
			))
			res = r
		}
	}()

	switch d {
	case dialectMarkup:
		scanMarkup(path, content, idx, r, true)
	case dialectInline:
		scanMarkup(path, content, idx, r, false)
	case dialectScript:
		scanScript(path, content, idx, r, extIsTypeScript(ext), extIsJSX(ext))
	}

	return r
}

func extIsTypeScript(ext string) bool { return ext == ".ts" || ext == ".tsx" }
func extIsJSX(ext string) bool        { return ext == ".tsx" || ext == ".jsx" }

// splitClassTokens splits a class-attribute or class-variable literal value
// into whitespace-separated class name tokens.
func splitClassTokens(value string) []string {
	return strings.Fields(value)
}

// isClassContextName applies the naming-convention test from spec.md §4.B
// rule 3: lowercase, strip underscores, then check for one of the
// recognized suffixes.
func isClassContextName(identifier string) bool {
	normalized := strings.ToLower(strings.ReplaceAll(identifier, "_", ""))
	for _, suffix := range []string{"classes", "classname", "classnames", "classlist", "classlists"} {
		if strings.HasSuffix(normalized, suffix) {
			return true
		}
	}
	return false
}

// isElementName reports whether tag matches [a-z][a-z0-9-]* or is a custom
// element (contains a hyphen), per spec.md §4.B rule 5.
func isElementName(tag string) bool {
	if tag == "" {
		return false
	}
	if tag[0] < 'a' || tag[0] > 'z' {
		return false
	}
	for i := 1; i < len(tag); i++ {
		c := tag[i]
		if !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '-') {
			return false
		}
	}
	return true
}

// isFrameworkMetaTag reports whether tag is a reserved-dialect-prefixed
// meta tag, e.g. "svelte:head", whose own name is excluded from elements
// but whose children are still traversed.
func isFrameworkMetaTag(tag string) bool {
	return strings.Contains(tag, ":")
}

// isComponentTag reports whether tag names a component rather than a DOM
// element: starts uppercase, or contains a dot (namespaced component
// reference like Foo.Bar).
func isComponentTag(tag string) bool {
	if tag == "" {
		return false
	}
	if tag[0] >= 'A' && tag[0] <= 'Z' {
		return true
	}
	return strings.Contains(tag, ".")
}

const annotationKeyword = "@fuz-classes"

// scanAnnotations finds every "@fuz-classes token token..." occurrence in
// text (a comment body, in either dialect) and adds its tokens as classes
// at the given base location. offset is the byte offset of text within the
// original file content, for accurate location reporting.
func scanAnnotations(text string, offset int, idx *location.Indexer, r *Result) {
	for {
		at := strings.Index(text, annotationKeyword)
		if at < 0 {
			return
		}
		rest := text[at+len(annotationKeyword):]
		lineEnd := strings.IndexAny(rest, "\n\r")
		if lineEnd >= 0 {
			rest = rest[:lineEnd]
		}
		rest = strings.TrimSuffix(strings.TrimRight(rest, " \t"), "*/")
		tokens := splitClassTokens(rest)
		loc := idx.Locate(offset + at)
		r.addClasses(tokens, loc)

		text = text[at+len(annotationKeyword):]
		offset += at + len(annotationKeyword)
	}
}
