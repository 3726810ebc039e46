// Package ferr provides the typed error family used across the pipeline,
// grounded on the teacher's internal/errors package: a Kind enum, an
// underlying-error wrapper with Unwrap support, and an aggregate error that
// carries a full diagnostic list for the "on_error: throw" / "on_warning:
// throw" build-layer behavior (spec.md §7).
package ferr

import (
	"fmt"
	"strings"

	"github.com/fuzdev/fuzcss/internal/diagnostic"
)

// Kind classifies an error by the subsystem that produced it.
type Kind string

const (
	KindExtraction Kind = "extraction"
	KindCache      Kind = "cache"
	KindResolve    Kind = "resolve"
	KindConfig     Kind = "config"
	KindInvariant  Kind = "invariant"
)

// Error wraps an underlying error with subsystem context.
type Error struct {
	Kind       Kind
	Op         string
	Path       string
	Underlying error
}

// New creates an Error for the given kind/operation.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Underlying: err}
}

// WithPath attaches a file path for display purposes.
func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s failed for %s: %v", e.Kind, e.Op, e.Path, e.Underlying)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Kind, e.Op, e.Underlying)
}

func (e *Error) Unwrap() error { return e.Underlying }

// Invariant builds a fatal invariant-violation error (spec.md §7): a source
// path outside the project root, or a malformed interpreter result.
func Invariant(op, detail string) *Error {
	return New(KindInvariant, op, fmt.Errorf("%s", detail))
}

// DiagnosticError is the aggregate failure raised when on_error or
// on_warning is configured as "throw": it carries every diagnostic
// accumulated by the resolver, not just the first one.
type DiagnosticError struct {
	Diagnostics []diagnostic.Diagnostic
}

func (e *DiagnosticError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("build failed with %d diagnostic(s):\n", len(e.Diagnostics)))
	for _, d := range e.Diagnostics {
		b.WriteString(fmt.Sprintf("  [%s/%s] %s", d.Phase, d.Level, d.Message))
		if d.ClassName != "" {
			b.WriteString(fmt.Sprintf(" (class %q)", d.ClassName))
		}
		if d.Location != nil {
			b.WriteString(fmt.Sprintf(" at %s:%d:%d", d.Location.File, d.Location.Line, d.Location.Column))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
