package ferr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fuzdev/fuzcss/internal/diagnostic"
	"github.com/fuzdev/fuzcss/internal/location"
)

func TestErrorFormatsWithAndWithoutPath(t *testing.T) {
	underlying := errors.New("boom")

	withoutPath := New(KindCache, "Load", underlying)
	assert.Equal(t, "cache Load failed: boom", withoutPath.Error())

	withPath := New(KindCache, "Load", underlying).WithPath("a.css")
	assert.Equal(t, "cache Load failed for a.css: boom", withPath.Error())
}

func TestErrorUnwrapsToUnderlying(t *testing.T) {
	underlying := errors.New("boom")
	wrapped := New(KindConfig, "Load", underlying)
	assert.ErrorIs(t, wrapped, underlying)
}

func TestInvariantWrapsDetailAsKindInvariant(t *testing.T) {
	err := Invariant("PathFor", "source outside project root")
	assert.Equal(t, KindInvariant, err.Kind)
	assert.Contains(t, err.Error(), "source outside project root")
}

func TestDiagnosticErrorListsEveryDiagnostic(t *testing.T) {
	diags := []diagnostic.Diagnostic{
		diagnostic.Extraction(diagnostic.LevelWarning, "parse error", location.SourceLocation{File: "a.ts", Line: 1, Column: 1}),
		diagnostic.Generation(diagnostic.LevelError, "no definition", "btn", nil, ""),
	}
	err := &DiagnosticError{Diagnostics: diags}

	msg := err.Error()
	assert.Contains(t, msg, "2 diagnostic(s)")
	assert.Contains(t, msg, "parse error")
	assert.Contains(t, msg, `class "btn"`)
}
