package emit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuzdev/fuzcss/internal/classdef"
	"github.com/fuzdev/fuzcss/internal/location"
)

func TestEscapeSelectorEscapesSpecialCharacters(t *testing.T) {
	assert.Equal(t, `hover\:color`, EscapeSelector("hover:color"))
	assert.Equal(t, `a\.b\/c`, EscapeSelector("a.b/c"))
	assert.Equal(t, "plain-name_1", EscapeSelector("plain-name_1"))
}

func TestUtilityGenerateExpandsComposesDepthFirstWithDedup(t *testing.T) {
	table := classdef.New(map[string]*classdef.Definition{
		"base": {Name: "base", Kind: classdef.KindDeclaration, Declarations: []classdef.Declaration{{Property: "display", Value: "flex"}}},
		"btn":  {Name: "btn", Kind: classdef.KindComposes, Composes: []string{"base"}},
	})
	u := NewUtility(table)

	out, diags := u.Generate([]string{"btn", "base"}, nil)

	baseIdx := indexOf(t, out, ".base {")
	btnRefIdx := indexOf(t, out, "display: flex;")
	assert.LessOrEqual(t, baseIdx, btnRefIdx)
	assert.Equal(t, 1, count(out, ".base {"), "base must be emitted once even though both btn and base reference it")
	assert.Empty(t, diags)
}

func TestUtilityGenerateSkipsUnresolvableNames(t *testing.T) {
	table := classdef.New(nil)
	u := NewUtility(table)
	loc := location.SourceLocation{File: "a.svelte", Line: 2, Column: 5}
	out, diags := u.Generate([]string{"totally-unknown"}, map[string][]location.SourceLocation{
		"totally-unknown": {loc},
	})
	assert.Empty(t, out)
	require.Len(t, diags, 1)
	assert.True(t, diags[0].IsError())
	assert.Equal(t, "totally-unknown", diags[0].ClassName)
	assert.Equal(t, []location.SourceLocation{loc}, diags[0].Locations)
}

func TestUtilityGenerateReportsUnknownPropertyWarning(t *testing.T) {
	table := classdef.New(nil)
	table.AddInterpreter(classdef.DefaultInterpreter)
	u := NewUtility(table)

	out, diags := u.Generate([]string{"notaproperty:red"}, nil)
	assert.Empty(t, out)
	require.Len(t, diags, 1)
	assert.False(t, diags[0].IsError())
	assert.Contains(t, diags[0].Message, "unknown CSS property")
}

func TestAssembleOrdersSectionsWithExactMarkers(t *testing.T) {
	out := Assemble("theme-body", "base-body", "util-body", Flags{Theme: true, Base: true, Utility: true})

	themeIdx := indexOf(t, out, "/* Theme Variables */")
	baseIdx := indexOf(t, out, "/* Base Styles */")
	utilIdx := indexOf(t, out, "/* Utility Classes */")
	assert.Less(t, themeIdx, baseIdx)
	assert.Less(t, baseIdx, utilIdx)
}

func TestAssembleOmitsEmptyOrDisabledSections(t *testing.T) {
	out := Assemble("", "base-body", "util-body", Flags{Theme: true, Base: true, Utility: true})
	assert.NotContains(t, out, "Theme Variables")

	out2 := Assemble("theme-body", "base-body", "util-body", Flags{Theme: true, Base: false, Utility: true})
	assert.NotContains(t, out2, "Base Styles")
}

func indexOf(t *testing.T, haystack, needle string) int {
	t.Helper()
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	require.Fail(t, "substring not found", "%q not in %q", needle, haystack)
	return -1
}

func count(haystack, needle string) int {
	n := 0
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			n++
		}
	}
	return n
}
