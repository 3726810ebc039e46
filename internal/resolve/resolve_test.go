package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuzdev/fuzcss/internal/classvarindex"
	"github.com/fuzdev/fuzcss/internal/styleindex"
	"github.com/fuzdev/fuzcss/internal/vargraph"
)

const stylesheet = `
:root { --spacing: 4px; }
button { padding: var(--spacing); }
.card { border-color: var(--border-color); }
`

func TestResolveProducesMinimalThemeAndBase(t *testing.T) {
	styles := styleindex.Build(stylesheet)
	graph := vargraph.Build([]vargraph.StyleVariable{
		{Name: "spacing", Light: "4px"},
		{Name: "border-color", Light: "#ccc", Dark: "#333"},
		{Name: "unused", Light: "blue"},
	})
	classVars := classvarindex.Build([]classvarindex.ClassDefinitionText{
		{Name: "card", Declaration: "border-color: var(--border-color);"},
	})

	detected := DetectedSets{
		Elements:     map[string]struct{}{"button": {}},
		Classes:      map[string]struct{}{"card": {}},
		CSSVariables: map[string]struct{}{},
		UtilityVars:  map[string]struct{}{},
	}

	result := Resolve(styles, graph, classVars, detected, Config{ThemeSpecificity: 1})

	assert.Contains(t, result.ResolvedVariables, "spacing")
	assert.Contains(t, result.ResolvedVariables, "border-color")
	assert.NotContains(t, result.ResolvedVariables, "unused", "variables with no seed path must be treeshaken out")
	assert.Contains(t, result.BaseCSS, "padding: var(--spacing)")
	assert.Contains(t, result.ThemeCSS, "--spacing: 4px;")
	assert.Empty(t, result.Diagnostics)
}

func TestResolveIncludeAllVariablesShortCircuits(t *testing.T) {
	styles := styleindex.Build("")
	graph := vargraph.Build([]vargraph.StyleVariable{
		{Name: "never-referenced", Light: "red"},
	})
	classVars := classvarindex.Build(nil)

	result := Resolve(styles, graph, classVars, DetectedSets{
		Elements: map[string]struct{}{}, Classes: map[string]struct{}{},
		CSSVariables: map[string]struct{}{}, UtilityVars: map[string]struct{}{},
	}, Config{ThemeSpecificity: 1, IncludeAllVariables: true})

	assert.Contains(t, result.ResolvedVariables, "never-referenced")
}

func TestResolveEmitsMissingVariableDiagnosticWithSuggestion(t *testing.T) {
	styles := styleindex.Build("")
	graph := vargraph.Build([]vargraph.StyleVariable{
		{Name: "primary-color", Light: "blue"},
	})
	classVars := classvarindex.Build(nil)

	detected := DetectedSets{
		Elements: map[string]struct{}{}, Classes: map[string]struct{}{},
		CSSVariables: map[string]struct{}{"primary-colr": {}},
		UtilityVars:  map[string]struct{}{},
	}

	result := Resolve(styles, graph, classVars, detected, Config{ThemeSpecificity: 1})

	require.Len(t, result.Diagnostics, 1)
	assert.Contains(t, result.Diagnostics[0].Message, `"--primary-colr" not found`)
	assert.Contains(t, result.Diagnostics[0].Suggestion, "primary-color")
}

func TestResolveClampsThemeSpecificityToOne(t *testing.T) {
	styles := styleindex.Build("")
	graph := vargraph.Build([]vargraph.StyleVariable{{Name: "x", Light: "1"}})
	classVars := classvarindex.Build(nil)

	detected := DetectedSets{
		Elements: map[string]struct{}{}, Classes: map[string]struct{}{},
		CSSVariables: map[string]struct{}{"x": {}}, UtilityVars: map[string]struct{}{},
	}

	result := Resolve(styles, graph, classVars, detected, Config{ThemeSpecificity: 0})
	assert.Contains(t, result.ThemeCSS, ":root {")
}
