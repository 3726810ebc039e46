package classvarindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildIndexesVariablesFromDeclarationAndRuleset(t *testing.T) {
	idx := Build([]ClassDefinitionText{
		{Name: "btn", Declaration: "color: var(--primary-color);"},
		{Name: "card", Ruleset: ".card { border-color: var(--border-color); }"},
		{Name: "plain", Declaration: "color: red;"},
	})

	vars := idx.Collect([]string{"btn", "card", "plain"})
	assert.Contains(t, vars, "primary-color")
	assert.Contains(t, vars, "border-color")
	assert.Len(t, vars, 2)
}

func TestCollectIgnoresUnknownClasses(t *testing.T) {
	idx := Build(nil)
	vars := idx.Collect([]string{"nope"})
	assert.Empty(t, vars)
}
