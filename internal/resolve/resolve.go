// Package resolve implements the Resolver (spec.md §4.H), the pure,
// single-threaded step that turns per-file detected sets plus the static
// style-rule index, variable graph, and class-variable index into the
// minimal theme/base CSS and the diagnostics that accompany them. Grounded
// on internal/indexing/pipeline.go's map-then-reduce shape (collect results,
// then run one synchronous aggregation pass) for the separation between
// parallel collection (internal/pipeline, not this package) and this
// package's pure reduction.
package resolve

import (
	"fmt"
	"sort"

	"github.com/fuzdev/fuzcss/internal/classvarindex"
	"github.com/fuzdev/fuzcss/internal/diagnostic"
	"github.com/fuzdev/fuzcss/internal/styleindex"
	"github.com/fuzdev/fuzcss/internal/vargraph"
)

// DetectedSets is the union of per-file extraction results across every
// source file in the build.
type DetectedSets struct {
	Elements      map[string]struct{}
	Classes       map[string]struct{}
	CSSVariables  map[string]struct{}
	UtilityVars   map[string]struct{}
}

// Config is the subset of build options the resolver consults directly.
type Config struct {
	IncludeElements     []string
	IncludeVariables    []string
	IncludeAllVariables bool
	ThemeSpecificity    int
	WarnUnmatchedElement bool
}

// Result is the Resolver's output.
type Result struct {
	ThemeCSS            string
	BaseCSS             string
	ResolvedVariables   map[string]struct{}
	IncludedRuleIndices []int
	IncludedElements    []string
	Diagnostics         []diagnostic.Diagnostic
	Stats               Stats
}

// Stats are optional counters surfaced for diagnostics/telemetry.
type Stats struct {
	RuleCount     int
	VariableCount int
	ElementCount  int
}

// Resolve runs the full 8-step algorithm described in spec.md §4.H.
func Resolve(styles *styleindex.Index, graph *vargraph.Graph, classVars *classvarindex.Index, detected DetectedSets, cfg Config) Result {
	var diags []diagnostic.Diagnostic

	// 1. included_elements = detected_elements ∪ include_elements.
	includedElements := unionSet(detected.Elements, cfg.IncludeElements)

	detectedClasses := sortedKeys(detected.Classes)
	includedElementsSorted := sortedKeys(includedElements)

	// 2. rule_indices = style_index.matching(included_elements, detected_classes).
	ruleIndices := styles.Matching(includedElementsSorted, detectedClasses)

	// 3. Optional "no style rules found for element X" warnings.
	if cfg.WarnUnmatchedElement {
		matchedElements := make(map[string]struct{})
		for _, idx := range ruleIndices {
			for _, e := range styles.Rules[idx].Elements {
				matchedElements[e] = struct{}{}
			}
		}
		for _, e := range includedElementsSorted {
			if _, ok := matchedElements[e]; !ok {
				diags = append(diags, diagnostic.Generation(
					diagnostic.LevelWarning,
					fmt.Sprintf("no style rules found for element %q", e),
					"",
					nil,
					"add to include_elements if intentional",
				))
			}
		}
	}

	// 4. seed_vars = rule variables ∪ class-variable index ∪ utility_variables
	//    ∪ detected_css_variables ∪ include_variables, or all names if
	//    include_all_variables is set.
	seedVars := make(map[string]struct{})
	if cfg.IncludeAllVariables {
		seedVars = graph.AllNames()
	} else {
		for v := range styles.CollectRuleVariables(ruleIndices) {
			seedVars[v] = struct{}{}
		}
		for v := range classVars.Collect(detectedClasses) {
			seedVars[v] = struct{}{}
		}
		for v := range detected.UtilityVars {
			seedVars[v] = struct{}{}
		}
		for v := range detected.CSSVariables {
			seedVars[v] = struct{}{}
		}
		for _, v := range cfg.IncludeVariables {
			seedVars[v] = struct{}{}
		}
	}

	// 5. resolve_transitive; append warnings.
	resolved := graph.ResolveTransitive(sortedKeys(seedVars))
	for _, w := range resolved.Warnings {
		diags = append(diags, diagnostic.Generation(diagnostic.LevelWarning, w, "", nil, suggestionFor(w, graph)))
	}

	// 6. emit_theme.
	specificity := cfg.ThemeSpecificity
	if specificity < 1 {
		specificity = 1
	}
	light, dark := graph.EmitTheme(resolved.Variables, specificity)
	themeCSS := joinNonEmpty(light, dark)

	// 7. base_css.
	baseCSS := styles.GenerateBaseCSS(ruleIndices)

	return Result{
		ThemeCSS:            themeCSS,
		BaseCSS:             baseCSS,
		ResolvedVariables:   resolved.Variables,
		IncludedRuleIndices: ruleIndices,
		IncludedElements:    includedElementsSorted,
		Diagnostics:         diags,
		Stats: Stats{
			RuleCount:     len(ruleIndices),
			VariableCount: len(resolved.Variables),
			ElementCount:  len(includedElementsSorted),
		},
	}
}

func suggestionFor(warning string, graph *vargraph.Graph) string {
	// Only the "not found in theme variables" warning carries a suggestion;
	// its exact message shape is emitted by vargraph, so this extracts the
	// name back out to offer a find_similar-based fix rather than
	// duplicating vargraph's message construction here.
	const prefix = `CSS variable "--`
	if len(warning) <= len(prefix) || warning[:len(prefix)] != prefix {
		return "Check spelling or add to include_variables option"
	}
	rest := warning[len(prefix):]
	end := -1
	for i, r := range rest {
		if r == '"' {
			end = i
			break
		}
	}
	if end < 0 {
		return "Check spelling or add to include_variables option"
	}
	name := rest[:end]
	if similar, ok := graph.FindSimilar(name); ok {
		return fmt.Sprintf("did you mean --%s? Check spelling or add to include_variables option", similar)
	}
	return "Check spelling or add to include_variables option"
}

func unionSet(base map[string]struct{}, extra []string) map[string]struct{} {
	out := make(map[string]struct{}, len(base)+len(extra))
	for k := range base {
		out[k] = struct{}{}
	}
	for _, k := range extra {
		out[k] = struct{}{}
	}
	return out
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func joinNonEmpty(parts ...string) string {
	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	out := ""
	for i, p := range nonEmpty {
		if i > 0 {
			out += "\n\n"
		}
		out += p
	}
	return out
}
