// Package vargraph builds the theme variable dependency graph and resolves
// the transitive closure of a seed set (spec.md §4.F). Grounded on
// internal/semantic/fuzzy_matcher.go for the Levenshtein-similarity call
// shape (hbollon/go-edlib's StringsSimilarity already returns a 0-1
// normalized score, so find_similar's "1 - dist/max(len)" formula collapses
// to using that score directly).
package vargraph

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
)

// StyleVariable is one theme variable declaration as read from config or the
// theme source: a name plus optional light/dark opaque CSS value strings.
type StyleVariable struct {
	Name  string
	Light string
	Dark  string
}

// node is one entry of the built graph.
type node struct {
	light, dark           string
	hasLight, hasDark     bool
	lightDeps, darkDeps    map[string]struct{}
}

// Graph is the built VariableDependencyGraph.
type Graph struct {
	nodes map[string]*node
}

var varRefRe = regexp.MustCompile(`var\(\s*--([A-Za-z0-9_-]+)`)

// Build constructs a Graph from the raw variable list, extracting
// light_deps/dark_deps by scanning each value for var(--NAME) references.
func Build(vars []StyleVariable) *Graph {
	g := &Graph{nodes: make(map[string]*node, len(vars))}
	for _, v := range vars {
		n := &node{}
		if v.Light != "" {
			n.light, n.hasLight = v.Light, true
			n.lightDeps = extractDeps(v.Light)
		}
		if v.Dark != "" {
			n.dark, n.hasDark = v.Dark, true
			n.darkDeps = extractDeps(v.Dark)
		}
		g.nodes[v.Name] = n
	}
	return g
}

func extractDeps(value string) map[string]struct{} {
	matches := varRefRe.FindAllStringSubmatch(value, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		out[m[1]] = struct{}{}
	}
	return out
}

// Resolved is the output of resolve_transitive: the fully-closed variable
// set plus any warnings and unresolved names collected along the way.
type Resolved struct {
	Variables map[string]struct{}
	Warnings  []string
	Missing   []string
}

// ResolveTransitive computes the transitive closure of initialNames by
// depth-first traversal. A path set detects cycles: a back edge to a name
// already on the current path emits one warning for that name and returns
// without recursing further into it. Names absent from the graph are
// collected into Missing and warned about once each.
func (g *Graph) ResolveTransitive(initialNames []string) Resolved {
	r := Resolved{Variables: make(map[string]struct{})}
	onPath := make(map[string]struct{})
	warnedCycle := make(map[string]struct{})
	warnedMissing := make(map[string]struct{})

	var visit func(name string)
	visit = func(name string) {
		if _, ok := r.Variables[name]; ok {
			return
		}
		if _, ok := onPath[name]; ok {
			if _, already := warnedCycle[name]; !already {
				warnedCycle[name] = struct{}{}
				r.Warnings = append(r.Warnings, fmt.Sprintf("Circular dependency detected for variable: %s", name))
			}
			return
		}

		n, ok := g.nodes[name]
		if !ok {
			if _, already := warnedMissing[name]; !already {
				warnedMissing[name] = struct{}{}
				r.Missing = append(r.Missing, name)
				r.Warnings = append(r.Warnings, fmt.Sprintf("CSS variable \"--%s\" not found in theme variables", name))
			}
			return
		}

		onPath[name] = struct{}{}
		for _, dep := range sortedDepNames(n.lightDeps) {
			visit(dep)
		}
		for _, dep := range sortedDepNames(n.darkDeps) {
			visit(dep)
		}
		delete(onPath, name)

		r.Variables[name] = struct{}{}
	}

	names := append([]string(nil), initialNames...)
	sort.Strings(names)
	for _, name := range names {
		visit(name)
	}
	return r
}

// sortedDepNames returns deps' keys in sorted order so cycle/missing
// warnings are emitted in a deterministic sequence regardless of map
// iteration order.
func sortedDepNames(deps map[string]struct{}) []string {
	out := make([]string, 0, len(deps))
	for name := range deps {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// EmitTheme renders the resolved variable set into light/dark CSS blocks
// per spec.md §4.F: alphabetical declaration order, a `:root` selector
// repeated `specificity` times (minimum 1) for light, the same selector
// suffixed with `.dark` for dark, and only the declarations whose mode
// value is actually defined. A mode with no declarations is omitted
// entirely.
func (g *Graph) EmitTheme(resolved map[string]struct{}, specificity int) (lightCSS, darkCSS string) {
	if specificity < 1 {
		specificity = 1
	}

	names := make([]string, 0, len(resolved))
	for name := range resolved {
		names = append(names, name)
	}
	sort.Strings(names)

	lightSelector := strings.Repeat(":root", specificity)
	darkSelector := lightSelector + ".dark"

	var lightDecls, darkDecls []string
	for _, name := range names {
		n, ok := g.nodes[name]
		if !ok {
			continue
		}
		if n.hasLight {
			lightDecls = append(lightDecls, fmt.Sprintf("  --%s: %s;", name, n.light))
		}
		if n.hasDark {
			darkDecls = append(darkDecls, fmt.Sprintf("  --%s: %s;", name, n.dark))
		}
	}

	if len(lightDecls) > 0 {
		lightCSS = fmt.Sprintf("%s {\n%s\n}", lightSelector, strings.Join(lightDecls, "\n"))
	}
	if len(darkDecls) > 0 {
		darkCSS = fmt.Sprintf("%s {\n%s\n}", darkSelector, strings.Join(darkDecls, "\n"))
	}
	return lightCSS, darkCSS
}

// AllNames returns every variable name known to the graph, used when
// include_all_variables short-circuits the seed set.
func (g *Graph) AllNames() map[string]struct{} {
	out := make(map[string]struct{}, len(g.nodes))
	for name := range g.nodes {
		out[name] = struct{}{}
	}
	return out
}

// similarityThreshold is the minimum normalized Levenshtein similarity for
// FindSimilar to suggest a name, per spec.md §4.F.
const similarityThreshold = 0.85

// FindSimilar returns the best-matching known variable name for a missing
// one, strictly above similarityThreshold, or ("", false) if none qualifies.
// go-edlib's StringsSimilarity(..., edlib.Levenshtein) already returns a
// length-normalized 0-1 score, so no extra "1 - dist/max(len)" arithmetic is
// needed on top of it.
func (g *Graph) FindSimilar(name string) (string, bool) {
	best := ""
	bestScore := 0.0
	for candidate := range g.nodes {
		score, err := edlib.StringsSimilarity(name, candidate, edlib.Levenshtein)
		if err != nil {
			continue
		}
		s := float64(score)
		if s > bestScore {
			bestScore = s
			best = candidate
		}
	}
	if bestScore > similarityThreshold {
		return best, true
	}
	return "", false
}
