// Package classvarindex builds the class-name → referenced-variable index
// (spec.md §4.G) used to seed the variable graph traversal from detected
// classes, without the resolver having to re-scan class-definition text on
// every build. Grounded on the same var(--X) regex-scan approach used in
// internal/styleindex and internal/vargraph (the teacher has no equivalent
// structure; this mirrors the pack's consistent "extract var(--X) with a
// regex over already-tokenized/assembled text" idiom rather than
// reimplementing a third CSS tokenizer for what is just text scanning).
package classvarindex

import "regexp"

var varRefRe = regexp.MustCompile(`var\(\s*--([A-Za-z0-9_-]+)`)

// ClassDefinitionText is the subset of a class definition this package
// scans: declaration and/or ruleset text. Composes are intentionally not
// passed here; the resolver picks up composed classes' variables through
// the normal detected-class pass.
type ClassDefinitionText struct {
	Name       string
	Declaration string
	Ruleset     string
}

// Index maps a class name to the set of variable names (without the "--"
// prefix) its definition text references.
type Index struct {
	byClass map[string]map[string]struct{}
}

// Build scans each definition's declaration/ruleset text for var(--X)
// references and indexes them by class name.
func Build(defs []ClassDefinitionText) *Index {
	idx := &Index{byClass: make(map[string]map[string]struct{}, len(defs))}
	for _, d := range defs {
		vars := make(map[string]struct{})
		collect(d.Declaration, vars)
		collect(d.Ruleset, vars)
		if len(vars) > 0 {
			idx.byClass[d.Name] = vars
		}
	}
	return idx
}

func collect(text string, into map[string]struct{}) {
	if text == "" {
		return
	}
	for _, m := range varRefRe.FindAllStringSubmatch(text, -1) {
		into[m[1]] = struct{}{}
	}
}

// Collect unions the variable sets of the given class names.
func (idx *Index) Collect(classes []string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, c := range classes {
		for v := range idx.byClass[c] {
			out[v] = struct{}{}
		}
	}
	return out
}
