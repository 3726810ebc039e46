// Package styleindex parses the base stylesheet once per build into an
// inverted index of selector → rule (spec.md §4.E). Grounded on
// Yacobolo-cssgen's internal/cssgen/parser.go: the same tdewolff/parse/v2
// css.Lexer token loop (watch for a DelimToken "." to start a class
// selector, an IdentToken before "{" for an element selector, track brace
// depth for the declaration block) adapted from that tool's per-class-rule
// extraction into this package's per-top-level-rule ParsedRule records.
package styleindex

import (
	"regexp"
	"sort"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// ParsedRule is one top-level rule of the base stylesheet.
type ParsedRule struct {
	Text      string
	Elements  []string
	Classes   []string
	Other     bool // selector had a simple-selector component that is neither element nor class (e.g. "*", ":root", an id, an attribute selector)
	Variables []string
}

// Index is the built style-rule index.
type Index struct {
	Rules            []ParsedRule
	ByElement        map[string][]int
	ByClass          map[string][]int
	CoreRuleIndices  map[int]struct{}
}

var varRefRe = regexp.MustCompile(`var\(\s*--([A-Za-z0-9_-]+)`)

// Build parses content (the base stylesheet) into an Index.
func Build(content string) *Index {
	idx := &Index{
		ByElement:       make(map[string][]int),
		ByClass:         make(map[string][]int),
		CoreRuleIndices: make(map[int]struct{}),
	}

	lexer := css.NewLexer(parse.NewInputString(content))
	var selectorBuf strings.Builder
	var elements, classes []string
	other := false
	afterColon := false
	pendingElementIdent := ""

	flushElementIdent := func() {
		if pendingElementIdent != "" {
			elements = append(elements, pendingElementIdent)
			pendingElementIdent = ""
		}
	}

	resetSelector := func() {
		selectorBuf.Reset()
		elements = nil
		classes = nil
		other = false
		pendingElementIdent = ""
	}

	for {
		tt, text := lexer.Next()
		if tt == css.ErrorToken {
			break
		}
		// An ident right after ':' is a pseudo-class name, not an element.
		pseudo := afterColon
		afterColon = false

		switch tt {
		case css.LeftBraceToken:
			flushElementIdent()
			selStart := selectorBuf.String()
			declBuf, atRule := consumeBlock(lexer)
			if atRule {
				resetSelector()
				continue
			}
			ruleText := selStart + "{" + declBuf + "}"
			vars := extractVars(declBuf)
			rule := ParsedRule{
				Text:      ruleText,
				Elements:  dedupStrings(elements),
				Classes:   dedupStrings(classes),
				Other:     other,
				Variables: vars,
			}
			ruleIdx := len(idx.Rules)
			idx.Rules = append(idx.Rules, rule)
			if len(rule.Elements) == 0 && len(rule.Classes) == 0 {
				idx.CoreRuleIndices[ruleIdx] = struct{}{}
			}
			for _, e := range rule.Elements {
				idx.ByElement[e] = append(idx.ByElement[e], ruleIdx)
			}
			for _, c := range rule.Classes {
				idx.ByClass[c] = append(idx.ByClass[c], ruleIdx)
			}
			resetSelector()

		case css.AtKeywordToken:
			resetSelector()
			selectorBuf.WriteString(string(text))

		case css.DelimToken:
			if len(text) > 0 && text[0] == '.' {
				selectorBuf.WriteString(".")
				tt2, name := lexer.Next()
				if tt2 == css.IdentToken {
					classes = append(classes, string(name))
					selectorBuf.WriteString(string(name))
				}
				continue
			}
			flushElementIdent()
			other = true
			selectorBuf.Write(text)

		case css.IdentToken:
			flushElementIdent()
			if !pseudo {
				pendingElementIdent = string(text)
			}
			selectorBuf.Write(text)

		case css.HashToken:
			flushElementIdent()
			other = true
			selectorBuf.Write(text)

		case css.CommaToken:
			flushElementIdent()
			selectorBuf.WriteByte(',')

		case css.ColonToken:
			flushElementIdent()
			other = true
			afterColon = true
			selectorBuf.WriteByte(':')

		default:
			flushElementIdent()
			selectorBuf.Write(text)
		}
	}

	return idx
}

// consumeBlock reads tokens until the matching closing brace, tracking
// nesting depth. atRule reports whether this was a nested at-rule block
// (e.g. @media) whose inner rules are not represented as top-level
// ParsedRules by this one-shot pass.
func consumeBlock(lexer *css.Lexer) (content string, atRule bool) {
	var b strings.Builder
	depth := 1
	for depth > 0 {
		tt, text := lexer.Next()
		if tt == css.ErrorToken {
			break
		}
		if tt == css.LeftBraceToken {
			depth++
			atRule = true
		}
		if tt == css.RightBraceToken {
			depth--
			if depth == 0 {
				break
			}
		}
		b.Write(text)
	}
	return b.String(), atRule
}

func extractVars(declText string) []string {
	matches := varRefRe.FindAllStringSubmatch(declText, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		name := m[1]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

func dedupStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	var out []string
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Matching returns the ordered set of rule indices that apply to the given
// elements and classes: the union of core rules, by_element[e] for each e,
// and by_class[c] for each c, in ascending rule-index order (spec.md §4.E).
func (idx *Index) Matching(elements, classes []string) []int {
	set := make(map[int]struct{})
	for i := range idx.CoreRuleIndices {
		set[i] = struct{}{}
	}
	for _, e := range elements {
		for _, i := range idx.ByElement[e] {
			set[i] = struct{}{}
		}
	}
	for _, c := range classes {
		for _, i := range idx.ByClass[c] {
			set[i] = struct{}{}
		}
	}

	out := make([]int, 0, len(set))
	for i := range set {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// CollectRuleVariables unions the variable sets of the given rule indices.
func (idx *Index) CollectRuleVariables(indices []int) map[string]struct{} {
	out := make(map[string]struct{})
	for _, i := range indices {
		if i < 0 || i >= len(idx.Rules) {
			continue
		}
		for _, v := range idx.Rules[i].Variables {
			out[v] = struct{}{}
		}
	}
	return out
}

// GenerateBaseCSS emits the given rules' text, blank-line separated, in
// ascending rule-index order to preserve the original stylesheet order.
func (idx *Index) GenerateBaseCSS(indices []int) string {
	sorted := append([]int(nil), indices...)
	sort.Ints(sorted)

	var b strings.Builder
	for i, ruleIdx := range sorted {
		if ruleIdx < 0 || ruleIdx >= len(idx.Rules) {
			continue
		}
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(idx.Rules[ruleIdx].Text)
	}
	return b.String()
}
