// Package classdef resolves detected class-name tokens against the
// class-definition table and a chain of interpreters (spec.md §4.D).
// Grounded on internal/semantic/fuzzy_matcher.go's go-edlib usage for the
// "did you mean" suggestion on an unknown CSS property, mirrored here for
// unknown-property diagnostics instead of unknown-symbol ones.
package classdef

import (
	"fmt"
	"strings"

	"github.com/hbollon/go-edlib"
)

// Kind discriminates the three CssClassDefinition shapes.
type Kind int

const (
	KindDeclaration Kind = iota
	KindRuleset
	KindComposes
)

// Declaration is one property:value pair inside a KindDeclaration definition.
type Declaration struct {
	Property string
	Value    string
}

// Definition is the polymorphic CssClassDefinition: exactly one of
// Declarations, Ruleset, or Composes is meaningful, selected by Kind.
type Definition struct {
	Name         string
	Kind         Kind
	Declarations []Declaration // KindDeclaration
	Ruleset      string        // KindRuleset: a verbatim CSS block
	Composes     []string      // KindComposes
}

// Interpreter examines an unknown class name and may expand it into a
// Definition, report a diagnostic, or decline by returning (nil, "", false).
// The first interpreter in the chain to return a non-decline result wins.
type Interpreter func(className string) (def *Definition, diagMessage string, matched bool)

// Table holds the user/default class-definition map plus an ordered
// interpreter chain applied to names absent from it.
type Table struct {
	defs         map[string]*Definition
	interpreters []Interpreter
}

// New builds a Table from known definitions. Interpreters are appended with
// AddInterpreter, in priority order (first wins).
func New(defs map[string]*Definition) *Table {
	return &Table{defs: defs}
}

// AddInterpreter appends an interpreter to the chain.
func (t *Table) AddInterpreter(i Interpreter) {
	t.interpreters = append(t.interpreters, i)
}

// Resolve returns the Definition for className, running the interpreter
// chain if it is not already in the table. ok is false if no interpreter
// claimed the name; diagMessage is non-empty when an interpreter produced a
// diagnostic instead of (or in addition to declining) a definition.
func (t *Table) Resolve(className string) (def *Definition, diagMessage string, ok bool) {
	if d, found := t.defs[className]; found {
		return d, "", true
	}
	for _, interp := range t.interpreters {
		if d, msg, matched := interp(className); matched {
			return d, msg, true
		}
	}
	return nil, "", false
}

// knownProperties is the set of CSS property names the default interpreter
// recognizes. It is not exhaustive of CSS, only of the properties a
// CSS-literal utility class grammar realistically targets.
var knownProperties = map[string]struct{}{
	"color": {}, "background": {}, "background-color": {}, "border": {},
	"border-color": {}, "border-radius": {}, "border-width": {}, "margin": {},
	"margin-top": {}, "margin-right": {}, "margin-bottom": {}, "margin-left": {},
	"padding": {}, "padding-top": {}, "padding-right": {}, "padding-bottom": {},
	"padding-left": {}, "width": {}, "height": {}, "max-width": {}, "max-height": {},
	"min-width": {}, "min-height": {}, "display": {}, "position": {}, "top": {},
	"right": {}, "bottom": {}, "left": {}, "flex": {}, "flex-direction": {},
	"flex-wrap": {}, "justify-content": {}, "align-items": {}, "align-self": {},
	"gap": {}, "grid-template-columns": {}, "grid-template-rows": {}, "grid-column": {},
	"grid-row": {}, "font-size": {}, "font-weight": {}, "font-family": {},
	"line-height": {}, "letter-spacing": {}, "text-align": {}, "text-decoration": {},
	"text-transform": {}, "opacity": {}, "overflow": {}, "overflow-x": {},
	"overflow-y": {}, "z-index": {}, "cursor": {}, "box-shadow": {}, "transition": {},
	"transform": {}, "outline": {}, "visibility": {}, "white-space": {}, "gap-x": {},
	"gap-y": {},
}

// suggestProperty returns a "did you mean" suggestion for an unknown
// property name, if a known one is similar enough.
func suggestProperty(unknown string) string {
	best := ""
	bestScore := 0.0
	for known := range knownProperties {
		score, err := edlib.StringsSimilarity(unknown, known, edlib.Levenshtein)
		if err != nil {
			continue
		}
		if float64(score) > bestScore {
			bestScore = float64(score)
			best = known
		}
	}
	if bestScore > 0.85 {
		return best
	}
	return ""
}

// DefaultInterpreter implements the CSS-literal grammar:
// MODIFIER* PROPERTY ":" VALUE, where MODIFIER is "ident:" repeated (e.g.
// "hover:", "dark:", "md:", "nth-child(2n):"), PROPERTY is a CSS property
// name, and VALUE is a token sequence where "~" decodes to a space.
// Unknown properties yield a diagnostic message instead of a Definition.
func DefaultInterpreter(className string) (*Definition, string, bool) {
	// className is MODIFIER* PROPERTY ":" VALUE. Since VALUE may itself
	// contain no further colons (spaces are encoded as "~", not ":"), the
	// last colon always separates PROPERTY from VALUE; everything before
	// that, split on ":", is the modifier chain plus the property name.
	lastColon := strings.LastIndex(className, ":")
	if lastColon <= 0 || lastColon == len(className)-1 {
		return nil, "", false
	}
	head := className[:lastColon]
	value := className[lastColon+1:]

	headParts := trimEmpty(strings.Split(head, ":"))
	if len(headParts) == 0 {
		return nil, "", false
	}
	property := headParts[len(headParts)-1]
	modifiers := headParts[:len(headParts)-1]

	if property == "" || value == "" {
		return nil, "", false
	}

	if _, known := knownProperties[property]; !known {
		msg := fmt.Sprintf("unknown CSS property %q in class %q", property, className)
		if suggestion := suggestProperty(property); suggestion != "" {
			msg += fmt.Sprintf(" (did you mean %q?)", suggestion)
		}
		return nil, msg, true
	}

	decodedValue := strings.ReplaceAll(value, "~", " ")

	selectorPrefix := ""
	for _, m := range modifiers {
		selectorPrefix += ":" + m
	}

	ruleset := fmt.Sprintf(".%s%s {\n  %s: %s;\n}", escapeSelector(className), selectorPrefix, property, decodedValue)

	return &Definition{
		Name:    className,
		Kind:    KindRuleset,
		Ruleset: ruleset,
	}, "", true
}

func trimEmpty(s []string) []string {
	out := s[:0]
	for _, v := range s {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// escapeSelector escapes the CSS special characters spec.md §4.I names so a
// literal class name is safe to use inside a generated selector.
func escapeSelector(s string) string {
	const specials = `!"#$%&'()*+,./:;<=>?@[\]^` + "`" + `{|}~`
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(specials, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
