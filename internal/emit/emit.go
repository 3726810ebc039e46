// Package emit renders class definitions into utility CSS and assembles the
// three final sections (theme, base, utility) into one artifact, per
// spec.md §4.I and the Assembly algorithm in §4.H. Grounded on
// internal/styleindex's selector-escaping approach (the same escape set
// applies at both rule-parse time and emission time) and the teacher's
// plain string-builder style for text assembly (no templating library is
// used anywhere in the pack for generated-text assembly; every generator in
// the retrieval set builds output with strings.Builder/fmt).
package emit

import (
	"fmt"
	"strings"

	"github.com/fuzdev/fuzcss/internal/classdef"
	"github.com/fuzdev/fuzcss/internal/diagnostic"
	"github.com/fuzdev/fuzcss/internal/location"
)

const escapeSpecials = `!"#$%&'()*+,./:;<=>?@[\]^` + "`" + `{|}~`

// EscapeSelector backslash-escapes each ASCII punctuation character listed
// in escapeSpecials. Other characters, including whitespace and non-ASCII
// letters, are written unescaped.
func EscapeSelector(name string) string {
	var b strings.Builder
	for _, r := range name {
		if strings.ContainsRune(escapeSpecials, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Utility renders the utility-class CSS for a set of detected class names,
// resolving composes depth-first and de-duplicating already-emitted class
// names within this one output.
type Utility struct {
	table *classdef.Table
}

// NewUtility wraps a class-definition table for utility CSS generation.
func NewUtility(table *classdef.Table) *Utility {
	return &Utility{table: table}
}

// Generate emits one rule per resolved class name, in the given class-name
// order, expanding composes before the composing class and skipping names
// with no resolvable definition. locations maps a detected class name to
// its source occurrences, for attaching locations to the generation
// diagnostics Generate returns alongside the CSS: one error diagnostic per
// class with no matching definition or interpreter, and one warning
// diagnostic per class an interpreter matched but flagged (e.g. the
// unknown-CSS-property case from the default interpreter).
func (u *Utility) Generate(classNames []string, locations map[string][]location.SourceLocation) (string, []diagnostic.Diagnostic) {
	emitted := make(map[string]struct{})
	var out []string
	var diags []diagnostic.Diagnostic
	for _, name := range classNames {
		u.emitClass(name, emitted, &out, &diags, locations)
	}
	return strings.Join(out, "\n\n"), diags
}

func (u *Utility) emitClass(name string, emitted map[string]struct{}, out *[]string, diags *[]diagnostic.Diagnostic, locations map[string][]location.SourceLocation) {
	if _, ok := emitted[name]; ok {
		return
	}
	def, msg, ok := u.table.Resolve(name)
	if !ok {
		*diags = append(*diags, diagnostic.Generation(
			diagnostic.LevelError,
			fmt.Sprintf("unknown class %q: no definition or interpreter matched", name),
			name, locations[name], "",
		))
		return
	}
	if msg != "" {
		*diags = append(*diags, diagnostic.Generation(diagnostic.LevelWarning, msg, name, locations[name], ""))
	}
	if def == nil {
		return
	}

	if def.Kind == classdef.KindComposes {
		for _, composed := range def.Composes {
			u.emitClass(composed, emitted, out, diags, locations)
		}
	}

	emitted[name] = struct{}{}

	switch def.Kind {
	case classdef.KindDeclaration:
		*out = append(*out, renderDeclaration(name, def.Declarations))
	case classdef.KindRuleset:
		*out = append(*out, def.Ruleset)
	case classdef.KindComposes:
		// nothing of its own to emit; its composed classes were already
		// appended above.
	}
}

func renderDeclaration(name string, decls []classdef.Declaration) string {
	var b strings.Builder
	fmt.Fprintf(&b, ".%s {", EscapeSelector(name))
	for _, d := range decls {
		fmt.Fprintf(&b, "\n  %s: %s;", d.Property, d.Value)
	}
	b.WriteString("\n}")
	return b.String()
}

// Flags enables or disables each of the three sections Assemble emits.
type Flags struct {
	Theme   bool
	Base    bool
	Utility bool
}

// Assemble joins the three CSS sections in the exact order and with the
// exact markers spec.md §6 requires, omitting any section whose content is
// empty or whose flag is false. Non-empty sections are separated by a blank
// line.
func Assemble(themeCSS, baseCSS, utilityCSS string, flags Flags) string {
	var sections []string

	if flags.Theme && themeCSS != "" {
		sections = append(sections, "/* Theme Variables */\n\n"+themeCSS)
	}
	if flags.Base && baseCSS != "" {
		sections = append(sections, "/* Base Styles */\n\n"+baseCSS)
	}
	if flags.Utility && utilityCSS != "" {
		sections = append(sections, "/* Utility Classes */\n\n"+utilityCSS)
	}

	return strings.Join(sections, "\n\n")
}
