package main

import (
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"

	"github.com/fuzdev/fuzcss/internal/vargraph"
)

// parseThemeKDL reads a theme source in the shape:
//
//	variable "primary-color" {
//	    light "#ffffff"
//	    dark "#111111"
//	}
//
// one top-level "variable" node per StyleVariable, each with a "light"
// and/or "dark" child node carrying its opaque CSS value. Grounded on
// internal/config/kdl_config.go's nested-children convention (project {
// root "." name "foo" }) rather than KDL properties, matching the only
// document shape the teacher's own KDL usage demonstrates.
func parseThemeKDL(content string) ([]vargraph.StyleVariable, error) {
	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return nil, err
	}

	var vars []vargraph.StyleVariable
	for _, n := range doc.Nodes {
		if themeNodeName(n) != "variable" {
			continue
		}
		name, ok := themeFirstStringArg(n)
		if !ok {
			continue
		}
		v := vargraph.StyleVariable{Name: name}
		for _, cn := range n.Children {
			switch themeNodeName(cn) {
			case "light":
				if s, ok := themeFirstStringArg(cn); ok {
					v.Light = s
				}
			case "dark":
				if s, ok := themeFirstStringArg(cn); ok {
					v.Dark = s
				}
			}
		}
		vars = append(vars, v)
	}
	return vars, nil
}

func themeNodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func themeFirstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}
