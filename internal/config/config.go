// Package config loads build options from a `.fuzcss.kdl` file, with an
// optional `.fuzcss.toml` overrides layer, into the Config shape spec.md §6
// names. Grounded on internal/config/kdl_config.go's node-traversal helpers
// (nodeName/firstIntArg/firstStringArg/firstBoolArg/assignSimpleString) for
// the KDL side, generalized from that file's domain-specific sections
// (project/index/search/...) to this tool's option table; the TOML overrides
// layer follows the same "second file augments the first" shape the
// teacher's KDL loader documents in its own doc comment, but using
// pelletier/go-toml/v2 (seen elsewhere in the retrieval pack) since the
// teacher itself has no secondary overrides format to imitate directly.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
	toml "github.com/pelletier/go-toml/v2"
)

// OnFailure is the on_error/on_warning behavior selector.
type OnFailure string

const (
	OnLog    OnFailure = "log"
	OnThrow  OnFailure = "throw"
	OnIgnore OnFailure = "ignore" // valid for on_warning only
)

// OverrideMode selects how base_css and variables are sourced: ModeDefault
// when the option is absent (or has no string argument), ModeDisabled when
// it is given as an empty string, ModeReplace when it is given as a
// non-empty string. There is no function-of-defaults form.
type OverrideMode int

const (
	ModeDefault OverrideMode = iota
	ModeDisabled
	ModeReplace
)

type CSSOverride struct {
	Mode  OverrideMode
	Value string // meaningful when Mode == ModeReplace
}

// Config is the recognized option set from spec.md §6.
type Config struct {
	AdditionalClasses    []string
	ExcludeClasses       []string
	AdditionalElements   []string
	AdditionalVariables  []string
	IncludeVariables     []string
	IncludeAllVariables  bool
	IncludeDefaultClasses bool
	BaseCSS              CSSOverride
	Variables             CSSOverride
	TreeshakeBaseCSS     bool
	TreeshakeVariables   bool
	ThemeSpecificity     int
	OnError              OnFailure
	OnWarning            OnFailure
	CacheDir             string
}

// Defaults returns the option set in effect before any config file is read.
func Defaults() Config {
	return Config{
		IncludeDefaultClasses: true,
		TreeshakeBaseCSS:      true,
		TreeshakeVariables:    true,
		ThemeSpecificity:      1,
		OnError:               OnLog,
		OnWarning:             OnLog,
		CacheDir:              filepath.Join(".fuz", "cache", "css"),
	}
}

// Load reads `<projectRoot>/.fuzcss.kdl` (if present) and layers
// `<projectRoot>/.fuzcss.toml` (if present) on top, starting from Defaults.
// A missing primary file is not an error — it means "use defaults".
func Load(projectRoot string) (Config, error) {
	cfg := Defaults()

	kdlPath := filepath.Join(projectRoot, ".fuzcss.kdl")
	if content, err := os.ReadFile(kdlPath); err == nil {
		if err := applyKDL(&cfg, string(content)); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", kdlPath, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("read %s: %w", kdlPath, err)
	}

	tomlPath := filepath.Join(projectRoot, ".fuzcss.toml")
	if content, err := os.ReadFile(tomlPath); err == nil {
		if err := applyTOML(&cfg, content); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", tomlPath, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("read %s: %w", tomlPath, err)
	}

	return cfg, nil
}

func applyKDL(cfg *Config, content string) error {
	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return fmt.Errorf("failed to parse KDL config: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "additional_classes":
			cfg.AdditionalClasses = append(cfg.AdditionalClasses, stringArgs(n)...)
		case "exclude_classes":
			cfg.ExcludeClasses = append(cfg.ExcludeClasses, stringArgs(n)...)
		case "additional_elements":
			cfg.AdditionalElements = append(cfg.AdditionalElements, stringArgs(n)...)
		case "additional_variables":
			cfg.AdditionalVariables = append(cfg.AdditionalVariables, stringArgs(n)...)
		case "include_variables":
			cfg.IncludeVariables = append(cfg.IncludeVariables, stringArgs(n)...)
		case "include_all_variables":
			if b, ok := firstBoolArg(n); ok {
				cfg.IncludeAllVariables = b
			}
		case "include_default_classes":
			if b, ok := firstBoolArg(n); ok {
				cfg.IncludeDefaultClasses = b
			}
		case "treeshake_base_css":
			if b, ok := firstBoolArg(n); ok {
				cfg.TreeshakeBaseCSS = b
			}
		case "treeshake_variables":
			if b, ok := firstBoolArg(n); ok {
				cfg.TreeshakeVariables = b
			}
		case "theme_specificity":
			if v, ok := firstIntArg(n); ok {
				cfg.ThemeSpecificity = v
			}
		case "on_error":
			if s, ok := firstStringArg(n); ok {
				cfg.OnError = OnFailure(s)
			}
		case "on_warning":
			if s, ok := firstStringArg(n); ok {
				cfg.OnWarning = OnFailure(s)
			}
		case "cache_dir":
			if s, ok := firstStringArg(n); ok {
				cfg.CacheDir = s
			}
		case "base_css":
			cfg.BaseCSS = parseOverride(n)
		case "variables":
			cfg.Variables = parseOverride(n)
		}
	}
	return nil
}

func parseOverride(n *document.Node) CSSOverride {
	if s, ok := firstStringArg(n); ok {
		if s == "" {
			return CSSOverride{Mode: ModeDisabled}
		}
		return CSSOverride{Mode: ModeReplace, Value: s}
	}
	return CSSOverride{Mode: ModeDefault}
}

func stringArgs(n *document.Node) []string {
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

// tomlOverrides is the subset of Config the TOML layer may override; it
// deliberately mirrors only scalar/list options, not the four-form
// base_css/variables convention, which is KDL-only.
type tomlOverrides struct {
	AdditionalClasses   []string `toml:"additional_classes"`
	ExcludeClasses      []string `toml:"exclude_classes"`
	AdditionalElements  []string `toml:"additional_elements"`
	AdditionalVariables []string `toml:"additional_variables"`
	IncludeVariables    []string `toml:"include_variables"`
	IncludeAllVariables *bool    `toml:"include_all_variables"`
	ThemeSpecificity    *int     `toml:"theme_specificity"`
	OnError             *string  `toml:"on_error"`
	OnWarning           *string  `toml:"on_warning"`
	CacheDir            *string  `toml:"cache_dir"`
}

func applyTOML(cfg *Config, content []byte) error {
	var ov tomlOverrides
	if err := toml.Unmarshal(content, &ov); err != nil {
		return err
	}

	cfg.AdditionalClasses = append(cfg.AdditionalClasses, ov.AdditionalClasses...)
	cfg.ExcludeClasses = append(cfg.ExcludeClasses, ov.ExcludeClasses...)
	cfg.AdditionalElements = append(cfg.AdditionalElements, ov.AdditionalElements...)
	cfg.AdditionalVariables = append(cfg.AdditionalVariables, ov.AdditionalVariables...)
	cfg.IncludeVariables = append(cfg.IncludeVariables, ov.IncludeVariables...)
	if ov.IncludeAllVariables != nil {
		cfg.IncludeAllVariables = *ov.IncludeAllVariables
	}
	if ov.ThemeSpecificity != nil {
		cfg.ThemeSpecificity = *ov.ThemeSpecificity
	}
	if ov.OnError != nil {
		cfg.OnError = OnFailure(*ov.OnError)
	}
	if ov.OnWarning != nil {
		cfg.OnWarning = OnFailure(*ov.OnWarning)
	}
	if ov.CacheDir != nil {
		cfg.CacheDir = *ov.CacheDir
	}
	return nil
}
