// Command fuzcss is the build-time CSS generator's CLI entry point: it
// walks a project, extracts class/element/variable usage, resolves the
// minimal theme/base/utility CSS, and writes the result to disk, either
// once or continuously in --watch mode. Grounded on cmd/lci/main.go's
// cli.App{Flags:...} shape and its loadConfigWithOverrides pattern (config
// file first, CLI flags layered on top).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/fuzdev/fuzcss/internal/buildlog"
	"github.com/fuzdev/fuzcss/internal/cache"
	"github.com/fuzdev/fuzcss/internal/classdef"
	"github.com/fuzdev/fuzcss/internal/classvarindex"
	"github.com/fuzdev/fuzcss/internal/config"
	"github.com/fuzdev/fuzcss/internal/diagnostic"
	"github.com/fuzdev/fuzcss/internal/emit"
	"github.com/fuzdev/fuzcss/internal/fsops"
	"github.com/fuzdev/fuzcss/internal/pathfilter"
	"github.com/fuzdev/fuzcss/internal/pipeline"
	"github.com/fuzdev/fuzcss/internal/resolve"
	"github.com/fuzdev/fuzcss/internal/styleindex"
	"github.com/fuzdev/fuzcss/internal/vargraph"
	"github.com/fuzdev/fuzcss/internal/watch"
)

var log = buildlog.Default("fuzcss: ")

func main() {
	app := &cli.App{
		Name:                   "fuzcss",
		Usage:                  "Extract and generate minimal CSS from component sources",
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Project root directory to scan",
				Value:   ".",
			},
			&cli.StringFlag{
				Name:    "theme",
				Aliases: []string{"t"},
				Usage:   "Theme source file (KDL list of name/light/dark variable triples)",
			},
			&cli.StringFlag{
				Name:    "base",
				Aliases: []string{"b"},
				Usage:   "Base stylesheet to index for element/class rules",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Output CSS file path",
				Value:   "fuzcss.generated.css",
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "Include files matching glob patterns, overriding the default extension set",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Exclude files matching glob patterns, in addition to the defaults",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Rebuild on source changes instead of exiting after one build",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Disable the per-file extraction cache",
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: "Worker-pool size for parallel extraction (0 = GOMAXPROCS)",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	root, err := filepath.Abs(c.String("root"))
	if err != nil {
		return fmt.Errorf("resolve root: %w", err)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	fs := fsops.Disk{}
	c2 := cache.New(fs)
	filter := pathfilter.New(c.StringSlice("include"), c.StringSlice("exclude"))

	cacheRoot := filepath.Join(root, cfg.CacheDir)

	build := func() error {
		return runBuild(c.Context, root, cacheRoot, c.String("theme"), c.String("base"), c.String("out"), fs, c2, filter, cfg, c.Bool("no-cache"), c.Int("concurrency"))
	}

	if !c.Bool("watch") {
		return build()
	}

	log.Infof("watching %s", root)
	w, err := watch.New(root, filter, 200*time.Millisecond)
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer w.Close()

	ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := build(); err != nil {
		log.Errorf("build failed: %v", err)
	}

	return w.Run(ctx, func() {
		if err := build(); err != nil {
			log.Errorf("build failed: %v", err)
		} else {
			log.Infof("rebuilt %s", c.String("out"))
		}
	})
}

func runBuild(ctx context.Context, root, cacheRoot, themePath, basePath, outPath string, fs fsops.Ops, c *cache.Cache, filter *pathfilter.Filter, cfg config.Config, noCache bool, concurrency int) error {
	files, err := enumerateFiles(root, filter)
	if err != nil {
		return fmt.Errorf("enumerate files: %w", err)
	}

	results, err := pipeline.Run(ctx, files, fs, c, pipeline.Options{
		ProjectRoot: root,
		CacheRoot:   cacheRoot,
		Concurrency: concurrency,
		UseCache:    !noCache,
	})
	if err != nil {
		return fmt.Errorf("extraction: %w", err)
	}
	agg := pipeline.Aggregate(results)

	var baseCSS string
	if basePath != "" {
		b, err := fs.ReadText(basePath)
		if err != nil {
			return fmt.Errorf("read base stylesheet: %w", err)
		}
		baseCSS = string(b)
	}
	styles := styleindex.Build(baseCSS)

	vars, err := loadThemeVariables(fs, themePath)
	if err != nil {
		return fmt.Errorf("load theme variables: %w", err)
	}
	graph := vargraph.Build(vars)

	table := classdef.New(builtinClassDefs(cfg))
	table.AddInterpreter(classdef.DefaultInterpreter)

	classVars := classvarindex.Build(classDefTexts(cfg))

	detected := resolve.DetectedSets{
		Elements:     agg.Elements,
		Classes:      detectedClassNames(agg),
		CSSVariables: agg.CSSVariables,
		UtilityVars:  make(map[string]struct{}),
	}

	result := resolve.Resolve(styles, graph, classVars, detected, resolve.Config{
		IncludeElements:      cfg.AdditionalElements,
		IncludeVariables:     append(cfg.IncludeVariables, cfg.AdditionalVariables...),
		IncludeAllVariables:  cfg.IncludeAllVariables,
		ThemeSpecificity:     cfg.ThemeSpecificity,
		WarnUnmatchedElement: false,
	})

	utility := emit.NewUtility(table)
	utilityCSS := ""
	var classDiags []diagnostic.Diagnostic
	if cfg.IncludeDefaultClasses {
		utilityCSS, classDiags = utility.Generate(sortedClassNames(detected.Classes), agg.Classes)
	}

	allDiags := append(append(agg.Diagnostics, result.Diagnostics...), classDiags...)
	for _, d := range allDiags {
		if d.IsError() {
			log.Errorf("%s", d.Message)
		} else {
			log.Warnf("%s", d.Message)
		}
	}

	flags := emit.Flags{
		Theme:   cfg.Variables.Mode != config.ModeDisabled,
		Base:    cfg.BaseCSS.Mode != config.ModeDisabled && cfg.TreeshakeBaseCSS,
		Utility: true,
	}
	if !cfg.TreeshakeBaseCSS {
		flags.Base = cfg.BaseCSS.Mode != config.ModeDisabled
		if baseCSS != "" && result.BaseCSS == "" {
			result.BaseCSS = baseCSS
		}
	}

	out := emit.Assemble(result.ThemeCSS, result.BaseCSS, utilityCSS, flags)

	return fs.WriteTextAtomic(outPathAbs(root, outPath), []byte(out))
}

func outPathAbs(root, outPath string) string {
	if filepath.IsAbs(outPath) {
		return outPath
	}
	return filepath.Join(root, outPath)
}

func enumerateFiles(root string, filter *pathfilter.Filter) ([]pipeline.SourceFile, error) {
	var files []pipeline.SourceFile
	err := filepath.Walk(root, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !filter.Accept(path) {
			return nil
		}
		files = append(files, pipeline.SourceFile{AbsPath: path, Ext: filepath.Ext(path)})
		return nil
	})
	return files, err
}

func detectedClassNames(agg pipeline.Aggregated) map[string]struct{} {
	out := make(map[string]struct{}, len(agg.Classes))
	for name := range agg.Classes {
		out[name] = struct{}{}
	}
	return out
}

func sortedClassNames(classes map[string]struct{}) []string {
	out := make([]string, 0, len(classes))
	for c := range classes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// builtinClassDefs seeds the class-definition table from config's
// additional_classes/exclude_classes lists: additional entries become
// KindComposes aliases resolvable by name, and any name that also appears
// in exclude_classes is left out of the table, so lookups for it fall
// through to DefaultInterpreter. This tool has no built-in default table of
// its own, so subtracting from additional_classes is the only effect
// exclude_classes has here.
func builtinClassDefs(cfg config.Config) map[string]*classdef.Definition {
	defs := make(map[string]*classdef.Definition, len(cfg.AdditionalClasses))
	excluded := make(map[string]struct{}, len(cfg.ExcludeClasses))
	for _, name := range cfg.ExcludeClasses {
		excluded[name] = struct{}{}
	}
	for _, name := range cfg.AdditionalClasses {
		if _, skip := excluded[name]; skip {
			continue
		}
		defs[name] = &classdef.Definition{Name: name, Kind: classdef.KindComposes, Composes: nil}
	}
	return defs
}

// classDefTexts would scan a user-supplied class-definition table for
// var(--X) references; this tool has no such table beyond
// additional_classes (plain composes aliases, which never reference
// variables directly), so there is nothing to scan yet.
func classDefTexts(config.Config) []classvarindex.ClassDefinitionText {
	return nil
}

func loadThemeVariables(fs fsops.Ops, themePath string) ([]vargraph.StyleVariable, error) {
	if themePath == "" {
		return nil, nil
	}
	content, err := fs.ReadText(themePath)
	if err != nil {
		return nil, err
	}
	return parseThemeKDL(string(content))
}
