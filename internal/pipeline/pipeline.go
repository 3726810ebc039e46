// Package pipeline orchestrates one build: parallel per-file extraction
// over a bounded worker pool, then a single-threaded, deterministic
// aggregation pass, per spec.md §5. Grounded on internal/indexing/pipeline.go's
// scan-then-process shape (the teacher's own pipeline is context-cancellable
// and channel-driven; this package narrows that down to errgroup.SetLimit,
// the teacher's declared golang.org/x/sync dependency, since the spec's
// concurrency model is a flat bounded-pool fan-out with no inter-stage
// channel topology to justify the teacher's richer pipeline machinery).
package pipeline

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/fuzdev/fuzcss/internal/cache"
	"github.com/fuzdev/fuzcss/internal/diagnostic"
	"github.com/fuzdev/fuzcss/internal/extract"
	"github.com/fuzdev/fuzcss/internal/fsops"
	"github.com/fuzdev/fuzcss/internal/location"
)

// SourceFile is one file the pipeline will extract, already filtered by
// internal/pathfilter.
type SourceFile struct {
	AbsPath string
	Ext     string
}

// FileResult pairs a source file with its extraction result, for
// deterministic aggregation after all workers finish.
type FileResult struct {
	Path   string
	Result *extract.Result
}

// Options configures one pipeline run.
type Options struct {
	ProjectRoot string
	CacheRoot   string
	Concurrency int // worker-pool size; <=0 means runtime.GOMAXPROCS(0)
	UseCache    bool
}

// Run extracts every file in files, using the cache when enabled, and
// returns per-file results in source-path-ascending order for deterministic
// downstream aggregation. A single file's extraction failure never aborts
// the build: parse errors already degrade to a warning diagnostic inside
// extract.File, and this layer's own errors (fsops failures reading a file)
// are likewise recorded as a diagnostic rather than propagated.
func Run(ctx context.Context, files []SourceFile, fs fsops.Ops, c *cache.Cache, opts Options) ([]FileResult, error) {
	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(limit)

	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = FileResult{Path: f.AbsPath, Result: extractOne(f, fs, c, opts)}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return results, nil
}

func extractOne(f SourceFile, fs fsops.Ops, c *cache.Cache, opts Options) *extract.Result {
	content, err := fs.ReadText(f.AbsPath)
	if err != nil {
		return &extract.Result{
			Diagnostics: []diagnostic.Diagnostic{
				diagnostic.Extraction(diagnostic.LevelWarning, "parse error: "+err.Error(), location.SourceLocation{File: f.AbsPath, Line: 1, Column: 1}),
			},
		}
	}

	contentHash := cache.ContentHash(content)

	if opts.UseCache && c != nil {
		if rec, ok := c.Load(f.AbsPath, opts.CacheRoot, opts.ProjectRoot); ok && rec.ContentHash == contentHash {
			classes, diags := cache.FromCached(rec)
			return &extract.Result{Classes: classes, Diagnostics: diags}
		}
	}

	result := extract.File(f.AbsPath, f.Ext, content)

	if opts.UseCache && c != nil {
		if cachePath, err := cache.PathFor(opts.CacheRoot, opts.ProjectRoot, f.AbsPath); err == nil {
			_ = c.Store(cachePath, contentHash, result.Classes, result.Diagnostics)
		}
	}

	return result
}

// Aggregated is the union of every file's detected sets, in
// source-path-ascending aggregation order per spec.md §5.
type Aggregated struct {
	Classes      map[string][]location.SourceLocation
	Elements     map[string]struct{}
	CSSVariables map[string]struct{}
	TrackedVars  map[string]struct{}
	Diagnostics  []diagnostic.Diagnostic
}

// Aggregate unions per-file results, already in path order from Run, into
// one build-wide Aggregated set. Per-class location lists are concatenated
// in aggregation order and then deduplicated by (file, line, column).
func Aggregate(results []FileResult) Aggregated {
	out := Aggregated{
		Classes:      make(map[string][]location.SourceLocation),
		Elements:     make(map[string]struct{}),
		CSSVariables: make(map[string]struct{}),
		TrackedVars:  make(map[string]struct{}),
	}

	for _, fr := range results {
		if fr.Result == nil {
			continue
		}
		for name, locs := range fr.Result.Classes {
			out.Classes[name] = append(out.Classes[name], locs...)
		}
		for e := range fr.Result.Elements {
			out.Elements[e] = struct{}{}
		}
		for v := range fr.Result.CSSVariables {
			out.CSSVariables[v] = struct{}{}
		}
		for v := range fr.Result.TrackedVars {
			out.TrackedVars[v] = struct{}{}
		}
		out.Diagnostics = append(out.Diagnostics, fr.Result.Diagnostics...)
	}

	for name, locs := range out.Classes {
		out.Classes[name] = dedupLocations(locs)
	}

	return out
}

func dedupLocations(locs []location.SourceLocation) []location.SourceLocation {
	seen := make(map[location.SourceLocation]struct{}, len(locs))
	result := make([]location.SourceLocation, 0, len(locs))
	for _, l := range locs {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		result = append(result, l)
	}
	return result
}
