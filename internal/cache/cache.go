// Package cache implements the per-file extraction cache (spec.md §4.C): a
// content-hash-keyed, schema-versioned JSON record stored at
// <cache_root>/<source_relative_to_project_root>.json, written atomically.
// Grounded on the teacher's internal/cache package for key-hashing style
// (generateContentKey's SHA-256-hex approach in metrics_cache.go) and
// internal/security/file_validator.go for the containment check a load must
// perform before trusting a path.
package cache

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fuzdev/fuzcss/internal/diagnostic"
	"github.com/fuzdev/fuzcss/internal/ferr"
	"github.com/fuzdev/fuzcss/internal/fsops"
	"github.com/fuzdev/fuzcss/internal/hashutil"
	"github.com/fuzdev/fuzcss/internal/location"
)

// SchemaVersion gates the cache. Bump it whenever ExtractionResult, the
// extraction logic, or the SourceLocation/Diagnostic shapes change; an old
// version on disk is treated as a miss, never an error.
const SchemaVersion = 1

// locTuple is the wire shape of a location.SourceLocation: a JSON object
// with file, line and column keys.
type locTuple struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// classEntry is one class in the serialized classes list, encoded as a JSON
// object with name and locations keys, not as a two-element array.
type classEntry struct {
	Name      string     `json:"name"`
	Locations []locTuple `json:"locations"`
}

// diagWire is the JSON shape of a diagnostic.Diagnostic.
type diagWire struct {
	Phase      string     `json:"phase"`
	Level      string     `json:"level"`
	Message    string     `json:"message"`
	Suggestion string     `json:"suggestion,omitempty"`
	Location   *locTuple  `json:"location,omitempty"`
	ClassName  string     `json:"class_name,omitempty"`
	Locations  []locTuple `json:"locations,omitempty"`
}

// Record is the on-disk CachedExtraction shape.
type Record struct {
	SchemaVersion int        `json:"schema_version"`
	ContentHash   string     `json:"content_hash"`
	Classes       []classEntry `json:"classes,omitempty"`
	Diagnostics   []diagWire   `json:"diagnostics,omitempty"`
}

// Cache wraps a filesystem abstraction with the load/store/delete
// operations spec.md §4.C names.
type Cache struct {
	fs fsops.Ops
}

// New wraps fs (a real Disk or a test Fake) in a Cache.
func New(fs fsops.Ops) *Cache {
	return &Cache{fs: fs}
}

// PathFor derives the cache path for a source file: <cache_root>/<source
// path relative to project_root>.json. sourceAbs must be under projectRoot.
func PathFor(cacheRoot, projectRoot, sourceAbs string) (string, error) {
	rel, err := filepath.Rel(projectRoot, sourceAbs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", ferr.New(ferr.KindCache, "PathFor", fmt.Errorf("source %q is not under project root %q", sourceAbs, projectRoot)).WithPath(sourceAbs)
	}
	return filepath.Join(cacheRoot, rel+".json"), nil
}

// Load reads and validates the cache record for sourceAbs. Any read, parse,
// or version-mismatch failure is reported as a miss (ok=false), never an
// error: the cache is an optimization, not a source of truth.
func (c *Cache) Load(sourceAbs, cacheRoot, projectRoot string) (rec Record, ok bool) {
	path, err := PathFor(cacheRoot, projectRoot, sourceAbs)
	if err != nil {
		return Record{}, false
	}

	raw, err := c.fs.ReadText(path)
	if err != nil {
		return Record{}, false
	}

	var r Record
	if err := json.Unmarshal(raw, &r); err != nil {
		return Record{}, false
	}
	if r.SchemaVersion != SchemaVersion {
		return Record{}, false
	}
	return r, true
}

// Store serializes classes/diagnostics for contentHash and writes them
// atomically to cachePath. Empty slices are normalized to nil (spec.md's
// "none" state) before marshaling, matching the cache-miss-free shape the
// reader expects back from FromCached.
func (c *Cache) Store(cachePath, contentHash string, classes map[string][]location.SourceLocation, diags []diagnostic.Diagnostic) error {
	rec := Record{
		SchemaVersion: SchemaVersion,
		ContentHash:   contentHash,
	}

	if len(classes) > 0 {
		names := make([]string, 0, len(classes))
		for name := range classes {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			locs := dedupLocations(classes[name])
			entry := classEntry{Name: name, Locations: make([]locTuple, 0, len(locs))}
			for _, l := range locs {
				entry.Locations = append(entry.Locations, locTuple{File: l.File, Line: l.Line, Column: l.Column})
			}
			rec.Classes = append(rec.Classes, entry)
		}
	}

	if len(diags) > 0 {
		for _, d := range diags {
			rec.Diagnostics = append(rec.Diagnostics, toDiagWire(d))
		}
	}

	body, err := json.Marshal(rec)
	if err != nil {
		return ferr.New(ferr.KindCache, "Store", err).WithPath(cachePath)
	}
	if err := c.fs.WriteTextAtomic(cachePath, body); err != nil {
		return ferr.New(ferr.KindCache, "Store", err).WithPath(cachePath)
	}
	return nil
}

// Delete removes a cache entry. A missing file is not an error.
func (c *Cache) Delete(cachePath string) error {
	if err := c.fs.Unlink(cachePath); err != nil {
		return ferr.New(ferr.KindCache, "Delete", err).WithPath(cachePath)
	}
	return nil
}

// FromCached restores the runtime classes map and diagnostics list from a
// deserialized Record.
func FromCached(rec Record) (map[string][]location.SourceLocation, []diagnostic.Diagnostic) {
	var classes map[string][]location.SourceLocation
	if len(rec.Classes) > 0 {
		classes = make(map[string][]location.SourceLocation, len(rec.Classes))
		for _, entry := range rec.Classes {
			locs := make([]location.SourceLocation, 0, len(entry.Locations))
			for _, l := range entry.Locations {
				locs = append(locs, location.SourceLocation{File: l.File, Line: l.Line, Column: l.Column})
			}
			classes[entry.Name] = locs
		}
	}

	var diags []diagnostic.Diagnostic
	for _, dw := range rec.Diagnostics {
		diags = append(diags, fromDiagWire(dw))
	}
	return classes, diags
}

func toDiagWire(d diagnostic.Diagnostic) diagWire {
	w := diagWire{
		Phase:      string(d.Phase),
		Level:      string(d.Level),
		Message:    d.Message,
		Suggestion: d.Suggestion,
		ClassName:  d.ClassName,
	}
	if d.Location != nil {
		w.Location = &locTuple{File: d.Location.File, Line: d.Location.Line, Column: d.Location.Column}
	}
	for _, l := range d.Locations {
		w.Locations = append(w.Locations, locTuple{File: l.File, Line: l.Line, Column: l.Column})
	}
	return w
}

func fromDiagWire(w diagWire) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Phase:      diagnostic.Phase(w.Phase),
		Level:      diagnostic.Level(w.Level),
		Message:    w.Message,
		Suggestion: w.Suggestion,
		ClassName:  w.ClassName,
	}
	if w.Location != nil {
		d.Location = &location.SourceLocation{File: w.Location.File, Line: w.Location.Line, Column: w.Location.Column}
	}
	for _, l := range w.Locations {
		d.Locations = append(d.Locations, location.SourceLocation{File: l.File, Line: l.Line, Column: l.Column})
	}
	return d
}

// dedupLocations removes duplicate (file, line, column) tuples while
// preserving first-seen (source) order, per the invariant in spec.md §3.
func dedupLocations(locs []location.SourceLocation) []location.SourceLocation {
	seen := make(map[location.SourceLocation]struct{}, len(locs))
	out := make([]location.SourceLocation, 0, len(locs))
	for _, l := range locs {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

// ContentHash computes the SHA-256 hex digest cache records are keyed on.
func ContentHash(content []byte) string {
	return hashutil.SHA256Hex(content)
}
