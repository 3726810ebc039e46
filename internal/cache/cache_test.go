package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuzdev/fuzcss/internal/diagnostic"
	"github.com/fuzdev/fuzcss/internal/fsops"
	"github.com/fuzdev/fuzcss/internal/location"
)

func TestPathForRejectsFilesOutsideProjectRoot(t *testing.T) {
	_, err := PathFor("/proj/.fuz/cache", "/proj", "/other/file.ts")
	assert.Error(t, err)
}

func TestPathForJoinsRelativePathWithJSONSuffix(t *testing.T) {
	path, err := PathFor("/proj/.fuz/cache", "/proj", "/proj/src/App.svelte")
	require.NoError(t, err)
	assert.Equal(t, "/proj/.fuz/cache/src/App.svelte.json", path)
}

func TestStoreThenLoadRoundTrips(t *testing.T) {
	fs := fsops.NewFake()
	c := New(fs)

	classes := map[string][]location.SourceLocation{
		"btn": {{File: "a.svelte", Line: 2, Column: 5}},
	}
	diags := []diagnostic.Diagnostic{
		diagnostic.Extraction(diagnostic.LevelWarning, "parse error", location.SourceLocation{File: "a.svelte", Line: 1, Column: 1}),
	}

	cachePath, err := PathFor("/proj/.fuz/cache", "/proj", "/proj/a.svelte")
	require.NoError(t, err)
	require.NoError(t, c.Store(cachePath, "hash-1", classes, diags))

	rec, ok := c.Load("/proj/a.svelte", "/proj/.fuz/cache", "/proj")
	require.True(t, ok)
	assert.Equal(t, "hash-1", rec.ContentHash)

	restoredClasses, restoredDiags := FromCached(rec)
	assert.Equal(t, classes, restoredClasses)
	require.Len(t, restoredDiags, 1)
	assert.Equal(t, "parse error", restoredDiags[0].Message)
}

func TestLoadMissesOnSchemaVersionMismatch(t *testing.T) {
	fs := fsops.NewFake()
	fs.Seed("/proj/.fuz/cache/a.svelte.json", []byte(`{"schema_version": 999, "content_hash": "x"}`))
	c := New(fs)

	_, ok := c.Load("/proj/a.svelte", "/proj/.fuz/cache", "/proj")
	assert.False(t, ok)
}

func TestLoadMissesOnMissingFile(t *testing.T) {
	fs := fsops.NewFake()
	c := New(fs)
	_, ok := c.Load("/proj/a.svelte", "/proj/.fuz/cache", "/proj")
	assert.False(t, ok)
}

func TestLoadMissesOnCorruptJSON(t *testing.T) {
	fs := fsops.NewFake()
	fs.Seed("/proj/.fuz/cache/a.svelte.json", []byte(`not json`))
	c := New(fs)
	_, ok := c.Load("/proj/a.svelte", "/proj/.fuz/cache", "/proj")
	assert.False(t, ok)
}

func TestContentHashIsDeterministic(t *testing.T) {
	assert.Equal(t, ContentHash([]byte("abc")), ContentHash([]byte("abc")))
	assert.NotEqual(t, ContentHash([]byte("abc")), ContentHash([]byte("abd")))
}
