package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/fuzdev/fuzcss/internal/cache"
	"github.com/fuzdev/fuzcss/internal/fsops"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRunExtractsEveryFileAndReturnsPathSorted(t *testing.T) {
	fs := fsops.NewFake()
	fs.Seed("/proj/b.svelte", []byte(`<div class="one"></div>`))
	fs.Seed("/proj/a.svelte", []byte(`<div class="two"></div>`))

	files := []SourceFile{
		{AbsPath: "/proj/b.svelte", Ext: ".svelte"},
		{AbsPath: "/proj/a.svelte", Ext: ".svelte"},
	}

	results, err := Run(context.Background(), files, fs, nil, Options{ProjectRoot: "/proj"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "/proj/a.svelte", results[0].Path)
	assert.Equal(t, "/proj/b.svelte", results[1].Path)
}

func TestRunUsesCacheOnSecondPassWithUnchangedContent(t *testing.T) {
	fs := fsops.NewFake()
	fs.Seed("/proj/a.svelte", []byte(`<div class="cached"></div>`))
	c := cache.New(fs)
	opts := Options{ProjectRoot: "/proj", CacheRoot: "/proj/.fuz/cache", UseCache: true}
	files := []SourceFile{{AbsPath: "/proj/a.svelte", Ext: ".svelte"}}

	first, err := Run(context.Background(), files, fs, c, opts)
	require.NoError(t, err)
	require.Contains(t, first[0].Result.Classes, "cached")

	second, err := Run(context.Background(), files, fs, c, opts)
	require.NoError(t, err)
	assert.Contains(t, second[0].Result.Classes, "cached")
}

func TestAggregateUnionsAndDedupsAcrossFiles(t *testing.T) {
	fs := fsops.NewFake()
	fs.Seed("/proj/a.svelte", []byte(`<div class="shared"></div>`))
	fs.Seed("/proj/b.svelte", []byte(`<div class="shared"></div>`))

	files := []SourceFile{
		{AbsPath: "/proj/a.svelte", Ext: ".svelte"},
		{AbsPath: "/proj/b.svelte", Ext: ".svelte"},
	}
	results, err := Run(context.Background(), files, fs, nil, Options{ProjectRoot: "/proj"})
	require.NoError(t, err)

	agg := Aggregate(results)
	require.Contains(t, agg.Classes, "shared")
	assert.Len(t, agg.Classes["shared"], 2, "one location per file, deduped within each file's own list")
}

func TestRunSurvivesUnreadableFileAsDiagnosticNotError(t *testing.T) {
	fs := fsops.NewFake()
	files := []SourceFile{{AbsPath: "/proj/missing.svelte", Ext: ".svelte"}}

	results, err := Run(context.Background(), files, fs, nil, Options{ProjectRoot: "/proj"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.NotEmpty(t, results[0].Result.Diagnostics)
}
