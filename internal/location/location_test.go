package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexerLocateSingleLine(t *testing.T) {
	idx := NewIndexer("a.ts", []byte("abcdef"))

	assert.Equal(t, SourceLocation{File: "a.ts", Line: 1, Column: 1}, idx.Locate(0))
	assert.Equal(t, SourceLocation{File: "a.ts", Line: 1, Column: 4}, idx.Locate(3))
}

func TestIndexerLocateMultiLine(t *testing.T) {
	content := "line one\nline two\nline three"
	idx := NewIndexer("b.svelte", []byte(content))

	assert.Equal(t, SourceLocation{File: "b.svelte", Line: 1, Column: 1}, idx.Locate(0))
	assert.Equal(t, SourceLocation{File: "b.svelte", Line: 2, Column: 1}, idx.Locate(9))
	assert.Equal(t, SourceLocation{File: "b.svelte", Line: 3, Column: 3}, idx.Locate(len("line one\nline two\nli")))
}

func TestIndexerLocateClampsOutOfRangeOffsets(t *testing.T) {
	idx := NewIndexer("c.ts", []byte("abc"))

	assert.Equal(t, idx.Locate(3), idx.Locate(100))
	assert.Equal(t, idx.Locate(0), idx.Locate(-5))
}

func TestSourceLocationLess(t *testing.T) {
	a := SourceLocation{File: "a.ts", Line: 1, Column: 1}
	b := SourceLocation{File: "a.ts", Line: 1, Column: 2}
	c := SourceLocation{File: "b.ts", Line: 1, Column: 1}

	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
	assert.True(t, a.Less(c))
}
