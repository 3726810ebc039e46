// Package location maps byte offsets in a source file to 1-based line/column
// positions. Grounded on the teacher's zero-allocation LineScanner
// (internal/core/line_scanner.go in the retrieval pack), adapted from a
// streaming scanner into a precomputed offset table since the extractor
// needs random-access lookups, not sequential iteration.
package location

import "sort"

// SourceLocation is a 1-based (line, column) position within a named file.
type SourceLocation struct {
	File   string
	Line   int
	Column int
}

// Less orders locations by file, then line, then column.
func (s SourceLocation) Less(o SourceLocation) bool {
	if s.File != o.File {
		return s.File < o.File
	}
	if s.Line != o.Line {
		return s.Line < o.Line
	}
	return s.Column < o.Column
}

// Indexer converts byte offsets into SourceLocation values for one file's
// content. It is built once per file and reused for every offset looked up
// during extraction.
type Indexer struct {
	file        string
	lineStarts  []int // byte offset of the first byte of each line (1-based line = index+1)
	contentSize int
}

// NewIndexer builds an Indexer over content, which must be the same bytes
// the extractor's parser consumed (so offsets line up).
func NewIndexer(file string, content []byte) *Indexer {
	idx := &Indexer{file: file, contentSize: len(content)}
	idx.lineStarts = append(idx.lineStarts, 0)
	for i, b := range content {
		if b == '\n' {
			idx.lineStarts = append(idx.lineStarts, i+1)
		}
	}
	return idx
}

// Locate converts a byte offset into a 1-based SourceLocation. Offsets at or
// beyond the end of content clamp to the last line.
func (idx *Indexer) Locate(offset int) SourceLocation {
	if offset < 0 {
		offset = 0
	}
	if offset > idx.contentSize {
		offset = idx.contentSize
	}

	// Binary search for the last line-start <= offset.
	line := sort.Search(len(idx.lineStarts), func(i int) bool {
		return idx.lineStarts[i] > offset
	}) - 1
	if line < 0 {
		line = 0
	}

	column := offset - idx.lineStarts[line] + 1
	return SourceLocation{File: idx.file, Line: line + 1, Column: column}
}

// File returns the file path this indexer was built for.
func (idx *Indexer) File() string { return idx.file }
