package fsops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskWriteTextAtomicThenReadText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.css")

	var d Disk
	require.NoError(t, d.WriteTextAtomic(path, []byte("body {}")))

	got, err := d.ReadText(path)
	require.NoError(t, err)
	assert.Equal(t, "body {}", string(got))
}

func TestDiskWriteTextAtomicLeavesNoTempFilesBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.css")

	var d Disk
	require.NoError(t, d.WriteTextAtomic(path, []byte("a")))
	require.NoError(t, d.WriteTextAtomic(path, []byte("b")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "out.css", entries[0].Name())
}

func TestDiskUnlinkMissingFileIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	var d Disk
	assert.NoError(t, d.Unlink(filepath.Join(dir, "missing.css")))
}

func TestFakeReadTextMissingPathErrors(t *testing.T) {
	f := NewFake()
	_, err := f.ReadText("/nope")
	assert.Error(t, err)
}

func TestFakeWriteThenReadRoundTrips(t *testing.T) {
	f := NewFake()
	require.NoError(t, f.WriteTextAtomic("/a.css", []byte("x")))
	got, err := f.ReadText("/a.css")
	require.NoError(t, err)
	assert.Equal(t, "x", string(got))
}

func TestFakeUnlinkRemovesSeededFile(t *testing.T) {
	f := NewFake()
	f.Seed("/a.css", []byte("x"))
	require.NoError(t, f.Unlink("/a.css"))
	_, err := f.ReadText("/a.css")
	assert.Error(t, err)
}
