package fileserver

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/dirserve/internal/logger"
)

func writeFile(t *testing.T, dir, name string, size int) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), bytes.Repeat([]byte("x"), size), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

func TestList_BuildsEntries(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "alpha"), 0755))
	writeFile(t, dir, "beta.txt", 512)
	writeFile(t, dir, "Gamma.txt", 2048)
	writeFile(t, dir, ".env", 3)

	l, err := List(dir, "/", logger.NewDiscardLogger())
	require.NoError(t, err)
	require.Len(t, l.Entries, 3, "hidden .env must be excluded")

	// Folders first, then case-insensitive name order.
	assert.Equal(t, "alpha/", l.Entries[0].Name)
	assert.Equal(t, "beta.txt", l.Entries[1].Name)
	assert.Equal(t, "Gamma.txt", l.Entries[2].Name)

	folder := l.Entries[0]
	assert.Equal(t, KindFolder, folder.Kind)
	assert.Equal(t, "folder.gif", folder.Icon)
	assert.Equal(t, "-", folder.Size)
	assert.Equal(t, "alpha/", folder.Path)

	file := l.Entries[1]
	assert.Equal(t, KindFile, file.Kind)
	assert.Equal(t, "file.gif", file.Icon)
	assert.Equal(t, "512B", file.Size)
	assert.Equal(t, "2.0KB", l.Entries[2].Size)

	tsFormat := regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}$`)
	for _, e := range l.Entries {
		assert.Regexp(t, tsFormat, e.Modified, "entry %s", e.Name)
	}
}

func TestList_HiddenOnlyDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".secret", 1)

	l, err := List(dir, "/", logger.NewDiscardLogger())
	require.NoError(t, err)
	assert.Empty(t, l.Entries)
}

func TestList_MissingDirectory(t *testing.T) {
	_, err := List(filepath.Join(t.TempDir(), "gone"), "/gone/", logger.NewDiscardLogger())
	assert.Error(t, err)
}

func TestParentLink(t *testing.T) {
	cases := []struct {
		urlPath string
		want    string
	}{
		{"/", "/"},
		{"/a/", "/"},
		{"/a/b/", "/a/"},
		{"/a/b/c/", "/a/b/"},
	}
	for _, tc := range cases {
		l, err := List(t.TempDir(), tc.urlPath, logger.NewDiscardLogger())
		require.NoError(t, err)
		assert.Equal(t, tc.want, l.ParentLink, "urlPath %q", tc.urlPath)
	}
}

func TestFormatSize(t *testing.T) {
	cases := []struct {
		n    int64
		want string
	}{
		{0, "0B"},
		{512, "512B"},
		{1023, "1023B"},
		{1024, "1.0KB"},
		{1536, "1.5KB"},
		{2048, "2.0KB"},
		{1<<20 - 1, "1024.0KB"},
		{2 * 1024 * 1024, "2.0MB"},
		{5 * 1 << 30, "5120.0MB"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatSize(tc.n), "n=%d", tc.n)
	}
}
