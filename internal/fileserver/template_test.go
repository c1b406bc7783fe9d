package fileserver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLRenderer(t *testing.T) {
	r, err := NewHTMLRenderer()
	require.NoError(t, err)

	l := &Listing{
		ParentLink: "/a/",
		Entries: []Entry{
			{Name: "docs/", Path: "docs/", Kind: KindFolder, Icon: "folder.gif", Modified: "2024-01-02 03:04", Size: "-"},
			{Name: "readme.txt", Path: "readme.txt", Kind: KindFile, Icon: "file.gif", Modified: "2024-01-02 03:05", Size: "512B"},
		},
	}
	body, err := r.Render(l)
	require.NoError(t, err)

	out := string(body)
	assert.Contains(t, out, `href="/a/"`)
	assert.Contains(t, out, `href="docs/"`)
	assert.Contains(t, out, `href="readme.txt"`)
	assert.Contains(t, out, "2024-01-02 03:04")
	assert.Contains(t, out, "512B")
	assert.Contains(t, out, "folder.gif")
}

func TestHTMLRenderer_EscapesNames(t *testing.T) {
	r, err := NewHTMLRenderer()
	require.NoError(t, err)

	l := &Listing{
		ParentLink: "/",
		Entries: []Entry{
			{Name: `<script>alert(1)</script>`, Path: `<script>`, Kind: KindFile, Icon: "file.gif", Modified: "2024-01-02 03:04", Size: "1B"},
		},
	}
	body, err := r.Render(l)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(body), "<script>alert"), "entry names must be escaped")
}
