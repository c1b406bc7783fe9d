package fileserver

import (
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
	"unicode/utf8"

	"example.com/dirserve/internal/logger"
)

// Entry kinds. Icon refs derive from the kind.
const (
	KindFolder = "folder"
	KindFile   = "file"
)

// Entry is one row of a directory listing.
type Entry struct {
	// Name is the display name; directories carry a trailing '/'.
	Name string
	// Path is the hyperlink target, relative to the listed directory.
	// Identical to Name, so links only resolve correctly on pages whose
	// URL ends in '/' — the dispatcher's redirect guarantees that.
	Path string
	// Kind is KindFolder or KindFile.
	Kind string
	// Icon is the icon reference derived from Kind, e.g. "folder.gif".
	Icon string
	// Modified is the entry's mtime formatted as "YYYY-MM-DD HH:MM" (UTC).
	Modified string
	// Size is "-" for folders, otherwise the byte length formatted with
	// the largest fitting unit among B, KB and MB.
	Size string
}

// Listing is the presentation model handed to the renderer.
type Listing struct {
	// ParentLink is the root-relative path one level up, with a trailing
	// '/'; it is "/" when the listed directory is the root itself.
	ParentLink string
	Entries    []Entry
}

// List enumerates the directory at localDir and builds its Listing.
// urlPath is the root-relative request path of the directory (with its
// trailing slash), used only to derive the parent link.
//
// Entries whose name starts with '.' or is not valid UTF-8 are excluded.
// An entry whose metadata cannot be read is skipped with a warning rather
// than failing the whole listing; a failure reading the directory itself
// is returned to the caller.
func List(localDir, urlPath string, log *logger.Logger) (*Listing, error) {
	dirents, err := os.ReadDir(localDir)
	if err != nil {
		return nil, fmt.Errorf("could not read directory %s: %w", localDir, err)
	}

	entries := make([]Entry, 0, len(dirents))
	for _, d := range dirents {
		name := d.Name()
		if strings.HasPrefix(name, ".") || !utf8.ValidString(name) {
			continue
		}
		info, err := d.Info()
		if err != nil {
			log.Warn("skipping unreadable directory entry", logger.LogFields{
				"dir":   localDir,
				"entry": name,
				"error": err.Error(),
			})
			continue
		}

		e := Entry{
			Kind:     KindFile,
			Modified: info.ModTime().UTC().Format("2006-01-02 15:04"),
			Size:     FormatSize(info.Size()),
		}
		if d.IsDir() {
			e.Kind = KindFolder
			e.Size = "-"
			name += "/"
		}
		e.Name = name
		e.Path = name
		e.Icon = e.Kind + ".gif"
		entries = append(entries, e)
	}

	// Folders first, then case-insensitive by name, for stable pages.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Kind != entries[j].Kind {
			return entries[i].Kind == KindFolder
		}
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})

	return &Listing{
		ParentLink: parentLink(urlPath),
		Entries:    entries,
	}, nil
}

// parentLink computes the root-relative path one level above urlPath,
// normalized to end in '/'. The root's parent is the root itself.
func parentLink(urlPath string) string {
	trimmed := strings.TrimSuffix(urlPath, "/")
	if trimmed == "" {
		return "/"
	}
	parent := path.Dir(trimmed)
	if parent == "/" || parent == "." {
		return "/"
	}
	return parent + "/"
}

// FormatSize renders a byte count with the largest fitting unit among B,
// KB and MB, with one decimal place beyond B: 512 -> "512B",
// 2048 -> "2.0KB", 2*1024*1024 -> "2.0MB".
func FormatSize(n int64) string {
	switch {
	case n < 1<<10:
		return fmt.Sprintf("%dB", n)
	case n < 1<<20:
		return fmt.Sprintf("%.1fKB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%.1fMB", float64(n)/(1<<20))
	}
}
