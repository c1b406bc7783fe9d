package fileserver

import (
	"errors"
	"net/url"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Resolution errors. The dispatcher maps both to 400; they are separate so
// logs can tell a malformed escape from a traversal attempt.
var (
	// ErrMalformedPath indicates the request path could not be
	// percent-decoded to valid UTF-8.
	ErrMalformedPath = errors.New("malformed request path")
	// ErrTraversal indicates the request path contained a parent-directory,
	// absolute, or otherwise root-escaping component.
	ErrTraversal = errors.New("path escapes served root")
)

// Resolve turns a raw request path (as received: percent-encoded,
// '/'-separated) into a filesystem path confined under root.
//
// The path is decoded once, split on '/', and rebuilt component by
// component on top of root. '.' components are dropped; '..', absolute and
// drive-prefixed components reject the whole request. A single decoded
// component must also not smuggle a separator, a NUL, or a further-encoded
// traversal marker, so ascension out of root is lexically impossible on
// the success path. Rejecting '..' outright, rather than canonicalizing and
// prefix-checking afterwards, also sidesteps symlink-naive canonicalization.
//
// Resolve never touches the filesystem; resolving the same path twice
// yields the same result.
func Resolve(root, rawPath string) (string, error) {
	trimmed := strings.TrimPrefix(rawPath, "/")

	decoded, err := url.PathUnescape(trimmed)
	if err != nil {
		return "", ErrMalformedPath
	}
	if !utf8.ValidString(decoded) {
		return "", ErrMalformedPath
	}

	local := root
	for _, comp := range strings.Split(decoded, "/") {
		switch comp {
		case "", ".":
			continue
		case "..":
			return "", ErrTraversal
		}
		if err := checkComponent(comp); err != nil {
			return "", err
		}
		local = filepath.Join(local, comp)
	}
	return local, nil
}

// checkComponent rejects a decoded path component that would stop being a
// single plain path element once handed to the OS path layer.
func checkComponent(comp string) error {
	if strings.ContainsRune(comp, 0) {
		return ErrMalformedPath
	}
	// Backslashes are path separators on Windows; a component containing
	// one would decompose again after the '/' split.
	if strings.ContainsRune(comp, '\\') {
		return ErrTraversal
	}
	if filepath.IsAbs(comp) || filepath.VolumeName(comp) != "" {
		return ErrTraversal
	}
	// A doubly-encoded marker ("%2e%2e" and friends) survives the first
	// decode as a literal component; reject it rather than create a file
	// name that decodes to a traversal sequence downstream.
	if second, err := url.PathUnescape(comp); err == nil && second != comp {
		switch second {
		case ".", "..":
			return ErrTraversal
		}
	}
	return nil
}
