package fileserver

import "net/http"

// StaticResponder serves the bytes of an identified file: content type,
// content length, range and conditional handling are its business, not
// this package's. It receives the original, unresolved request and
// re-validates the path against its own root — deliberate defense in
// depth on top of Resolve.
type StaticResponder interface {
	ServeHTTP(w http.ResponseWriter, r *http.Request)
}

// NewStaticResponder returns the default responder, backed by
// net/http's file server rooted at root. It answers 404 for paths that
// do not exist.
func NewStaticResponder(root string) StaticResponder {
	return http.FileServer(http.Dir(root))
}
