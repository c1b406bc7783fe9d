package fileserver

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"example.com/dirserve/internal/logger"
	"example.com/dirserve/internal/server"
)

// Handler dispatches every request against the served tree: directory
// listing, trailing-slash redirect, delegation to the static responder,
// or an error response. It holds no per-request state; one instance
// serves all requests concurrently.
type Handler struct {
	root      string
	log       *logger.Logger
	renderer  Renderer
	responder StaticResponder
}

// NewHandler builds the dispatcher for the given root directory. The root
// must already be validated (absolute, existing directory). Passing a nil
// renderer or responder selects the default implementation.
func NewHandler(root string, log *logger.Logger, renderer Renderer, responder StaticResponder) (*Handler, error) {
	if root == "" {
		return nil, fmt.Errorf("root directory cannot be empty")
	}
	if log == nil {
		log = logger.NewDiscardLogger()
	}
	if renderer == nil {
		var err error
		renderer, err = NewHTMLRenderer()
		if err != nil {
			return nil, err
		}
	}
	if responder == nil {
		responder = NewStaticResponder(root)
	}
	return &Handler{
		root:      root,
		log:       log,
		renderer:  renderer,
		responder: responder,
	}, nil
}

// outcomeKind tags the terminal states of request dispatch.
type outcomeKind int

const (
	outcomeDelegate outcomeKind = iota
	outcomeRedirect
	outcomeListing
	outcomeClientError
	outcomeServerError
)

// outcome carries exactly the data its kind needs to build a response.
type outcome struct {
	kind     outcomeKind
	location string // outcomeRedirect
	body     []byte // outcomeListing
	detail   string // error outcomes
	err      error  // error outcomes, for logging
}

// ServeHTTP implements http.Handler as the single catch-all route.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		h.log.Debug("method not allowed", logger.LogFields{
			"method": r.Method,
			"path":   r.URL.Path,
		})
		server.WriteError(w, r, http.StatusMethodNotAllowed, "Only GET and HEAD are supported.")
		return
	}

	out := h.dispatch(r)
	switch out.kind {
	case outcomeDelegate:
		// The responder re-validates the original request against its own
		// root and answers 404 for paths that do not exist.
		h.responder.ServeHTTP(w, r)

	case outcomeRedirect:
		http.Redirect(w, r, out.location, http.StatusPermanentRedirect)

	case outcomeListing:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Length", fmt.Sprintf("%d", len(out.body)))
		w.WriteHeader(http.StatusOK)
		if r.Method != http.MethodHead {
			if _, err := w.Write(out.body); err != nil {
				// Client went away mid-response; nothing shared to unwind.
				h.log.Debug("failed to write listing body", logger.LogFields{
					"path":  r.URL.Path,
					"error": err.Error(),
				})
			}
		}

	case outcomeClientError:
		h.log.Debug("rejecting request path", logger.LogFields{
			"path":  r.URL.Path,
			"error": out.err.Error(),
		})
		server.WriteError(w, r, http.StatusBadRequest, out.detail)

	case outcomeServerError:
		h.log.Error("request failed", logger.LogFields{
			"path":  r.URL.Path,
			"error": out.err.Error(),
		})
		server.WriteError(w, r, http.StatusInternalServerError, out.detail)
	}
}

// dispatch resolves the request path and decides the terminal state. It
// performs no response writing of its own.
func (h *Handler) dispatch(r *http.Request) outcome {
	rawPath := r.URL.EscapedPath()

	local, err := Resolve(h.root, rawPath)
	if err != nil {
		return outcome{
			kind:   outcomeClientError,
			detail: "Invalid request path.",
			err:    err,
		}
	}

	fi, err := os.Stat(local)
	if err != nil || !fi.IsDir() {
		// Regular file, nonexistent path, or unreadable metadata: the
		// static responder owns all of those, including the 404.
		return outcome{kind: outcomeDelegate}
	}

	// Directory without a trailing slash: redirect so that the relative
	// links in the rendered listing resolve against the directory rather
	// than its parent.
	if !strings.HasSuffix(rawPath, "/") {
		return outcome{kind: outcomeRedirect, location: rawPath + "/"}
	}

	listing, err := List(local, rawPath, h.log)
	if err != nil {
		return outcome{
			kind:   outcomeServerError,
			detail: "Error reading directory.",
			err:    err,
		}
	}
	body, err := h.renderer.Render(listing)
	if err != nil {
		return outcome{
			kind:   outcomeServerError,
			detail: "Error generating directory listing.",
			err:    err,
		}
	}
	return outcome{kind: outcomeListing, body: body}
}
