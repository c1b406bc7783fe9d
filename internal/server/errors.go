package server

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strconv"
	"strings"
)

// ErrorDetail represents the inner structure of a JSON error response.
type ErrorDetail struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
}

// ErrorResponseJSON represents the full JSON error response body.
type ErrorResponseJSON struct {
	Error ErrorDetail `json:"error"`
}

// defaultHTMLMessages maps HTTP status codes to their default HTML pages.
var defaultHTMLMessages = map[int]struct {
	Title   string
	Heading string
	Message string
}{
	http.StatusBadRequest: {
		Title:   "400 Bad Request",
		Heading: "Bad Request",
		Message: "The server cannot or will not process the request due to an apparent client error.",
	},
	http.StatusForbidden: {
		Title:   "403 Forbidden",
		Heading: "Forbidden",
		Message: "You do not have permission to access this resource.",
	},
	http.StatusNotFound: {
		Title:   "404 Not Found",
		Heading: "Not Found",
		Message: "The requested resource was not found on this server.",
	},
	http.StatusMethodNotAllowed: {
		Title:   "405 Method Not Allowed",
		Heading: "Method Not Allowed",
		Message: "The method specified in the request is not allowed for this resource.",
	},
	http.StatusInternalServerError: {
		Title:   "500 Internal Server Error",
		Heading: "Internal Server Error",
		Message: "The server encountered an internal error and was unable to complete your request.",
	},
}

// PrefersJSON checks if the client prefers application/json over text/html
// based on the Accept header. An absent or wildcard-only header defaults
// to HTML.
func PrefersJSON(acceptHeaderValue string) bool {
	if acceptHeaderValue == "" {
		return false
	}

	jsonQ, htmlQ := -1.0, -1.0
	for _, part := range strings.Split(acceptHeaderValue, ",") {
		part = strings.TrimSpace(part)
		mediaType := part
		q := 1.0
		if idx := strings.Index(part, ";"); idx != -1 {
			mediaType = strings.TrimSpace(part[:idx])
			for _, param := range strings.Split(part[idx+1:], ";") {
				param = strings.TrimSpace(param)
				if strings.HasPrefix(param, "q=") {
					q = parseQValue(strings.TrimPrefix(param, "q="))
				}
			}
		}
		switch strings.ToLower(mediaType) {
		case "application/json":
			if q > jsonQ {
				jsonQ = q
			}
		case "text/html":
			if q > htmlQ {
				htmlQ = q
			}
		case "application/*":
			if jsonQ < 0 {
				jsonQ = q
			}
		case "text/*":
			if htmlQ < 0 {
				htmlQ = q
			}
		}
	}
	if jsonQ <= 0 {
		return false
	}
	return jsonQ > htmlQ
}

// parseQValue parses a q-value string from an Accept header, clamped to
// [0.0, 1.0]. Malformed values count as 0.
func parseQValue(qStr string) float64 {
	q, err := strconv.ParseFloat(strings.TrimSpace(qStr), 64)
	if err != nil || q < 0.0 {
		return 0.0
	}
	if q > 1.0 {
		return 1.0
	}
	return q
}

// WriteError writes a default error response for the given status code,
// negotiating JSON vs HTML from the request's Accept header. detail is an
// optional, client-safe elaboration.
func WriteError(w http.ResponseWriter, r *http.Request, status int, detail string) {
	msg, ok := defaultHTMLMessages[status]
	if !ok {
		msg.Title = fmt.Sprintf("%d %s", status, http.StatusText(status))
		msg.Heading = http.StatusText(status)
		msg.Message = detail
	}

	var body []byte
	var contentType string
	if PrefersJSON(r.Header.Get("Accept")) {
		contentType = "application/json; charset=utf-8"
		payload := ErrorResponseJSON{Error: ErrorDetail{
			StatusCode: status,
			Message:    msg.Heading,
			Detail:     detail,
		}}
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			// Marshalling a flat struct of strings cannot realistically
			// fail; fall back to the plain status line if it does.
			body = []byte(fmt.Sprintf(`{"error":{"status_code":%d}}`, status))
		}
	} else {
		contentType = "text/html; charset=utf-8"
		body = []byte(fmt.Sprintf(
			"<html><head><title>%s</title></head><body><h1>%s</h1><p>%s</p></body></html>",
			html.EscapeString(msg.Title),
			html.EscapeString(msg.Heading),
			html.EscapeString(msg.Message),
		))
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		w.Write(body)
	}
}
