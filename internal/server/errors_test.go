package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPrefersJSON(t *testing.T) {
	cases := []struct {
		accept string
		want   bool
	}{
		{"", false},
		{"text/html", false},
		{"application/json", true},
		{"application/json, text/html", false}, // equal q, HTML wins the tie
		{"application/json;q=0.9, text/html;q=0.5", true},
		{"text/html;q=0.9, application/json;q=0.5", false},
		{"application/json;q=0", false},
		{"*/*", false},
		{"application/*", true},
		{"application/json;q=not-a-number", false},
	}
	for _, tc := range cases {
		if got := PrefersJSON(tc.accept); got != tc.want {
			t.Errorf("PrefersJSON(%q) = %v, want %v", tc.accept, got, tc.want)
		}
	}
}

func TestWriteError_HTML(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	rec := httptest.NewRecorder()

	WriteError(rec, req, http.StatusNotFound, "")

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("Expected HTML content type, got %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "Not Found") {
		t.Errorf("Expected default 404 page, got: %s", rec.Body.String())
	}
}

func TestWriteError_JSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()

	WriteError(rec, req, http.StatusBadRequest, "Invalid request path.")

	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Errorf("Expected JSON content type, got %q", ct)
	}
	var payload ErrorResponseJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("Response is not valid JSON: %v", err)
	}
	if payload.Error.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status_code 400, got %d", payload.Error.StatusCode)
	}
	if payload.Error.Detail != "Invalid request path." {
		t.Errorf("Expected detail to round-trip, got %q", payload.Error.Detail)
	}
}

func TestWriteError_UnmappedStatus(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	rec := httptest.NewRecorder()

	WriteError(rec, req, http.StatusTeapot, "short and stout")

	if rec.Code != http.StatusTeapot {
		t.Errorf("Expected 418, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "short and stout") {
		t.Errorf("Expected detail in body, got: %s", rec.Body.String())
	}
}

func TestWriteError_HeadHasNoBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodHead, "/x", nil)
	rec := httptest.NewRecorder()

	WriteError(rec, req, http.StatusNotFound, "")

	if rec.Body.Len() != 0 {
		t.Errorf("Expected empty body for HEAD, got %d bytes", rec.Body.Len())
	}
}
