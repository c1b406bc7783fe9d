package fileserver

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
)

//go:embed templates/listing.html
var listingTemplate string

// Renderer turns a Listing into a response body. It is an interface so
// that embedders can substitute any templating component; the default
// implementation uses html/template with the embedded page.
type Renderer interface {
	Render(l *Listing) ([]byte, error)
}

type htmlRenderer struct {
	tmpl *template.Template
}

// NewHTMLRenderer parses the embedded listing template. Parsing happens
// once here, not per request; a broken template fails construction.
func NewHTMLRenderer() (Renderer, error) {
	tmpl, err := template.New("listing").Parse(listingTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing template: %w", err)
	}
	return &htmlRenderer{tmpl: tmpl}, nil
}

func (r *htmlRenderer) Render(l *Listing) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, l); err != nil {
		return nil, fmt.Errorf("failed to render directory listing: %w", err)
	}
	return buf.Bytes(), nil
}
