// Package render provides the template rendering service used for receipt
// output. The service is constructed explicitly and injected into its
// consumers; there is no process-wide template state.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

//go:embed templates/*.html
var builtinTemplates embed.FS

// Service renders named HTML templates and converts receipt text to PDF.
type Service struct {
	templates *template.Template
}

// NewService creates a rendering service. When dir is non-empty its *.html
// files override the built-in templates of the same name.
func NewService(dir string) (*Service, error) {
	tmpl, err := template.ParseFS(builtinTemplates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("render: failed to parse built-in templates: %w", err)
	}

	if dir != "" {
		tmpl, err = tmpl.ParseGlob(filepath.Join(dir, "*.html"))
		if err != nil {
			return nil, fmt.Errorf("render: failed to parse templates in %s: %w", dir, err)
		}
	}

	return &Service{templates: tmpl}, nil
}

// RenderHTML renders the named template against data.
func (s *Service) RenderHTML(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render: template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// ReceiptPDF draws pre-formatted receipt lines into a PDF document using a
// monospaced font, preserving the fixed-width column layout.
func (s *Service) ReceiptPDF(text string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	pdf.SetFont("Courier", "", 10)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, line := range strings.Split(text, "\n") {
		pdf.CellFormat(0, 4.5, tr(line), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render: pdf output: %w", err)
	}
	return buf.Bytes(), nil
}
