package parser

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// PDFRenderer renders each PDF page as a <section> of paragraphs. It tries
// the Go library first, then falls back to pdftotext if enabled.
type PDFRenderer struct {
	FallbackPdftotext bool
}

func (p PDFRenderer) Render(src []byte) (Document, error) {
	// ledongthuc/pdf opens by path, so spool to a temp file.
	tmp, err := os.CreateTemp("", "splitml-pdf-*.pdf")
	if err != nil {
		return Document{}, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(src); err != nil {
		tmp.Close()
		return Document{}, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	text, err := extractPDFText(tmpPath)
	if err != nil && p.FallbackPdftotext {
		text, err = extractPdftotext(tmpPath)
	}
	if err != nil {
		return Document{}, fmt.Errorf("extract pdf text: %w", err)
	}

	out, err := pagesToHTML(splitPages(text))
	if err != nil {
		return Document{}, err
	}
	return Document{HTML: out}, nil
}

func extractPDFText(path string) (string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if i > 1 {
			buf.WriteString("\f") // Form feed as page separator.
		}
		buf.WriteString(text)
	}
	return buf.String(), nil
}

func extractPdftotext(path string) (string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}

func splitPages(text string) []string {
	return strings.Split(text, "\f")
}

// pagesToHTML emits one <section> per non-empty page, splitting page text
// into <p> elements on blank lines.
func pagesToHTML(pages []string) (string, error) {
	var out strings.Builder
	for i, page := range pages {
		page = strings.TrimSpace(page)
		if page == "" {
			continue
		}
		rendered, err := TextRenderer{}.Render([]byte(page))
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i+1, err)
		}
		fmt.Fprintf(&out, "<section data-page=\"%d\">\n%s</section>\n", i+1, rendered.HTML)
	}
	return out.String(), nil
}
