package parser

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies the source format of a document.
type Format string

const (
	FormatAuto     Format = "auto"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
	FormatCSV      Format = "csv"
	FormatPDF      Format = "pdf"
	FormatDOCX     Format = "docx"
)

var ErrUnsupportedFormat = errors.New("unsupported format")

// Document is a source resolved to HTML, ready to be split.
type Document struct {
	HTML     string            `json:"-"`
	Format   Format            `json:"format"`
	Metadata map[string]string `json:"metadata,omitempty"` // Markdown frontmatter properties
}

// Renderer converts raw document bytes of one format into HTML.
type Renderer interface {
	Render(src []byte) (Document, error)
}

// ParseFormat maps a user-supplied format name to a Format. The empty string
// means FormatAuto.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return FormatAuto, nil
	case "html", "htm":
		return FormatHTML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "text", "txt":
		return FormatText, nil
	case "csv":
		return FormatCSV, nil
	case "pdf":
		return FormatPDF, nil
	case "docx":
		return FormatDOCX, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
}

// DetectFormat returns the format implied by a filename's extension, or
// FormatAuto when the extension is unknown.
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".html", ".htm", ".xhtml":
		return FormatHTML
	case ".md", ".markdown":
		return FormatMarkdown
	case ".txt":
		return FormatText
	case ".csv":
		return FormatCSV
	case ".pdf":
		return FormatPDF
	case ".docx":
		return FormatDOCX
	}
	return FormatAuto
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	return DetectFormat(filename) != FormatAuto
}

// Sniff guesses the format of content without a hint. Binary containers are
// recognized by magic bytes; text starting with a tag is HTML, anything else
// is treated as Markdown.
func Sniff(src []byte) Format {
	switch {
	case bytes.HasPrefix(src, []byte("%PDF-")):
		return FormatPDF
	case bytes.HasPrefix(src, []byte("PK\x03\x04")):
		return FormatDOCX
	}
	s := bytes.TrimSpace(bytes.TrimPrefix(src, utf8BOM))
	if len(s) >= 2 && s[0] == '<' {
		c := s[1]
		if c == '!' || c == '/' || c == '?' || (c|0x20 >= 'a' && c|0x20 <= 'z') {
			return FormatHTML
		}
	}
	return FormatMarkdown
}

// Resolver turns raw documents of any supported format into HTML.
type Resolver struct {
	PDFFallbackPdftotext bool
}

// ForFormat returns the renderer for f.
func (r Resolver) ForFormat(f Format) (Renderer, error) {
	switch f {
	case FormatHTML:
		return HTMLRenderer{}, nil
	case FormatMarkdown:
		return NewMarkdownRenderer(), nil
	case FormatText:
		return TextRenderer{}, nil
	case FormatCSV:
		return CSVRenderer{}, nil
	case FormatPDF:
		return PDFRenderer{FallbackPdftotext: r.PDFFallbackPdftotext}, nil
	case FormatDOCX:
		return DOCXRenderer{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
}

// Resolve converts src to HTML. With FormatAuto the format comes from the
// filename extension, then from sniffing the content.
func (r Resolver) Resolve(src []byte, filename string, f Format) (Document, error) {
	if f == "" || f == FormatAuto {
		f = DetectFormat(filename)
	}
	if f == FormatAuto {
		f = Sniff(src)
	}

	renderer, err := r.ForFormat(f)
	if err != nil {
		return Document{}, err
	}
	if f.textual() {
		text, err := Decode(src)
		if err != nil {
			return Document{}, err
		}
		src = []byte(text)
	}

	doc, err := renderer.Render(src)
	if err != nil {
		return Document{}, fmt.Errorf("render %s: %w", f, err)
	}
	doc.Format = f
	return doc, nil
}

// ResolveFile reads path and resolves it.
func (r Resolver) ResolveFile(path string, f Format) (Document, error) {
	src, err := ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	return r.Resolve(src, path, f)
}

func (f Format) textual() bool {
	switch f {
	case FormatHTML, FormatMarkdown, FormatText, FormatCSV:
		return true
	}
	return false
}
