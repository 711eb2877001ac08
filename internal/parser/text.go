package parser

import (
	"bufio"
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// TextRenderer wraps each blank-line separated paragraph of plain text in <p>.
type TextRenderer struct{}

func (p TextRenderer) Render(src []byte) (Document, error) {
	scanner := bufio.NewScanner(bytes.NewReader(src))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs []string
	var current strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
		} else {
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(line)
		}
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}

	if err := scanner.Err(); err != nil {
		return Document{}, err
	}

	var out strings.Builder
	for _, para := range paragraphs {
		out.WriteString("<p>")
		out.WriteString(html.EscapeString(para))
		out.WriteString("</p>\n")
	}
	return Document{HTML: out.String()}, nil
}
