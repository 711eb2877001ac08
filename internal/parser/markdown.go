package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"gopkg.in/yaml.v3"
)

const frontMatterSeparator = "---"

// MarkdownRenderer renders Markdown to HTML with goldmark. GFM tables and
// raw HTML blocks are kept so they reach the splitter as elements.
type MarkdownRenderer struct {
	md goldmark.Markdown
}

func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		),
	}
}

func (p *MarkdownRenderer) Render(src []byte) (Document, error) {
	body, meta := splitFrontMatter(string(src))

	var buf bytes.Buffer
	if err := p.md.Convert([]byte(body), &buf); err != nil {
		return Document{}, fmt.Errorf("convert markdown: %w", err)
	}
	return Document{HTML: buf.String(), Metadata: meta}, nil
}

// splitFrontMatter removes a leading YAML block fenced by "---" lines and
// returns the remaining body with the block's properties.
func splitFrontMatter(src string) (string, map[string]string) {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	lines := strings.Split(src, "\n")
	if len(lines) < 3 || strings.TrimSpace(lines[0]) != frontMatterSeparator {
		return src, nil
	}

	endIdx := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == frontMatterSeparator {
			endIdx = i
			break
		}
	}
	if endIdx <= 1 {
		return src, nil
	}

	props := make(map[string]string)
	var data map[string]any
	if err := yaml.Unmarshal([]byte(strings.Join(lines[1:endIdx], "\n")), &data); err == nil {
		for k, v := range data {
			props[k] = fmt.Sprintf("%v", v)
		}
	} else {
		// Malformed YAML: keep simple "key: value" lines.
		for _, line := range lines[1:endIdx] {
			k, v, ok := strings.Cut(line, ":")
			k = strings.TrimSpace(k)
			if !ok || k == "" || strings.HasPrefix(k, "#") {
				continue
			}
			props[k] = strings.Trim(strings.TrimSpace(v), `"'`)
		}
	}

	return strings.Join(lines[endIdx+1:], "\n"), props
}
