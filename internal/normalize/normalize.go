// Package normalize renders the markup of a single element as flattened,
// markdown-flavored text. Grouping tags are dropped and MathML becomes LaTeX.
package normalize

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/strikethrough"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Normalizer converts element markup to text.
type Normalizer interface {
	Normalize(markup string) (string, error)
}

// Func adapts a plain conversion function.
type Func func(markup string) (string, error)

func (f Func) Normalize(markup string) (string, error) {
	return f(markup)
}

// Markdown converts markup with html-to-markdown, rendering tables as GFM
// pipe tables and <del> as ~~strikethrough~~.
type Markdown struct {
	conv *converter.Converter
	opts []converter.ConvertOptionFunc
}

var _ Normalizer = (*Markdown)(nil)

// NewMarkdown returns a Markdown normalizer; opts are passed to every conversion.
func NewMarkdown(opts ...converter.ConvertOptionFunc) *Markdown {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
			strikethrough.NewStrikethroughPlugin(),
		),
	)
	return &Markdown{conv: conv, opts: opts}
}

func (m *Markdown) Normalize(markup string) (string, error) {
	if strings.TrimSpace(markup) == "" {
		return "", nil
	}

	var formulas []string
	if strings.Contains(markup, "<math") {
		var err error
		markup, formulas, err = replaceMath(markup)
		if err != nil {
			return "", err
		}
	}

	text, err := m.conv.ConvertString(markup, m.opts...)
	if err != nil {
		return "", fmt.Errorf("convert to markdown: %w", err)
	}
	text = strings.TrimSpace(text)

	for i := len(formulas) - 1; i >= 0; i-- {
		text = strings.ReplaceAll(text, placeholder(i), formulas[i])
	}
	return text, nil
}

// Placeholders are fenced by private-use runes, which the converter passes
// through untouched and which never occur in ordinary document text.
const (
	placeholderOpen  = "\uE000"
	placeholderClose = "\uE001"
)

func placeholder(i int) string {
	return fmt.Sprintf("%s%d%s", placeholderOpen, i, placeholderClose)
}

// replaceMath swaps every <math> element for a placeholder so the markdown
// converter cannot escape the LaTeX, and returns the formulas.
func replaceMath(markup string) (string, []string, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return "", nil, fmt.Errorf("parse fragment: %w", err)
	}

	var formulas []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; {
			next := c.NextSibling
			if c.Type == html.ElementNode && c.Data == "math" {
				formulas = append(formulas, Latex(c))
				n.InsertBefore(&html.Node{Type: html.TextNode, Data: placeholder(len(formulas) - 1)}, c)
				n.RemoveChild(c)
			} else {
				walk(c)
			}
			c = next
		}
	}

	var buf bytes.Buffer
	for _, n := range nodes {
		if n.Type == html.ElementNode && n.Data == "math" {
			formulas = append(formulas, Latex(n))
			buf.WriteString(placeholder(len(formulas) - 1))
			continue
		}
		walk(n)
		if err := html.Render(&buf, n); err != nil {
			return "", nil, fmt.Errorf("render fragment: %w", err)
		}
	}
	return buf.String(), formulas, nil
}

// Latex renders a MathML element as $…$, or $$…$$ for display="block". The
// TeX source comes from an application/x-tex annotation, then the alttext
// attribute, then the element's text.
func Latex(math *html.Node) string {
	tex := texAnnotation(math)
	if tex == "" {
		tex = strings.TrimSpace(attr(math, "alttext"))
	}
	if tex == "" {
		tex = strings.TrimSpace(textContent(math))
	}
	if attr(math, "display") == "block" {
		return "$$" + tex + "$$"
	}
	return "$" + tex + "$"
}

func texAnnotation(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "annotation" && attr(n, "encoding") == "application/x-tex" {
		var buf strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				buf.WriteString(c.Data)
			}
		}
		return strings.TrimSpace(buf.String())
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := texAnnotation(c); t != "" {
			return t
		}
	}
	return ""
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		// Annotations carry source encodings, not rendered text.
		if n.Type == html.ElementNode && (n.Data == "annotation" || n.Data == "annotation-xml") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}
