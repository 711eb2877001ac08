package normalize

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestMarkdown_Heading(t *testing.T) {
	text, err := NewMarkdown().Normalize("<h2>Install</h2>")
	require.NoError(t, err)
	assert.Equal(t, "## Install", text)
}

func TestMarkdown_InlineFormatting(t *testing.T) {
	text, err := NewMarkdown().Normalize("<p>Hello <strong>world</strong></p>")
	require.NoError(t, err)
	assert.Equal(t, "Hello **world**", text)
}

func TestMarkdown_FlattensGroupTags(t *testing.T) {
	text, err := NewMarkdown().Normalize("<div><span>plain</span> text</div>")
	require.NoError(t, err)
	assert.Equal(t, "plain text", text)
	assert.NotContains(t, text, "<div>")
}

func TestMarkdown_Empty(t *testing.T) {
	text, err := NewMarkdown().Normalize("   ")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestMarkdown_InlineMathAlttext(t *testing.T) {
	in := `<p>Energy is <math alttext="E=mc^2"><mi>E</mi><mo>=</mo><mi>m</mi><msup><mi>c</mi><mn>2</mn></msup></math> here.</p>`
	text, err := NewMarkdown().Normalize(in)
	require.NoError(t, err)
	assert.Contains(t, text, "$E=mc^2$")
	assert.Contains(t, text, "Energy is")
	assert.NotContains(t, text, placeholderOpen)
}

func TestMarkdown_TopLevelBlockMath(t *testing.T) {
	in := `<math display="block"><semantics><mrow><mi>x</mi></mrow><annotation encoding="application/x-tex">\frac{a}{b}</annotation></semantics></math>`
	text, err := NewMarkdown().Normalize(in)
	require.NoError(t, err)
	assert.Equal(t, `$$\frac{a}{b}$$`, text)
}

func TestMarkdown_ManyFormulas(t *testing.T) {
	var b strings.Builder
	b.WriteString("<p>")
	for i := 0; i < 12; i++ {
		b.WriteString(`<math alttext="x_`)
		b.WriteString(string(rune('a' + i)))
		b.WriteString(`"><mi>x</mi></math> `)
	}
	b.WriteString("</p>")

	text, err := NewMarkdown().Normalize(b.String())
	require.NoError(t, err)
	assert.Contains(t, text, "$x_a$")
	assert.Contains(t, text, "$x_b$")
	assert.Contains(t, text, "$x_l$")
	assert.NotContains(t, text, placeholderOpen)
}

func TestMarkdown_MathKeepsLiteralMarkerText(t *testing.T) {
	in := `<p>see splitmlmath0x and <math alttext="z"><mi>z</mi></math></p>`
	text, err := NewMarkdown().Normalize(in)
	require.NoError(t, err)
	assert.Contains(t, text, "see splitmlmath0x and $z$")
}

func TestMarkdown_TableWithHeader(t *testing.T) {
	text, err := NewMarkdown().Normalize("<table><tr><th>name</th><th>qty</th></tr><tr><td>apple</td><td>3</td></tr></table>")
	require.NoError(t, err)

	lines := strings.Split(text, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"name", "qty"}, tableCells(lines[0]))
	assert.Contains(t, lines[1], "---")
	assert.Equal(t, []string{"apple", "3"}, tableCells(lines[2]))
}

func TestMarkdown_TableCellsStaySeparate(t *testing.T) {
	text, err := NewMarkdown().Normalize("<table><tr><td>a</td><td>b</td></tr><tr><td>c</td><td>d</td></tr></table>")
	require.NoError(t, err)
	assert.NotContains(t, text, "abcd")

	var cells []string
	for _, line := range strings.Split(text, "\n") {
		cells = append(cells, tableCells(line)...)
	}
	for _, want := range []string{"a", "b", "c", "d"} {
		assert.Contains(t, cells, want)
	}
}

func TestMarkdown_Strikethrough(t *testing.T) {
	text, err := NewMarkdown().Normalize("<p>old <del>price</del></p>")
	require.NoError(t, err)
	assert.Equal(t, "old ~~price~~", text)
}

// tableCells returns the trimmed, non-separator cells of a pipe table row.
func tableCells(line string) []string {
	var out []string
	for _, c := range strings.Split(strings.Trim(strings.TrimSpace(line), "|"), "|") {
		c = strings.TrimSpace(c)
		if c == "" || strings.Trim(c, "-:") == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}

func TestLatex_FallsBackToText(t *testing.T) {
	doc, err := html.Parse(strings.NewReader("<math><mi>y</mi><mo>+</mo><mn>1</mn></math>"))
	require.NoError(t, err)
	math := findMath(doc)
	require.NotNil(t, math)
	assert.Equal(t, "$y+1$", Latex(math))
}

func TestFunc(t *testing.T) {
	boom := errors.New("boom")
	n := Func(func(string) (string, error) { return "", boom })
	_, err := n.Normalize("<p>x</p>")
	assert.ErrorIs(t, err, boom)
}

func findMath(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "math" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if m := findMath(c); m != nil {
			return m
		}
	}
	return nil
}
