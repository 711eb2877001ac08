package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// CSVRenderer renders a CSV file as a single table; the first row is the header.
type CSVRenderer struct{}

func (p CSVRenderer) Render(src []byte) (Document, error) {
	reader := csv.NewReader(bytes.NewReader(src))
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return Document{}, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return Document{}, nil
	}

	var out strings.Builder
	out.WriteString("<table>\n<thead>\n")
	writeRow(&out, records[0], "th")
	out.WriteString("</thead>\n")
	if len(records) > 1 {
		out.WriteString("<tbody>\n")
		for _, row := range records[1:] {
			writeRow(&out, row, "td")
		}
		out.WriteString("</tbody>\n")
	}
	out.WriteString("</table>\n")
	return Document{HTML: out.String()}, nil
}

func writeRow(out *strings.Builder, cells []string, tag string) {
	out.WriteString("<tr>")
	for _, cell := range cells {
		fmt.Fprintf(out, "<%s>%s</%s>", tag, html.EscapeString(cell), tag)
	}
	out.WriteString("</tr>\n")
}
