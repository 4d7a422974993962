// Package pdftable pulls tabular regions out of PDF documents by clustering
// positioned text fragments. It does no full layout analysis: rows come
// straight from the PDF's text flow and cells from horizontal gaps, which is
// enough for the machine-generated report PDFs this pipeline ingests.
package pdftable

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/gaurav-prasanna/doclake/core"
)

const (
	// Horizontal gap (points) that separates two cells on a row.
	colGap = 12.0
	// Gap below which adjacent fragments are the same word run.
	wordGap = 1.0
)

// Extract opens the PDF at path and returns every table found, in page
// order. The first table of the document gets its first row as a header
// candidate (accent-stripped, lower-cased); every other row is data. A page
// that cannot be parsed contributes no tables; a document with none at all
// returns an empty slice and no error.
func Extract(path string) ([]core.Table, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var tables []core.Table
	first := true
	for i := 1; i <= r.NumPage(); i++ {
		for _, rows := range tableRuns(pageRows(r.Page(i))) {
			t := buildTable(rows, first)
			first = false
			tables = append(tables, t)
		}
	}
	return tables, nil
}

// pageRows reads one page's text grouped by row, split into cells. The pdf
// library panics on some malformed content streams; a panicking page is
// treated as empty.
func pageRows(p pdf.Page) (rows [][]string) {
	defer func() {
		if recover() != nil {
			rows = nil
		}
	}()
	if p.V.IsNull() {
		return nil
	}
	textRows, err := p.GetTextByRow()
	if err != nil {
		return nil
	}
	for _, tr := range textRows {
		if cells := splitCells(tr.Content); len(cells) > 0 {
			rows = append(rows, cells)
		}
	}
	return rows
}

// splitCells clusters a row's fragments into cells by the horizontal gap
// between one fragment's right edge and the next fragment's left edge.
func splitCells(frags []pdf.Text) []string {
	var cells []string
	var cur strings.Builder
	prevEnd := 0.0
	for i, t := range frags {
		if i > 0 {
			gap := t.X - prevEnd
			switch {
			case gap > colGap:
				cells = append(cells, strings.TrimSpace(cur.String()))
				cur.Reset()
			case gap > wordGap:
				cur.WriteByte(' ')
			}
		}
		cur.WriteString(t.S)
		prevEnd = t.X + t.W
	}
	if cur.Len() > 0 {
		cells = append(cells, strings.TrimSpace(cur.String()))
	}
	return cells
}

// tableRuns finds maximal runs of consecutive rows with at least two cells.
// A run shorter than two rows is stray text, not a table.
func tableRuns(rows [][]string) [][][]string {
	var runs [][][]string
	var cur [][]string
	flush := func() {
		if len(cur) >= 2 {
			runs = append(runs, cur)
		}
		cur = nil
	}
	for _, row := range rows {
		if len(row) >= 2 {
			cur = append(cur, row)
		} else {
			flush()
		}
	}
	flush()
	return runs
}

func buildTable(rows [][]string, withHeader bool) core.Table {
	var t core.Table
	if withHeader {
		header := make([]string, len(rows[0]))
		for i, c := range rows[0] {
			header[i] = normText(c)
		}
		t.Header = header
		rows = rows[1:]
	}
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	for _, row := range rows {
		padded := make([]string, width)
		copy(padded, row)
		t.Rows = append(t.Rows, padded)
	}
	return t
}

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normText lower-cases a header cell and strips diacritics, so "Mês" and
// "mes" compare equal downstream.
func normText(s string) string {
	out, _, err := transform.String(deaccent, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}
