package pdftext

import (
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// groupRows sorts glyphs top to bottom and clusters those whose baselines
// lie within tol of the first glyph of the row. Each row is ordered left to
// right.
func groupRows(glyphs []pdf.Text, tol float64) [][]pdf.Text {
	if len(glyphs) == 0 {
		return nil
	}
	sorted := make([]pdf.Text, len(glyphs))
	copy(sorted, glyphs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Y > sorted[j].Y })

	var rows [][]pdf.Text
	var current []pdf.Text
	rowY := sorted[0].Y
	for _, g := range sorted {
		if len(current) > 0 && math.Abs(g.Y-rowY) > tol {
			rows = append(rows, current)
			current = nil
		}
		if len(current) == 0 {
			rowY = g.Y
		}
		current = append(current, g)
	}
	if len(current) > 0 {
		rows = append(rows, current)
	}

	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })
	}
	return rows
}

// splitWords turns a row of glyphs into tokens. Whitespace glyphs and
// horizontal gaps wider than factor*fontSize end a word.
func splitWords(row []pdf.Text, factor float64, page int) []Token {
	var out []Token
	var b strings.Builder
	var first, last pdf.Text
	open := false

	flush := func() {
		if !open {
			return
		}
		out = append(out, Token{
			Text:     b.String(),
			X:        first.X,
			Y:        first.Y,
			Width:    last.X + last.W - first.X,
			FontSize: first.FontSize,
			Page:     page,
		})
		b.Reset()
		open = false
	}

	for _, g := range row {
		if strings.TrimSpace(g.S) == "" {
			flush()
			continue
		}
		if open {
			gap := g.X - (last.X + last.W)
			if gap > factor*math.Max(g.FontSize, 1) {
				flush()
			}
		}
		if !open {
			first = g
			open = true
		}
		b.WriteString(g.S)
		last = g
	}
	flush()
	return out
}
