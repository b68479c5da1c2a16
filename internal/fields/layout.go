package fields

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/energy-invoices/internal/pdftext"
	"github.com/joseph-ayodele/energy-invoices/internal/textnorm"
)

// LayoutOptions bounds the search area around a label, in points.
type LayoutOptions struct {
	RowTolerance float64 `yaml:"row_tolerance"` // tokens this close vertically share a row
	YTolerance   float64 `yaml:"y_tolerance"`   // max baseline offset for values right of the label
	XTolerance   float64 `yaml:"x_tolerance"`   // max horizontal offset for values below the label or in the hinted column
	BelowLimit   float64 `yaml:"below_limit"`   // max drop for values below the label
	ColumnHint   string  `yaml:"column_hint"`   // folded header pattern of the value column; empty disables
}

func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{
		RowTolerance: 3,
		YTolerance:   3,
		XTolerance:   60,
		BelowLimit:   40,
		ColumnHint:   `valor\s*\(?\s*r\$\s*\)?`,
	}
}

func (o LayoutOptions) withDefaults() LayoutOptions {
	d := DefaultLayoutOptions()
	if o.RowTolerance <= 0 {
		o.RowTolerance = d.RowTolerance
	}
	if o.YTolerance <= 0 {
		o.YTolerance = d.YTolerance
	}
	if o.XTolerance <= 0 {
		o.XTolerance = d.XTolerance
	}
	if o.BelowLimit <= 0 {
		o.BelowLimit = d.BelowLimit
	}
	return o
}

type tokenRow struct {
	page   int
	tokens []pdftext.Token
	folded []string
	text   textnorm.Folded
	starts []int // byte offset of each token in the joined row text
}

// tokenAt returns the index of the token covering raw offset off.
func (r tokenRow) tokenAt(off int) int {
	i := sort.Search(len(r.starts), func(i int) bool { return r.starts[i] > off })
	if i == 0 {
		return 0
	}
	return i - 1
}

type candidate struct {
	value  decimal.Decimal
	raw    string
	dx, dy float64
}

func (c candidate) distance() float64 { return math.Hypot(c.dx, c.dy) }

// FindValueByPosition looks for label among the token rows and picks the
// nearest money token that sits either to the right of the label on the
// same baseline or just below it. When the page has a header matching
// opts.ColumnHint, candidates inside that column win. Ties go to the
// smaller horizontal and then the smaller vertical distance.
func FindValueByPosition(tokens []pdftext.Token, label LabelPattern, labels LabelSet, opts LayoutOptions) Amount {
	opts = opts.withDefaults()
	var hint *regexp.Regexp
	if opts.ColumnHint != "" {
		hint, _ = regexp.Compile(opts.ColumnHint)
	}
	return findByPosition(tokens, label, labels, opts, hint)
}

func findByPosition(tokens []pdftext.Token, label LabelPattern, labels LabelSet, opts LayoutOptions, hint *regexp.Regexp) Amount {
	rows := buildRows(tokens, opts.RowTolerance)
	for ri, row := range rows {
		start, end, ok := label.Match(row.text.Text)
		if !ok {
			continue
		}
		first := row.tokenAt(row.text.RawIndex(start))
		last := row.tokenAt(row.text.RawIndex(end) - 1)
		labelLeft := row.tokens[first].X
		anchorX := row.tokens[last].Right()
		anchorY := row.tokens[last].Y

		// another label further along the row closes the search to the right
		rightLimit := math.Inf(1)
		if next := labels.NextStart(row.text.Text[end:]); next >= 0 {
			idx := row.tokenAt(row.text.RawIndex(end + next))
			rightLimit = row.tokens[idx].X
		}

		var col *[2]float64
		if hint != nil {
			col = columnSpan(rows, row.page, hint)
		}

		var all, inColumn []candidate
		for rj, other := range rows {
			if other.page != row.page {
				continue
			}
			if rj != ri && labels.MatchAny(other.text.Text) {
				continue
			}
			for k, t := range other.tokens {
				v, ok := moneyValue(other.folded[k])
				if !ok {
					continue
				}
				if k+1 < len(other.tokens) && strings.HasPrefix(other.folded[k+1], "kwh") {
					continue
				}
				c, ok := place(t, labelLeft, anchorX, anchorY, rightLimit, opts)
				if !ok {
					continue
				}
				c.value, c.raw = v, t.Text
				if v.IsPositive() && other.detachedMinus(k) {
					c.value, c.raw = v.Neg(), "-"+t.Text
				}
				all = append(all, c)
				if col != nil && math.Abs(t.X+t.Width/2-(col[0]+col[1])/2) <= opts.XTolerance {
					inColumn = append(inColumn, c)
				}
			}
		}
		if len(inColumn) > 0 {
			all = inColumn
		}
		if best, ok := nearest(all); ok {
			return present(best.value, best.raw, SourceLayout)
		}
	}
	return Amount{}
}

// detachedMinus reports whether token k is preceded by a minus sign that
// the extractor split off, with or without the currency prefix in between.
// A minus sitting between two amounts is read as a separator.
func (r tokenRow) detachedMinus(k int) bool {
	j := k - 1
	if j >= 0 && r.folded[j] == "r$" {
		j--
	}
	if j < 0 {
		return false
	}
	switch r.folded[j] {
	case "-", "-r$", "r$-":
	default:
		return false
	}
	if j > 0 {
		if _, ok := moneyValue(r.folded[j-1]); ok {
			return false
		}
	}
	return true
}

// place checks whether t is right of or below the label and measures it.
func place(t pdftext.Token, labelLeft, anchorX, anchorY, rightLimit float64, opts LayoutOptions) (candidate, bool) {
	dy := anchorY - t.Y
	switch {
	case math.Abs(dy) <= opts.YTolerance:
		if t.X < anchorX-0.5 || t.X >= rightLimit {
			return candidate{}, false
		}
		return candidate{dx: t.X - anchorX, dy: math.Abs(dy)}, true
	case dy > 0 && dy <= opts.BelowLimit:
		if t.Right() < labelLeft-opts.XTolerance || t.X > anchorX+opts.XTolerance {
			return candidate{}, false
		}
		var dx float64
		switch {
		case t.X > anchorX:
			dx = t.X - anchorX
		case t.Right() < labelLeft:
			dx = labelLeft - t.Right()
		}
		return candidate{dx: dx, dy: dy}, true
	}
	return candidate{}, false
}

func nearest(cs []candidate) (candidate, bool) {
	if len(cs) == 0 {
		return candidate{}, false
	}
	sort.SliceStable(cs, func(i, j int) bool {
		di, dj := cs[i].distance(), cs[j].distance()
		if di != dj {
			return di < dj
		}
		if cs[i].dx != cs[j].dx {
			return cs[i].dx < cs[j].dx
		}
		return cs[i].dy < cs[j].dy
	})
	return cs[0], true
}

// columnSpan returns the horizontal extent of the header matching hint on page.
func columnSpan(rows []tokenRow, page int, hint *regexp.Regexp) *[2]float64 {
	for _, r := range rows {
		if r.page != page {
			continue
		}
		loc := hint.FindStringIndex(r.text.Text)
		if loc == nil {
			continue
		}
		first := r.tokenAt(r.text.RawIndex(loc[0]))
		last := r.tokenAt(r.text.RawIndex(loc[1]) - 1)
		return &[2]float64{r.tokens[first].X, r.tokens[last].Right()}
	}
	return nil
}

// buildRows groups tokens per page into rows, top to bottom and left to
// right.
func buildRows(tokens []pdftext.Token, tol float64) []tokenRow {
	sorted := make([]pdftext.Token, len(tokens))
	copy(sorted, tokens)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Page != sorted[j].Page {
			return sorted[i].Page < sorted[j].Page
		}
		return sorted[i].Y > sorted[j].Y
	})

	var rows []tokenRow
	var current []pdftext.Token
	flush := func() {
		if len(current) == 0 {
			return
		}
		sort.SliceStable(current, func(i, j int) bool { return current[i].X < current[j].X })
		rows = append(rows, newTokenRow(current))
		current = nil
	}
	for _, t := range sorted {
		if len(current) > 0 && (t.Page != current[0].Page || math.Abs(t.Y-current[0].Y) > tol) {
			flush()
		}
		current = append(current, t)
	}
	flush()
	return rows
}

func newTokenRow(tokens []pdftext.Token) tokenRow {
	r := tokenRow{page: tokens[0].Page, tokens: tokens}
	var b strings.Builder
	for i, t := range tokens {
		if i > 0 {
			b.WriteByte(' ')
		}
		r.starts = append(r.starts, b.Len())
		b.WriteString(t.Text)
		r.folded = append(r.folded, textnorm.Fold(t.Text))
	}
	r.text = textnorm.FoldWithOffsets(b.String())
	return r
}

// LayoutStrategy associates labels and values by page coordinates.
type LayoutStrategy struct {
	labels LabelSet
	opts   LayoutOptions
	hint   *regexp.Regexp
}

func NewLayoutStrategy(labels LabelSet, opts LayoutOptions) (LayoutStrategy, error) {
	opts = opts.withDefaults()
	s := LayoutStrategy{labels: labels, opts: opts}
	if opts.ColumnHint != "" {
		re, err := regexp.Compile(opts.ColumnHint)
		if err != nil {
			return LayoutStrategy{}, err
		}
		s.hint = re
	}
	return s, nil
}

func (LayoutStrategy) Name() string { return SourceLayout }

func (s LayoutStrategy) Find(src Source, label LabelPattern) Amount {
	if len(src.Tokens) == 0 {
		return Amount{}
	}
	return findByPosition(src.Tokens, label, s.labels, s.opts, s.hint)
}
