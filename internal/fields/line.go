package fields

import (
	"github.com/joseph-ayodele/energy-invoices/internal/textnorm"
)

// DefaultWindow is how many lines after a label line are searched.
const DefaultWindow = 2

type SearchOptions struct {
	Window int
}

// FindValue scans lines for label and returns the first money token found
// after the label on the same line or on the next opts.Window lines. The
// search for one label occurrence ends where another label starts, so a
// neighbour's value is never taken. Currency-prefixed tokens win over bare
// ones on the same line. The first label occurrence that yields a value
// wins.
func FindValue(lines []string, label LabelPattern, labels LabelSet, opts SearchOptions) Amount {
	window := opts.Window
	if window < 0 {
		window = 0
	}
	folded := make([]string, len(lines))
	for i, l := range lines {
		folded[i] = textnorm.Fold(l)
	}

	var result Amount
	for i := range folded {
		_, end, ok := label.Match(folded[i])
		if !ok {
			continue
		}

		rest := folded[i][end:]
		if next := labels.NextStart(rest); next >= 0 {
			rest = rest[:next]
		}
		segments := []string{rest}
		for j := i + 1; j <= i+window && j < len(folded); j++ {
			if labels.MatchAny(folded[j]) {
				break
			}
			segments = append(segments, folded[j])
		}

		for _, seg := range segments {
			tokens, bad := scanMoney(seg)
			if t, ok := pick(tokens); ok {
				return present(t.value, t.raw, SourceLine)
			}
			if bad != "" && result.Status == Absent {
				result = malformed(bad, SourceLine)
			}
		}
	}
	return result
}

// LineStrategy associates labels and values by line adjacency.
type LineStrategy struct {
	labels LabelSet
	opts   SearchOptions
}

func NewLineStrategy(labels LabelSet, opts SearchOptions) LineStrategy {
	return LineStrategy{labels: labels, opts: opts}
}

func (LineStrategy) Name() string { return SourceLine }

func (s LineStrategy) Find(src Source, label LabelPattern) Amount {
	return FindValue(src.Lines, label, s.labels, s.opts)
}
