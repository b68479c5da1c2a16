package fields

import (
	"github.com/joseph-ayodele/energy-invoices/internal/pdftext"
)

// Source is what a strategy searches: normalized lines and positioned tokens
// of one document.
type Source struct {
	Lines  []string
	Tokens []pdftext.Token
}

// SourceFromDocument collects the lines and tokens of doc.
func SourceFromDocument(doc pdftext.Document) Source {
	return Source{Lines: doc.Lines(), Tokens: doc.Tokens()}
}

// Strategy is one way of associating a label with its value.
type Strategy interface {
	Name() string
	Find(src Source, label LabelPattern) Amount
}

// Resolve tries strategies in order and returns the first result that is
// not absent. A malformed result stops the search.
func Resolve(src Source, label LabelPattern, strategies []Strategy) Amount {
	for _, s := range strategies {
		if a := s.Find(src, label); a.Status != Absent {
			return a
		}
	}
	return Amount{}
}
