package fields

import (
	"fmt"
	"regexp"

	"github.com/joseph-ayodele/energy-invoices/constants"
)

// LabelPattern maps a field onto the spellings of its label. Patterns are matched
// against accent-folded, lower-cased text (see textnorm.Fold).
type LabelPattern struct {
	Field   constants.Field
	Pattern *regexp.Regexp
}

func NewLabelPattern(field constants.Field, pattern string) (LabelPattern, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return LabelPattern{}, fmt.Errorf("label %s: %w", field, err)
	}
	return LabelPattern{Field: field, Pattern: re}, nil
}

func mustLabelPattern(field constants.Field, pattern string) LabelPattern {
	l, err := NewLabelPattern(field, pattern)
	if err != nil {
		panic(err)
	}
	return l
}

// Match returns the byte span of the first label occurrence in folded.
func (l LabelPattern) Match(folded string) (start, end int, ok bool) {
	if l.Pattern == nil {
		return 0, 0, false
	}
	loc := l.Pattern.FindStringIndex(folded)
	if loc == nil {
		return 0, 0, false
	}
	return loc[0], loc[1], true
}

const injectedPrefix = `energia\W+(?:ativa|atv|ativ)\.?\W+(?:injetada|injet)\.?[\s\-]*`

// Default label spellings.
var (
	PatternEnergyMUC     = injectedPrefix + `m[\s\-]?uc\b`
	PatternEnergyOUC     = injectedPrefix + `o[\s\-]?uc\b`
	PatternEnergyOffPeak = injectedPrefix + `fora\W*(?:de\W*)?(?:ponta|fp|pta)\b`
)

// LabelSet is an immutable, ordered collection of labels. It is built once
// and shared read-only.
type LabelSet struct {
	labels []LabelPattern
}

func NewLabelSet(labels ...LabelPattern) LabelSet {
	cp := make([]LabelPattern, len(labels))
	copy(cp, labels)
	return LabelSet{labels: cp}
}

// DefaultLabels returns the labels of the three energy-credit fields.
func DefaultLabels() LabelSet {
	return NewLabelSet(
		mustLabelPattern(constants.FieldEnergyMUC, PatternEnergyMUC),
		mustLabelPattern(constants.FieldEnergyOUC, PatternEnergyOUC),
		mustLabelPattern(constants.FieldEnergyOffPeak, PatternEnergyOffPeak),
	)
}

// Labels returns a copy of the labels in order.
func (s LabelSet) Labels() []LabelPattern {
	cp := make([]LabelPattern, len(s.labels))
	copy(cp, s.labels)
	return cp
}

func (s LabelSet) Get(f constants.Field) (LabelPattern, bool) {
	for _, l := range s.labels {
		if l.Field == f {
			return l, true
		}
	}
	return LabelPattern{}, false
}

// With returns a new set where the given fields use the given patterns.
// Unknown fields are added at the end.
func (s LabelSet) With(overrides map[constants.Field]string) (LabelSet, error) {
	out := s.Labels()
	for field, pattern := range overrides {
		l, err := NewLabelPattern(field, pattern)
		if err != nil {
			return LabelSet{}, err
		}
		replaced := false
		for i := range out {
			if out[i].Field == field {
				out[i] = l
				replaced = true
			}
		}
		if !replaced {
			out = append(out, l)
		}
	}
	return LabelSet{labels: out}, nil
}

// MatchAny reports whether any label occurs in folded.
func (s LabelSet) MatchAny(folded string) bool {
	for _, l := range s.labels {
		if _, _, ok := l.Match(folded); ok {
			return true
		}
	}
	return false
}

// NextStart returns the earliest position in folded where any label starts,
// or -1.
func (s LabelSet) NextStart(folded string) int {
	next := -1
	for _, l := range s.labels {
		if start, _, ok := l.Match(folded); ok && (next < 0 || start < next) {
			next = start
		}
	}
	return next
}
