package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Chains are stateful, so each call builds its own.
func newFolder() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// Fold strips diacritics and lower-cases s. It is meant for label matching
// only; extracted values keep their printed spelling.
func Fold(s string) string {
	return FoldWithOffsets(s).Text
}

// Folded is accent-folded text that remembers where each byte came from.
type Folded struct {
	Text    string
	offsets []int
}

// RawIndex maps a byte index in the folded text back to the raw string.
// An index equal to len(Text) maps to the end of the raw string.
func (f Folded) RawIndex(i int) int {
	if i < 0 {
		return 0
	}
	if i >= len(f.offsets) {
		if len(f.offsets) == 0 {
			return 0
		}
		return f.offsets[len(f.offsets)-1]
	}
	return f.offsets[i]
}

// FoldWithOffsets folds s rune by rune and keeps an offset map.
func FoldWithOffsets(s string) Folded {
	var b strings.Builder
	b.Grow(len(s))
	offsets := make([]int, 0, len(s)+1)
	for i, r := range s {
		var out string
		if r < utf8RuneSelf {
			out = string(unicode.ToLower(r))
		} else {
			folded, _, err := transform.String(newFolder(), string(r))
			if err != nil {
				folded = string(r)
			}
			out = strings.ToLower(folded)
		}
		for j := 0; j < len(out); j++ {
			offsets = append(offsets, i)
		}
		b.WriteString(out)
	}
	offsets = append(offsets, len(s))
	return Folded{Text: b.String(), offsets: offsets}
}

const utf8RuneSelf = 0x80
