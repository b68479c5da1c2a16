// Package textnorm cleans text pulled out of PDF content streams so that
// label and amount patterns can match it reliably.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	reCRLF         = regexp.MustCompile(`\r\n?`)
	reSpaces       = regexp.MustCompile(`[ \x{00A0}\x{2007}\x{202F}]+`)
	reHyphenBreak  = regexp.MustCompile(`(\p{Ll})-\n(\p{Ll})`)
	reCurrency     = regexp.MustCompile(`R *\$ *`)
	reBrokenNumber = regexp.MustCompile(`(\d) ([.,]) ?(\d)`)
)

// Normalize collapses whitespace, drops control characters, unifies the
// currency prefix to "R$ " and rejoins numbers and words split by the
// extractor. Line breaks are kept; blank lines are removed. Case and accents
// are left untouched.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	s = reCRLF.ReplaceAllString(s, "\n")
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\f':
			return '\n'
		case r == '\t' || r == '\v':
			return ' '
		case r == '\u00ad' || r == '\u200b' || r == '\ufeff':
			return -1
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
	s = reSpaces.ReplaceAllString(s, " ")
	s = reCurrency.ReplaceAllString(s, "R$ ")
	s = reBrokenNumber.ReplaceAllString(s, "$1$2$3")

	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l != "" {
			kept = append(kept, l)
		}
	}
	s = strings.Join(kept, "\n")

	return reHyphenBreak.ReplaceAllString(s, "$1$2")
}

// Lines normalizes s and splits it into non-empty lines.
func Lines(s string) []string {
	n := Normalize(s)
	if n == "" {
		return nil
	}
	return strings.Split(n, "\n")
}
