package fields

import (
	"regexp"
	"strconv"

	"github.com/joseph-ayodele/energy-invoices/constants"
	"github.com/joseph-ayodele/energy-invoices/internal/textnorm"
)

var (
	// billing cycle embedded in registration numbers, e.g. "3001234567-2024-10-1"
	reCycle     = regexp.MustCompile(`-(20\d{2})-(0[1-9]|1[0-2])-`)
	reFullMonth = regexp.MustCompile(`\b(janeiro|fevereiro|marco|abril|maio|junho|julho|agosto|setembro|outubro|novembro|dezembro)\s*(?:/|de)?\s*(20\d{2})\b`)
	reNumMonth  = regexp.MustCompile(`(?:^|\D)(0?[1-9]|1[0-2])\s*/\s*(20\d{2})(?:\D|$)`)
)

// FindDate returns the reference month of the invoice as "mm/yyyy", or ""
// when no candidate exists. Candidates are tried in order: billing cycle
// codes, written month names, numeric months within window lines before or
// after an energy-credit label (latest wins), then the latest numeric month
// anywhere.
func FindDate(lines []string, labels LabelSet, window int) string {
	for _, l := range lines {
		if m := reCycle.FindStringSubmatch(l); m != nil {
			return monthYear(m[2], m[1])
		}
	}

	folded := make([]string, len(lines))
	for i, l := range lines {
		folded[i] = textnorm.Fold(l)
	}
	for _, f := range folded {
		if m := reFullMonth.FindStringSubmatch(f); m != nil {
			return monthYear(strconv.Itoa(indexOf(constants.MonthNames[:], m[1])+1), m[2])
		}
	}

	if window < 0 {
		window = 0
	}
	best := 0
	for i, f := range folded {
		if !labels.MatchAny(f) {
			continue
		}
		for j := max(0, i-window); j <= i+window && j < len(folded); j++ {
			best = max(best, latestNumeric(folded[j]))
		}
	}
	if best == 0 {
		for _, f := range folded {
			best = max(best, latestNumeric(f))
		}
	}
	if best == 0 {
		return ""
	}
	return textnorm.MonthYear((best-1)%12+1, (best-1)/12)
}

// latestNumeric returns year*12+month of the latest mm/yyyy in s, or 0.
func latestNumeric(s string) int {
	best := 0
	for _, m := range allNumericMonths(s) {
		month, _ := strconv.Atoi(m[0])
		year, _ := strconv.Atoi(m[1])
		best = max(best, year*12+month)
	}
	return best
}

// allNumericMonths finds overlapping-safe mm/yyyy pairs; the leading and
// trailing non-digit are consumed by the pattern, so the scan restarts one
// byte before the end of each match.
func allNumericMonths(s string) [][2]string {
	var out [][2]string
	for off := 0; off < len(s); {
		loc := reNumMonth.FindStringSubmatchIndex(s[off:])
		if loc == nil {
			break
		}
		out = append(out, [2]string{s[off+loc[2] : off+loc[3]], s[off+loc[4] : off+loc[5]]})
		next := off + loc[5]
		if next <= off {
			next = off + 1
		}
		off = next
	}
	return out
}

func monthYear(month, year string) string {
	m, err := strconv.Atoi(month)
	if err != nil {
		return ""
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return ""
	}
	return textnorm.MonthYear(m, y)
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
