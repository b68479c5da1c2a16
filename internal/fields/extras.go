package fields

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/energy-invoices/internal/textnorm"
)

var (
	reClassification = regexp.MustCompile(`classificacao\s*:\s*([^/\n]+?)\s*(?:/|\n|$)`)
	reServiceType    = regexp.MustCompile(`classificacao\s*:\s*[^/\n]+/\s*([a-z0-9]+)`)
	reLimitMin       = regexp.MustCompile(`(?:lim\.\s*min\.|limite\s*minimo)\s*:\s*(\d+)(?:\s|$)`)
	reLimitMax       = regexp.MustCompile(`(?:lim\.\s*max\.|limite\s*maximo)\s*:\s*(\d+)(?:\s|$)`)
)

// FindClassification returns the tariff classification, e.g.
// "MTA-MOD.TARIFARIA AZUL", as printed.
func FindClassification(lines []string) string {
	return captureRaw(lines, reClassification)
}

// FindServiceType returns the supply group printed after the classification,
// e.g. "A4".
func FindServiceType(lines []string) string {
	return strings.ToUpper(captureRaw(lines, reServiceType))
}

// FindLimitMin returns the "Lim. Min." voltage limit.
func FindLimitMin(lines []string) Amount {
	return findInteger(lines, reLimitMin)
}

// FindLimitMax returns the "Lim. Max." voltage limit.
func FindLimitMax(lines []string) Amount {
	return findInteger(lines, reLimitMax)
}

// captureRaw matches re against the folded text and returns the first
// capture group cut from the unfolded text.
func captureRaw(lines []string, re *regexp.Regexp) string {
	raw := strings.Join(lines, "\n")
	folded := textnorm.FoldWithOffsets(raw)
	loc := re.FindStringSubmatchIndex(folded.Text)
	if loc == nil || loc[2] < 0 {
		return ""
	}
	return strings.TrimSpace(raw[folded.RawIndex(loc[2]):folded.RawIndex(loc[3])])
}

func findInteger(lines []string, re *regexp.Regexp) Amount {
	for _, l := range lines {
		m := re.FindStringSubmatch(textnorm.Fold(l))
		if m == nil {
			continue
		}
		v, err := decimal.NewFromString(m[1])
		if err != nil {
			return malformed(m[1], SourceLine)
		}
		return present(v, m[1], SourceLine)
	}
	return Amount{}
}
