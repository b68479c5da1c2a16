package textnorm

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNotAmount is returned for tokens that do not read as a monetary value.
var ErrNotAmount = errors.New("not an amount")

var reCanonical = regexp.MustCompile(`^\d+(\.\d+)?$`)

// ParseAmount reads a money token in either pt-BR ("1.234,56") or
// dot-decimal ("1,234.56") notation. A leading "R$" and a leading or
// trailing minus sign are accepted.
func ParseAmount(token string) (decimal.Decimal, error) {
	s := strings.TrimSpace(token)
	s = strings.TrimSpace(strings.TrimPrefix(s, "R$"))
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = strings.TrimSpace(s[1:])
	}
	if strings.HasSuffix(s, "-") {
		neg = true
		s = strings.TrimSpace(s[:len(s)-1])
	}
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrNotAmount, token)
	}

	canonical := canonicalDigits(s)
	if !reCanonical.MatchString(canonical) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrNotAmount, token)
	}
	d, err := decimal.NewFromString(canonical)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrNotAmount, token)
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}

// CanonicalAmount renders token as a plain dot-decimal string such as "-1234.56".
func CanonicalAmount(token string) (string, error) {
	d, err := ParseAmount(token)
	if err != nil {
		return "", err
	}
	return d.String(), nil
}

// canonicalDigits drops thousands separators and turns the decimal
// separator into a dot.
func canonicalDigits(s string) string {
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	var decimalSep byte
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			decimalSep = ','
		} else {
			decimalSep = '.'
		}
	case lastComma >= 0:
		decimalSep = soleSeparator(s, ',')
	case lastDot >= 0:
		decimalSep = soleSeparator(s, '.')
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == decimalSep:
			b.WriteByte('.')
		case c == ',' || c == '.':
			// thousands separator
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// soleSeparator decides whether the only separator kind present in s is a
// decimal mark. Repeated separators, or a single one followed by exactly
// three digits after a non-zero integer part, are thousands groupings.
func soleSeparator(s string, sep byte) byte {
	if strings.Count(s, string(sep)) > 1 {
		return 0
	}
	i := strings.IndexByte(s, sep)
	intPart, frac := s[:i], s[i+1:]
	if len(frac) == 3 && intPart != "0" && intPart != "" {
		return 0
	}
	return sep
}
