package fields

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/energy-invoices/internal/textnorm"
)

var (
	reNumberRun = regexp.MustCompile(`(r\$\s*)?(-\s*)?(\d[\d.,]*\d|\d)(-)?`)
	// exactly two decimals, pt-BR or dot-decimal grouping
	rePtBRMoney = regexp.MustCompile(`^(?:\d{1,3}(?:\.\d{3})+|\d+),\d{2}$`)
	reDotMoney  = regexp.MustCompile(`^(?:\d{1,3}(?:,\d{3})+|\d+)\.\d{2}$`)
	// quantities and rates are not money
	reUnitSuffix = regexp.MustCompile(`^\s*(?:kwh|kw\b|%)`)
	reCurrencyAt = regexp.MustCompile(`r\$\s*([-\d]\S*)`)
)

type moneyToken struct {
	raw      string
	value    decimal.Decimal
	currency bool
	start    int
}

// scanMoney lists the money tokens of a folded text segment in order. bad is
// the first currency-prefixed numeral that is not valid money, if any.
func scanMoney(s string) (tokens []moneyToken, bad string) {
	valid := map[int]bool{}
	for _, loc := range reNumberRun.FindAllStringSubmatchIndex(s, -1) {
		start, end := loc[0], loc[1]
		if start > 0 && continuesToken(s[start-1]) {
			continue
		}
		num := s[loc[6]:loc[7]]
		if !rePtBRMoney.MatchString(num) && !reDotMoney.MatchString(num) {
			continue
		}
		trailingMinus := loc[8] >= 0
		if trailingMinus && end < len(s) && isDigit(s[end]) {
			trailingMinus = false
			end--
		}
		if end < len(s) && (isDigit(s[end]) || isLetter(s[end])) {
			continue
		}
		if reUnitSuffix.MatchString(s[end:]) {
			continue
		}
		v, err := textnorm.ParseAmount(num)
		if err != nil {
			continue
		}
		if loc[4] >= 0 || trailingMinus {
			v = v.Neg()
		}
		tokens = append(tokens, moneyToken{
			raw:      strings.TrimSpace(s[start:end]),
			value:    v,
			currency: loc[2] >= 0,
			start:    start,
		})
		valid[start] = true
	}

	for _, loc := range reCurrencyAt.FindAllStringSubmatchIndex(s, -1) {
		if !valid[loc[0]] {
			bad = strings.TrimSpace(s[loc[0]:loc[1]])
			break
		}
	}
	return tokens, bad
}

// pick prefers the first currency-prefixed token and falls back to the
// first bare one.
func pick(tokens []moneyToken) (moneyToken, bool) {
	for _, t := range tokens {
		if t.currency {
			return t, true
		}
	}
	if len(tokens) > 0 {
		return tokens[0], true
	}
	return moneyToken{}, false
}

// moneyValue reads a single word token such as "123,45", "R$123,45" or
// "117,00-".
func moneyValue(folded string) (decimal.Decimal, bool) {
	s := strings.TrimPrefix(strings.TrimSpace(folded), "r$")
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	if strings.HasSuffix(s, "-") {
		neg = true
		s = s[:len(s)-1]
	}
	if !rePtBRMoney.MatchString(s) && !reDotMoney.MatchString(s) {
		return decimal.Decimal{}, false
	}
	v, err := textnorm.ParseAmount(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	if neg {
		v = v.Neg()
	}
	return v, true
}

func continuesToken(c byte) bool {
	return isDigit(c) || isLetter(c) || c == '/' || c == '.' || c == ','
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }
