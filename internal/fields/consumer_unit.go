package fields

import (
	"regexp"

	"github.com/joseph-ayodele/energy-invoices/internal/textnorm"
)

const blockLookahead = 4

var (
	reUCLabeled   = regexp.MustCompile(`(?:unidade\s+consumidora|\buc\b)\s*[:\-]?\s*(\d{4,})(?:[^\d,.]|$)`)
	reUCNumbered  = regexp.MustCompile(`\bn\s*[º°o.]?\s*(?:da\s+)?uc\s*[:\-]?\s*(\d{4,})`)
	reUCLabelOnly = regexp.MustCompile(`(?:unidade\s+consumidora|\buc\b)\s*[:\-]?\s*$`)
	reClientCode  = regexp.MustCompile(`\bcod(?:igo|\.)?\s*(?:do\s+)?cliente\b`)
	reInstallCode = regexp.MustCompile(`\bcod(?:igo|\.)?\s*(?:da\s+)?instalacao\b`)
	reSlashedCode = regexp.MustCompile(`(?:^|[^\d/])(\d{1,3}/\d{4,8}-\d)(?:\D|$)`)
	reLongNumber  = regexp.MustCompile(`(?:^|[^\d/.,])(\d{7,})(?:[^\d.,]|$)`)
	reLeadingUC   = regexp.MustCompile(`^\s*(\d{4,})(?:[^\d,.]|$)`)
)

// FindConsumerUnit returns the consumer unit identifier, or "". It tries the
// "Unidade Consumidora"/"UC" label, "Nº da UC", the client code block, the
// installation code block, and finally the last slashed client code
// ("10/108132-2") anywhere in the document.
func FindConsumerUnit(lines []string) string {
	folded := make([]string, len(lines))
	for i, l := range lines {
		folded[i] = textnorm.Fold(l)
	}

	for i, f := range folded {
		if m := reUCLabeled.FindStringSubmatch(f); m != nil {
			return m[1]
		}
		if m := reUCNumbered.FindStringSubmatch(f); m != nil {
			return m[1]
		}
		if reUCLabelOnly.MatchString(f) && i+1 < len(folded) {
			if m := reLeadingUC.FindStringSubmatch(folded[i+1]); m != nil {
				return m[1]
			}
		}
	}

	if code := codeInBlock(folded, reClientCode); code != "" {
		return code
	}
	if code := codeInBlock(folded, reInstallCode); code != "" {
		return code
	}

	last := ""
	for _, f := range folded {
		for _, m := range reSlashedCode.FindAllStringSubmatch(f, -1) {
			last = m[1]
		}
	}
	return last
}

// codeInBlock searches the text after a header line and the lines below it
// for a slashed code or a long number.
func codeInBlock(folded []string, header *regexp.Regexp) string {
	for i, f := range folded {
		loc := header.FindStringIndex(f)
		if loc == nil {
			continue
		}
		texts := []string{f[loc[1]:]}
		for j := i + 1; j <= i+blockLookahead && j < len(folded); j++ {
			texts = append(texts, folded[j])
		}
		for _, t := range texts {
			if m := reSlashedCode.FindStringSubmatch(t); m != nil {
				return m[1]
			}
			if m := reLongNumber.FindStringSubmatch(t); m != nil {
				return m[1]
			}
		}
	}
	return ""
}
