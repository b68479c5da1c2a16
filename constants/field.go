package constants

import (
	"strings"
)

// Field names one extracted invoice value.
type Field string

const (
	FieldDate           Field = "Date"
	FieldConsumerUnit   Field = "ConsumerUnit"
	FieldEnergyMUC      Field = "EnergyMUC"
	FieldEnergyOUC      Field = "EnergyOUC"
	FieldEnergyOffPeak  Field = "EnergyOffPeak"
	FieldClassification Field = "Classification"
	FieldServiceType    Field = "ServiceType"
	FieldLimitMin       Field = "LimitMin"
	FieldLimitMax       Field = "LimitMax"
)

// CreditFields are the energy-credit amounts; a record needs at least one of them.
var CreditFields = []Field{
	FieldEnergyMUC,
	FieldEnergyOUC,
	FieldEnergyOffPeak,
}

var allFields = []Field{
	FieldDate,
	FieldConsumerUnit,
	FieldEnergyMUC,
	FieldEnergyOUC,
	FieldEnergyOffPeak,
	FieldClassification,
	FieldServiceType,
	FieldLimitMin,
	FieldLimitMax,
}

// Canonicalize maps the short keys used in tuning files ("muc", "fora_ponta", ...)
// and the field names themselves onto a Field.
func Canonicalize(input string) (Field, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return "", false
	}

	synonyms := map[string]Field{
		"muc":           FieldEnergyMUC,
		"ouc":           FieldEnergyOUC,
		"off_peak":      FieldEnergyOffPeak,
		"offpeak":       FieldEnergyOffPeak,
		"fora_ponta":    FieldEnergyOffPeak,
		"uc":            FieldConsumerUnit,
		"data":          FieldDate,
		"lim_min":       FieldLimitMin,
		"lim_max":       FieldLimitMax,
		"classificacao": FieldClassification,
	}
	if f, ok := synonyms[normalized]; ok {
		return f, true
	}

	for _, f := range allFields {
		if normalized == strings.ToLower(string(f)) {
			return f, true
		}
	}
	return "", false
}
