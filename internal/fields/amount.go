// Package fields locates labeled values in invoice text, either by line
// adjacency or by position on the page.
package fields

import (
	"github.com/shopspring/decimal"
)

// Status is the outcome of looking up one field.
type Status int

const (
	Absent Status = iota
	Present
	Malformed
)

func (s Status) String() string {
	switch s {
	case Present:
		return "present"
	case Malformed:
		return "malformed"
	default:
		return "absent"
	}
}

// Names of the strategies that can produce an Amount.
const (
	SourceLine   = "line"
	SourceLayout = "layout"
)

// Amount is a monetary field. The zero value is Absent.
type Amount struct {
	Status Status          `json:"status"`
	Value  decimal.Decimal `json:"value"`
	Raw    string          `json:"raw,omitempty"`
	Source string          `json:"source,omitempty"`
}

// IsPresent reports whether a value was found.
func (a Amount) IsPresent() bool { return a.Status == Present }

// Decimal returns the value as a NullDecimal that is valid only when present.
func (a Amount) Decimal() decimal.NullDecimal {
	if a.Status != Present {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(a.Value)
}

func present(v decimal.Decimal, raw, source string) Amount {
	return Amount{Status: Present, Value: v, Raw: raw, Source: source}
}

func malformed(raw, source string) Amount {
	return Amount{Status: Malformed, Raw: raw, Source: source}
}
