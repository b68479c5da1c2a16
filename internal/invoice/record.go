// Package invoice turns the text of one utility invoice into a Record.
package invoice

import (
	"github.com/joseph-ayodele/energy-invoices/internal/fields"
)

// Record is the result of processing one PDF. Dates are already formatted
// as "MON/YY"; an empty string means the value was not found.
type Record struct {
	SourcePath     string        `json:"source_path"`
	Date           string        `json:"date"`
	ConsumerUnit   string        `json:"consumer_unit"`
	EnergyMUC      fields.Amount `json:"energy_muc"`
	EnergyOUC      fields.Amount `json:"energy_ouc"`
	EnergyOffPeak  fields.Amount `json:"energy_off_peak"`
	Classification string        `json:"classification,omitempty"`
	ServiceType    string        `json:"service_type,omitempty"`
	LimitMin       fields.Amount `json:"limit_min"`
	LimitMax       fields.Amount `json:"limit_max"`
}

// Credits returns the three energy-credit amounts in column order.
func (r Record) Credits() []fields.Amount {
	return []fields.Amount{r.EnergyMUC, r.EnergyOUC, r.EnergyOffPeak}
}

// HasEnergyCredit reports whether at least one credit amount is present.
// Records without credits are not exported.
func (r Record) HasEnergyCredit() bool {
	for _, a := range r.Credits() {
		if a.IsPresent() {
			return true
		}
	}
	return false
}

// Injected is the "Injetada?" flag of the extended sheet.
func (r Record) Injected() bool { return r.HasEnergyCredit() }
