package batch

import (
	"fmt"
	"io"
	"time"
)

// Failure is a file that could not be processed.
type Failure struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Summary reports the outcome of one run. Skipped is Failed plus NoCredit.
type Summary struct {
	RunID     string        `json:"run_id"`
	Input     string        `json:"input"`
	Output    string        `json:"output,omitempty"` // empty when nothing was written
	Processed int           `json:"processed"`
	Written   int           `json:"written"`
	Skipped   int           `json:"skipped"`
	Failed    int           `json:"failed"`
	NoCredit  int           `json:"no_credit"`
	Failures  []Failure     `json:"failures,omitempty"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Print writes a human readable report.
func (s Summary) Print(w io.Writer) {
	fmt.Fprintf(w, "Processados: %d\n", s.Processed)
	fmt.Fprintf(w, "Gravados:    %d\n", s.Written)
	fmt.Fprintf(w, "Ignorados:   %d (sem crédito: %d, com erro: %d)\n", s.Skipped, s.NoCredit, s.Failed)
	for _, f := range s.Failures {
		fmt.Fprintf(w, "  - %s: %s\n", f.Path, f.Reason)
	}
	if s.Output != "" {
		fmt.Fprintf(w, "Planilha:    %s\n", s.Output)
	} else {
		fmt.Fprintln(w, "Nenhuma planilha gerada.")
	}
}
