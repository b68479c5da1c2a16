// Package export writes processed invoice records to an XLSX workbook.
package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/energy-invoices/constants"
	"github.com/joseph-ayodele/energy-invoices/internal/common"
	"github.com/joseph-ayodele/energy-invoices/internal/fields"
	"github.com/joseph-ayodele/energy-invoices/internal/invoice"
)

// numFmtMoney is the built-in "#,##0.00" number format.
const numFmtMoney = 4

type Options struct {
	Extended bool   // append classification, service type, injected flag and limits
	RunID    string // stored in the workbook properties
}

// Service is a tiny façade that produces XLSX workbooks from records.
type Service struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger, now: time.Now}
}

// Headers returns the header row for opts.
func Headers(opts Options) []string {
	h := append([]string{}, constants.Columns...)
	if opts.Extended {
		h = append(h, constants.ExtendedColumns...)
	}
	return h
}

// Workbook builds the workbook in memory. Missing amounts become empty
// cells, never zero. The caller closes the returned file.
func (s *Service) Workbook(records []invoice.Record, opts Options) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := constants.SheetName
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		_ = f.Close()
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: numFmtMoney})
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	headers := Headers(opts)
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = f.SetCellStyle(sheet, "A1", last, bold)

	for i, r := range records {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		writeAmount := func(col int, a fields.Amount) {
			if !a.IsPresent() {
				return
			}
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, a.Value.InexactFloat64())
			_ = f.SetCellStyle(sheet, cell, cell, money)
		}

		write(1, r.SourcePath)
		write(2, r.Date)
		write(3, r.ConsumerUnit)
		writeAmount(4, r.EnergyMUC)
		writeAmount(5, r.EnergyOUC)
		writeAmount(6, r.EnergyOffPeak)

		if opts.Extended {
			write(7, r.Classification)
			write(8, r.ServiceType)
			write(9, yesNo(r.Injected()))
			if r.LimitMin.IsPresent() {
				write(10, r.LimitMin.Value.InexactFloat64())
			}
			if r.LimitMax.IsPresent() {
				write(11, r.LimitMax.Value.InexactFloat64())
			}
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 60) // path
	_ = f.SetColWidth(sheet, "B", "B", 10) // date
	_ = f.SetColWidth(sheet, "C", "C", 22) // consumer unit
	_ = f.SetColWidth(sheet, "D", "F", 30) // credits
	if opts.Extended {
		_ = f.SetColWidth(sheet, "G", "G", 32)
		_ = f.SetColWidth(sheet, "H", "K", 14)
	}
	_ = f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	props := &excelize.DocProperties{
		Title:       "Faturas processadas",
		Creator:     "faturas",
		Identifier:  opts.RunID,
		Created:     s.now().UTC().Format(time.RFC3339),
		Description: fmt.Sprintf("%d registros", len(records)),
	}
	if err := f.SetDocProps(props); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

// WriteXLSX returns the workbook as bytes.
func (s *Service) WriteXLSX(records []invoice.Record, opts Options) ([]byte, error) {
	f, err := s.Workbook(records, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile saves the workbook at path, creating its directory when
// missing.
func (s *Service) WriteFile(path string, records []invoice.Record, opts Options) error {
	start := time.Now()
	data, err := s.WriteXLSX(records, opts)
	if err != nil {
		return common.NewAppError(common.CodeExport, path, err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return common.NewAppError(common.CodeExport, path, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return common.NewAppError(common.CodeExport, path, err)
	}
	s.logger.Info("export.xlsx.ok",
		"path", path,
		"run_id", opts.RunID,
		"rows", len(records),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func yesNo(b bool) string {
	if b {
		return "SIM"
	}
	return "NÃO"
}
