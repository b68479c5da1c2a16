package invoice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/energy-invoices/constants"
	"github.com/joseph-ayodele/energy-invoices/internal/common"
	"github.com/joseph-ayodele/energy-invoices/internal/fields"
	"github.com/joseph-ayodele/energy-invoices/internal/pdftext"
	"github.com/joseph-ayodele/energy-invoices/internal/textnorm"
)

// Extractor reads the text of a PDF.
type Extractor interface {
	Extract(ctx context.Context, path string) (pdftext.Document, error)
}

// FileProcessor is anything that can turn a PDF path into a Record.
type FileProcessor interface {
	Process(ctx context.Context, path string) (Record, error)
}

// Processor coordinates text extraction then field lookup.
type Processor struct {
	logger     *slog.Logger
	extractor  Extractor
	labels     fields.LabelSet
	strategies []fields.Strategy
	window     int
}

// NewProcessor builds a processor from the extraction options. The label
// set and strategies are built once and shared by every call.
func NewProcessor(logger *slog.Logger, extractor Extractor, opts fields.Options) (*Processor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	labels, err := opts.LabelSet()
	if err != nil {
		return nil, fmt.Errorf("labels: %w", err)
	}
	strategies, err := opts.Strategies(labels)
	if err != nil {
		return nil, err
	}
	return &Processor{
		logger:     logger,
		extractor:  extractor,
		labels:     labels,
		strategies: strategies,
		window:     opts.Window,
	}, nil
}

// Process extracts path and looks up every field. Only an unreadable file
// is an error; missing fields are reported through the Record.
func (p *Processor) Process(ctx context.Context, path string) (Record, error) {
	start := time.Now()
	doc, err := p.extractor.Extract(ctx, path)
	if err != nil {
		return Record{}, err
	}
	doc.Path = path
	rec := p.ProcessDocument(doc)
	common.LoggerFromContext(ctx, p.logger).Debug("invoice.process.ok",
		"path", path,
		"method", doc.Method,
		"pages", len(doc.Pages),
		"date", rec.Date,
		"consumer_unit", rec.ConsumerUnit,
		"muc", rec.EnergyMUC.Status.String(),
		"ouc", rec.EnergyOUC.Status.String(),
		"off_peak", rec.EnergyOffPeak.Status.String(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return rec, nil
}

// ProcessDocument looks up every field of an already extracted document.
// Date and consumer unit are read from lines only; credits go through the
// strategy list.
func (p *Processor) ProcessDocument(doc pdftext.Document) Record {
	src := fields.SourceFromDocument(doc)
	return Record{
		SourcePath:     doc.Path,
		Date:           textnorm.FormatMonthYear(fields.FindDate(src.Lines, p.labels, p.window)),
		ConsumerUnit:   fields.FindConsumerUnit(src.Lines),
		EnergyMUC:      p.credit(src, constants.FieldEnergyMUC),
		EnergyOUC:      p.credit(src, constants.FieldEnergyOUC),
		EnergyOffPeak:  p.credit(src, constants.FieldEnergyOffPeak),
		Classification: fields.FindClassification(src.Lines),
		ServiceType:    fields.FindServiceType(src.Lines),
		LimitMin:       fields.FindLimitMin(src.Lines),
		LimitMax:       fields.FindLimitMax(src.Lines),
	}
}

func (p *Processor) credit(src fields.Source, field constants.Field) fields.Amount {
	label, ok := p.labels.Get(field)
	if !ok {
		return fields.Amount{}
	}
	return fields.Resolve(src, label, p.strategies)
}
