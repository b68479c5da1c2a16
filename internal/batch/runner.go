// Package batch processes every PDF under an input path and writes the
// records with energy credits to a spreadsheet.
package batch

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/energy-invoices/internal/common"
	"github.com/joseph-ayodele/energy-invoices/internal/export"
	"github.com/joseph-ayodele/energy-invoices/internal/ingest"
	"github.com/joseph-ayodele/energy-invoices/internal/invoice"
)

// Exporter persists the retained records.
type Exporter interface {
	WriteFile(path string, records []invoice.Record, opts export.Options) error
}

type Runner struct {
	processor invoice.FileProcessor
	exporter  Exporter
	logger    *slog.Logger
	queueOpts []Option
	extended  bool
	newRunID  func() string
}

type RunnerOption func(*Runner)

// WithQueue passes options to the worker queue of every run.
func WithQueue(opts ...Option) RunnerOption {
	return func(r *Runner) { r.queueOpts = append(r.queueOpts, opts...) }
}

// WithExtended writes the extended column layout.
func WithExtended(extended bool) RunnerOption {
	return func(r *Runner) { r.extended = extended }
}

func NewRunner(processor invoice.FileProcessor, exporter Exporter, logger *slog.Logger, opts ...RunnerOption) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Runner{
		processor: processor,
		exporter:  exporter,
		logger:    logger,
		newRunID:  uuid.NewString,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run discovers the PDFs under input, processes them and writes the records
// with at least one energy credit to output. Per-file failures are logged
// and reported in the summary; they never abort the run. When no record
// survives no file is written.
func (r *Runner) Run(ctx context.Context, input, output string) (Summary, error) {
	start := time.Now()
	summary := Summary{RunID: r.newRunID(), Input: input}
	ctx = common.WithLogger(common.WithRunID(ctx, summary.RunID), r.logger)
	logger := common.LoggerFromContext(ctx, nil)

	paths, stats, err := ingest.Discover(logger, input)
	if err != nil {
		logger.Error("batch.discover.failed", "input", input, "error", err)
		return summary, err
	}
	logger.Info("batch.discover.ok", "input", input, "files", len(paths), "hidden", stats.Hidden, "walk_errors", stats.Failed)

	var records []invoice.Record
	for _, res := range r.process(ctx, logger, paths) {
		summary.Processed++
		switch {
		case res.Err != nil:
			summary.Failed++
			summary.Failures = append(summary.Failures, Failure{Path: res.Job.Path, Reason: common.Reason(res.Err)})
			logger.Warn("batch.file.failed", "path", res.Job.Path, "error", res.Err)
		case !res.Record.HasEnergyCredit():
			summary.NoCredit++
			logger.Info("batch.file.no_credit", "path", res.Job.Path)
		default:
			records = append(records, res.Record)
			logger.Info("batch.file.ok", "path", res.Job.Path, "elapsed_ms", res.Elapsed.Milliseconds())
		}
	}
	summary.Skipped = summary.Failed + summary.NoCredit

	if err := ctx.Err(); err != nil {
		summary.Elapsed = time.Since(start)
		logger.Warn("batch.run.interrupted", "processed", summary.Processed, "error", err)
		return summary, err
	}

	if len(records) == 0 {
		summary.Elapsed = time.Since(start)
		logger.Warn("batch.export.skipped", "reason", "no record with energy credit", "processed", summary.Processed)
		return summary, nil
	}

	if err := r.exporter.WriteFile(output, records, export.Options{Extended: r.extended, RunID: summary.RunID}); err != nil {
		logger.Error("batch.export.failed", "output", output, "error", err)
		summary.Elapsed = time.Since(start)
		return summary, err
	}
	summary.Written = len(records)
	summary.Output = output
	summary.Elapsed = time.Since(start)

	logger.Info("batch.run.ok",
		"processed", summary.Processed,
		"written", summary.Written,
		"skipped", summary.Skipped,
		"output", output,
		"elapsed_ms", summary.Elapsed.Milliseconds(),
	)
	return summary, nil
}

// process runs paths through the worker queue and returns the results in
// discovery order.
func (r *Runner) process(ctx context.Context, logger *slog.Logger, paths []string) []Result {
	if len(paths) == 0 {
		return nil
	}
	opts := append([]Option{WithQueueSize(len(paths))}, r.queueOpts...)
	q := NewProcessorQueue(ctx, r.processor, logger, opts...)

	go func() {
		defer q.Shutdown()
		for i, p := range paths {
			if err := q.Enqueue(ctx, Job{Index: i, Path: p}); err != nil {
				return
			}
		}
	}()

	results := make([]Result, len(paths))
	done := make([]bool, len(paths))
	for res := range q.Results() {
		results[res.Job.Index] = res
		done[res.Job.Index] = true
	}
	for i := range results {
		if !done[i] {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			results[i] = Result{Job: Job{Index: i, Path: paths[i]}, Err: err}
		}
	}
	return results
}
