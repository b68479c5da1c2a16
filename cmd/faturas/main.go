package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/joseph-ayodele/energy-invoices/internal/batch"
	"github.com/joseph-ayodele/energy-invoices/internal/cache"
	"github.com/joseph-ayodele/energy-invoices/internal/common"
	"github.com/joseph-ayodele/energy-invoices/internal/export"
	"github.com/joseph-ayodele/energy-invoices/internal/fields"
	"github.com/joseph-ayodele/energy-invoices/internal/ingest"
	"github.com/joseph-ayodele/energy-invoices/internal/invoice"
	"github.com/joseph-ayodele/energy-invoices/internal/pdftext"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if err := common.LoadDotEnv(); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}
	cfg := common.LoadConfig()

	fs := ff.NewFlagSet("faturas")
	var (
		input     = fs.StringLong("input", cfg.Batch.Input, "PDF file or directory to process")
		output    = fs.StringLong("output", cfg.Batch.Output, "output XLSX path (default: timestamped file in --output-dir)")
		outputDir = fs.StringLong("output-dir", cfg.Batch.OutputDir, "directory for timestamped output files")
		window    = fs.IntLong("window", cfg.Extract.Window, "lines searched after a label line")
		workers   = fs.IntLong("workers", cfg.Batch.Workers, "files processed in parallel")
		timeout   = fs.DurationLong("timeout", cfg.Batch.ProcessTimeout, "time limit per file (0 disables)")
		rules     = fs.StringLong("rules", cfg.Extract.RulesPath, "YAML file with label and layout tuning")
		cachePath = fs.StringLong("cache", cfg.Batch.CachePath, "bbolt file caching results by file content")
		dumpDir   = fs.StringLong("dump-dir", cfg.Extract.DumpDir, "write the extracted text of every PDF here")
		pdftotext = fs.StringLong("pdftotext", "", "pdftotext binary used when a PDF has no text layer")
		extended  = fs.BoolLong("extended", "add classification, service type and limit columns")
		watch     = fs.BoolLong("watch", "keep running and reprocess when PDFs change")
		debounce  = fs.DurationLong("debounce", cfg.Batch.Debounce, "quiet period before a watch rerun")
		debug     = fs.BoolLong("debug", "enable debug logging")
		logFormat = fs.StringLong("log-format", cfg.Log.Format, "log format: text or json")
	)

	if err := ff.Parse(fs, args, ff.WithEnvVarPrefix(common.EnvPrefix)); err != nil {
		fmt.Fprintf(stderr, "%s\n", ffhelp.Flags(fs, "faturas [flags] [input] [output]"))
		if errors.Is(err, ff.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	rest := fs.GetArgs()
	if len(rest) > 2 {
		fmt.Fprintf(stderr, "error: too many arguments: %v\n", rest)
		return exitUsage
	}
	if len(rest) > 0 {
		*input = rest[0]
	}
	if len(rest) > 1 {
		*output = rest[1]
	}

	cfg.Batch.Input = *input
	cfg.Batch.Output = *output
	cfg.Batch.OutputDir = *outputDir
	cfg.Batch.Workers = *workers
	cfg.Batch.ProcessTimeout = *timeout
	cfg.Batch.CachePath = *cachePath
	cfg.Batch.Extended = *extended || cfg.Batch.Extended
	cfg.Batch.Watch = *watch || cfg.Batch.Watch
	cfg.Batch.Debounce = *debounce
	cfg.Extract.Window = *window
	cfg.Extract.RulesPath = *rules
	cfg.Extract.DumpDir = *dumpDir
	cfg.Log.Debug = *debug || cfg.Log.Debug
	cfg.Log.Format = *logFormat
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	logger := newLogger(stderr, cfg.Log)
	slog.SetDefault(logger)

	opts := fields.DefaultOptions()
	if cfg.Extract.RulesPath != "" {
		loaded, err := fields.LoadOptions(cfg.Extract.RulesPath)
		if err != nil {
			logger.Error("failed to load rules", "path", cfg.Extract.RulesPath, "error", err)
			return exitUsage
		}
		opts = loaded
	}
	// an explicit --window wins over the rules file
	if f, ok := fs.GetFlag("window"); (ok && f.IsSet()) || cfg.Extract.RulesPath == "" {
		opts.Window = cfg.Extract.Window
	}

	extractor := pdftext.NewExtractor(pdftext.Config{Pdftotext: *pdftotext, DumpDir: cfg.Extract.DumpDir}, logger)
	processor, err := invoice.NewProcessor(logger, extractor, opts)
	if err != nil {
		logger.Error("failed to build processor", "error", err)
		return exitUsage
	}

	var fileProcessor invoice.FileProcessor = processor
	if cfg.Batch.CachePath != "" {
		fingerprint, err := cache.Fingerprint(opts)
		if err != nil {
			logger.Error("failed to fingerprint settings", "error", err)
			return exitError
		}
		store, err := cache.Open(cfg.Batch.CachePath, fingerprint)
		if err != nil {
			logger.Error("failed to open cache", "path", cfg.Batch.CachePath, "error", err)
			return exitError
		}
		defer store.Close()
		fileProcessor = cache.Wrap(store, processor, logger)
	}

	runner := batch.NewRunner(fileProcessor, export.NewService(logger), logger,
		batch.WithQueue(batch.WithWorkers(cfg.Batch.Workers), batch.WithProcessTimeout(cfg.Batch.ProcessTimeout)),
		batch.WithExtended(cfg.Batch.Extended),
	)

	summary, err := runner.Run(ctx, cfg.Batch.Input, cfg.OutputPath(time.Now()))
	summary.Print(stdout)
	if err != nil {
		logger.Error("batch failed", "error", err)
		return exitError
	}

	if cfg.Batch.Watch {
		if err := watchLoop(ctx, cfg, runner, logger, stdout); err != nil {
			logger.Error("watch failed", "error", err)
			return exitError
		}
	}
	return exitOK
}

// watchLoop reruns the batch after every burst of PDF changes under the
// input directory until ctx ends.
func watchLoop(ctx context.Context, cfg *common.Config, runner *batch.Runner, logger *slog.Logger, stdout io.Writer) error {
	events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:    []string{cfg.Batch.Input},
		Debounce: cfg.Batch.Debounce,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	logger.Info("watch.started", "input", cfg.Batch.Input, "debounce", cfg.Batch.Debounce.String())

	for {
		select {
		case <-ctx.Done():
			logger.Info("watch.stopped")
			return nil
		case err, ok := <-errs:
			if ok {
				logger.Warn("watch.error", "error", err)
			}
		case changed, ok := <-events:
			if !ok {
				return nil
			}
			logger.Info("watch.changed", "files", len(changed))
			summary, err := runner.Run(ctx, cfg.Batch.Input, cfg.OutputPath(time.Now()))
			summary.Print(stdout)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("batch failed", "error", err)
			}
		}
	}
}

func newLogger(w io.Writer, cfg common.LogConfig) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
