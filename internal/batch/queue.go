package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/joseph-ayodele/energy-invoices/internal/common"
	"github.com/joseph-ayodele/energy-invoices/internal/invoice"
)

// Job is one file waiting to be processed. Index is its discovery position.
type Job struct {
	Index       int
	Path        string
	SubmittedAt time.Time
}

// Result is the outcome of one Job.
type Result struct {
	Job     Job
	Record  invoice.Record
	Err     error
	Elapsed time.Duration
}

var errQueueClosed = errors.New("queue is shutting down")

// ProcessorQueue runs a fixed pool of workers over submitted jobs.
type ProcessorQueue struct {
	proc    invoice.FileProcessor
	logger  *slog.Logger
	workers int
	timeout time.Duration

	ch      chan Job
	results chan Result
	wg      sync.WaitGroup
	once    sync.Once

	mu     sync.Mutex
	closed bool
}

type Option func(*ProcessorQueue)

func WithWorkers(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
			q.results = make(chan Result, n)
		}
	}
}

// WithProcessTimeout bounds the time spent on a single file. Zero means no
// limit.
func WithProcessTimeout(d time.Duration) Option {
	return func(q *ProcessorQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

// NewProcessorQueue starts the workers. They stop taking new work when ctx
// is cancelled; jobs still queued then fail with ctx.Err().
func NewProcessorQueue(ctx context.Context, proc invoice.FileProcessor, logger *slog.Logger, opts ...Option) *ProcessorQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &ProcessorQueue{
		proc:    proc,
		logger:  logger,
		workers: 1,
		ch:      make(chan Job, 64),
		results: make(chan Result, 64),
	}
	for _, o := range opts {
		o(q)
	}
	q.start(ctx)
	return q
}

func (q *ProcessorQueue) start(ctx context.Context) {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Debug("batch.worker.started", "worker_id", workerID)

				for job := range q.ch {
					q.results <- q.run(ctx, workerID, job)
				}

				q.logger.Debug("batch.worker.stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *ProcessorQueue) run(ctx context.Context, workerID int, job Job) (res Result) {
	start := time.Now()
	res.Job = job
	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("panic while processing: %v", r)
		}
		res.Elapsed = time.Since(start)
	}()

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}
	jobCtx, cancel := common.WithTimeout(ctx, q.timeout)
	defer cancel()

	res.Record, res.Err = q.proc.Process(jobCtx, job.Path)
	q.logger.Debug("batch.file.done", "worker_id", workerID, "path", job.Path, "ok", res.Err == nil)
	return res
}

// Enqueue submits a job, blocking while the queue is full.
func (q *ProcessorQueue) Enqueue(ctx context.Context, job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "path", job.Path)
		return errQueueClosed
	}
	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now()
	}
	select {
	case q.ch <- job:
		return nil
	default:
	}
	q.logger.Debug("queue full, applying backpressure", "path", job.Path)
	select {
	case q.ch <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Results streams results in completion order. It is closed after
// Shutdown once every worker has finished.
func (q *ProcessorQueue) Results() <-chan Result {
	return q.results
}

// Shutdown stops accepting jobs and closes Results once the queue drains.
func (q *ProcessorQueue) Shutdown() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	go func() {
		q.wg.Wait()
		close(q.results)
	}()
}
