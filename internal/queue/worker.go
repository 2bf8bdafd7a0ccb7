package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Handler interface {
	Handle(ctx context.Context, j *Job) error
}

type HandlerFunc func(ctx context.Context, j *Job) error

func (f HandlerFunc) Handle(ctx context.Context, j *Job) error {
	return f(ctx, j)
}

type WorkerConfig struct {
	Queue          string
	PollInterval   time.Duration
	BatchSize      int
	ProcessTimeout time.Duration
	// Lease is how long a running job may go without finishing before another worker
	// takes it over.
	Lease time.Duration
	Retry RetryStrategy
}

func DefaultWorkerConfig(queue string) WorkerConfig {
	return WorkerConfig{
		Queue:          queue,
		PollInterval:   2 * time.Second,
		BatchSize:      5,
		ProcessTimeout: 2 * time.Minute,
		Lease:          10 * time.Minute,
		Retry:          DefaultRetryStrategy(),
	}
}

// Worker polls one queue and dispatches jobs to the handler registered for their type.
type Worker struct {
	config   WorkerConfig
	repo     Repository
	handlers map[string]Handler
	logger   *zap.Logger
	now      func() time.Time

	mu        sync.Mutex
	cancel    context.CancelFunc
	isRunning bool
	wg        sync.WaitGroup
}

func NewWorker(config WorkerConfig, repo Repository, logger *zap.Logger) *Worker {
	return &Worker{
		config:   config,
		repo:     repo,
		handlers: make(map[string]Handler),
		logger:   logger.With(zap.String("component", "worker"), zap.String("queue", config.Queue)),
		now:      time.Now,
	}
}

// Handle registers h for jobs of jobType. Call before Start.
func (w *Worker) Handle(jobType string, h Handler) {
	w.handlers[jobType] = h
}

func (w *Worker) Name() string {
	return "worker:" + w.config.Queue
}

func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return fmt.Errorf("%s already running", w.Name())
	}

	ctx, w.cancel = context.WithCancel(ctx)
	w.isRunning = true

	w.logger.Info("worker started",
		zap.Duration("poll_interval", w.config.PollInterval),
		zap.Int("batch_size", w.config.BatchSize))

	w.wg.Add(1)

	go w.pollLoop(ctx)

	return nil
}

// Stop cancels polling and waits for in-flight jobs to return.
func (w *Worker) Stop() error {
	w.mu.Lock()
	if !w.isRunning {
		w.mu.Unlock()
		return nil
	}

	w.isRunning = false
	w.cancel()
	w.mu.Unlock()

	w.wg.Wait()
	w.logger.Info("worker stopped")

	return nil
}

func (w *Worker) pollLoop(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for {
				n, err := w.Poll(ctx)
				if err != nil {
					if ctx.Err() == nil {
						w.logger.Error("polling jobs", zap.Error(err))
					}

					break
				}

				// Keep draining while batches come back full.
				if n < w.config.BatchSize || ctx.Err() != nil {
					break
				}
			}
		}
	}
}

// Poll claims one batch of due jobs and processes them in order. It returns the number
// of jobs claimed.
func (w *Worker) Poll(ctx context.Context) (int, error) {
	jobs, err := w.repo.ClaimJobs(ctx, w.config.Queue, w.config.BatchSize, w.config.Lease)
	if err != nil {
		return 0, fmt.Errorf("claiming jobs: %w", err)
	}

	for _, j := range jobs {
		w.process(ctx, j)
	}

	return len(jobs), nil
}

func (w *Worker) process(ctx context.Context, j *Job) {
	log := w.logger.With(
		zap.String("job_id", j.ID.String()),
		zap.String("job_type", j.Type),
		zap.Int("attempt", j.Attempts))

	h, ok := w.handlers[j.Type]
	if !ok {
		w.fail(ctx, j, fmt.Sprintf("no handler for job type %q", j.Type), log)
		return
	}

	jobCtx, cancel := context.WithTimeout(ctx, w.config.ProcessTimeout)
	defer cancel()

	start := w.now()

	if err := run(jobCtx, h, j); err != nil {
		switch {
		case errors.Is(err, ErrPermanent) || j.Exhausted():
			w.fail(ctx, j, err.Error(), log)
		default:
			runAt := w.now().Add(w.config.Retry.Backoff(j.Attempts))
			log.Warn("job failed, retrying", zap.Error(err), zap.Time("run_at", runAt))

			if err := w.repo.RescheduleJob(ctx, j.ID, runAt, err.Error()); err != nil {
				log.Error("rescheduling job", zap.Error(err))
			}
		}

		return
	}

	if err := w.repo.CompleteJob(ctx, j.ID); err != nil {
		// The lease will expire and the job runs again; handlers tolerate that.
		log.Error("completing job", zap.Error(err))
		return
	}

	log.Info("job done", zap.Duration("took", w.now().Sub(start)))
}

// run turns a handler panic into a permanent failure so it cannot take the process down.
func run(ctx context.Context, h Handler, j *Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = Permanent(fmt.Errorf("handler panicked: %v", r))
		}
	}()

	return h.Handle(ctx, j)
}

func (w *Worker) fail(ctx context.Context, j *Job, msg string, log *zap.Logger) {
	log.Error("job failed permanently", zap.String("error", msg))

	if err := w.repo.FailJob(ctx, j.ID, msg); err != nil {
		log.Error("marking job failed", zap.Error(err))
	}
}
