package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is a named unit of scheduled work
type Job struct {
	Name     string
	Schedule string // standard five-field cron spec or @every/@daily descriptors
	Timeout  time.Duration
	Run      func(ctx context.Context) error
}

// zapCronLogger adapts zap to cron.Logger
type zapCronLogger struct {
	s *zap.SugaredLogger
}

func (l zapCronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l zapCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}

// CronWorker runs jobs on cron schedules. Overlapping runs of the same job
// are skipped and panics are recovered.
type CronWorker struct {
	jobs   []Job
	logger *zap.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	ctx     context.Context
	lastErr map[string]error
}

// NewCronWorker validates every schedule up front
func NewCronWorker(jobs []Job, logger *zap.Logger) (*CronWorker, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	seen := make(map[string]bool, len(jobs))
	for _, j := range jobs {
		if j.Name == "" || j.Run == nil {
			return nil, fmt.Errorf("job needs a name and a run function")
		}
		if seen[j.Name] {
			return nil, fmt.Errorf("duplicate job %q", j.Name)
		}
		seen[j.Name] = true
		if _, err := parser.Parse(j.Schedule); err != nil {
			return nil, fmt.Errorf("invalid schedule for %s: %w", j.Name, err)
		}
	}

	return &CronWorker{
		jobs:    jobs,
		logger:  logger,
		lastErr: make(map[string]error),
	}, nil
}

func (w *CronWorker) Name() string {
	return "CronWorker"
}

// Start registers all jobs and starts the scheduler
func (w *CronWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cron != nil {
		return fmt.Errorf("cron worker already running")
	}

	cl := zapCronLogger{s: w.logger.Sugar()}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	for _, job := range w.jobs {
		job := job
		if _, err := c.AddFunc(job.Schedule, func() { w.execute(job) }); err != nil {
			return fmt.Errorf("failed to schedule %s: %w", job.Name, err)
		}
		w.logger.Info("Job scheduled",
			zap.String("job", job.Name),
			zap.String("schedule", job.Schedule))
	}

	w.ctx = ctx
	w.cron = c
	c.Start()
	return nil
}

// Stop halts the scheduler and waits up to 30s for running jobs
func (w *CronWorker) Stop() error {
	w.mu.Lock()
	c := w.cron
	w.cron = nil
	w.mu.Unlock()

	if c == nil {
		return nil
	}

	done := c.Stop()
	select {
	case <-done.Done():
		return nil
	case <-time.After(30 * time.Second):
		return fmt.Errorf("timed out waiting for running jobs")
	}
}

// RunNow executes a job immediately, outside the schedule
func (w *CronWorker) RunNow(ctx context.Context, name string) error {
	for _, job := range w.jobs {
		if job.Name == name {
			return w.run(ctx, job)
		}
	}
	return fmt.Errorf("unknown job %q", name)
}

// LastError returns the error from the job's most recent run, if any
func (w *CronWorker) LastError(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr[name]
}

func (w *CronWorker) execute(job Job) {
	w.mu.Lock()
	ctx := w.ctx
	w.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}
	_ = w.run(ctx, job)
}

func (w *CronWorker) run(ctx context.Context, job Job) error {
	if job.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, job.Timeout)
		defer cancel()
	}

	start := time.Now()
	err := job.Run(ctx)

	w.mu.Lock()
	w.lastErr[job.Name] = err
	w.mu.Unlock()

	if err != nil {
		w.logger.Error("Job failed",
			zap.String("job", job.Name),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return err
	}
	w.logger.Info("Job finished",
		zap.String("job", job.Name),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

var _ Worker = (*CronWorker)(nil)
