// Package workerpool runs the fixed set of judging loops. The pool size is
// the hard backpressure bound on concurrent sandbox executions.
package workerpool

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/codecoffee/judge/internal/config"
	"github.com/codecoffee/judge/internal/core/ports/primary"
	"github.com/codecoffee/judge/internal/core/ports/secondary"
	"github.com/codecoffee/judge/internal/core/services/judge"
	"github.com/codecoffee/judge/internal/domain"
)

// PoolStatus is the operational snapshot exposed on the queue status endpoint
type PoolStatus struct {
	IsRunning         bool  `json:"isRunning"`
	ProcessingCount   int64 `json:"processingCount"`
	MaxConcurrentJobs int   `json:"maxConcurrentJobs"`
}

// WorkerPool owns N symmetric worker loops, each fully synchronous within an
// iteration: blocking pop, judge, acknowledge.
type WorkerPool struct {
	queue  secondary.SubmissionQueue
	judge  judge.IJudgeService
	cfg    *config.JudgeConfig
	logger primary.Logger

	mu         sync.Mutex
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	running    atomic.Bool
	processing atomic.Int64
}

// NewWorkerPool creates a stopped pool
func NewWorkerPool(
	queue secondary.SubmissionQueue,
	judgeService judge.IJudgeService,
	cfg *config.JudgeConfig,
	logger primary.Logger,
) *WorkerPool {
	return &WorkerPool{
		queue:  queue,
		judge:  judgeService,
		cfg:    cfg,
		logger: logger,
	}
}

// Start launches the worker loops. Calling Start on a running pool is a no-op.
func (w *WorkerPool) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running.Load() {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.running.Store(true)

	for i := 1; i <= w.cfg.MaxConcurrentJobs; i++ {
		w.wg.Add(1)
		go w.workerLoop(ctx, i)
	}
	w.logger.Info("Worker pool started", "workers", w.cfg.MaxConcurrentJobs)
}

// Stop flips the running flag and cancels the pool context so blocked pops
// return, then waits for every loop to finish its current iteration. An
// execution already inside the sandbox runs to its own timeout.
func (w *WorkerPool) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running.Load() {
		return
	}

	w.running.Store(false)
	w.cancel()
	w.wg.Wait()
	w.logger.Info("Worker pool stopped")
}

// Status reports the pool's operational snapshot
func (w *WorkerPool) Status() PoolStatus {
	return PoolStatus{
		IsRunning:         w.running.Load(),
		ProcessingCount:   w.processing.Load(),
		MaxConcurrentJobs: w.cfg.MaxConcurrentJobs,
	}
}

func (w *WorkerPool) workerLoop(ctx context.Context, workerID int) {
	defer w.wg.Done()
	w.logger.Debug("Worker started", "worker", workerID)

	for w.running.Load() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		entry, err := w.queue.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.logger.Error("Failed to pop from submission queue", "worker", workerID, "error", err)
			sleepCtx(ctx, w.cfg.ErrorBackoff)
			continue
		}
		if entry == nil {
			sleepCtx(ctx, w.cfg.IdleRetryDelay)
			continue
		}

		if !w.judgeOne(ctx, workerID, entry) {
			sleepCtx(ctx, w.cfg.ErrorBackoff)
		}
	}
}

// judgeOne processes one entry, bracketing the in-flight gauge. The
// orchestrator never fails by contract; the recover is the last line of
// defense against a hot crash loop.
func (w *WorkerPool) judgeOne(ctx context.Context, workerID int, entry *domain.QueueEntry) (ok bool) {
	w.processing.Add(1)
	defer w.processing.Add(-1)
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("Worker recovered from panic", "worker", workerID, "submissionId", entry.ID, "panic", r)
			ok = false
		}
	}()

	start := time.Now()
	result := w.judge.ProcessSubmission(ctx, entry)

	if err := w.queue.MarkCompleted(ctx, entry.ID); err != nil {
		w.logger.Error("Failed to acknowledge queue entry", "worker", workerID, "submissionId", entry.ID, "error", err)
	}

	w.logger.Info("Worker finished submission",
		"worker", workerID,
		"submissionId", entry.ID,
		"status", result.Status,
		"durationMs", time.Since(start).Milliseconds())
	return true
}

func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
