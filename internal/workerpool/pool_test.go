package workerpool

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/codecoffee/judge/internal/adapter/logging"
	"github.com/codecoffee/judge/internal/config"
	"github.com/codecoffee/judge/internal/domain"
)

// chanQueue hands out entries from a buffered channel without blocking
type chanQueue struct {
	entries chan *domain.QueueEntry
	popErr  error

	mu        sync.Mutex
	completed []string
}

func newChanQueue(entries ...*domain.QueueEntry) *chanQueue {
	q := &chanQueue{entries: make(chan *domain.QueueEntry, len(entries)+16)}
	for _, e := range entries {
		q.entries <- e
	}
	return q
}

func (q *chanQueue) Add(_ context.Context, entry *domain.QueueEntry) error {
	q.entries <- entry
	return nil
}

func (q *chanQueue) Next(ctx context.Context) (*domain.QueueEntry, error) {
	if q.popErr != nil {
		return nil, q.popErr
	}
	select {
	case e := <-q.entries:
		return e, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(10 * time.Millisecond):
		return nil, nil
	}
}

func (q *chanQueue) MarkCompleted(_ context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.completed = append(q.completed, id)
	return nil
}

func (q *chanQueue) Length(context.Context) (int64, error) {
	return int64(len(q.entries)), nil
}

type countingJudge struct {
	mu      sync.Mutex
	judged  []string
	done    chan string
	panicOn string
}

func newCountingJudge() *countingJudge {
	return &countingJudge{done: make(chan string, 64)}
}

func (j *countingJudge) ProcessSubmission(_ context.Context, entry *domain.QueueEntry) *domain.JudgeResult {
	if entry.ID == j.panicOn {
		panic("boom")
	}
	j.mu.Lock()
	j.judged = append(j.judged, entry.ID)
	j.mu.Unlock()
	j.done <- entry.ID
	return &domain.JudgeResult{SubmissionID: entry.ID, Status: domain.StatusAccepted}
}

func testConfig(workers int) *config.JudgeConfig {
	cfg := config.NewJudgeConfig()
	cfg.MaxConcurrentJobs = workers
	cfg.IdleRetryDelay = 5 * time.Millisecond
	cfg.ErrorBackoff = 5 * time.Millisecond
	return cfg
}

func waitFor(t *testing.T, ch <-chan string, n int) []string {
	t.Helper()
	out := make([]string, 0, n)
	deadline := time.After(5 * time.Second)
	for len(out) < n {
		select {
		case id := <-ch:
			out = append(out, id)
		case <-deadline:
			t.Fatalf("timed out waiting for %d judged entries, got %d", n, len(out))
		}
	}
	return out
}

func TestWorkerPoolJudgesAndAcknowledges(t *testing.T) {
	queue := newChanQueue(
		domain.NewSubmitEntry("sub-1", "u", "p", "code", "python"),
		domain.NewSubmitEntry("sub-2", "u", "p", "code", "python"),
		domain.NewRunEntry("u", "p", "code", "python"),
	)
	judgeSvc := newCountingJudge()
	pool := NewWorkerPool(queue, judgeSvc, testConfig(2), logging.NewNopLogger())

	pool.Start()
	defer pool.Stop()
	judged := waitFor(t, judgeSvc.done, 3)

	require.ElementsMatch(t, []string{"sub-1", "sub-2", "run:p"}, judged)
	require.Eventually(t, func() bool {
		queue.mu.Lock()
		defer queue.mu.Unlock()
		return len(queue.completed) == 3
	}, 2*time.Second, 10*time.Millisecond, "every judged entry gets acknowledged")
}

func TestWorkerPoolStatus(t *testing.T) {
	queue := newChanQueue()
	pool := NewWorkerPool(queue, newCountingJudge(), testConfig(3), logging.NewNopLogger())

	require.False(t, pool.Status().IsRunning)
	require.Equal(t, 3, pool.Status().MaxConcurrentJobs)

	pool.Start()
	require.True(t, pool.Status().IsRunning)

	pool.Stop()
	require.False(t, pool.Status().IsRunning)
	require.Zero(t, pool.Status().ProcessingCount)
}

func TestWorkerPoolStopIsIdempotent(t *testing.T) {
	pool := NewWorkerPool(newChanQueue(), newCountingJudge(), testConfig(1), logging.NewNopLogger())
	pool.Start()
	pool.Start() // no-op on a running pool
	pool.Stop()
	pool.Stop()
	require.False(t, pool.Status().IsRunning)
}

func TestWorkerPoolSurvivesPanicAndErrors(t *testing.T) {
	queue := newChanQueue(
		domain.NewSubmitEntry("boom-entry", "u", "p", "code", "python"),
		domain.NewSubmitEntry("sub-after", "u", "p", "code", "python"),
	)
	judgeSvc := newCountingJudge()
	judgeSvc.panicOn = "boom-entry"
	pool := NewWorkerPool(queue, judgeSvc, testConfig(1), logging.NewNopLogger())

	pool.Start()
	defer pool.Stop()

	judged := waitFor(t, judgeSvc.done, 1)
	require.Equal(t, []string{"sub-after"}, judged, "the loop keeps going after a panic")
	require.Zero(t, pool.Status().ProcessingCount)
}

func TestWorkerPoolBacksOffOnQueueErrors(t *testing.T) {
	queue := newChanQueue()
	queue.popErr = errors.New("redis gone")
	pool := NewWorkerPool(queue, newCountingJudge(), testConfig(1), logging.NewNopLogger())

	pool.Start()
	time.Sleep(50 * time.Millisecond)
	pool.Stop()
	require.False(t, pool.Status().IsRunning, "a failing queue never wedges the pool")
}
