package submissionqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/codecoffee/judge/internal/core/ports/primary"
	"github.com/codecoffee/judge/internal/core/ports/secondary"
	"github.com/codecoffee/judge/internal/domain"
)

const (
	pendingKey    = "submission_queue"
	processingKey = "processing_submissions"
)

var _ secondary.SubmissionQueue = (*Queue)(nil)

// Queue implements the SubmissionQueue port on two Redis lists. BRPOPLPUSH
// moves an entry from the pending list into the processing list in one
// atomic step, which is what guarantees a single consumer per entry.
type Queue struct {
	redisClient *redis.Client
	popTimeout  time.Duration
	logger      primary.Logger
}

// NewQueue creates a Redis-backed submission queue
func NewQueue(redisClient *redis.Client, popTimeout time.Duration, logger primary.Logger) *Queue {
	return &Queue{
		redisClient: redisClient,
		popTimeout:  popTimeout,
		logger:      logger,
	}
}

// Add pushes an entry to the tail of the pending list
func (q *Queue) Add(ctx context.Context, entry *domain.QueueEntry) error {
	entryJSON, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal queue entry: %w", err)
	}

	if err := q.redisClient.LPush(ctx, pendingKey, entryJSON).Err(); err != nil {
		q.logger.Error("Failed to enqueue submission", "entryId", entry.ID, "error", err)
		return fmt.Errorf("failed to enqueue submission: %w", err)
	}

	q.logger.Debug("Submission enqueued", "entryId", entry.ID, "mode", entry.Mode)
	return nil
}

// Next blocks up to the pop timeout and atomically moves the oldest pending
// entry into the processing list. Returns (nil, nil) when nothing arrived.
func (q *Queue) Next(ctx context.Context) (*domain.QueueEntry, error) {
	raw, err := q.redisClient.BRPopLPush(ctx, pendingKey, processingKey, q.popTimeout).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to pop submission: %w", err)
	}

	var entry domain.QueueEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		// A malformed entry would wedge the processing list forever, so
		// drop it before reporting.
		if remErr := q.redisClient.LRem(ctx, processingKey, 1, raw).Err(); remErr != nil {
			q.logger.Error("Failed to drop malformed queue entry", "error", remErr)
		}
		return nil, fmt.Errorf("failed to unmarshal queue entry: %w", err)
	}

	return &entry, nil
}

// MarkCompleted scans the processing list and removes the first entry with
// the given id, acknowledging completion of the judging pass.
func (q *Queue) MarkCompleted(ctx context.Context, id string) error {
	inFlight, err := q.redisClient.LRange(ctx, processingKey, 0, -1).Result()
	if err != nil {
		return fmt.Errorf("failed to read processing list: %w", err)
	}

	for _, raw := range inFlight {
		var entry domain.QueueEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			continue
		}
		if entry.ID == id {
			if err := q.redisClient.LRem(ctx, processingKey, 1, raw).Err(); err != nil {
				return fmt.Errorf("failed to acknowledge entry %s: %w", id, err)
			}
			return nil
		}
	}

	q.logger.Warn("Completed entry not found in processing list", "entryId", id)
	return nil
}

// Length reports the pending (not in-flight) queue length
func (q *Queue) Length(ctx context.Context) (int64, error) {
	n, err := q.redisClient.LLen(ctx, pendingKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read queue length: %w", err)
	}
	return n, nil
}
