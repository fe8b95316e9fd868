package secondary

import (
	"context"

	"github.com/codecoffee/judge/internal/domain"
)

// SubmissionQueue is the durable FIFO hand-off between the API boundary and
// the worker pool. Next atomically moves one entry from the pending list to a
// processing holding area, so at most one worker ever holds a given entry and
// a crashed consumer's work stays visible for recovery.
type SubmissionQueue interface {
	// Add pushes an entry to the tail of the pending list
	Add(ctx context.Context, entry *domain.QueueEntry) error

	// Next blocks up to the queue's configured timeout and returns the next
	// entry, or (nil, nil) when none arrived in time
	Next(ctx context.Context) (*domain.QueueEntry, error)

	// MarkCompleted removes the first processing entry with the given id.
	// This is the completion acknowledgment, not a submission delete.
	MarkCompleted(ctx context.Context, id string) error

	// Length reports the pending (not in-flight) count
	Length(ctx context.Context) (int64, error)
}
