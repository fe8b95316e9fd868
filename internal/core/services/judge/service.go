package judge

import (
	"context"

	"github.com/codecoffee/judge/internal/domain"
)

// IJudgeService defines the interface for judging queued submissions
type IJudgeService interface {
	// ProcessSubmission judges one queue entry from start to finish and
	// always returns a result; every failure mode is folded into an
	// INTERNAL_ERROR JudgeResult rather than an error
	ProcessSubmission(ctx context.Context, entry *domain.QueueEntry) *domain.JudgeResult
}
