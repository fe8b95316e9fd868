package submission

import (
	"context"

	"github.com/google/uuid"

	"github.com/codecoffee/judge/internal/domain"
)

// ISubmissionService defines the interface for the submission intake boundary
type ISubmissionService interface {
	// SubmitCode persists a PENDING submission and enqueues it for scoring
	SubmitCode(ctx context.Context, userID, problemID, code, language string) (uuid.UUID, error)

	// RunCode enqueues a transient sample run (visible test cases only,
	// nothing persisted) and returns the ephemeral queue id
	RunCode(ctx context.Context, userID, problemID, code, language string) (string, error)

	// GetSubmission retrieves a submission with its problem record; the
	// submission is nil when absent, the problem may be nil when its lookup
	// fails after the submission was found
	GetSubmission(ctx context.Context, id uuid.UUID) (*domain.Submission, *domain.Problem, error)

	// QueueLength reports the pending queue depth
	QueueLength(ctx context.Context) (int64, error)
}
