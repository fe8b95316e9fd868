package secondary

import (
	"context"

	"github.com/google/uuid"

	"github.com/codecoffee/judge/internal/domain"
)

// ProblemRepository reads problem data owned by the persistence boundary.
// All of it is read-only to the judging core.
type ProblemRepository interface {
	// GetProblem retrieves a problem by id, ErrProblemNotFound when absent
	GetProblem(ctx context.Context, problemID string) (*domain.Problem, error)

	// GetTemplate retrieves the code template for a (problem, language)
	// pair, ErrTemplateNotFound when absent
	GetTemplate(ctx context.Context, problemID, language string) (*domain.Template, error)

	// GetTestCases retrieves a problem's test cases ordered ascending by id.
	// With visibleOnly set, hidden cases are excluded (sample runs).
	GetTestCases(ctx context.Context, problemID string, visibleOnly bool) ([]*domain.TestCase, error)
}

// SubmissionRepository is the create/update surface for submission rows
type SubmissionRepository interface {
	// CreateSubmission inserts a new PENDING submission
	CreateSubmission(ctx context.Context, sub *domain.Submission) error

	// GetSubmission retrieves a submission by id, nil when absent
	GetSubmission(ctx context.Context, id uuid.UUID) (*domain.Submission, error)

	// UpdateStatus sets only the status column (processing marker)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) error

	// UpdateResult writes a completed JudgeResult onto the submission row
	UpdateResult(ctx context.Context, id uuid.UUID, result *domain.JudgeResult) error
}
