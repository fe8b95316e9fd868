package submission

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/codecoffee/judge/internal/core/ports/primary"
	"github.com/codecoffee/judge/internal/core/ports/secondary"
	"github.com/codecoffee/judge/internal/domain"
)

var _ ISubmissionService = (*SubmissionService)(nil)

// SubmissionService implements the SubmissionService interface
type SubmissionService struct {
	problemRepo     secondary.ProblemRepository
	submissionRepo  secondary.SubmissionRepository
	queue           secondary.SubmissionQueue
	executorFactory secondary.ExecutorFactory
	logger          primary.Logger
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(
	problemRepo secondary.ProblemRepository,
	submissionRepo secondary.SubmissionRepository,
	queue secondary.SubmissionQueue,
	executorFactory secondary.ExecutorFactory,
	logger primary.Logger,
) *SubmissionService {
	return &SubmissionService{
		problemRepo:     problemRepo,
		submissionRepo:  submissionRepo,
		queue:           queue,
		executorFactory: executorFactory,
		logger:          logger,
	}
}

// SubmitCode validates the request, persists a PENDING submission row and
// enqueues it. The row exists before the queue entry so a worker never races
// a missing submission.
func (s *SubmissionService) SubmitCode(ctx context.Context, userID, problemID, code, language string) (uuid.UUID, error) {
	if err := s.validate(ctx, problemID, language); err != nil {
		return uuid.Nil, err
	}

	sub := domain.NewSubmission(userID, problemID, code, language)
	if err := s.submissionRepo.CreateSubmission(ctx, sub); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create submission: %w", err)
	}

	entry := domain.NewSubmitEntry(sub.ID.String(), userID, problemID, code, language)
	if err := s.queue.Add(ctx, entry); err != nil {
		return uuid.Nil, fmt.Errorf("failed to enqueue submission %s: %w", sub.ID, err)
	}

	s.logger.Info("Submission enqueued", "submissionId", sub.ID, "problemId", problemID, "language", language)
	return sub.ID, nil
}

// RunCode enqueues a transient sample run under the id "run:<problemId>"
func (s *SubmissionService) RunCode(ctx context.Context, userID, problemID, code, language string) (string, error) {
	if err := s.validate(ctx, problemID, language); err != nil {
		return "", err
	}

	entry := domain.NewRunEntry(userID, problemID, code, language)
	if err := s.queue.Add(ctx, entry); err != nil {
		return "", fmt.Errorf("failed to enqueue sample run for problem %s: %w", problemID, err)
	}

	s.logger.Info("Sample run enqueued", "runId", entry.ID, "language", language)
	return entry.ID, nil
}

// GetSubmission retrieves a submission together with its problem record
func (s *SubmissionService) GetSubmission(ctx context.Context, id uuid.UUID) (*domain.Submission, *domain.Problem, error) {
	sub, err := s.submissionRepo.GetSubmission(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get submission %s: %w", id, err)
	}
	if sub == nil {
		return nil, nil, nil
	}

	problem, err := s.problemRepo.GetProblem(ctx, sub.ProblemID)
	if err != nil {
		// The submission is still useful without its problem metadata
		s.logger.Warn("Failed to load problem for submission", "submissionId", id, "problemId", sub.ProblemID, "error", err)
		return sub, nil, nil
	}
	return sub, problem, nil
}

// QueueLength reports the pending queue depth
func (s *SubmissionService) QueueLength(ctx context.Context) (int64, error) {
	return s.queue.Length(ctx)
}

func (s *SubmissionService) validate(ctx context.Context, problemID, language string) error {
	if _, err := s.problemRepo.GetProblem(ctx, problemID); err != nil {
		return fmt.Errorf("failed to validate problem %s: %w", problemID, err)
	}
	if _, err := s.executorFactory.GetExecutor(language); err != nil {
		return err
	}
	return nil
}
