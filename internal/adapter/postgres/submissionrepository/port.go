// Package submissionrepository contains the PostgreSQL write-side of
// submission rows. Rows are created by the API boundary and updated by the
// judging orchestrator; the judging core never deletes them.
package submissionrepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/codecoffee/judge/internal/core/ports/primary"
	"github.com/codecoffee/judge/internal/core/ports/secondary"
	"github.com/codecoffee/judge/internal/domain"
)

var _ secondary.SubmissionRepository = (*SubmissionRepository)(nil)

// SubmissionRepository implements the SubmissionRepository port with PostgreSQL
type SubmissionRepository struct {
	db     *sqlx.DB
	logger primary.Logger
}

// NewSubmissionRepository creates a new PostgreSQL submission repository
func NewSubmissionRepository(db *sqlx.DB, logger primary.Logger) *SubmissionRepository {
	return &SubmissionRepository{
		db:     db,
		logger: logger,
	}
}

// CreateSubmission inserts a new PENDING submission row
func (r *SubmissionRepository) CreateSubmission(ctx context.Context, sub *domain.Submission) error {
	query := `
		INSERT INTO submissions (
			id, user_id, problem_id, code, language, status, submitted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		sub.ID,
		sub.UserID,
		sub.ProblemID,
		sub.Code,
		sub.Language,
		sub.Status,
		sub.SubmittedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create submission", "submissionId", sub.ID, "error", err)
		return fmt.Errorf("failed to create submission: %w", err)
	}

	return nil
}

// GetSubmission retrieves a submission by ID, nil when absent
func (r *SubmissionRepository) GetSubmission(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	query := `
		SELECT id, user_id, problem_id, code, language, status,
			   COALESCE(test_cases_passed, 0), COALESCE(total_test_cases, 0),
			   COALESCE(runtime_ms, 0), COALESCE(memory_kb, 0),
			   error_message, submitted_at
		FROM submissions
		WHERE id = $1
	`

	var sub domain.Submission
	var errorMessage sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&sub.ID,
		&sub.UserID,
		&sub.ProblemID,
		&sub.Code,
		&sub.Language,
		&sub.Status,
		&sub.TestCasesPassed,
		&sub.TotalTestCases,
		&sub.RuntimeMs,
		&sub.MemoryKB,
		&errorMessage,
		&sub.SubmittedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get submission", "submissionId", id, "error", err)
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	if errorMessage.Valid {
		sub.ErrorMessage = &errorMessage.String
	}

	return &sub, nil
}

// UpdateStatus sets only the status column; the orchestrator uses it to
// leave a visible processing marker before judging starts
func (r *SubmissionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) error {
	query := `UPDATE submissions SET status = $2 WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		r.logger.Error("Failed to update submission status", "submissionId", id, "status", status, "error", err)
		return fmt.Errorf("failed to update submission status: %w", err)
	}

	return nil
}

// UpdateResult writes a completed JudgeResult onto the submission row
func (r *SubmissionRepository) UpdateResult(ctx context.Context, id uuid.UUID, result *domain.JudgeResult) error {
	query := `
		UPDATE submissions SET
			status = $2,
			test_cases_passed = $3,
			total_test_cases = $4,
			runtime_ms = $5,
			memory_kb = $6,
			error_message = $7
		WHERE id = $1
	`

	var errorMessage sql.NullString
	if result.ErrorMessage != "" {
		errorMessage = sql.NullString{String: result.ErrorMessage, Valid: true}
	}

	_, err := r.db.ExecContext(
		ctx,
		query,
		id,
		result.Status,
		result.TestCasesPassed,
		result.TotalTestCases,
		result.RuntimeMs,
		result.MemoryKB,
		errorMessage,
	)
	if err != nil {
		r.logger.Error("Failed to update submission result", "submissionId", id, "error", err)
		return fmt.Errorf("failed to update submission result: %w", err)
	}

	return nil
}
