// Package problemrepository contains the PostgreSQL read-side of problem
// data: problem records, per-language code templates and ordered test cases.
package problemrepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/codecoffee/judge/internal/core/ports/primary"
	"github.com/codecoffee/judge/internal/core/ports/secondary"
	"github.com/codecoffee/judge/internal/domain"
	"github.com/codecoffee/judge/internal/static/errs"
)

var _ secondary.ProblemRepository = (*ProblemRepository)(nil)

// ProblemRepository implements the ProblemRepository port with PostgreSQL
type ProblemRepository struct {
	db     *sqlx.DB
	logger primary.Logger
}

// NewProblemRepository creates a new PostgreSQL problem repository
func NewProblemRepository(db *sqlx.DB, logger primary.Logger) *ProblemRepository {
	return &ProblemRepository{
		db:     db,
		logger: logger,
	}
}

// GetProblem retrieves a problem by ID
func (r *ProblemRepository) GetProblem(ctx context.Context, problemID string) (*domain.Problem, error) {
	query := `
		SELECT id, title, difficulty, COALESCE(output_format, 'string')
		FROM problems
		WHERE id = $1
	`

	var problem domain.Problem
	err := r.db.QueryRowContext(ctx, query, problemID).Scan(
		&problem.ID,
		&problem.Title,
		&problem.Difficulty,
		&problem.OutputFormat,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrProblemNotFound
		}
		r.logger.Error("Failed to get problem", "problemId", problemID, "error", err)
		return nil, fmt.Errorf("failed to get problem: %w", err)
	}

	return &problem, nil
}

// GetTemplate retrieves the code template for a (problem, language) pair
func (r *ProblemRepository) GetTemplate(ctx context.Context, problemID, language string) (*domain.Template, error) {
	query := `
		SELECT problem_id, language, template
		FROM problem_templates
		WHERE problem_id = $1 AND language = $2
	`

	var tpl domain.Template
	err := r.db.QueryRowContext(ctx, query, problemID, strings.ToLower(language)).Scan(
		&tpl.ProblemID,
		&tpl.Language,
		&tpl.Template,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrTemplateNotFound
		}
		r.logger.Error("Failed to get template", "problemId", problemID, "language", language, "error", err)
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	return &tpl, nil
}

// GetTestCases retrieves a problem's test cases ordered ascending by id,
// excluding hidden cases when visibleOnly is set
func (r *ProblemRepository) GetTestCases(ctx context.Context, problemID string, visibleOnly bool) ([]*domain.TestCase, error) {
	query := `
		SELECT id, problem_id, input, expected_output, is_hidden,
			   COALESCE(time_limit_ms, 0), COALESCE(memory_limit_mb, 0), COALESCE(weight, 1)
		FROM test_cases
		WHERE problem_id = $1
	`
	args := []interface{}{problemID}
	if visibleOnly {
		query += " AND is_hidden = FALSE"
	}
	query += " ORDER BY id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to get test cases", "problemId", problemID, "error", err)
		return nil, fmt.Errorf("failed to get test cases: %w", err)
	}
	defer rows.Close()

	var testCases []*domain.TestCase
	for rows.Next() {
		var tc domain.TestCase
		if err := rows.Scan(
			&tc.ID,
			&tc.ProblemID,
			&tc.Input,
			&tc.ExpectedOutput,
			&tc.IsHidden,
			&tc.TimeLimitMs,
			&tc.MemoryLimitMB,
			&tc.Weight,
		); err != nil {
			return nil, fmt.Errorf("failed to scan test case: %w", err)
		}
		testCases = append(testCases, &tc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate test cases: %w", err)
	}

	return testCases, nil
}
