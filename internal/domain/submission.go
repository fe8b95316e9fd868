package domain

import (
	"time"

	"github.com/google/uuid"
)

// Submission represents a code submission owned by the persistence boundary.
// The judging core only ever mutates status, counts, runtime, memory and the
// error message, and only with the JudgeResult of a completed pass.
type Submission struct {
	ID              uuid.UUID `db:"id"`
	UserID          string    `db:"user_id"`
	ProblemID       string    `db:"problem_id"`
	Code            string    `db:"code"`
	Language        string    `db:"language"`
	Status          Status    `db:"status"`
	TestCasesPassed int       `db:"test_cases_passed"`
	TotalTestCases  int       `db:"total_test_cases"`
	RuntimeMs       int64     `db:"runtime_ms"`
	MemoryKB        int64     `db:"memory_kb"`
	ErrorMessage    *string   `db:"error_message"`
	SubmittedAt     time.Time `db:"submitted_at"`
}

// NewSubmission creates a pending submission
func NewSubmission(userID, problemID, code, language string) *Submission {
	return &Submission{
		ID:          uuid.New(),
		UserID:      userID,
		ProblemID:   problemID,
		Code:        code,
		Language:    language,
		Status:      StatusPending,
		SubmittedAt: time.Now(),
	}
}
