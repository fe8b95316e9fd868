package submissions

import (
	"time"

	"github.com/codecoffee/judge/internal/domain"
	"github.com/codecoffee/judge/internal/workerpool"
)

// CreateSubmissionRequest represents a submission or sample-run request
type CreateSubmissionRequest struct {
	ProblemID string `json:"problemId"`
	Code      string `json:"code"`
	Language  string `json:"language"`
	UserID    string `json:"userId"`
}

// CreateSubmissionResponse acknowledges an enqueued submission
type CreateSubmissionResponse struct {
	SubmissionID string        `json:"submissionId"`
	Status       domain.Status `json:"status"`
	Message      string        `json:"message"`
}

// SubmissionResponse is the read model for one submission
type SubmissionResponse struct {
	SubmissionID    string        `json:"submissionId"`
	ProblemID       string        `json:"problemId"`
	ProblemTitle    string        `json:"problemTitle,omitempty"`
	Difficulty      string        `json:"difficulty,omitempty"`
	Language        string        `json:"language"`
	Status          domain.Status `json:"status"`
	TestCasesPassed int           `json:"testCasesPassed"`
	TotalTestCases  int           `json:"totalTestCases"`
	RuntimeMs       int64         `json:"runtime"`
	MemoryKB        int64         `json:"memory"`
	ErrorMessage    string        `json:"errorMessage,omitempty"`
	SubmittedAt     time.Time     `json:"submittedAt"`
}

// QueueStatusResponse pairs the pending queue depth with the pool snapshot
type QueueStatusResponse struct {
	QueueLength int64                 `json:"queueLength"`
	Workers     workerpool.PoolStatus `json:"workers"`
}

func newSubmissionResponse(sub *domain.Submission, problem *domain.Problem) SubmissionResponse {
	resp := SubmissionResponse{
		SubmissionID:    sub.ID.String(),
		ProblemID:       sub.ProblemID,
		Language:        sub.Language,
		Status:          sub.Status,
		TestCasesPassed: sub.TestCasesPassed,
		TotalTestCases:  sub.TotalTestCases,
		RuntimeMs:       sub.RuntimeMs,
		MemoryKB:        sub.MemoryKB,
		SubmittedAt:     sub.SubmittedAt,
	}
	if sub.ErrorMessage != nil {
		resp.ErrorMessage = *sub.ErrorMessage
	}
	if problem != nil {
		resp.ProblemTitle = problem.Title
		resp.Difficulty = problem.Difficulty
	}
	return resp
}
