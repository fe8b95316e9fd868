package domain

import "fmt"

// Mode distinguishes a throwaway sample run from a durable scored submission
type Mode string

const (
	// ModeRun judges the visible test cases only and persists nothing
	ModeRun Mode = "run"
	// ModeSubmit judges every test case and persists the result
	ModeSubmit Mode = "submit"
)

// QueueEntry is the minimal payload needed to judge one submission. Submit
// entries carry the id of a persisted Submission row; run entries carry a
// synthesized ephemeral id.
type QueueEntry struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	ProblemID string `json:"problemId"`
	Code      string `json:"code"`
	Language  string `json:"language"`
	Mode      Mode   `json:"mode"`
}

// NewRunEntry creates an ephemeral sample-run entry with id "run:<problemId>"
func NewRunEntry(userID, problemID, code, language string) *QueueEntry {
	return &QueueEntry{
		ID:        fmt.Sprintf("run:%s", problemID),
		UserID:    userID,
		ProblemID: problemID,
		Code:      code,
		Language:  language,
		Mode:      ModeRun,
	}
}

// NewSubmitEntry creates a durable entry tied to the given submission id
func NewSubmitEntry(submissionID, userID, problemID, code, language string) *QueueEntry {
	return &QueueEntry{
		ID:        submissionID,
		UserID:    userID,
		ProblemID: problemID,
		Code:      code,
		Language:  language,
		Mode:      ModeSubmit,
	}
}
