package domain

// Status represents the judging status of a submission or a single test case
type Status string

const (
	StatusPending             Status = "PENDING"
	StatusAccepted            Status = "ACCEPTED"
	StatusWrongAnswer         Status = "WRONG_ANSWER"
	StatusTimeLimitExceeded   Status = "TIME_LIMIT_EXCEEDED"
	StatusMemoryLimitExceeded Status = "MEMORY_LIMIT_EXCEEDED"
	StatusRuntimeError        Status = "RUNTIME_ERROR"
	StatusCompilationError    Status = "COMPILATION_ERROR"
	StatusInternalError       Status = "INTERNAL_ERROR"
)

// IsTerminal reports whether the status ends a judging pass. A resubmission
// starts a fresh pass at PENDING.
func (s Status) IsTerminal() bool {
	return s != StatusPending && s != ""
}
