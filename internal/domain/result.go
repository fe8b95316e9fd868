package domain

// HiddenPlaceholder replaces test case content the calling user must not see
const HiddenPlaceholder = "[Hidden]"

// ExecutionResult is the sandbox's verdict for one (code, test case) pair.
// It lives entirely within one judging pass and is never persisted as-is.
type ExecutionResult struct {
	Status            Status
	Output            string
	RuntimeMs         int64
	MemoryKB          int64
	ErrorMessage      string
	CompilationOutput string
}

// TestCaseResult is the per-test-case outcome attached to a judged submission
type TestCaseResult struct {
	TestCaseID     int64  `json:"testCaseId"`
	Status         Status `json:"status"`
	RuntimeMs      int64  `json:"runtime"`
	MemoryKB       int64  `json:"memory"`
	Input          string `json:"input"`
	ExpectedOutput string `json:"expectedOutput"`
	ActualOutput   string `json:"actualOutput"`
	ErrorMessage   string `json:"errorMessage,omitempty"`
}

// NewTestCaseResult builds the persisted outcome for one executed case,
// redacting hidden test case content. The actual output of a hidden case is
// kept only when the case passed.
func NewTestCaseResult(tc *TestCase, exec *ExecutionResult) TestCaseResult {
	r := TestCaseResult{
		TestCaseID:     tc.ID,
		Status:         exec.Status,
		RuntimeMs:      exec.RuntimeMs,
		MemoryKB:       exec.MemoryKB,
		Input:          tc.Input,
		ExpectedOutput: tc.ExpectedOutput,
		ActualOutput:   exec.Output,
		ErrorMessage:   exec.ErrorMessage,
	}
	if tc.IsHidden {
		r.Input = HiddenPlaceholder
		r.ExpectedOutput = HiddenPlaceholder
		if exec.Status != StatusAccepted {
			r.ActualOutput = HiddenPlaceholder
		}
	}
	return r
}

// JudgeResult is the aggregate outcome of judging one submission
type JudgeResult struct {
	SubmissionID    string           `json:"submissionId"`
	Status          Status           `json:"status"`
	TestCasesPassed int              `json:"testCasesPassed"`
	TotalTestCases  int              `json:"totalTestCases"`
	RuntimeMs       int64            `json:"runtime"`
	MemoryKB        int64            `json:"memory"`
	ErrorMessage    string           `json:"errorMessage,omitempty"`
	TestCaseResults []TestCaseResult `json:"testCaseResults"`
}
