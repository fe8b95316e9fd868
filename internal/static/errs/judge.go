package errs

import "errors"

// Fatal judging errors. Any of these aborts the pass and becomes an
// INTERNAL_ERROR JudgeResult, except ErrUnsupportedLanguage which the API
// boundary also surfaces as a client error before enqueueing.
var (
	ErrProblemNotFound  = errors.New("problem not found")
	ErrTemplateNotFound = errors.New("code template not found")
	ErrNoTestCases      = errors.New("no test cases found for this problem")

	// Message casing preserved from the judging protocol: clients match on
	// the "Unsupported language" prefix.
	ErrUnsupportedLanguage = errors.New("Unsupported language")

	ErrSandboxUnavailable = errors.New("sandbox runtime is not available")
)
