package secondary

import (
	"context"

	"github.com/codecoffee/judge/internal/domain"
)

// Executor compiles (when the language requires it) and runs one code
// submission against one test case inside a resource-constrained sandbox.
// Sandbox-level failures come back as statuses on the ExecutionResult; the
// error return is reserved for faults the executor could not classify.
type Executor interface {
	ExecuteCode(ctx context.Context, code string, tc *domain.TestCase) (*domain.ExecutionResult, error)
}

// ExecutorFactory maps a language identifier to an Executor. It is the
// central extension point for adding languages.
type ExecutorFactory interface {
	// GetExecutor returns the executor for a case-insensitive language
	// alias, or an error wrapping errs.ErrUnsupportedLanguage
	GetExecutor(language string) (Executor, error)

	// SupportedLanguages lists the canonical language names in stable order
	SupportedLanguages() []string
}
