package domain

// TestCase represents one test case of a problem, read-only to the judging
// core. TimeLimitMs and MemoryLimitMB are synthesized from configuration when
// the stored row carries no explicit limits.
type TestCase struct {
	ID             int64  `db:"id"`
	ProblemID      string `db:"problem_id"`
	Input          string `db:"input"`
	ExpectedOutput string `db:"expected_output"`
	IsHidden       bool   `db:"is_hidden"`
	TimeLimitMs    int64  `db:"time_limit_ms"`
	MemoryLimitMB  int64  `db:"memory_limit_mb"`
	Weight         int    `db:"weight"`
}
