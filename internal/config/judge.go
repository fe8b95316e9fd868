package config

import (
	"os"
	"strconv"
	"time"
)

// JudgeConfig holds the judging engine tunables: pool size, queue timeouts
// and the sandbox limits synthesized for test cases without explicit ones.
type JudgeConfig struct {
	MaxConcurrentJobs int
	QueuePopTimeout   time.Duration
	IdleRetryDelay    time.Duration
	ErrorBackoff      time.Duration

	CompileTimeout time.Duration
	// StartupBuffer is added to a test case's time limit to absorb
	// container startup cost; OverheadCorrection is subtracted from the
	// measured wall time of a finished run for the same reason.
	StartupBuffer      time.Duration
	OverheadCorrection time.Duration

	DefaultTimeLimitMs   int64
	DefaultMemoryLimitMB int64
	PidsLimit            int64
}

func NewJudgeConfig() *JudgeConfig {
	return &JudgeConfig{
		MaxConcurrentJobs:    getIntEnv("JUDGE_MAX_CONCURRENT_JOBS", 3),
		QueuePopTimeout:      getDurationEnv("JUDGE_QUEUE_POP_TIMEOUT_SEC", 10),
		IdleRetryDelay:       getDurationEnv("JUDGE_IDLE_RETRY_SEC", 1),
		ErrorBackoff:         getDurationEnv("JUDGE_ERROR_BACKOFF_SEC", 5),
		CompileTimeout:       getDurationEnv("JUDGE_COMPILE_TIMEOUT_SEC", 30),
		StartupBuffer:        getDurationEnv("JUDGE_STARTUP_BUFFER_SEC", 2),
		OverheadCorrection:   getDurationEnv("JUDGE_OVERHEAD_CORRECTION_SEC", 1),
		DefaultTimeLimitMs:   int64(getIntEnv("JUDGE_DEFAULT_TIME_LIMIT_MS", 2000)),
		DefaultMemoryLimitMB: int64(getIntEnv("JUDGE_DEFAULT_MEMORY_LIMIT_MB", 256)),
		PidsLimit:            int64(getIntEnv("JUDGE_PIDS_LIMIT", 50)),
	}
}

func getIntEnv(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return intValue
}

func getDurationEnv(key string, fallbackSec int) time.Duration {
	return time.Duration(getIntEnv(key, fallbackSec)) * time.Second
}
