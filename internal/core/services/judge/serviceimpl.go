package judge

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/codecoffee/judge/internal/comparator"
	"github.com/codecoffee/judge/internal/config"
	"github.com/codecoffee/judge/internal/core/ports/primary"
	"github.com/codecoffee/judge/internal/core/ports/secondary"
	"github.com/codecoffee/judge/internal/domain"
	"github.com/codecoffee/judge/internal/static/errs"
)

var _ IJudgeService = (*JudgeService)(nil)

// JudgeService implements the JudgeService interface
type JudgeService struct {
	problemRepo     secondary.ProblemRepository
	submissionRepo  secondary.SubmissionRepository
	executorFactory secondary.ExecutorFactory
	cfg             *config.JudgeConfig
	logger          primary.Logger
}

// NewJudgeService creates a new judge service
func NewJudgeService(
	problemRepo secondary.ProblemRepository,
	submissionRepo secondary.SubmissionRepository,
	executorFactory secondary.ExecutorFactory,
	cfg *config.JudgeConfig,
	logger primary.Logger,
) *JudgeService {
	return &JudgeService{
		problemRepo:     problemRepo,
		submissionRepo:  submissionRepo,
		executorFactory: executorFactory,
		cfg:             cfg,
		logger:          logger,
	}
}

// ProcessSubmission judges one queue entry. Submit entries are persisted
// before and after the pass; run entries are judged transiently and only
// returned to the caller.
func (s *JudgeService) ProcessSubmission(ctx context.Context, entry *domain.QueueEntry) (result *domain.JudgeResult) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Judging panicked", "submissionId", entry.ID, "panic", r)
			result = s.fatal(ctx, entry, fmt.Sprintf("unexpected judging failure: %v", r))
		}
	}()

	s.logger.Info("Judging submission",
		"submissionId", entry.ID,
		"problemId", entry.ProblemID,
		"language", entry.Language,
		"mode", entry.Mode)

	// Processing marker: a crash mid-pass leaves PENDING visible instead of
	// a silently stale terminal status.
	s.markPending(ctx, entry)

	var (
		problem   *domain.Problem
		testCases []*domain.TestCase
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.problemRepo.GetProblem(gctx, entry.ProblemID)
		if err != nil {
			return fmt.Errorf("failed to load problem %s: %w", entry.ProblemID, err)
		}
		problem = p
		return nil
	})
	g.Go(func() error {
		if _, err := s.problemRepo.GetTemplate(gctx, entry.ProblemID, entry.Language); err != nil {
			return fmt.Errorf("failed to load template for problem %s language %s: %w", entry.ProblemID, entry.Language, err)
		}
		return nil
	})
	g.Go(func() error {
		tcs, err := s.problemRepo.GetTestCases(gctx, entry.ProblemID, entry.Mode == domain.ModeRun)
		if err != nil {
			return fmt.Errorf("failed to load test cases for problem %s: %w", entry.ProblemID, err)
		}
		testCases = tcs
		return nil
	})
	if err := g.Wait(); err != nil {
		return s.fatal(ctx, entry, err.Error())
	}
	if len(testCases) == 0 {
		return s.fatal(ctx, entry, errs.ErrNoTestCases.Error())
	}

	executor, err := s.executorFactory.GetExecutor(entry.Language)
	if err != nil {
		return s.fatal(ctx, entry, err.Error())
	}

	result = &domain.JudgeResult{
		SubmissionID:   entry.ID,
		Status:         domain.StatusAccepted,
		TotalTestCases: len(testCases),
	}

	var (
		runtimeSum int64
		executed   int64
	)
	for _, tc := range testCases {
		s.applyDefaultLimits(tc)

		exec, execErr := executor.ExecuteCode(ctx, entry.Code, tc)
		if execErr != nil {
			exec = &domain.ExecutionResult{
				Status:       domain.StatusInternalError,
				ErrorMessage: execErr.Error(),
			}
		}
		s.refineVerdict(exec, tc, problem.OutputFormat)

		result.TestCaseResults = append(result.TestCaseResults, domain.NewTestCaseResult(tc, exec))
		executed++
		runtimeSum += exec.RuntimeMs
		if exec.MemoryKB > result.MemoryKB {
			result.MemoryKB = exec.MemoryKB
		}

		if exec.Status == domain.StatusAccepted {
			result.TestCasesPassed++
			continue
		}

		// First failure decides the overall verdict; later cases are not
		// executed so one bad submission cannot monopolize the sandbox.
		result.Status = exec.Status
		if result.Status == "" || result.Status == domain.StatusPending {
			result.Status = domain.StatusWrongAnswer
		}
		result.ErrorMessage = exec.ErrorMessage
		break
	}

	if executed > 0 {
		result.RuntimeMs = runtimeSum / executed
	}

	s.persist(ctx, entry, result)
	s.logger.Info("Judged submission",
		"submissionId", entry.ID,
		"status", result.Status,
		"passed", result.TestCasesPassed,
		"total", result.TotalTestCases,
		"runtimeMs", result.RuntimeMs,
		"memoryKb", result.MemoryKB)
	return result
}

// refineVerdict reconciles the executor's string comparison with the
// problem's declared output format. The comparator is the source of truth
// for pass/fail whenever the program produced output; other statuses
// (TLE, MLE, runtime/compile/internal errors) pass through untouched.
func (s *JudgeService) refineVerdict(exec *domain.ExecutionResult, tc *domain.TestCase, format domain.OutputFormat) {
	if exec.Status != domain.StatusAccepted && exec.Status != domain.StatusWrongAnswer {
		return
	}
	if comparator.Validate(exec.Output, tc.ExpectedOutput, format) || comparator.EqualNormalized(exec.Output, tc.ExpectedOutput) {
		exec.Status = domain.StatusAccepted
		exec.ErrorMessage = ""
	} else {
		exec.Status = domain.StatusWrongAnswer
	}
}

// applyDefaultLimits fills in the configured defaults for test cases whose
// rows carry no explicit limits
func (s *JudgeService) applyDefaultLimits(tc *domain.TestCase) {
	if tc.TimeLimitMs <= 0 {
		tc.TimeLimitMs = s.cfg.DefaultTimeLimitMs
	}
	if tc.MemoryLimitMB <= 0 {
		tc.MemoryLimitMB = s.cfg.DefaultMemoryLimitMB
	}
}

// fatal folds an infrastructure failure into an INTERNAL_ERROR result with
// zero counts, persisting it for submit entries
func (s *JudgeService) fatal(ctx context.Context, entry *domain.QueueEntry, msg string) *domain.JudgeResult {
	s.logger.Error("Judging failed", "submissionId", entry.ID, "error", msg)
	result := &domain.JudgeResult{
		SubmissionID: entry.ID,
		Status:       domain.StatusInternalError,
		ErrorMessage: msg,
	}
	s.persist(ctx, entry, result)
	return result
}

func (s *JudgeService) markPending(ctx context.Context, entry *domain.QueueEntry) {
	if entry.Mode != domain.ModeSubmit {
		return
	}
	id, err := uuid.Parse(entry.ID)
	if err != nil {
		s.logger.Warn("Submit entry carries a non-uuid id", "submissionId", entry.ID, "error", err)
		return
	}
	if err := s.submissionRepo.UpdateStatus(ctx, id, domain.StatusPending); err != nil {
		s.logger.Error("Failed to mark submission as processing", "submissionId", entry.ID, "error", err)
	}
}

// persist writes the result for submit entries. A write failure is logged
// and swallowed so the computed result still reaches the caller.
func (s *JudgeService) persist(ctx context.Context, entry *domain.QueueEntry, result *domain.JudgeResult) {
	if entry.Mode != domain.ModeSubmit {
		return
	}
	id, err := uuid.Parse(entry.ID)
	if err != nil {
		return
	}
	if err := s.submissionRepo.UpdateResult(ctx, id, result); err != nil {
		s.logger.Error("Failed to persist judge result", "submissionId", entry.ID, "error", err)
	}
}
