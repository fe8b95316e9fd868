// Package codeexecutor drives one sandboxed compile/run per (code, test
// case) pair through the Docker Engine API. Containers run with no network,
// all capabilities dropped, a pinned memory/CPU/pid budget and the working
// directory mounted read-only.
package codeexecutor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/strslice"
	"github.com/docker/docker/client"
	"github.com/docker/docker/errdefs"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/google/uuid"

	"github.com/codecoffee/judge/internal/comparator"
	"github.com/codecoffee/judge/internal/config"
	"github.com/codecoffee/judge/internal/core/ports/primary"
	"github.com/codecoffee/judge/internal/core/ports/secondary"
	"github.com/codecoffee/judge/internal/domain"
)

const sandboxWorkdir = "/workspace"

var _ secondary.Executor = (*CodeExecutor)(nil)

// CodeExecutor is the generic per-language executor. One instance per
// language, parameterized by its LanguageConfig; instances are safe for
// concurrent use since every execution gets its own working directory and
// container.
type CodeExecutor struct {
	cli    client.APIClient
	lang   LanguageConfig
	cfg    *config.JudgeConfig
	logger primary.Logger
}

// NewCodeExecutor creates an executor bound to one language config
func NewCodeExecutor(cli client.APIClient, lang LanguageConfig, cfg *config.JudgeConfig, logger primary.Logger) *CodeExecutor {
	return &CodeExecutor{
		cli:    cli,
		lang:   lang,
		cfg:    cfg,
		logger: logger,
	}
}

// ExecuteCode compiles (if the language requires it) and runs the submitted
// code against one test case. Sandbox-level failures come back as statuses;
// the error return stays nil so callers treat every outcome uniformly.
func (e *CodeExecutor) ExecuteCode(ctx context.Context, code string, tc *domain.TestCase) (*domain.ExecutionResult, error) {
	if _, err := e.cli.Ping(ctx); err != nil {
		return internalError(fmt.Sprintf("sandbox runtime is not available: %v", err)), nil
	}

	if err := e.ensureImage(ctx); err != nil {
		return internalError(fmt.Sprintf("failed to ensure sandbox image %s: %v", e.lang.Image, err)), nil
	}

	workDir, err := os.MkdirTemp("", fmt.Sprintf("execution_%s_", uuid.NewString()))
	if err != nil {
		return internalError("failed to create working directory for code execution"), nil
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			e.logger.Error("Failed to clean up working directory", "workDir", workDir, "error", err)
		}
	}()

	if err := os.WriteFile(filepath.Join(workDir, e.lang.MainFileName), []byte(code), 0o644); err != nil {
		return internalError("failed to write source file"), nil
	}

	if len(e.lang.CompileCmd) > 0 {
		if res := e.compile(ctx, workDir); res != nil {
			return res, nil
		}
	}

	return e.run(ctx, workDir, tc), nil
}

// compile runs the language's compile command with the working directory
// mounted read-write so artifacts survive for the run step. Returns nil on
// success, a terminal ExecutionResult otherwise.
func (e *CodeExecutor) compile(ctx context.Context, workDir string) *domain.ExecutionResult {
	out, err := e.runContainer(ctx, containerParams{
		workDir: workDir,
		cmd:     e.lang.CompileCmd,
		timeout: e.cfg.CompileTimeout,
	})
	if err != nil {
		return internalError(fmt.Sprintf("compile step failed: %v", err))
	}
	if out.timedOut {
		return &domain.ExecutionResult{
			Status:            domain.StatusCompilationError,
			ErrorMessage:      fmt.Sprintf("compilation timed out after %s", e.cfg.CompileTimeout),
			CompilationOutput: out.stdout + out.stderr,
		}
	}
	if out.exitCode != 0 {
		return &domain.ExecutionResult{
			Status:            domain.StatusCompilationError,
			ErrorMessage:      cleanErrorMessage(out.stderr),
			CompilationOutput: out.stdout + out.stderr,
		}
	}
	return nil
}

// run executes the program with the test case's stdin and resource limits
// and interprets the outcome into a terminal ExecutionResult.
func (e *CodeExecutor) run(ctx context.Context, workDir string, tc *domain.TestCase) *domain.ExecutionResult {
	timeLimit := time.Duration(tc.TimeLimitMs) * time.Millisecond
	out, err := e.runContainer(ctx, containerParams{
		workDir:       workDir,
		cmd:           e.lang.RunCmd,
		stdin:         tc.Input,
		timeout:       timeLimit + e.cfg.StartupBuffer,
		readonly:      true,
		memoryLimitMB: tc.MemoryLimitMB,
		collectStats:  true,
	})
	if err != nil {
		return internalError(fmt.Sprintf("sandbox run failed: %v", err))
	}

	if out.timedOut {
		return &domain.ExecutionResult{
			Status:       domain.StatusTimeLimitExceeded,
			RuntimeMs:    tc.TimeLimitMs,
			ErrorMessage: fmt.Sprintf("Time limit exceeded (%dms)", tc.TimeLimitMs),
		}
	}

	runtimeMs := out.wallTime.Milliseconds() - e.cfg.OverheadCorrection.Milliseconds()
	if runtimeMs < 0 {
		runtimeMs = 0
	}

	if out.oomKilled {
		return &domain.ExecutionResult{
			Status:       domain.StatusMemoryLimitExceeded,
			RuntimeMs:    runtimeMs,
			MemoryKB:     out.memoryKB,
			ErrorMessage: fmt.Sprintf("Memory limit exceeded (%dMB)", tc.MemoryLimitMB),
		}
	}

	if out.exitCode != 0 || runtimeErrorMarker(out.stderr) {
		msg := cleanErrorMessage(out.stderr)
		if msg == "" {
			msg = fmt.Sprintf("Runtime error (exit code %d)", out.exitCode)
		}
		return &domain.ExecutionResult{
			Status:       domain.StatusRuntimeError,
			RuntimeMs:    runtimeMs,
			MemoryKB:     out.memoryKB,
			ErrorMessage: msg,
		}
	}

	actual := cleanOutput(out.stdout)
	status := domain.StatusWrongAnswer
	if comparator.EqualNormalized(actual, tc.ExpectedOutput) {
		status = domain.StatusAccepted
	}

	return &domain.ExecutionResult{
		Status:    status,
		Output:    actual,
		RuntimeMs: runtimeMs,
		MemoryKB:  out.memoryKB,
	}
}

// ensureImage checks the sandbox image locally and pulls it once if missing
func (e *CodeExecutor) ensureImage(ctx context.Context) error {
	_, _, err := e.cli.ImageInspectWithRaw(ctx, e.lang.Image)
	if err == nil {
		return nil
	}
	if !errdefs.IsNotFound(err) {
		return fmt.Errorf("image inspect failed: %w", err)
	}

	e.logger.Info("Pulling sandbox image", "image", e.lang.Image)
	rc, err := e.cli.ImagePull(ctx, e.lang.Image, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("image pull failed: %w", err)
	}
	defer rc.Close()
	if _, err := io.Copy(io.Discard, rc); err != nil {
		return fmt.Errorf("image pull interrupted: %w", err)
	}
	return nil
}

type containerParams struct {
	workDir       string
	cmd           []string
	stdin         string
	timeout       time.Duration
	readonly      bool
	memoryLimitMB int64
	collectStats  bool
}

type containerOutcome struct {
	stdout    string
	stderr    string
	exitCode  int64
	timedOut  bool
	oomKilled bool
	memoryKB  int64
	wallTime  time.Duration
}

// runContainer creates, starts and waits for one throwaway container. The
// command is an argument vector handed straight to the engine; user input
// only ever travels over the attached stdin stream.
func (e *CodeExecutor) runContainer(ctx context.Context, p containerParams) (*containerOutcome, error) {
	bind := p.workDir + ":" + sandboxWorkdir
	if p.readonly {
		bind += ":ro"
	}

	resources := container.Resources{
		NanoCPUs:  1e9, // one CPU
		PidsLimit: &e.cfg.PidsLimit,
	}
	if p.memoryLimitMB > 0 {
		resources.Memory = p.memoryLimitMB * 1024 * 1024
		resources.MemorySwap = p.memoryLimitMB * 1024 * 1024
	}

	created, err := e.cli.ContainerCreate(ctx,
		&container.Config{
			Image:        e.lang.Image,
			Cmd:          strslice.StrSlice(p.cmd),
			WorkingDir:   sandboxWorkdir,
			OpenStdin:    true,
			StdinOnce:    true,
			AttachStdin:  true,
			AttachStdout: true,
			AttachStderr: true,
		},
		&container.HostConfig{
			Binds:       []string{bind},
			NetworkMode: "none",
			SecurityOpt: []string{"no-new-privileges"},
			CapDrop:     strslice.StrSlice{"ALL"},
			Resources:   resources,
		},
		nil, nil, fmt.Sprintf("judge-exec-%s", uuid.NewString()))
	if err != nil {
		return nil, fmt.Errorf("container create failed: %w", err)
	}
	defer func() {
		removeCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := e.cli.ContainerRemove(removeCtx, created.ID, container.RemoveOptions{Force: true}); err != nil {
			e.logger.Error("Failed to remove sandbox container", "containerId", created.ID, "error", err)
		}
	}()

	attach, err := e.cli.ContainerAttach(ctx, created.ID, container.AttachOptions{
		Stream: true,
		Stdin:  true,
		Stdout: true,
		Stderr: true,
	})
	if err != nil {
		return nil, fmt.Errorf("container attach failed: %w", err)
	}
	defer attach.Close()

	start := time.Now()
	if err := e.cli.ContainerStart(ctx, created.ID, container.StartOptions{}); err != nil {
		return nil, fmt.Errorf("container start failed: %w", err)
	}

	go func() {
		if p.stdin != "" {
			_, _ = attach.Conn.Write([]byte(p.stdin))
		}
		_ = attach.CloseWrite()
	}()

	stdoutBuf := new(bytes.Buffer)
	stderrBuf := new(bytes.Buffer)
	copied := make(chan struct{})
	go func() {
		_, _ = stdcopy.StdCopy(stdoutBuf, stderrBuf, attach.Reader)
		close(copied)
	}()

	out := &containerOutcome{}
	statusCh, errCh := e.cli.ContainerWait(ctx, created.ID, container.WaitConditionNotRunning)
	timer := time.NewTimer(p.timeout)
	defer timer.Stop()

	select {
	case status := <-statusCh:
		out.exitCode = status.StatusCode
	case err := <-errCh:
		return nil, fmt.Errorf("container wait failed: %w", err)
	case <-timer.C:
		out.timedOut = true
		killCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.cli.ContainerKill(killCtx, created.ID, "KILL"); err != nil {
			e.logger.Error("Failed to kill timed out container", "containerId", created.ID, "error", err)
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	out.wallTime = time.Since(start)

	// Give the demuxer a moment to drain after the process exits.
	select {
	case <-copied:
	case <-time.After(2 * time.Second):
	}
	out.stdout = stdoutBuf.String()
	out.stderr = stderrBuf.String()

	if out.timedOut {
		return out, nil
	}

	if p.collectStats {
		out.memoryKB = e.readPeakMemoryKB(ctx, created.ID)
		out.oomKilled = e.wasOOMKilled(ctx, created.ID, out.exitCode)
	}

	return out, nil
}

// readPeakMemoryKB takes a one-shot stats sample; 0 when unavailable
func (e *CodeExecutor) readPeakMemoryKB(ctx context.Context, containerID string) int64 {
	stats, err := e.cli.ContainerStatsOneShot(ctx, containerID)
	if err != nil {
		return 0
	}
	defer stats.Body.Close()

	var sample struct {
		MemoryStats struct {
			MaxUsage int64 `json:"max_usage"`
			Usage    int64 `json:"usage"`
		} `json:"memory_stats"`
	}
	if err := json.NewDecoder(stats.Body).Decode(&sample); err != nil {
		return 0
	}
	peak := sample.MemoryStats.MaxUsage
	if peak == 0 {
		peak = sample.MemoryStats.Usage
	}
	return peak / 1024
}

// wasOOMKilled distinguishes a memory-cap kill from an ordinary crash
func (e *CodeExecutor) wasOOMKilled(ctx context.Context, containerID string, exitCode int64) bool {
	if exitCode == 0 {
		return false
	}
	inspect, err := e.cli.ContainerInspect(ctx, containerID)
	if err != nil || inspect.State == nil {
		return false
	}
	return inspect.State.OOMKilled
}

// runtimeErrorMarker reports whether stderr carries an error marker that is
// not just the resource-stats line some images emit
func runtimeErrorMarker(stderr string) bool {
	return strings.Contains(stderr, "ERROR") && !strings.Contains(stderr, "DOCKER_STATS:")
}

func internalError(msg string) *domain.ExecutionResult {
	return &domain.ExecutionResult{
		Status:       domain.StatusInternalError,
		ErrorMessage: msg,
	}
}
