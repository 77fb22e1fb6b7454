package compiler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/tscheck-dev/tscheck/internal/apperrors"
	"github.com/tscheck-dev/tscheck/internal/ephemeral"
)

// Non-zero exits up to this value are well-formed compiler outcomes carrying
// diagnostics; anything above is a crash.
const maxDiagnosticExitCode = 2

// ExecResult is the raw outcome of one compiler invocation.
type ExecResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Impl     Implementation
	Binary   string
	Duration time.Duration
}

// ExecuteOptions controls one invocation.
type ExecuteOptions struct {
	Selection SelectionOptions
	// Timeout, when positive, cancels the subprocess and reports a timeout
	// SystemError for this group only.
	Timeout time.Duration
	// MinVersion, when set, gates candidates through a version probe.
	MinVersion *semver.Version
}

// RunnerFunc executes one subprocess attempt and reports captured output,
// the exit code, and a spawn error when the process never started.
type RunnerFunc func(ctx context.Context, dir, binary string, args []string) (stdout, stderr string, exitCode int, spawnErr error)

// Executor resolves a compiler binary and runs it against an ephemeral
// configuration. Invocation is always an argument array handed to the OS,
// never a shell string, so file names cannot inject commands. The executor
// performs no retries of its own; the only second attempt is the documented
// fallback from the alternate implementation to the standard one.
type Executor struct {
	locator *Locator
	run     RunnerFunc
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithRunner substitutes the subprocess runner.
func WithRunner(run RunnerFunc) ExecutorOption {
	return func(e *Executor) {
		e.run = run
	}
}

// NewExecutor creates an executor using the given locator.
func NewExecutor(locator *Locator, opts ...ExecutorOption) *Executor {
	if locator == nil {
		locator = NewLocator(nil)
	}
	e := &Executor{
		locator: locator,
		run:     runSubprocess,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs the compiler for cfg. A spawn failure or crash of one
// candidate falls through to the next; a well-formed exit (zero or carrying
// diagnostics) returns immediately. Exhausting all candidates is a
// SystemError, as is a timeout.
func (e *Executor) Execute(ctx context.Context, cfg *ephemeral.Config, opts ExecuteOptions) (*ExecResult, error) {
	projectDir := filepath.Dir(cfg.ConfigPath)

	candidates, err := e.locator.Candidates(projectDir, opts.Selection)
	if err != nil {
		return nil, err
	}

	runCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	args := []string{"--project", cfg.Path, "--pretty", "false"}

	var lastErr error
	for _, cand := range candidates {
		if opts.MinVersion != nil {
			v, probeErr := e.locator.Probe(runCtx, cand.Path)
			if probeErr != nil {
				lastErr = probeErr
				continue
			}
			if v.LessThan(opts.MinVersion) {
				lastErr = apperrors.NewSystemError(
					fmt.Sprintf("%s %s is older than required %s", cand.Impl, v, opts.MinVersion), nil)
				continue
			}
		}

		start := time.Now()
		stdout, stderr, exitCode, spawnErr := e.run(runCtx, projectDir, cand.Path, args)
		elapsed := time.Since(start)

		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return nil, apperrors.NewTimeoutError(
				fmt.Sprintf("%s timed out after %s", cand.Impl, opts.Timeout), runCtx.Err())
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if spawnErr != nil {
			// Binary missing or not runnable: distinct from a non-zero exit.
			lastErr = apperrors.NewSystemError("failed to start "+cand.Path, spawnErr)
			continue
		}
		if exitCode > maxDiagnosticExitCode || exitCode < 0 {
			// A compiler crash is never masked by retrying the same binary;
			// it either falls back to the next implementation or surfaces.
			lastErr = apperrors.NewSystemError(
				fmt.Sprintf("%s exited abnormally with code %d", cand.Impl, exitCode), nil)
			continue
		}

		return &ExecResult{
			Stdout:   stdout,
			Stderr:   stderr,
			ExitCode: exitCode,
			Impl:     cand.Impl,
			Binary:   cand.Path,
			Duration: elapsed,
		}, nil
	}

	if lastErr == nil {
		lastErr = apperrors.NewSystemError("no TypeScript compiler could be executed", nil)
	}
	return nil, lastErr
}

// runSubprocess is the production runFunc: argument-array invocation with
// captured output and exit-code extraction.
func runSubprocess(ctx context.Context, dir, binary string, args []string) (string, string, int, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return "", "", -1, err
	}

	err := cmd.Wait()
	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ProcessState != nil {
			exitCode = exitErr.ProcessState.ExitCode()
		} else {
			return stdout.String(), stderr.String(), -1, err
		}
	}
	return stdout.String(), stderr.String(), exitCode, nil
}
