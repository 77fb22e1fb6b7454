// Package engine coordinates the check pipeline: group files by resolved
// configuration, run the compiler per group concurrently, and aggregate one
// CheckResult.
package engine

import (
	"runtime"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/tscheck-dev/tscheck/internal/compiler"
)

// Concurrency constants for parallel group execution.
const (
	// MinConcurrentGroups ensures reasonable parallelism even on
	// single-core systems.
	MinConcurrentGroups = 2

	// MaxConcurrentGroups caps subprocess fan-out in large monorepos; each
	// group is a full compiler process.
	MaxConcurrentGroups = 16
)

// ExecutionConfig controls execution behavior.
type ExecutionConfig struct {
	// MaxConcurrentGroups bounds how many compiler subprocesses run at
	// once.
	MaxConcurrentGroups int

	// Timeout, when positive, applies per group and cancels only that
	// group's subprocess.
	Timeout time.Duration

	// Selection carries the caller's compiler-selection flags.
	Selection compiler.SelectionOptions

	// MinVersion, when set, rejects compiler binaries older than it.
	MinVersion *semver.Version

	// TempDir and CacheDir override where ephemeral configs and redirected
	// build artifacts are written. Empty means OS defaults.
	TempDir  string
	CacheDir string
}

// DefaultExecutionConfig returns sensible defaults for parallel execution.
func DefaultExecutionConfig() ExecutionConfig {
	maxGroups := runtime.NumCPU()
	if maxGroups < MinConcurrentGroups {
		maxGroups = MinConcurrentGroups
	}
	if maxGroups > MaxConcurrentGroups {
		maxGroups = MaxConcurrentGroups
	}
	return ExecutionConfig{
		MaxConcurrentGroups: maxGroups,
	}
}
