package engine

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tscheck-dev/tscheck/internal/compiler"
	"github.com/tscheck-dev/tscheck/internal/diagnostics"
	"github.com/tscheck-dev/tscheck/internal/ephemeral"
	"github.com/tscheck-dev/tscheck/internal/tsconfig"
)

// Engine runs the whole pipeline for one invocation. Construct a fresh
// Engine per top-level call: the resolver cache is scoped to it, so there is
// no cross-invocation staleness.
type Engine struct {
	config   ExecutionConfig
	resolver *tsconfig.Resolver
	synth    *ephemeral.Synthesizer
	executor *compiler.Executor
	sink     Sink
}

// Option configures an Engine.
type Option func(*Engine)

// WithSink installs a progress event sink.
func WithSink(sink Sink) Option {
	return func(e *Engine) {
		e.sink = sink
	}
}

// WithExecutor substitutes the compiler executor.
func WithExecutor(executor *compiler.Executor) Option {
	return func(e *Engine) {
		e.executor = executor
	}
}

// New creates an engine with fresh per-invocation state.
func New(config ExecutionConfig, opts ...Option) *Engine {
	e := &Engine{
		config:   config,
		resolver: tsconfig.NewResolver(),
		synth:    ephemeral.New(config.TempDir, config.CacheDir),
		sink:     NopSink{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.executor == nil {
		e.executor = compiler.NewExecutor(nil)
	}
	if e.config.MaxConcurrentGroups <= 0 {
		e.config.MaxConcurrentGroups = DefaultExecutionConfig().MaxConcurrentGroups
	}
	return e
}

// Execute checks the given files. Configuration errors abort before any
// subprocess spawns; a system or filesystem fault in one group lets
// independent groups complete and is reported inside the result. Every
// ephemeral config is deleted before Execute returns, on every exit path —
// normal, error, or cancellation.
func (e *Engine) Execute(ctx context.Context, files []string, explicitConfig string) (*CheckResult, error) {
	start := time.Now()
	defer e.synth.CleanupAll()

	groups, configs, err := GroupFiles(ctx, files, explicitConfig, e.resolver)
	if err != nil {
		return nil, err
	}

	checkedFiles := []string{}
	for _, grp := range groups {
		checkedFiles = append(checkedFiles, grp.Files...)
	}

	results := make([]GroupResult, len(groups))

	g := new(errgroup.Group)
	g.SetLimit(e.config.MaxConcurrentGroups)
	for i, grp := range groups {
		g.Go(func() error {
			e.sink.OnGroupStarted(GroupStarted{
				ConfigPath: grp.ConfigPath,
				FileCount:  len(grp.Files),
				Index:      i,
				Total:      len(groups),
			})

			res := e.runGroup(ctx, grp, configs[grp.ConfigPath])
			results[i] = res

			errCount, warnCount := diagnostics.Count(res.Diagnostics)
			e.sink.OnGroupCompleted(GroupCompleted{
				ConfigPath: grp.ConfigPath,
				Impl:       res.Impl,
				Errors:     errCount,
				Warnings:   warnCount,
				Duration:   res.Duration,
				Err:        res.Err,
			})
			return nil
		})
	}
	// Group faults travel in results, not as goroutine errors; only
	// cancellation stops the run early.
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return Aggregate(results, checkedFiles, time.Since(start)), nil
}

// runGroup synthesizes, executes and parses one group. The ephemeral config
// is disposed before return no matter how the group ends.
func (e *Engine) runGroup(ctx context.Context, grp FileGroup, project *tsconfig.ProjectConfig) GroupResult {
	result := GroupResult{
		ConfigPath: grp.ConfigPath,
		Files:      grp.Files,
	}

	cfg, err := e.synth.Synthesize(project, grp.Files)
	if err != nil {
		result.Err = err
		return result
	}
	defer cfg.Dispose()

	execResult, err := e.executor.Execute(ctx, cfg, compiler.ExecuteOptions{
		Selection:  e.config.Selection,
		Timeout:    e.config.Timeout,
		MinVersion: e.config.MinVersion,
	})
	if err != nil {
		result.Err = err
		return result
	}

	result.Impl = execResult.Impl
	result.Duration = execResult.Duration
	result.Diagnostics = diagnostics.Parse(execResult.Stdout + "\n" + execResult.Stderr)
	for _, d := range result.Diagnostics {
		e.sink.OnDiagnostic(d)
	}
	return result
}
