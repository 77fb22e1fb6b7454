package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/spf13/cobra"

	"github.com/tscheck-dev/tscheck/internal/apperrors"
	"github.com/tscheck-dev/tscheck/internal/compiler"
	"github.com/tscheck-dev/tscheck/internal/config"
	"github.com/tscheck-dev/tscheck/internal/engine"
	"github.com/tscheck-dev/tscheck/internal/output"
)

var (
	projectPath  string
	format       string
	outFile      string
	filterExpr   string
	compilerPath string
	useTSC       bool
	useTSGo      bool
	noFallback   bool
	timeout      time.Duration
	concurrency  int
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Type-check files against their resolved tsconfig",
	Long: `Resolve each file to its governing tsconfig.json, group files sharing a
configuration, and run one compiler process per group with the project's own
settings. Exit codes: 0 clean, 1 type errors found, 2 configuration error,
3 system error (no compiler, spawn failure, timeout).

Filtering:
  --filter "severity == 'error'"            Only error diagnostics
  --filter "code in ['TS2322','TS2345']"    Specific compiler codes
  --filter "!(file contains 'generated')"   Path-based selection`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runCheckAction(cmd.Context(), args))
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&projectPath, "project", "p", "", "Explicit tsconfig.json path (skips upward search)")
	checkCmd.Flags().StringVar(&format, "format", "table", "Output format: table, json, sarif, junit")
	checkCmd.Flags().StringVarP(&outFile, "output", "o", "", "Output file path (default: stdout)")
	checkCmd.Flags().StringVar(&filterExpr, "filter", "", "Diagnostic filter expression (e.g. \"severity == 'error'\")")

	// Compiler selection
	checkCmd.Flags().StringVar(&compilerPath, "compiler", "", "Explicit compiler binary path")
	checkCmd.Flags().BoolVar(&useTSC, "use-tsc", false, "Force the standard tsc compiler")
	checkCmd.Flags().BoolVar(&useTSGo, "use-tsgo", false, "Force the tsgo compiler")
	checkCmd.Flags().BoolVar(&noFallback, "no-fallback", false, "Disable fallback between compiler implementations")

	checkCmd.Flags().DurationVar(&timeout, "timeout", 0, "Per-group compiler timeout (0 = none)")
	checkCmd.Flags().IntVar(&concurrency, "concurrency", 0, "Max concurrent compiler processes (0 = auto)")
}

// runCheckAction implements the core logic for the check command and returns
// the process exit code.
func runCheckAction(ctx context.Context, files []string) int {
	execConfig, err := buildExecutionConfig()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		return apperrors.ExitConfig
	}

	var filterProgram *vm.Program
	if filterExpr != "" {
		program, err := expr.Compile(filterExpr,
			expr.Env(engine.DiagnosticEnv{}),
			expr.AsBool())
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid --filter expression: %v\nExample: severity == 'error' && code != 'TS6133'\n", err)
			return apperrors.ExitConfig
		}
		filterProgram = program
	}

	// Ctrl-C cancels in-flight compiler subprocesses; ephemeral configs are
	// still cleaned up on the way out.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng := engine.New(execConfig, engine.WithSink(newSlogSink()))

	slog.Debug("checking files", "count", len(files), "project", projectPath)
	result, err := eng.Execute(ctx, files, projectPath)
	if err != nil {
		slog.Error("check aborted", "error", err)
		return apperrors.ExitCodeFor(err)
	}

	if filterProgram != nil {
		result, err = result.Filter(filterProgram)
		if err != nil {
			slog.Error("filter evaluation failed", "error", err)
			return apperrors.ExitConfig
		}
	}

	writer := os.Stdout
	if outFile != "" {
		//nolint:gosec // G304: User-controlled output file path is intentional
		file, err := os.Create(outFile)
		if err != nil {
			slog.Error("failed to create output file", "error", err)
			return apperrors.ExitSystem
		}
		writer = file
	}

	formatter, err := output.NewFormatter(writer, format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return apperrors.ExitConfig
	}
	if err := formatter.Format(result); err != nil {
		slog.Error("failed to format output", "error", err)
		return apperrors.ExitSystem
	}
	if writer != os.Stdout {
		_ = writer.Close()
	}

	return result.ExitCode()
}

// buildExecutionConfig merges the system config file with command flags,
// flags winning.
func buildExecutionConfig() (engine.ExecutionConfig, error) {
	execConfig := engine.DefaultExecutionConfig()

	sysPath := cfgFile
	if sysPath == "" {
		if p, err := config.DefaultPath(); err == nil {
			sysPath = p
		}
	}
	sys, err := config.LoadSystemConfig(sysPath)
	if err != nil {
		slog.Debug("failed to load system config, using defaults", "error", err)
		sys = &config.SystemConfig{}
	}

	execConfig.TempDir = sys.TempDir
	execConfig.CacheDir = sys.CacheDir
	if sys.Concurrency > 0 {
		execConfig.MaxConcurrentGroups = sys.Concurrency
	}
	if concurrency > 0 {
		execConfig.MaxConcurrentGroups = concurrency
	}
	execConfig.Timeout = timeout

	execConfig.Selection = compiler.SelectionOptions{
		OverridePath:    firstNonEmpty(compilerPath, sys.Compiler.Path),
		ForceStandard:   useTSC || sys.Compiler.Prefer == "tsc",
		ForceAlternate:  useTSGo || sys.Compiler.Prefer == "tsgo",
		DisableFallback: noFallback || sys.Compiler.DisableFallback,
	}
	if useTSC && useTSGo {
		return execConfig, fmt.Errorf("--use-tsc and --use-tsgo are mutually exclusive")
	}

	if sys.Compiler.MinVersion != "" {
		min, err := semver.NewVersion(sys.Compiler.MinVersion)
		if err != nil {
			return execConfig, fmt.Errorf("invalid compiler.min_version %q: %w", sys.Compiler.MinVersion, err)
		}
		execConfig.MinVersion = min
	}

	return execConfig, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
