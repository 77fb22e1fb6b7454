package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tscheck-dev/tscheck/internal/apperrors"
	"github.com/tscheck-dev/tscheck/internal/compiler"
	"github.com/tscheck-dev/tscheck/internal/diagnostics"
	"github.com/tscheck-dev/tscheck/internal/pkgmanager"
)

// stubPlatform pretends the per-project node_modules/.bin tsc exists.
type stubPlatform struct{}

func (stubPlatform) ExecutableNames(base string) []string {
	return []string{base}
}

func (stubPlatform) IsExecutable(path string) bool {
	return filepath.Base(path) == "tsc" && filepath.Base(filepath.Dir(path)) == ".bin"
}

// compilerStub replays output per project directory and records every
// ephemeral config path it was pointed at.
type compilerStub struct {
	mu       sync.Mutex
	outputs  map[string]string // project dir -> stdout
	faults   map[string]error  // project dir -> spawn error
	projects []string          // --project values seen
}

func (c *compilerStub) run(_ context.Context, dir, _ string, args []string) (string, string, int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(args) >= 2 && args[0] == "--project" {
		c.projects = append(c.projects, args[1])
	}
	if err := c.faults[dir]; err != nil {
		return "", "", -1, err
	}
	out := c.outputs[dir]
	code := 0
	if out != "" {
		code = 2
	}
	return out, "", code, nil
}

func newTestEngine(stub *compilerStub, opts ...Option) *Engine {
	loc := compiler.NewLocator(
		stubPlatform{},
		compiler.WithDetector(func(string) pkgmanager.Info { return pkgmanager.Info{} }),
		compiler.WithLookPath(func(string) (string, error) { return "", errors.New("no PATH") }),
	)
	exec := compiler.NewExecutor(loc, compiler.WithRunner(stub.run))

	cfg := DefaultExecutionConfig()
	opts = append([]Option{WithExecutor(exec)}, opts...)
	return New(cfg, opts...)
}

func Test_Execute_SingleGroupWithErrors(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, `{"compilerOptions": {"strict": true}}`)
	a := touch(t, filepath.Join(root, "src", "a.ts"))
	b := touch(t, filepath.Join(root, "src", "b.ts"))

	stub := &compilerStub{outputs: map[string]string{
		root: "src/a.ts(4,2): error TS2322: Type 'string' is not assignable to type 'number'.\n",
	}}

	result, err := newTestEngine(stub).Execute(context.Background(), []string{a, b}, "")
	require.NoError(t, err)

	require.Len(t, result.Groups, 1)
	assert.Equal(t, 1, result.ErrorCount)
	assert.False(t, result.Success)
	assert.Equal(t, apperrors.ExitDiagnostics, result.ExitCode())
	assert.Equal(t, []string{a, b}, result.CheckedFiles)
	assert.Len(t, stub.projects, 1, "one shared config means one compiler run")
}

func Test_Execute_PartitionedProjectsMerge(t *testing.T) {
	root := t.TempDir()
	writeProject(t, filepath.Join(root, "web"), `{}`)
	writeProject(t, filepath.Join(root, "api"), `{}`)
	w := touch(t, filepath.Join(root, "web", "src", "page.ts"))
	a := touch(t, filepath.Join(root, "api", "src", "server.ts"))

	stub := &compilerStub{outputs: map[string]string{
		filepath.Join(root, "web"): "src/page.ts(2,1): error TS2304: Cannot find name 'foo'.\n",
		filepath.Join(root, "api"): "src/server.ts(8,5): error TS2322: Bad assignment.\n",
	}}

	result, err := newTestEngine(stub).Execute(context.Background(), []string{w, a}, "")
	require.NoError(t, err)

	assert.Len(t, result.Groups, 2)
	assert.Equal(t, 2, result.ErrorCount)
	require.Len(t, result.Diagnostics, 2)
	// Merged output is sorted by file, not by group completion order.
	assert.Equal(t, "src/page.ts", result.Diagnostics[0].File)
	assert.Equal(t, "src/server.ts", result.Diagnostics[1].File)
}

func Test_Execute_CleanRunSucceeds(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, `{}`)
	a := touch(t, filepath.Join(root, "src", "a.ts"))

	stub := &compilerStub{}

	result, err := newTestEngine(stub).Execute(context.Background(), []string{a}, "")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, apperrors.ExitOK, result.ExitCode())
	assert.Empty(t, result.Diagnostics)
}

func Test_Execute_EphemeralConfigsAlwaysRemoved(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, `{}`)
	a := touch(t, filepath.Join(root, "src", "a.ts"))

	stub := &compilerStub{outputs: map[string]string{
		root: "src/a.ts(1,1): error TS2322: bad.\n",
	}}

	_, err := newTestEngine(stub).Execute(context.Background(), []string{a}, "")
	require.NoError(t, err)

	require.NotEmpty(t, stub.projects)
	for _, path := range stub.projects {
		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr), "ephemeral config %s must be deleted", path)
	}
}

func Test_Execute_GroupFaultDoesNotStopSiblings(t *testing.T) {
	root := t.TempDir()
	writeProject(t, filepath.Join(root, "web"), `{}`)
	writeProject(t, filepath.Join(root, "api"), `{}`)
	w := touch(t, filepath.Join(root, "web", "src", "page.ts"))
	a := touch(t, filepath.Join(root, "api", "src", "server.ts"))

	stub := &compilerStub{
		faults: map[string]error{filepath.Join(root, "web"): errors.New("exec format error")},
		outputs: map[string]string{
			filepath.Join(root, "api"): "src/server.ts(8,5): error TS2322: Bad assignment.\n",
		},
	}

	result, err := newTestEngine(stub).Execute(context.Background(), []string{w, a}, "")
	require.NoError(t, err)

	assert.True(t, result.HasGroupFault())
	assert.Equal(t, apperrors.ExitSystem, result.ExitCode())
	assert.NotEmpty(t, result.Groups[0].ErrMessage)
	// The healthy group still reported its findings.
	assert.Equal(t, 1, result.ErrorCount)
	assert.Equal(t, []string{w, a}, result.CheckedFiles)
}

func Test_Execute_ConfigErrorAbortsBeforeSpawn(t *testing.T) {
	orphan := touch(t, filepath.Join(t.TempDir(), "src", "a.ts"))

	stub := &compilerStub{}

	_, err := newTestEngine(stub).Execute(context.Background(), []string{orphan}, "")
	require.Error(t, err)
	assert.Equal(t, apperrors.ExitConfig, apperrors.ExitCodeFor(err))
	assert.Empty(t, stub.projects, "no compiler may spawn on a config error")
}

// recordingSink captures events for assertion.
type recordingSink struct {
	mu        sync.Mutex
	started   []GroupStarted
	completed []GroupCompleted
	diags     []diagnostics.Diagnostic
}

func (s *recordingSink) OnGroupStarted(ev GroupStarted) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = append(s.started, ev)
}

func (s *recordingSink) OnGroupCompleted(ev GroupCompleted) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completed = append(s.completed, ev)
}

func (s *recordingSink) OnDiagnostic(d diagnostics.Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diags = append(s.diags, d)
}

func Test_Execute_EmitsProgressEvents(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, `{}`)
	a := touch(t, filepath.Join(root, "src", "a.ts"))

	stub := &compilerStub{outputs: map[string]string{
		root: "src/a.ts(1,1): error TS2322: bad.\n",
	}}
	sink := &recordingSink{}

	_, err := newTestEngine(stub, WithSink(sink)).Execute(context.Background(), []string{a}, "")
	require.NoError(t, err)

	require.Len(t, sink.started, 1)
	assert.Equal(t, 1, sink.started[0].FileCount)
	require.Len(t, sink.completed, 1)
	assert.Equal(t, 1, sink.completed[0].Errors)
	assert.Len(t, sink.diags, 1)
}
