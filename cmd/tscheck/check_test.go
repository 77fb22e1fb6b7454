package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetCheckFlags(t *testing.T) {
	t.Helper()
	prev := []interface{}{projectPath, compilerPath, useTSC, useTSGo, noFallback, timeout, concurrency, cfgFile}
	t.Cleanup(func() {
		projectPath = prev[0].(string)
		compilerPath = prev[1].(string)
		useTSC = prev[2].(bool)
		useTSGo = prev[3].(bool)
		noFallback = prev[4].(bool)
		timeout = prev[5].(time.Duration)
		concurrency = prev[6].(int)
		cfgFile = prev[7].(string)
	})
	projectPath, compilerPath, cfgFile = "", "", ""
	useTSC, useTSGo, noFallback = false, false, false
	timeout, concurrency = 0, 0
}

func Test_BuildExecutionConfig_Defaults(t *testing.T) {
	resetCheckFlags(t)
	cfgFile = filepath.Join(t.TempDir(), "absent.yaml")

	cfg, err := buildExecutionConfig()
	require.NoError(t, err)

	assert.GreaterOrEqual(t, cfg.MaxConcurrentGroups, 2)
	assert.LessOrEqual(t, cfg.MaxConcurrentGroups, 16)
	assert.Zero(t, cfg.Timeout)
	assert.Nil(t, cfg.MinVersion)
	assert.False(t, cfg.Selection.DisableFallback)
}

func Test_BuildExecutionConfig_FlagsWinOverSystemConfig(t *testing.T) {
	resetCheckFlags(t)

	cfgFile = filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(`
concurrency: 2
compiler:
  path: /opt/tsc-from-config
`), 0o644))

	concurrency = 8
	compilerPath = "/opt/tsc-from-flag"

	cfg, err := buildExecutionConfig()
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.MaxConcurrentGroups)
	assert.Equal(t, "/opt/tsc-from-flag", cfg.Selection.OverridePath)
}

func Test_BuildExecutionConfig_SystemConfigFillsGaps(t *testing.T) {
	resetCheckFlags(t)

	cfgFile = filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(`
compiler:
  prefer: tsgo
  min_version: 5.6.0
`), 0o644))

	cfg, err := buildExecutionConfig()
	require.NoError(t, err)

	assert.True(t, cfg.Selection.ForceAlternate)
	require.NotNil(t, cfg.MinVersion)
	assert.Equal(t, "5.6.0", cfg.MinVersion.String())
}

func Test_BuildExecutionConfig_MutuallyExclusiveForces(t *testing.T) {
	resetCheckFlags(t)
	cfgFile = filepath.Join(t.TempDir(), "absent.yaml")

	useTSC = true
	useTSGo = true

	_, err := buildExecutionConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func Test_BuildExecutionConfig_BadMinVersion(t *testing.T) {
	resetCheckFlags(t)

	cfgFile = filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(`
compiler:
  min_version: not-a-version
`), 0o644))

	_, err := buildExecutionConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min_version")
}
