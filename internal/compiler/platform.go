// Package compiler resolves and safely executes the TypeScript compiler.
//
// Two interchangeable implementations are supported: the standard tsc and
// the faster native tsgo. Resolution produces an ordered list of candidate
// binaries with a uniform execute-or-fail contract, so adding a third
// implementation later is a data change, not a control-flow change.
package compiler

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Platform isolates executable-name and permission differences between
// operating systems so the locator and executor stay platform-agnostic.
// Tests substitute it to exercise both conventions on any host.
type Platform interface {
	// ExecutableNames expands a bare command name into the file names that
	// may hold it, in probe order.
	ExecutableNames(base string) []string
	// IsExecutable reports whether path exists and is runnable.
	IsExecutable(path string) bool
}

// DefaultPlatform returns the adapter for the current OS.
func DefaultPlatform() Platform {
	if runtime.GOOS == "windows" {
		return WindowsPlatform{}
	}
	return UnixPlatform{}
}

// UnixPlatform implements Platform for POSIX systems.
type UnixPlatform struct{}

func (UnixPlatform) ExecutableNames(base string) []string {
	return []string{base}
}

func (UnixPlatform) IsExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode()&0o111 != 0
}

// WindowsPlatform implements Platform for Windows, where npm installs
// script wrappers with .cmd extensions and the executable bit is
// meaningless.
type WindowsPlatform struct{}

func (WindowsPlatform) ExecutableNames(base string) []string {
	return []string{base + ".cmd", base + ".exe", base}
}

func (WindowsPlatform) IsExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cmd", ".exe", ".bat":
		return true
	default:
		return false
	}
}
