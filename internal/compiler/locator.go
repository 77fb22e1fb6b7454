package compiler

import (
	"context"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/tscheck-dev/tscheck/internal/apperrors"
	"github.com/tscheck-dev/tscheck/internal/pkgmanager"
)

// Implementation names one compiler binary flavor.
type Implementation string

const (
	// ImplAlternate is the native-port tsgo, preferred when installed.
	ImplAlternate Implementation = "tsgo"
	// ImplStandard is the stock TypeScript compiler.
	ImplStandard Implementation = "tsc"
	// ImplOverride marks an explicit caller-supplied binary.
	ImplOverride Implementation = "override"
)

// Candidate is one runnable compiler binary, in fallback order.
type Candidate struct {
	Impl Implementation
	Path string
}

// SelectionOptions carries the caller's compiler-selection flags.
type SelectionOptions struct {
	// OverridePath is an explicit binary path taking precedence over all
	// discovery.
	OverridePath string
	// ForceStandard skips the alternate implementation.
	ForceStandard bool
	// ForceAlternate demands the alternate implementation.
	ForceAlternate bool
	// DisableFallback stops after the first candidate instead of falling
	// back on execution failure.
	DisableFallback bool
}

// Locator finds compiler binaries. Search order for each implementation:
// project-scoped node_modules/.bin walking upward, the detected package
// manager's bin directory, then PATH.
type Locator struct {
	platform Platform
	detect   func(dir string) pkgmanager.Info
	lookPath func(name string) (string, error)
}

// LocatorOption configures a Locator.
type LocatorOption func(*Locator)

// WithDetector substitutes package-manager detection.
func WithDetector(detect func(dir string) pkgmanager.Info) LocatorOption {
	return func(l *Locator) {
		l.detect = detect
	}
}

// WithLookPath substitutes PATH lookup.
func WithLookPath(lookPath func(name string) (string, error)) LocatorOption {
	return func(l *Locator) {
		l.lookPath = lookPath
	}
}

// NewLocator creates a locator using the host platform, lockfile-based
// package-manager detection and PATH lookup.
func NewLocator(platform Platform, opts ...LocatorOption) *Locator {
	if platform == nil {
		platform = DefaultPlatform()
	}
	l := &Locator{
		platform: platform,
		detect:   pkgmanager.Detect,
		lookPath: exec.LookPath,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Candidates resolves the ordered list of compiler binaries for a project
// directory. An empty list never returns: exhausting every search location
// is a SystemError.
func (l *Locator) Candidates(projectDir string, opts SelectionOptions) ([]Candidate, error) {
	var out []Candidate

	if opts.OverridePath != "" {
		if l.platform.IsExecutable(opts.OverridePath) {
			out = append(out, Candidate{Impl: ImplOverride, Path: opts.OverridePath})
		} else if opts.DisableFallback {
			return nil, apperrors.NewSystemError("compiler override is not executable: "+opts.OverridePath, nil)
		}
	}

	if !opts.ForceStandard {
		if path, ok := l.find(string(ImplAlternate), projectDir); ok {
			out = append(out, Candidate{Impl: ImplAlternate, Path: path})
		} else if opts.ForceAlternate && opts.DisableFallback {
			return nil, apperrors.NewSystemError("tsgo requested but not installed", nil)
		}
	}

	if !opts.ForceAlternate || !opts.DisableFallback {
		if path, ok := l.find(string(ImplStandard), projectDir); ok {
			out = append(out, Candidate{Impl: ImplStandard, Path: path})
		}
	}

	if len(out) == 0 {
		return nil, apperrors.NewSystemError(
			"no TypeScript compiler found (searched node_modules/.bin, package manager bin, PATH)", nil)
	}
	if opts.DisableFallback {
		out = out[:1]
	}
	return out, nil
}

// find locates one implementation binary for a project directory.
func (l *Locator) find(name, projectDir string) (string, bool) {
	for _, dir := range l.searchDirs(projectDir) {
		for _, file := range l.platform.ExecutableNames(name) {
			path := filepath.Join(dir, file)
			if l.platform.IsExecutable(path) {
				return path, true
			}
		}
	}
	for _, file := range l.platform.ExecutableNames(name) {
		if path, err := l.lookPath(file); err == nil {
			return path, true
		}
	}
	return "", false
}

// searchDirs lists project-scoped bin directories nearest-first, with the
// package manager's hint appended when it adds a new location.
func (l *Locator) searchDirs(projectDir string) []string {
	var dirs []string
	seen := map[string]bool{}
	for current := projectDir; ; {
		bin := filepath.Join(current, "node_modules", ".bin")
		if !seen[bin] {
			seen[bin] = true
			dirs = append(dirs, bin)
		}
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}
	if info := l.detect(projectDir); info.BinDirHint != "" && !seen[info.BinDirHint] {
		dirs = append(dirs, info.BinDirHint)
	}
	return dirs
}

var versionPattern = regexp.MustCompile(`(\d+\.\d+\.\d+[-+.0-9A-Za-z]*)`)

// Probe runs `<binary> --version` and parses the reported version. Used to
// enforce a configured minimum compiler version; a binary that cannot report
// a version is treated as unavailable by the caller.
func (l *Locator) Probe(ctx context.Context, binary string) (*semver.Version, error) {
	out, err := exec.CommandContext(ctx, binary, "--version").Output()
	if err != nil {
		return nil, apperrors.NewSystemError("version probe failed for "+binary, err)
	}
	m := versionPattern.FindString(strings.TrimSpace(string(out)))
	if m == "" {
		return nil, apperrors.NewSystemError("unrecognized version output from "+binary, nil)
	}
	v, err := semver.NewVersion(m)
	if err != nil {
		return nil, apperrors.NewSystemError("unparseable compiler version "+m, err)
	}
	return v, nil
}
