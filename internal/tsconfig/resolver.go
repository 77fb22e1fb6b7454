package tsconfig

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tscheck-dev/tscheck/internal/apperrors"
)

// Resolver locates the governing configuration for source files and resolves
// extends chains into flattened ProjectConfigs.
//
// Results are memoized per absolute config path for the lifetime of one
// Resolver, which is constructed fresh per top-level invocation: no
// cross-invocation staleness, no redundant hierarchy walks within a run.
// Population of each cache slot is synchronized per path, so concurrent
// lookups for the same config never duplicate the parse.
type Resolver struct {
	mu      sync.Mutex
	configs map[string]*configEntry
	dirs    map[string]string // start dir -> found config path; "" records a miss
}

type configEntry struct {
	done chan struct{}
	cfg  *ProjectConfig
	err  error
}

// NewResolver creates a resolver with empty caches.
func NewResolver() *Resolver {
	return &Resolver{
		configs: map[string]*configEntry{},
		dirs:    map[string]string{},
	}
}

// Resolve finds and fully merges the project configuration governing
// filePath. When explicitPath is non-empty it is parsed directly and no
// upward walk happens. Without an explicit path, ancestors of the file's
// directory are tested up to the filesystem root; no match is
// ConfigNotFound.
func (r *Resolver) Resolve(ctx context.Context, filePath, explicitPath string) (*ProjectConfig, error) {
	if explicitPath != "" {
		abs, err := filepath.Abs(explicitPath)
		if err != nil {
			return nil, apperrors.NewConfigInvalidError(explicitPath, "not resolvable to an absolute path", err)
		}
		return r.load(ctx, abs)
	}

	abs, err := filepath.Abs(filePath)
	if err != nil {
		return nil, apperrors.NewConfigInvalidError(filePath, "not resolvable to an absolute path", err)
	}
	startDir := filepath.Dir(abs)

	configPath, found := r.findConfig(startDir)
	if !found {
		return nil, apperrors.NewConfigNotFoundError(filePath, startDir)
	}
	return r.load(ctx, configPath)
}

// findConfig walks upward from dir testing each ancestor for a
// configuration file, stopping at the first hit or the filesystem root.
func (r *Resolver) findConfig(dir string) (string, bool) {
	r.mu.Lock()
	if cached, ok := r.dirs[dir]; ok {
		r.mu.Unlock()
		return cached, cached != ""
	}
	r.mu.Unlock()

	found := ""
	for current := dir; ; {
		candidate := filepath.Join(current, ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			found = candidate
			break
		}
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}

	r.mu.Lock()
	r.dirs[dir] = found
	r.mu.Unlock()
	return found, found != ""
}

// load returns the memoized flattened config for path, parsing it exactly
// once per Resolver even under concurrent callers.
func (r *Resolver) load(ctx context.Context, path string) (*ProjectConfig, error) {
	r.mu.Lock()
	entry, ok := r.configs[path]
	if !ok {
		entry = &configEntry{done: make(chan struct{})}
		r.configs[path] = entry
		r.mu.Unlock()

		entry.cfg, entry.err = r.loadChain(path, map[string]bool{})
		close(entry.done)
		return entry.cfg, entry.err
	}
	r.mu.Unlock()

	select {
	case <-entry.done:
		return entry.cfg, entry.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// loadChain parses path and applies its extends chain. visiting carries the
// paths currently on the chain so a circular reference fails as
// ConfigInvalid instead of recursing forever.
//
// Merge semantics follow the compiler's documented behavior: compilerOptions
// merge shallowly child-over-parent, "files" concatenate parent+child, and
// "include"/"exclude" fully override. Inherited relative paths are rebased
// from the parent's directory onto the child's.
func (r *Resolver) loadChain(path string, visiting map[string]bool) (*ProjectConfig, error) {
	if visiting[path] {
		return nil, apperrors.NewConfigInvalidError(path, "circular extends chain", nil)
	}
	visiting[path] = true
	defer delete(visiting, path)

	raw, err := readConfigFile(path)
	if err != nil {
		return nil, err
	}

	merged := &ProjectConfig{
		Path:            path,
		CompilerOptions: map[string]string{},
	}
	childDir := filepath.Dir(path)

	// Parents apply left-to-right, later parents winning, the child last.
	for _, ref := range raw.extends {
		parentPath, refErr := resolveExtendsRef(childDir, ref)
		if refErr != nil {
			return nil, apperrors.NewConfigInvalidError(path, "unresolvable extends reference "+quote(ref), refErr)
		}
		parent, parentErr := r.loadChain(parentPath, visiting)
		if parentErr != nil {
			return nil, parentErr
		}
		overlay(merged, parent, childDir)
	}

	for name, value := range raw.compilerOptions {
		merged.CompilerOptions[name] = value
	}
	if raw.filesSet {
		merged.Files = append(merged.Files, raw.files...)
	}
	if raw.includeSet {
		merged.Include = raw.include
	}
	if raw.excludeSet {
		merged.Exclude = raw.exclude
	}

	return merged, nil
}

// overlay applies a resolved parent config beneath the accumulating child.
func overlay(dst *ProjectConfig, parent *ProjectConfig, childDir string) {
	for name, value := range parent.CompilerOptions {
		dst.CompilerOptions[name] = value
	}
	parentDir := parent.Dir()
	if parent.Files != nil {
		rebased := rebasePaths(parentDir, childDir, parent.Files)
		dst.Files = append(dst.Files, rebased...)
	}
	if parent.Include != nil {
		dst.Include = rebasePaths(parentDir, childDir, parent.Include)
	}
	if parent.Exclude != nil {
		dst.Exclude = rebasePaths(parentDir, childDir, parent.Exclude)
	}
}

// rebasePaths re-expresses paths written relative to from as paths relative
// to to. Absolute entries pass through untouched.
func rebasePaths(from, to string, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if filepath.IsAbs(p) {
			out = append(out, p)
			continue
		}
		rel, err := filepath.Rel(to, filepath.Join(from, p))
		if err != nil {
			out = append(out, p)
			continue
		}
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

// resolveExtendsRef maps an extends reference to a config file path.
// "./x" and "../x" are local references relative to the extending config;
// anything else is a published-package reference looked up through
// node_modules, nearest directory first.
func resolveExtendsRef(dir, ref string) (string, error) {
	if filepath.IsAbs(ref) {
		return firstConfigCandidate(ref)
	}
	if strings.HasPrefix(ref, "./") || strings.HasPrefix(ref, "../") {
		return firstConfigCandidate(filepath.Join(dir, ref))
	}

	for current := dir; ; {
		base := filepath.Join(current, "node_modules", filepath.FromSlash(ref))
		if path, err := firstConfigCandidate(base); err == nil {
			return path, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}
	return "", os.ErrNotExist
}

// firstConfigCandidate tries the conventional spellings of a config
// reference: the path itself, the path with ".json" appended, and a
// tsconfig.json inside the path when it is a directory.
func firstConfigCandidate(base string) (string, error) {
	candidates := []string{base}
	if filepath.Ext(base) != ".json" {
		candidates = append(candidates, base+".json")
	}
	candidates = append(candidates, filepath.Join(base, ConfigFileName))

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", os.ErrNotExist
}

func quote(s string) string {
	return `"` + s + `"`
}
