// Package ephemeral synthesizes temporary check-only configurations that
// inherit a project's full compiler settings through extends.
package ephemeral

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/tscheck-dev/tscheck/internal/apperrors"
	"github.com/tscheck-dev/tscheck/internal/tsconfig"
)

// Config is one synthesized check-only configuration on disk. Created before
// the compiler is invoked and deleted unconditionally on every exit path.
type Config struct {
	// Path is the generated file in the synthesizer's temp location.
	Path string
	// ConfigPath is the original project configuration it extends.
	ConfigPath string
	// Files is the final file list, relative to the original config's
	// directory.
	Files []string

	once  sync.Once
	synth *Synthesizer
}

// Dispose removes the generated file. Idempotent: disposing twice never
// errors and never affects other configs.
func (c *Config) Dispose() {
	c.once.Do(func() {
		c.synth.forget(c.Path)
		_ = os.Remove(c.Path)
	})
}

// Synthesizer writes ephemeral configurations into a temp location and
// tracks every file it created so a run can always clean up after itself,
// whichever error class terminated it.
type Synthesizer struct {
	tempDir  string
	cacheDir string

	mu      sync.Mutex
	created map[string]bool
}

// New creates a synthesizer. tempDir defaults to the OS temp directory;
// cacheDir, used to redirect incremental build artifacts away from the
// working tree, defaults to a tscheck subdirectory of tempDir.
func New(tempDir, cacheDir string) *Synthesizer {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	if cacheDir == "" {
		cacheDir = filepath.Join(tempDir, "tscheck-cache")
	}
	return &Synthesizer{
		tempDir:  tempDir,
		cacheDir: cacheDir,
		created:  map[string]bool{},
	}
}

// Synthesize builds the check-only configuration for one group of member
// files governed by project.
//
// The generated config extends the original, lists the union of the
// original's explicit files and the group members (relative to the original
// config's directory, so import resolution is preserved), clears
// include/exclude to avoid widening scope, and forces noEmit. When the
// project writes incremental artifacts, the artifact path is redirected into
// the cache directory rather than polluting the working tree.
func (s *Synthesizer) Synthesize(project *tsconfig.ProjectConfig, members []string) (*Config, error) {
	files := mergeFileList(project, members)

	name := "tsconfig." + uuid.NewString() + ".json"
	path := filepath.Join(s.tempDir, name)

	doc := "{}"
	doc, _ = sjson.Set(doc, "extends", filepath.ToSlash(project.Path))
	doc, _ = sjson.Set(doc, "files", files)
	doc, _ = sjson.Set(doc, "include", []string{})
	doc, _ = sjson.Set(doc, "exclude", []string{})
	doc, _ = sjson.Set(doc, "compilerOptions.noEmit", true)
	if project.Composite() {
		// composite demands emit, which conflicts with a check-only run.
		doc, _ = sjson.Set(doc, "compilerOptions.composite", false)
	}
	if project.Incremental() || project.BuildInfoFile() != "" {
		buildInfo := filepath.Join(s.cacheDir, name+".tsbuildinfo")
		doc, _ = sjson.Set(doc, "compilerOptions.incremental", true)
		doc, _ = sjson.Set(doc, "compilerOptions.tsBuildInfoFile", filepath.ToSlash(buildInfo))
		if err := os.MkdirAll(s.cacheDir, 0o700); err != nil {
			return nil, apperrors.NewFileSystemError("create", s.cacheDir, err)
		}
	}

	// Owner-only permissions; the name comes from a random UUID, never from
	// user input.
	if err := os.WriteFile(path, pretty.Pretty([]byte(doc)), 0o600); err != nil {
		return nil, apperrors.NewFileSystemError("write", path, err)
	}

	s.mu.Lock()
	s.created[path] = true
	s.mu.Unlock()

	return &Config{
		Path:       path,
		ConfigPath: project.Path,
		Files:      files,
		synth:      s,
	}, nil
}

// CleanupAll removes every ephemeral file still on disk from this run. Safe
// to call alongside individual Dispose calls and after fatal errors.
func (s *Synthesizer) CleanupAll() {
	s.mu.Lock()
	paths := make([]string, 0, len(s.created))
	for path := range s.created {
		paths = append(paths, path)
	}
	s.created = map[string]bool{}
	s.mu.Unlock()

	for _, path := range paths {
		_ = os.Remove(path)
	}
}

func (s *Synthesizer) forget(path string) {
	s.mu.Lock()
	delete(s.created, path)
	s.mu.Unlock()
}

// mergeFileList unions the original explicit files with the group members,
// base files first, deduplicated, all relative to the config's directory.
func mergeFileList(project *tsconfig.ProjectConfig, members []string) []string {
	dir := project.Dir()
	seen := map[string]bool{}
	out := []string{}

	add := func(p string) {
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		out = append(out, p)
	}

	if project.HasExplicitFiles() {
		for _, f := range project.Files {
			add(filepath.ToSlash(f))
		}
	}
	for _, m := range members {
		add(relativeTo(dir, m))
	}
	return out
}

// relativeTo expresses path relative to dir when possible.
func relativeTo(dir, path string) string {
	if !filepath.IsAbs(path) {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
