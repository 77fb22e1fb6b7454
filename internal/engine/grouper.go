package engine

import (
	"context"
	"path/filepath"

	"github.com/tscheck-dev/tscheck/internal/tsconfig"
)

// FileGroup is the set of requested files sharing one resolved project
// configuration. Member order follows input order, deduplicated.
type FileGroup struct {
	ConfigPath string
	Files      []string
}

// GroupFiles partitions the input files by their resolved configuration.
// Groups come back in first-appearance order with the resolved configs keyed
// by path, so downstream stages never re-resolve.
//
// With an explicit config path every file lands in one group (the fast path
// for single-project repos); otherwise N files partition into K ≤ N groups.
func GroupFiles(ctx context.Context, files []string, explicitConfig string, resolver *tsconfig.Resolver) ([]FileGroup, map[string]*tsconfig.ProjectConfig, error) {
	normalized, err := normalizeFiles(files)
	if err != nil {
		return nil, nil, err
	}

	groups := []FileGroup{}
	indexByConfig := map[string]int{}
	configs := map[string]*tsconfig.ProjectConfig{}

	for _, file := range normalized {
		project, err := resolver.Resolve(ctx, file, explicitConfig)
		if err != nil {
			return nil, nil, err
		}

		idx, ok := indexByConfig[project.Path]
		if !ok {
			idx = len(groups)
			indexByConfig[project.Path] = idx
			groups = append(groups, FileGroup{ConfigPath: project.Path})
			configs[project.Path] = project
		}
		groups[idx].Files = append(groups[idx].Files, file)
	}

	return groups, configs, nil
}

// normalizeFiles makes every input absolute and removes duplicates while
// preserving order.
func normalizeFiles(files []string) ([]string, error) {
	seen := map[string]bool{}
	out := make([]string, 0, len(files))
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, err
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		out = append(out, abs)
	}
	return out, nil
}
