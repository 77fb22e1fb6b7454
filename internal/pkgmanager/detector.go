// Package pkgmanager identifies the JavaScript package manager governing a
// project so binary search order can be biased toward its bin directory.
package pkgmanager

import (
	"os"
	"path/filepath"
)

// Kind names a package manager.
type Kind string

const (
	KindNPM     Kind = "npm"
	KindYarn    Kind = "yarn"
	KindPNPM    Kind = "pnpm"
	KindBun     Kind = "bun"
	KindUnknown Kind = ""
)

// Info describes the detected package manager for a project root.
type Info struct {
	Kind Kind
	// BinDirHint is the directory most likely to hold locally installed
	// executables, when one exists on disk.
	BinDirHint string
}

// lockFiles maps lockfile names to their package manager, in detection
// priority order (more specific managers first).
var lockFiles = []struct {
	name string
	kind Kind
}{
	{"pnpm-lock.yaml", KindPNPM},
	{"bun.lockb", KindBun},
	{"bun.lock", KindBun},
	{"yarn.lock", KindYarn},
	{"package-lock.json", KindNPM},
}

// Detect walks upward from dir looking for a lockfile and returns the
// matching package manager. With no lockfile anywhere the kind is unknown
// and only a node_modules/.bin hint, if present, is reported.
func Detect(dir string) Info {
	firstBin := ""
	for current := dir; ; {
		if firstBin == "" {
			firstBin = binDir(current)
		}
		for _, lf := range lockFiles {
			if _, err := os.Stat(filepath.Join(current, lf.name)); err == nil {
				hint := binDir(current)
				if hint == "" {
					hint = firstBin
				}
				return Info{Kind: lf.kind, BinDirHint: hint}
			}
		}
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}
	return Info{Kind: KindUnknown, BinDirHint: firstBin}
}

// binDir returns root's node_modules/.bin when it exists.
func binDir(root string) string {
	candidate := filepath.Join(root, "node_modules", ".bin")
	if info, err := os.Stat(candidate); err == nil && info.IsDir() {
		return candidate
	}
	return ""
}
