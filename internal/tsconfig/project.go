// Package tsconfig locates, parses and merges TypeScript project
// configurations. A resolved ProjectConfig is the fully flattened view of a
// tsconfig.json with its whole extends chain applied.
package tsconfig

import (
	"path/filepath"

	"github.com/tidwall/gjson"
)

// ConfigFileName is the configuration file the upward walk looks for.
const ConfigFileName = "tsconfig.json"

// ProjectConfig is an immutable, fully merged project configuration.
//
// CompilerOptions is carried as an opaque bag of raw JSON values keyed by
// option name; merge semantics never interpret values, and only the handful
// of options the engine reads get typed accessors below.
type ProjectConfig struct {
	// Path is the absolute path of the resolved tsconfig.json.
	Path string

	// CompilerOptions maps option name to its raw JSON value, with the
	// extends chain shallow-merged child-over-parent.
	CompilerOptions map[string]string

	// Files is the explicit file list, relative to Dir(). Nil when the
	// config declares no "files" entry; empty but non-nil when it declares
	// an empty one.
	Files []string

	// Include and Exclude patterns, relative to Dir(). Within an extends
	// chain each fully overrides the parent's.
	Include []string
	Exclude []string
}

// Dir returns the directory containing the configuration file. Relative
// paths inside the configuration resolve against it.
func (c *ProjectConfig) Dir() string {
	return filepath.Dir(c.Path)
}

// HasExplicitFiles reports whether the config declares a "files" list.
func (c *ProjectConfig) HasExplicitFiles() bool {
	return c.Files != nil
}

// boolOption reads a boolean compiler option; ok is false when the option is
// absent or not a boolean.
func (c *ProjectConfig) boolOption(name string) (value, ok bool) {
	raw, present := c.CompilerOptions[name]
	if !present {
		return false, false
	}
	v := gjson.Parse(raw)
	if !v.IsBool() {
		return false, false
	}
	return v.Bool(), true
}

// stringOption reads a string compiler option.
func (c *ProjectConfig) stringOption(name string) string {
	raw, present := c.CompilerOptions[name]
	if !present {
		return ""
	}
	v := gjson.Parse(raw)
	if v.Type != gjson.String {
		return ""
	}
	return v.String()
}

// Composite reports whether the project is a composite build unit.
func (c *ProjectConfig) Composite() bool {
	v, _ := c.boolOption("composite")
	return v
}

// Incremental reports whether the project writes incremental build
// artifacts. Composite implies incremental per compiler semantics.
func (c *ProjectConfig) Incremental() bool {
	if v, ok := c.boolOption("incremental"); ok {
		return v
	}
	return c.Composite()
}

// BuildInfoFile returns the declared build-artifact path, or "" when the
// compiler would pick its default location.
func (c *ProjectConfig) BuildInfoFile() string {
	return c.stringOption("tsBuildInfoFile")
}
