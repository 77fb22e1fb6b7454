package tsconfig

import (
	"os"

	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"

	"github.com/tscheck-dev/tscheck/internal/apperrors"
)

// rawConfig is one parsed configuration file before extends resolution.
// Lists keep the exact strings the author wrote; they stay relative to the
// file's own directory until merging rebases them.
type rawConfig struct {
	path            string
	extends         []string
	compilerOptions map[string]string
	files           []string
	filesSet        bool
	include         []string
	includeSet      bool
	exclude         []string
	excludeSet      bool
}

// readConfigFile parses a single tsconfig.json. tsconfig is JSONC: comments
// and trailing commas are legal, so the bytes go through a JSONC-to-JSON
// translation before structured access.
func readConfigFile(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewConfigNotFoundError(path, "")
		}
		return nil, apperrors.NewConfigInvalidError(path, "unreadable", err)
	}

	doc := string(jsonc.ToJSON(data))
	if !gjson.Valid(doc) {
		return nil, apperrors.NewConfigInvalidError(path, "malformed JSON", nil)
	}
	root := gjson.Parse(doc)
	if !root.IsObject() {
		return nil, apperrors.NewConfigInvalidError(path, "top-level value is not an object", nil)
	}

	raw := &rawConfig{
		path:            path,
		compilerOptions: map[string]string{},
	}

	// "extends" accepts a single reference or, since TS 5.0, an array.
	switch ext := root.Get("extends"); {
	case ext.Type == gjson.String:
		raw.extends = []string{ext.String()}
	case ext.IsArray():
		for _, ref := range ext.Array() {
			raw.extends = append(raw.extends, ref.String())
		}
	}

	if opts := root.Get("compilerOptions"); opts.IsObject() {
		opts.ForEach(func(key, value gjson.Result) bool {
			raw.compilerOptions[key.String()] = value.Raw
			return true
		})
	}

	raw.files, raw.filesSet = stringList(root.Get("files"))
	raw.include, raw.includeSet = stringList(root.Get("include"))
	raw.exclude, raw.excludeSet = stringList(root.Get("exclude"))

	return raw, nil
}

func stringList(v gjson.Result) ([]string, bool) {
	if !v.IsArray() {
		return nil, false
	}
	items := []string{}
	for _, item := range v.Array() {
		items = append(items, item.String())
	}
	return items, true
}
