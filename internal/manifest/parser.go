package manifest

import (
	"fmt"
	"io/fs"
	"path"

	"go.yaml.in/yaml/v3"
)

// Parse decodes manifest YAML without validating it.
func Parse(data []byte) (*PluginManifest, error) {
	var m PluginManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}

// Load reads dir/plugin.yaml from fsys, validates it against the schema and
// returns the parsed manifest. Schema violations are reported as a
// *InvalidError.
func Load(fsys fs.FS, dir string) (*PluginManifest, error) {
	p := path.Join(dir, FileName)
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", p, err)
	}

	issues, err := Validate(data)
	if err != nil {
		return nil, fmt.Errorf("validating %s: %w", p, err)
	}
	if len(issues) > 0 {
		return nil, &InvalidError{Path: p, Issues: issues}
	}

	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	return m, nil
}
