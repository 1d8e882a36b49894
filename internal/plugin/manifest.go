package plugin

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Manifest is the optional plugin.yaml descriptor of a plugins
// directory.
type Manifest struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Overrides maps metaclass names to exported override functions,
	// for metaclasses the metaclass_filters_<key> convention cannot
	// name (acronyms like ABCMeta).
	Overrides map[string]string `yaml:"overrides"`

	path string
}

// readManifest returns the parsed manifest, or nil when the directory
// has none.
func readManifest(dir string) (*Manifest, error) {
	for _, name := range []string{"plugin.yaml", "plugin.yml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, &LoadError{File: path, Message: fmt.Sprintf("failed to read manifest: %v", err)}
		}

		m := &Manifest{path: path}
		if err := yaml.Unmarshal(data, m); err != nil {
			return nil, &LoadError{File: path, Message: fmt.Sprintf("invalid manifest: %v", err)}
		}
		return m, nil
	}
	return nil, nil
}
