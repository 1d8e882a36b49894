// Package plugin loads metaclass filter overrides from Starlark files.
// An exported function named metaclass_filters_<key> serves the
// metaclass whose conventional name is the title-cased key
// (metaclass_filters_service_meta serves ServiceMeta). A plugin.yaml
// manifest maps names the convention cannot express.
package plugin

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

const overridePrefix = "metaclass_filters_"

// Loader scans a directory for .star plugin files.
type Loader struct {
	dir  string
	pool *threadPool
	log  *slog.Logger
}

// NewLoader creates a loader for the given plugins directory. A nil
// logger discards override call failures.
func NewLoader(dir string, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Loader{dir: dir, pool: newThreadPool(4), log: log}
}

// Plugin is one loaded .star file.
type Plugin struct {
	// Namespace is the filename without the .star suffix.
	Namespace string
	// Path is the location the file was loaded from.
	Path string
	// Exports lists the exported names, sorted.
	Exports []string
}

// Set is everything loaded from a plugins directory.
type Set struct {
	Name        string
	Description string
	Plugins     []*Plugin

	overrides map[string]*Override
}

type exportRef struct {
	namespace string
	fn        starlark.Callable
}

// Load reads the manifest and every .star file in the directory. A
// missing directory yields an empty set.
func (l *Loader) Load() (*Set, error) {
	set := &Set{overrides: make(map[string]*Override)}

	info, err := os.Stat(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return set, nil
		}
		return nil, fmt.Errorf("failed to access plugins directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("plugins path is not a directory: %s", l.dir)
	}

	manifest, err := readManifest(l.dir)
	if err != nil {
		return nil, err
	}
	if manifest != nil {
		set.Name = manifest.Name
		set.Description = manifest.Description
	}

	files, err := filepath.Glob(filepath.Join(l.dir, "*.star"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan plugins directory: %w", err)
	}

	exports := make(map[string]exportRef)
	for _, file := range files {
		p, globals, err := l.loadFile(file)
		if err != nil {
			return nil, err
		}
		set.Plugins = append(set.Plugins, p)

		for name, value := range globals {
			fn, ok := value.(starlark.Callable)
			if !ok {
				continue
			}
			exports[name] = exportRef{namespace: p.Namespace, fn: fn}

			if key, found := strings.CutPrefix(name, overridePrefix); found && key != "" {
				meta := keyToMetaclass(key)
				set.overrides[meta] = l.newOverride(meta, name, p.Namespace, fn)
			}
		}
	}

	// Explicit manifest mappings win over the naming convention.
	if manifest != nil {
		for meta, fnName := range manifest.Overrides {
			ref, ok := exports[fnName]
			if !ok {
				return nil, &LoadError{
					File:    manifest.path,
					Message: fmt.Sprintf("override function %s for metaclass %s is not exported by any plugin", fnName, meta),
				}
			}
			set.overrides[meta] = l.newOverride(meta, fnName, ref.namespace, ref.fn)
		}
	}

	return set, nil
}

// loadFile executes one .star file and collects its exports, names
// starting with an underscore excluded.
func (l *Loader) loadFile(path string) (*Plugin, starlark.StringDict, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, &LoadError{File: path, Message: fmt.Sprintf("failed to read file: %v", err)}
	}

	namespace := strings.TrimSuffix(filepath.Base(path), ".star")
	if err := validateNamespace(namespace); err != nil {
		return nil, nil, &LoadError{File: path, Message: err.Error()}
	}

	thread := l.pool.get("load:" + namespace)
	defer l.pool.put(thread)

	globals, err := starlark.ExecFileOptions(&syntax.FileOptions{}, thread, path, content, nil)
	if err != nil {
		return nil, nil, &LoadError{File: path, Message: fmt.Sprintf("Starlark execution error: %v", err)}
	}

	p := &Plugin{Namespace: namespace, Path: path}
	exported := make(starlark.StringDict)
	for name, value := range globals {
		if strings.HasPrefix(name, "_") {
			continue
		}
		exported[name] = value
		p.Exports = append(p.Exports, name)
	}
	sort.Strings(p.Exports)

	return p, exported, nil
}

// keyToMetaclass title-cases each underscore segment: service_meta
// becomes ServiceMeta.
func keyToMetaclass(key string) string {
	var b strings.Builder
	for _, part := range strings.Split(key, "_") {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

// validateNamespace checks that a namespace is a usable identifier.
func validateNamespace(name string) error {
	if name == "" {
		return fmt.Errorf("namespace cannot be empty")
	}
	for i, r := range name {
		if i == 0 {
			if !isLetter(r) && r != '_' {
				return fmt.Errorf("namespace must start with letter or underscore: %s", name)
			}
		} else {
			if !isLetter(r) && !isDigit(r) && r != '_' {
				return fmt.Errorf("namespace contains invalid character: %s", name)
			}
		}
	}
	return nil
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// LoadError is a failure loading one plugin file.
type LoadError struct {
	File    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("plugins/%s: %s", filepath.Base(e.File), e.Message)
}
