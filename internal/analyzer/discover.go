package analyzer

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// discoverSources walks root and returns the relative paths of every Python
// source file, in lexical order. Directories named in exclude and hidden
// directories are skipped.
func discoverSources(root string, exclude []string) ([]string, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, err
	}

	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skip[name] = true
	}

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Unreadable entries degrade to a smaller result set
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			if skip[d.Name()] || strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(d.Name(), ".py") && !strings.HasSuffix(d.Name(), ".pyi") {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}
