//go:build governance

package inference_test

import (
	"sort"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

const modulePath = "github.com/leapstack-labs/pylens"

// =============================================================================
// BOUNDARY TEST - The inference core stays decoupled from the application
// =============================================================================

// TestGovernance_CoreImportBoundary verifies the layering rule of the engine:
// pkg/inference may import only pkg/pytree and the standard library, and
// pkg/pytree may import only the tree-sitter bindings and the standard
// library. Everything else (storage, CLI, server, plugins) sits above and
// must depend downward.
func TestGovernance_CoreImportBoundary(t *testing.T) {
	allowed := map[string][]string{
		modulePath + "/pkg/inference": {
			modulePath + "/pkg/pytree",
		},
		modulePath + "/pkg/pytree": {
			"github.com/smacker/go-tree-sitter",
		},
	}

	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedImports,
	}
	pkgs, err := packages.Load(cfg, modulePath+"/pkg/...")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}

	for _, pkg := range pkgs {
		prefixes, guarded := allowed[pkg.PkgPath]
		if !guarded {
			continue
		}

		imports := make([]string, 0, len(pkg.Imports))
		for path := range pkg.Imports {
			imports = append(imports, path)
		}
		sort.Strings(imports)

		for _, path := range imports {
			if isStdlib(path) || hasAnyPrefix(path, prefixes) {
				continue
			}
			t.Errorf("BOUNDARY VIOLATION: '%s' imports '%s'.\n"+
				"   Fix: The engine core depends only on the syntax layer; wire "+
				"application concerns in internal/ instead.",
				strings.TrimPrefix(pkg.PkgPath, modulePath+"/"), path)
		}
	}
}

// =============================================================================
// DIRECTION TEST - Library packages never reach into the application
// =============================================================================

// TestGovernance_NoInternalFromPkg ensures nothing under pkg/ imports
// internal/. The pkg tree is the reusable surface; a pkg -> internal edge
// would invert the dependency direction.
func TestGovernance_NoInternalFromPkg(t *testing.T) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedImports,
	}
	pkgs, err := packages.Load(cfg, modulePath+"/pkg/...")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}

	for _, pkg := range pkgs {
		if strings.HasSuffix(pkg.PkgPath, "_test") {
			continue
		}
		for path := range pkg.Imports {
			if strings.HasPrefix(path, modulePath+"/internal/") {
				t.Errorf("DIRECTION VIOLATION: '%s' imports '%s'.\n"+
					"   Fix: Move the shared code under pkg/ or invert the dependency.",
					strings.TrimPrefix(pkg.PkgPath, modulePath+"/"), path)
			}
		}
	}
}

// isStdlib reports whether an import path belongs to the standard library:
// the first path element of a module path always carries a dot.
func isStdlib(path string) bool {
	first := path
	if i := strings.IndexByte(path, '/'); i >= 0 {
		first = path[:i]
	}
	return !strings.Contains(first, ".")
}

// hasAnyPrefix reports whether path starts with any of the given prefixes.
func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}
