package plugin

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/pylens/internal/testutil"
)

func writePluginDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "plugins")
	if err := os.Mkdir(dir, 0755); err != nil {
		t.Fatal(err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoader_Load(t *testing.T) {
	tests := []struct {
		name           string
		setupDir       func(t *testing.T) string
		wantPlugins    int
		wantErr        bool
		wantErrPart    string
		wantNamespaces []string
		wantOverrides  map[string]string // metaclass -> function
	}{
		{
			name: "empty directory",
			setupDir: func(t *testing.T) string {
				return writePluginDir(t, nil)
			},
			wantPlugins: 0,
		},
		{
			name: "non-existent directory",
			setupDir: func(t *testing.T) string {
				return "/nonexistent/path/to/plugins"
			},
			wantPlugins: 0,
		},
		{
			name: "not a directory",
			setupDir: func(t *testing.T) string {
				dir := t.TempDir()
				filePath := filepath.Join(dir, "plugins")
				if err := os.WriteFile(filePath, []byte("not a dir"), 0644); err != nil {
					t.Fatal(err)
				}
				return filePath
			},
			wantErr:     true,
			wantErrPart: "not a directory",
		},
		{
			name: "single file with overrides",
			setupDir: func(t *testing.T) string {
				return writePluginDir(t, map[string]string{
					"orm.star": `
version = "1"

def metaclass_filters_meta(class_name, metaclass_names):
    return ["objects"]

def metaclass_filters_service_meta(class_name, metaclass_names):
    return ["register"]

def _helper():
    return None
`,
				})
			},
			wantPlugins:    1,
			wantNamespaces: []string{"orm"},
			wantOverrides: map[string]string{
				"Meta":        "metaclass_filters_meta",
				"ServiceMeta": "metaclass_filters_service_meta",
			},
		},
		{
			name: "multiple files",
			setupDir: func(t *testing.T) string {
				return writePluginDir(t, map[string]string{
					"django.star": "def metaclass_filters_model_base(class_name, metaclass_names):\n    return []\n",
					"attrs.star":  "def metaclass_filters_attr_meta(class_name, metaclass_names):\n    return []\n",
				})
			},
			wantPlugins:    2,
			wantNamespaces: []string{"attrs", "django"},
			wantOverrides: map[string]string{
				"ModelBase": "metaclass_filters_model_base",
				"AttrMeta":  "metaclass_filters_attr_meta",
			},
		},
		{
			name: "syntax error names the file",
			setupDir: func(t *testing.T) string {
				return writePluginDir(t, map[string]string{
					"broken.star": "def oops(:\n",
				})
			},
			wantErr:     true,
			wantErrPart: "broken.star",
		},
		{
			name: "invalid namespace",
			setupDir: func(t *testing.T) string {
				return writePluginDir(t, map[string]string{
					"1bad.star": "x = 1\n",
				})
			},
			wantErr:     true,
			wantErrPart: "1bad.star",
		},
		{
			name: "manifest maps irregular names",
			setupDir: func(t *testing.T) string {
				return writePluginDir(t, map[string]string{
					"plugin.yaml": `
name: orm-filters
description: Member filters for ORM metaclasses
overrides:
  ABCMeta: abstract_members
`,
					"abc.star": `
def abstract_members(class_name, metaclass_names):
    return ["register"]
`,
				})
			},
			wantPlugins:    1,
			wantNamespaces: []string{"abc"},
			wantOverrides: map[string]string{
				"ABCMeta": "abstract_members",
			},
		},
		{
			name: "manifest wins over convention",
			setupDir: func(t *testing.T) string {
				return writePluginDir(t, map[string]string{
					"plugin.yaml": "overrides:\n  Meta: custom_members\n",
					"orm.star": `
def metaclass_filters_meta(class_name, metaclass_names):
    return ["from_convention"]

def custom_members(class_name, metaclass_names):
    return ["from_manifest"]
`,
				})
			},
			wantPlugins: 1,
			wantOverrides: map[string]string{
				"Meta": "custom_members",
			},
		},
		{
			name: "manifest function missing",
			setupDir: func(t *testing.T) string {
				return writePluginDir(t, map[string]string{
					"plugin.yaml": "overrides:\n  Meta: no_such_function\n",
					"orm.star":    "x = 1\n",
				})
			},
			wantErr:     true,
			wantErrPart: "no_such_function",
		},
		{
			name: "manifest invalid yaml",
			setupDir: func(t *testing.T) string {
				return writePluginDir(t, map[string]string{
					"plugin.yaml": "overrides: [not a map\n",
				})
			},
			wantErr:     true,
			wantErrPart: "plugin.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tt.setupDir(t)
			set, err := NewLoader(dir, testutil.NewTestLogger(t)).Load()

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if tt.wantErrPart != "" && !strings.Contains(err.Error(), tt.wantErrPart) {
					t.Errorf("expected error mentioning %q, got %q", tt.wantErrPart, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(set.Plugins) != tt.wantPlugins {
				t.Errorf("expected %d plugins, got %d", tt.wantPlugins, len(set.Plugins))
			}

			for i, ns := range tt.wantNamespaces {
				if i >= len(set.Plugins) {
					break
				}
				if set.Plugins[i].Namespace != ns {
					t.Errorf("plugin %d: expected namespace %q, got %q", i, ns, set.Plugins[i].Namespace)
				}
			}

			if tt.wantOverrides != nil {
				overrides := set.Overrides()
				if len(overrides) != len(tt.wantOverrides) {
					t.Fatalf("expected %d overrides, got %d", len(tt.wantOverrides), len(overrides))
				}
				for _, ov := range overrides {
					want, ok := tt.wantOverrides[ov.Metaclass]
					if !ok {
						t.Errorf("unexpected override for metaclass %q", ov.Metaclass)
						continue
					}
					if ov.Function != want {
						t.Errorf("metaclass %q: expected function %q, got %q", ov.Metaclass, want, ov.Function)
					}
				}
			}
		})
	}
}

func TestLoader_LoadError_Type(t *testing.T) {
	dir := writePluginDir(t, map[string]string{"broken.star": "def oops(:\n"})

	_, err := NewLoader(dir, nil).Load()
	if err == nil {
		t.Fatal("expected error")
	}

	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %T", err)
	}
	if filepath.Base(loadErr.File) != "broken.star" {
		t.Errorf("expected error to name broken.star, got %q", loadErr.File)
	}
	if !strings.HasPrefix(loadErr.Error(), "plugins/broken.star:") {
		t.Errorf("unexpected error format: %q", loadErr.Error())
	}
}

func TestLoader_ManifestMetadata(t *testing.T) {
	dir := writePluginDir(t, map[string]string{
		"plugin.yaml": "name: my-filters\ndescription: Project metaclass filters\n",
	})

	set, err := NewLoader(dir, nil).Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Name != "my-filters" {
		t.Errorf("expected name my-filters, got %q", set.Name)
	}
	if set.Description != "Project metaclass filters" {
		t.Errorf("expected description to carry over, got %q", set.Description)
	}
}

func TestKeyToMetaclass(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"meta", "Meta"},
		{"service_meta", "ServiceMeta"},
		{"model_base", "ModelBase"},
		{"a_b_c", "ABC"},
		{"double__underscore", "DoubleUnderscore"},
	}

	for _, tt := range tests {
		if got := keyToMetaclass(tt.key); got != tt.want {
			t.Errorf("keyToMetaclass(%q): expected %q, got %q", tt.key, tt.want, got)
		}
	}
}

func TestThreadPool_Reuse(t *testing.T) {
	pool := newThreadPool(2)

	first := pool.get("a")
	if first == nil || first.Name != "a" {
		t.Fatal("expected a named thread")
	}
	pool.put(first)

	second := pool.get("b")
	if second != first {
		t.Error("expected the pooled thread to be reused")
	}
	if second.Name != "b" {
		t.Errorf("expected reused thread renamed to b, got %q", second.Name)
	}
}
