package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/pylens/internal/cli/config"
)

// generateConfigDocs generates the configuration reference.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating config docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := generateConfigurationDoc(outDir); err != nil {
		return fmt.Errorf("failed to generate configuration.md: %w", err)
	}
	log.Printf("  Generated configuration.md")

	return nil
}

// ConfigField represents a configuration field definition.
type ConfigField struct {
	Name        string
	Type        string
	Default     string
	Description string
	Category    string // "project", "server", "limits"
}

// getConfigSchema returns the configuration schema definition.
// This is based on internal/cli/config/types.go Config.
func getConfigSchema() []ConfigField {
	return []ConfigField{
		// Project settings
		{Name: "source_dir", Type: "string", Default: config.DefaultSourceDir, Description: "Path to the Python source tree", Category: "project"},
		{Name: "plugins_dir", Type: "string", Default: config.DefaultPluginsDir, Description: "Path to the Starlark plugins directory", Category: "project"},
		{Name: "state_path", Type: "string", Default: config.DefaultStateFile, Description: "Path to the index database", Category: "project"},
		{Name: "exclude", Type: "[]string", Default: strings.Join(config.DefaultExcludes(), ", "), Description: "Directory names skipped during discovery", Category: "project"},
		{Name: "workers", Type: "int", Default: "CPU count", Description: "Parallel parse workers", Category: "project"},
		{Name: "output", Type: "string", Default: config.DefaultOutput, Description: "Output format: auto, text, markdown, json", Category: "project"},
		{Name: "verbose", Type: "bool", Default: "false", Description: "Verbose logging to stderr", Category: "project"},

		// API server settings
		{Name: "server.host", Type: "string", Default: "127.0.0.1", Description: "Interface the API server binds to", Category: "server"},
		{Name: "server.port", Type: "int", Default: "8517", Description: "Port the API server listens on", Category: "server"},
		{Name: "server.watch", Type: "bool", Default: "true", Description: "Re-analyze when source files change", Category: "server"},

		// Inference bounds
		{Name: "limits.mro_entries", Type: "int", Default: "256", Description: "Cap on linearized ancestry length", Category: "limits"},
		{Name: "limits.scope_depth", Type: "int", Default: "64", Description: "Cap on nested scope traversal", Category: "limits"},
		{Name: "limits.resolve_depth", Type: "int", Default: "40", Description: "Cap on chained name resolution", Category: "limits"},
	}
}

// generateConfigurationDoc generates the configuration reference page.
func generateConfigurationDoc(outDir string) error {
	w := NewMarkdownWriter()

	w.Frontmatter("Configuration", "Pylens configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph("Pylens is configured via `pylens.yaml` in your project root. Every key can also be set through a `PYLENS_`-prefixed environment variable or the matching command-line flag; flags win over environment variables, which win over the file.")

	fields := getConfigSchema()

	w.Header(2, "Project Settings")
	writeFieldTable(w, fields, "project")

	w.Header(2, "API Server")
	w.Paragraph("Settings under the `server` key apply to `pylens serve`.")
	writeFieldTable(w, fields, "server")

	w.Header(2, "Inference Limits")
	w.Paragraph("Settings under the `limits` key bound the inference walks. Raising them helps very deep hierarchies; the defaults are safe for typical projects.")
	writeFieldTable(w, fields, "limits")

	w.Header(2, "Example")
	w.CodeBlock("yaml", `source_dir: src
plugins_dir: plugins
state_path: .pylens/index.db
exclude:
  - .venv
  - build

server:
  port: 9000
  watch: true`)

	filename := filepath.Join(outDir, "configuration.md")
	return os.WriteFile(filename, w.Bytes(), 0600)
}

// writeFieldTable writes the fields of one category as a table.
func writeFieldTable(w *MarkdownWriter, fields []ConfigField, category string) {
	headers := []string{"Field", "Type", "Default", "Description"}
	var rows [][]string

	for _, f := range fields {
		if f.Category != category {
			continue
		}
		defVal := f.Default
		if defVal == "" {
			defVal = "-"
		} else {
			defVal = InlineCode(defVal)
		}
		rows = append(rows, []string{
			InlineCode(f.Name),
			f.Type,
			defVal,
			cleanDescription(f.Description),
		})
	}

	w.Table(headers, rows)
}
