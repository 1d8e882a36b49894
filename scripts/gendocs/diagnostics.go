package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/pylens/pkg/inference"
)

// diagKindDoc pairs a diagnostic kind with its reference text.
type diagKindDoc struct {
	Kind        inference.DiagKind
	Description string
	Remedy      string
}

// diagKinds lists every diagnostic kind the engine reports, in declaration
// order. The labels come from the kinds themselves so the docs cannot drift
// from the code.
var diagKinds = []diagKindDoc{
	{
		Kind:        inference.DiagStructuralAnomaly,
		Description: "A declared base did not resolve to a class-capable value and was skipped. The class keeps its remaining bases.",
		Remedy:      "Check the named base: it may be a function, a conditional alias, or an import the analyzer cannot see.",
	},
	{
		Kind:        inference.DiagUnhandledMetaclass,
		Description: "A class uses a metaclass no plugin provides member filters for. Members synthesized by that metaclass stay invisible.",
		Remedy:      "Add a plugin that describes the metaclass, or inspect the class with --instance to see the inherited surface.",
	},
	{
		Kind:        inference.DiagLimitExceeded,
		Description: "An inference walk hit a configured limit and was cut short. Results for the affected class may be incomplete.",
		Remedy:      "Raise the matching limits key in pylens.yaml if the hierarchy is genuinely that deep.",
	},
}

// generateDiagnosticsDocs generates the diagnostics reference.
func generateDiagnosticsDocs(outDir string) error {
	log.Printf("Generating diagnostics docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()

	w.Frontmatter("Diagnostics", "Pylens diagnostics reference")
	w.GeneratedMarker()

	w.Header(1, "Diagnostics")
	w.Paragraph("Pylens never aborts on semantically inconsistent Python; it degrades and records a diagnostic. Diagnostics appear in `pylens index` summaries, the `doctor` report, and the `/api/diagnostics` endpoint.")

	w.Header(2, "Format")
	w.Paragraph("Rendered diagnostics follow one line format:")
	w.CodeBlock("text", "path:line:col: kind: message")

	w.Header(2, "Kinds")

	headers := []string{"Kind", "Meaning"}
	var rows [][]string
	for _, d := range diagKinds {
		rows = append(rows, []string{InlineCode(d.Kind.String()), d.Description})
	}
	w.Table(headers, rows)

	for _, d := range diagKinds {
		w.Header(3, d.Kind.String())
		w.Paragraph(d.Description)
		w.Paragraph("**Remedy:** " + d.Remedy)
	}

	w.Header(2, "Parse Errors")
	w.Paragraph("Files that cannot be read or parsed surface as `parse-error` diagnostics during analysis. These come from the discovery pipeline rather than inference; the file is skipped and the rest of the project is still analyzed.")

	filename := filepath.Join(outDir, "diagnostics.md")
	if err := os.WriteFile(filename, w.Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated diagnostics.md")

	return nil
}
