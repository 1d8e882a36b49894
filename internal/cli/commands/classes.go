package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/pylens/internal/cli/output"
	"github.com/leapstack-labs/pylens/pkg/report"
)

// classesOptions holds flags for the classes command.
type classesOptions struct {
	module  string
	indexed bool
}

// NewClassesCommand creates the classes command.
func NewClassesCommand() *cobra.Command {
	opts := &classesOptions{}

	cmd := &cobra.Command{
		Use:   "classes",
		Short: "List the classes discovered in the source tree",
		Long: `List every class discovered in the Python source tree with its module,
position, and declared bases.

By default the source tree is analyzed fresh. With --indexed the listing
is served from the symbol index written by 'pylens index', which skips
re-analysis but may be stale.

Output adapts to environment:
  - Terminal: Styled, colored output
  - Piped/Scripted: Markdown format (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # List all classes (auto-detect output format)
  pylens classes

  # List classes in one module
  pylens classes --module models/base.py

  # List from the symbol index as JSON
  pylens classes --indexed --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runClasses(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.module, "module", "", "Only list classes from this module path")
	cmd.Flags().BoolVar(&opts.indexed, "indexed", false, "Serve the listing from the symbol index")

	return cmd
}

func runClasses(cmd *cobra.Command, opts *classesOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	var classes []report.Class
	var modules int
	source := "analysis"

	if opts.indexed {
		classes, modules, err = indexedClasses(cmdCtx, opts.module)
		source = "index"
	} else {
		classes, modules, err = analyzedClasses(cmd, cmdCtx, opts.module)
	}
	if err != nil {
		return err
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return classesJSON(r, classes, modules, source)
	case output.ModeMarkdown:
		return classesMarkdown(r, classes)
	default:
		return classesText(r, classes)
	}
}

// analyzedClasses runs a fresh analysis and returns its classes.
func analyzedClasses(cmd *cobra.Command, cmdCtx *CommandContext, module string) ([]report.Class, int, error) {
	analysis, err := cmdCtx.Analyzer.Run(cmd.Context())
	if err != nil {
		return nil, 0, fmt.Errorf("analysis failed: %w", err)
	}

	classes := make([]report.Class, 0, analysis.Stats.ClassCount)
	for _, cls := range analysis.Classes() {
		if module != "" && cls.Module != module {
			continue
		}
		classes = append(classes, cls)
	}
	return classes, analysis.Stats.ModuleCount, nil
}

// indexedClasses reads the latest completed run from the symbol index.
func indexedClasses(cmdCtx *CommandContext, module string) ([]report.Class, int, error) {
	store, err := cmdCtx.OpenStore()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open symbol index: %w", err)
	}
	defer func() { _ = store.Close() }()

	run, err := store.LatestRun(cmdCtx.Cfg.ProjectRoot)
	if err != nil {
		return nil, 0, err
	}
	if run == nil {
		return nil, 0, fmt.Errorf("no index found for %s; run 'pylens index' first", cmdCtx.Cfg.ProjectRoot)
	}

	rows, err := store.ListClasses(run.ID, module)
	if err != nil {
		return nil, 0, err
	}

	classes := make([]report.Class, 0, len(rows))
	for _, row := range rows {
		classes = append(classes, report.Class{
			QualName:    row.QualName,
			Name:        row.Name,
			Module:      row.Module,
			Line:        row.Line,
			Column:      row.Col,
			Decorated:   row.Decorated,
			Bases:       row.Bases,
			Metaclasses: splitJoined(row.Metaclasses),
			TypeVars:    splitJoined(row.TypeVars),
			Signature:   row.Signature,
		})
	}
	return classes, run.ModuleCount, nil
}

// splitJoined undoes the comma join used for list columns in the index.
func splitJoined(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ", ")
	return parts
}

// classesText outputs classes as a styled table.
func classesText(r *output.Renderer, classes []report.Class) error {
	r.Header(1, fmt.Sprintf("Classes (%d total)", len(classes)))

	if len(classes) == 0 {
		r.Println("(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Qualified Name", "Module", "Line", "Bases"})

	for _, cls := range classes {
		t.AppendRow(table.Row{cls.QualName, cls.Module, cls.Line, strings.Join(cls.Bases, ", ")})
	}

	t.Render()
	r.Printf("(%d rows)\n", len(classes))
	return nil
}

// classesMarkdown outputs classes in markdown format.
func classesMarkdown(r *output.Renderer, classes []report.Class) error {
	r.Println(output.FormatHeader(1, fmt.Sprintf("Classes (%d total)", len(classes))))
	r.Println("")

	for _, cls := range classes {
		r.Println(output.FormatHeader(2, cls.QualName))
		r.Println(output.FormatKeyValue("Module", cls.Module))
		r.Println(output.FormatKeyValue("Line", fmt.Sprintf("%d", cls.Line)))
		if len(cls.Bases) > 0 {
			r.Println(output.FormatKeyValue("Bases", strings.Join(cls.Bases, ", ")))
		}
		if cls.Signature != "" {
			r.Println(output.FormatKeyValue("Signature", cls.Signature))
		}
		r.Println("")
	}

	return nil
}

// classesJSON outputs classes in JSON format.
func classesJSON(r *output.Renderer, classes []report.Class, modules int, source string) error {
	listOutput := output.ClassListOutput{
		Classes: classes,
		Summary: output.ListSummary{
			Total:   len(classes),
			Modules: modules,
			Source:  source,
		},
	}

	enc := json.NewEncoder(r.Writer())
	enc.SetIndent("", "  ")
	return enc.Encode(listOutput)
}
