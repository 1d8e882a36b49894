package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/pylens/internal/analyzer"
	"github.com/leapstack-labs/pylens/internal/cli/output"
	"github.com/leapstack-labs/pylens/pkg/report"
)

// inspectOptions holds flags for the inspect command.
type inspectOptions struct {
	instance bool
	origin   string
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect <qualname>",
		Short: "Show one class in detail",
		Long: `Show a single class with its bases, method resolution order, metaclasses,
constructor signature, and visible attributes.

By default the class view is shown: the attributes reachable on the class
object itself. With --instance the instance view is shown instead, which
includes attributes assigned on self in the class's methods.

With --origin the attribute lookup behaves as if performed from inside
the named class, which affects private name visibility.`,
		Example: `  # Inspect a class
  pylens inspect models.Shape

  # Inspect the instance view
  pylens inspect models.Shape --instance

  # Inspect as seen from a subclass
  pylens inspect models.Shape --origin models.Square`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.instance, "instance", false, "Show the instance view instead of the class view")
	cmd.Flags().StringVar(&opts.origin, "origin", "", "Qualified name of the class lookups originate from")

	return cmd
}

func runInspect(cmd *cobra.Command, qualName string, opts *inspectOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	cls, err := cmdCtx.Analyzer.Inspect(cmd.Context(), qualName, analyzer.InspectOptions{
		InstanceView: opts.instance,
		Origin:       opts.origin,
	})
	if err != nil {
		return err
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return inspectJSON(r, cls, opts)
	case output.ModeMarkdown:
		return inspectMarkdown(r, cls, opts)
	default:
		return inspectText(r, cls, opts)
	}
}

// inspectText outputs the class in styled text format.
func inspectText(r *output.Renderer, cls *report.Class, opts *inspectOptions) error {
	r.Header(1, cls.QualName)
	r.Printf("Module:    %s:%d\n", cls.Module, cls.Line)
	if cls.Signature != "" {
		r.Printf("Signature: %s\n", cls.Signature)
	}
	if len(cls.Bases) > 0 {
		r.Printf("Bases:     %s\n", strings.Join(cls.Bases, ", "))
	}
	r.Printf("MRO:       %s\n", strings.Join(cls.MRO, " -> "))
	if len(cls.Metaclasses) > 0 {
		r.Printf("Metaclass: %s\n", strings.Join(cls.Metaclasses, ", "))
	}
	if len(cls.TypeVars) > 0 {
		r.Printf("TypeVars:  %s\n", strings.Join(cls.TypeVars, ", "))
	}
	if cls.Decorated {
		r.Warning("Class is decorated; inferred shape may be incomplete")
	}

	view := "class view"
	if opts.instance {
		view = "instance view"
	}
	r.Println("")
	r.Header(2, fmt.Sprintf("Attributes (%s, %d total)", view, len(cls.Members)))

	if len(cls.Members) == 0 {
		r.Println("(none)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Name", "Kind", "Defined In", "Line"})

	for _, m := range cls.Members {
		line := ""
		if m.Line > 0 {
			line = fmt.Sprintf("%d", m.Line)
		}
		t.AppendRow(table.Row{m.Name, m.Kind, m.Origin, line})
	}

	t.Render()
	return nil
}

// inspectMarkdown outputs the class in markdown format.
func inspectMarkdown(r *output.Renderer, cls *report.Class, opts *inspectOptions) error {
	r.Println(output.FormatHeader(1, cls.QualName))
	r.Println("")
	r.Println(output.FormatKeyValue("Module", fmt.Sprintf("%s:%d", cls.Module, cls.Line)))
	if cls.Signature != "" {
		r.Println(output.FormatKeyValue("Signature", cls.Signature))
	}
	if len(cls.Bases) > 0 {
		r.Println(output.FormatKeyValue("Bases", strings.Join(cls.Bases, ", ")))
	}
	r.Println(output.FormatKeyValue("MRO", strings.Join(cls.MRO, " -> ")))
	if len(cls.Metaclasses) > 0 {
		r.Println(output.FormatKeyValue("Metaclass", strings.Join(cls.Metaclasses, ", ")))
	}
	if len(cls.TypeVars) > 0 {
		r.Println(output.FormatKeyValue("TypeVars", strings.Join(cls.TypeVars, ", ")))
	}
	if opts.origin != "" {
		r.Println(output.FormatKeyValue("Origin", opts.origin))
	}
	r.Println("")

	view := "class view"
	if opts.instance {
		view = "instance view"
	}
	r.Println(output.FormatHeader(2, fmt.Sprintf("Attributes (%s)", view)))
	r.Println("")

	for _, m := range cls.Members {
		detail := m.Kind
		if m.Origin != "" {
			detail += ", from " + m.Origin
		}
		r.Printf("- `%s` (%s)\n", m.Name, detail)
	}

	return nil
}

// inspectJSON outputs the class in JSON format.
func inspectJSON(r *output.Renderer, cls *report.Class, opts *inspectOptions) error {
	out := output.InspectOutput{
		Class:        *cls,
		InstanceView: opts.instance,
		Origin:       opts.origin,
	}

	enc := json.NewEncoder(r.Writer())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
