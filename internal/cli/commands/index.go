package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/pylens/internal/cli/output"
	"github.com/leapstack-labs/pylens/internal/state"
	"github.com/leapstack-labs/pylens/pkg/report"
)

// NewIndexCommand creates the index command.
func NewIndexCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Analyze the source tree and persist the results",
		Long: `Analyze the Python source tree and write every discovered class into
the symbol index database.

Each invocation records a new run, so listings can tell a current index
from a stale one. Use 'pylens classes --indexed' to read the index back
without re-analyzing.`,
		Example: `  # Index the current project
  pylens index

  # Index into an explicit database
  pylens index --state /tmp/pylens.db`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIndex(cmd)
		},
	}

	return cmd
}

func runIndex(cmd *cobra.Command) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer
	effectiveMode := r.EffectiveMode()

	// Show spinner for TTY mode
	var spinner *output.Spinner
	if effectiveMode == output.ModeText {
		spinner = r.NewSpinner("Analyzing sources...")
		spinner.Start()
	}

	analysis, err := cmdCtx.Analyzer.Run(cmd.Context())
	if err != nil {
		if spinner != nil {
			spinner.Fail("Analysis failed")
		}
		return err
	}

	store, err := cmdCtx.OpenStore()
	if err != nil {
		if spinner != nil {
			spinner.Fail("Failed to open symbol index")
		}
		return err
	}
	defer func() { _ = store.Close() }()

	run, err := store.CreateRun(cmdCtx.Cfg.ProjectRoot)
	if err != nil {
		if spinner != nil {
			spinner.Fail("Failed to record indexing run")
		}
		return err
	}

	if err := persistAnalysis(store, run.ID, analysis); err != nil {
		if spinner != nil {
			spinner.Fail("Failed to write symbol index")
		}
		_ = store.CompleteRun(run.ID, state.RunStatusFailed, 0, 0, 0, err.Error())
		return err
	}

	if err := store.CompleteRun(run.ID, state.RunStatusCompleted,
		analysis.Stats.ModuleCount, analysis.Stats.ClassCount, analysis.Stats.DiagnosticCount, ""); err != nil {
		if spinner != nil {
			spinner.Fail("Failed to complete indexing run")
		}
		return err
	}

	if spinner != nil {
		spinner.Success("Index updated")
	}

	out := output.IndexOutput{
		RunID:       run.ID,
		StatePath:   store.Path(),
		Modules:     analysis.Stats.ModuleCount,
		Classes:     analysis.Stats.ClassCount,
		Diagnostics: analysis.Stats.DiagnosticCount,
		Elapsed:     analysis.Stats.Elapsed.String(),
	}

	switch effectiveMode {
	case output.ModeJSON:
		return r.JSON(out)
	case output.ModeMarkdown:
		return indexMarkdown(r, out)
	default:
		return indexText(r, out)
	}
}

// persistAnalysis writes every module and class of an analysis under a run.
func persistAnalysis(store *state.Store, runID string, analysis *report.Analysis) error {
	for _, mod := range analysis.Modules {
		m, err := store.UpsertModule(runID, mod.Path)
		if err != nil {
			return err
		}

		for _, cls := range mod.Classes {
			row := &state.Class{
				RunID:       runID,
				ModuleID:    m.ID,
				QualName:    cls.QualName,
				Name:        cls.Name,
				Line:        cls.Line,
				Col:         cls.Column,
				Decorated:   cls.Decorated,
				Metaclasses: strings.Join(cls.Metaclasses, ", "),
				TypeVars:    strings.Join(cls.TypeVars, ", "),
				Signature:   cls.Signature,
				Bases:       cls.Bases,
			}
			if err := store.InsertClass(row); err != nil {
				return err
			}
		}
	}
	return nil
}

// indexText outputs the indexing result in styled text format.
func indexText(r *output.Renderer, out output.IndexOutput) error {
	r.Println("")
	r.Printf("Indexed %d classes across %d modules in %s\n", out.Classes, out.Modules, out.Elapsed)
	if out.Diagnostics > 0 {
		r.Warning(fmt.Sprintf("%d diagnostics recorded", out.Diagnostics))
	}
	r.Muted("Index: " + out.StatePath)
	r.Muted("Run:   " + out.RunID)
	return nil
}

// indexMarkdown outputs the indexing result in markdown format.
func indexMarkdown(r *output.Renderer, out output.IndexOutput) error {
	r.Println(output.FormatHeader(1, "Index"))
	r.Println("")
	r.Println(output.FormatKeyValue("Run", out.RunID))
	r.Println(output.FormatKeyValue("State", out.StatePath))
	r.Println(output.FormatKeyValue("Modules", fmt.Sprintf("%d", out.Modules)))
	r.Println(output.FormatKeyValue("Classes", fmt.Sprintf("%d", out.Classes)))
	r.Println(output.FormatKeyValue("Diagnostics", fmt.Sprintf("%d", out.Diagnostics)))
	r.Println(output.FormatKeyValue("Elapsed", out.Elapsed))
	return nil
}
