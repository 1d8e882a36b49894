package commands

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/pylens/internal/cli/config"
	"github.com/leapstack-labs/pylens/internal/cli/output"
	"github.com/leapstack-labs/pylens/internal/hierarchy"
	"github.com/leapstack-labs/pylens/pkg/report"
)

// DoctorOptions holds options for the doctor command.
type DoctorOptions struct {
	Format string // Output format: text, json
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	opts := &DoctorOptions{}
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run a comprehensive project health check",
		Long: `Analyze your Pylens project setup for potential issues.

The doctor command inspects the configuration, source tree, symbol
index, and plugins, runs a full analysis, and provides a report
including:
- Project summary (modules, classes, hierarchy structure)
- Health checks grouped by category
- Health score (0-100)
- Actionable recommendations

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Run health check
  pylens doctor

  # Output as JSON
  pylens doctor --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json")

	return cmd
}

func runDoctor(cmd *cobra.Command, opts *DoctorOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	// Override renderer if format flag is set
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.OutputMode(opts.Format))
	}

	doctorOutput := buildDoctorOutput(cmd, cmdCtx)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(doctorOutput)
	case output.ModeMarkdown:
		return renderDoctorMarkdown(r, doctorOutput)
	default:
		return renderDoctorText(r, doctorOutput)
	}
}

// buildDoctorOutput runs every health check and assembles the report.
func buildDoctorOutput(cmd *cobra.Command, cmdCtx *CommandContext) *output.DoctorOutput {
	var checks []output.HealthCheck

	checks = append(checks, checkConfiguration(cmdCtx.Cfg)...)

	analysis, srcChecks := checkSources(cmd, cmdCtx)
	checks = append(checks, srcChecks...)

	var summary output.ProjectSummary
	if analysis != nil {
		summary = buildProjectSummary(analysis)
		checks = append(checks, checkInference(analysis)...)
	}

	checks = append(checks, checkIndex(cmdCtx, analysis))
	checks = append(checks, checkPlugins(cmdCtx))

	score := calculateHealthScore(checks, summary.Classes)
	recommendations := generateRecommendations(checks)

	issueCount := 0
	for _, c := range checks {
		issueCount += c.IssueCount
	}

	return &output.DoctorOutput{
		Summary:         summary,
		HealthChecks:    checks,
		Score:           score,
		Recommendations: recommendations,
		IssueCount:      issueCount,
	}
}

// checkConfiguration verifies the config file and directory layout.
func checkConfiguration(cfg *config.Config) []output.HealthCheck {
	var checks []output.HealthCheck

	if used := config.GetConfigFileUsed(); used != "" {
		checks = append(checks, output.HealthCheck{
			Name:    "config file",
			Group:   "configuration",
			Status:  "pass",
			Message: "using " + used,
		})
	} else {
		checks = append(checks, output.HealthCheck{
			Name:       "config file",
			Group:      "configuration",
			Status:     "warn",
			Message:    "no pylens.yaml found; defaults in effect",
			IssueCount: 1,
		})
	}

	if _, err := os.Stat(cfg.SourceDir); os.IsNotExist(err) {
		checks = append(checks, output.HealthCheck{
			Name:       "source directory",
			Group:      "configuration",
			Status:     "error",
			Message:    fmt.Sprintf("source directory does not exist: %s", cfg.SourceDir),
			IssueCount: 1,
		})
	} else {
		checks = append(checks, output.HealthCheck{
			Name:    "source directory",
			Group:   "configuration",
			Status:  "pass",
			Message: cfg.SourceDir,
		})
	}

	return checks
}

// checkSources runs the analysis and reports on parse health.
func checkSources(cmd *cobra.Command, cmdCtx *CommandContext) (*report.Analysis, []output.HealthCheck) {
	analysis, err := cmdCtx.Analyzer.Run(cmd.Context())
	if err != nil {
		return nil, []output.HealthCheck{{
			Name:       "analysis",
			Group:      "sources",
			Status:     "error",
			Message:    err.Error(),
			IssueCount: 1,
		}}
	}

	var checks []output.HealthCheck

	if analysis.Stats.ModuleCount == 0 {
		checks = append(checks, output.HealthCheck{
			Name:       "python files",
			Group:      "sources",
			Status:     "warn",
			Message:    "no Python files found in " + cmdCtx.Cfg.SourceDir,
			IssueCount: 1,
		})
	} else {
		checks = append(checks, output.HealthCheck{
			Name:    "python files",
			Group:   "sources",
			Status:  "pass",
			Message: fmt.Sprintf("%d modules, %d classes", analysis.Stats.ModuleCount, analysis.Stats.ClassCount),
		})
	}

	var parseFailures, syntaxErrors []string
	for _, d := range analysis.Diagnostics {
		if d.Kind == "parse-error" {
			parseFailures = append(parseFailures, d.Path+": "+d.Message)
		}
	}
	for _, m := range analysis.Modules {
		if m.SyntaxErrors {
			syntaxErrors = append(syntaxErrors, m.Path)
		}
	}

	if len(parseFailures) > 0 {
		checks = append(checks, output.HealthCheck{
			Name:       "parse failures",
			Group:      "sources",
			Status:     "error",
			Message:    fmt.Sprintf("%d files could not be parsed", len(parseFailures)),
			IssueCount: len(parseFailures),
			Details:    parseFailures,
		})
	} else {
		checks = append(checks, output.HealthCheck{
			Name:   "parse failures",
			Group:  "sources",
			Status: "pass",
		})
	}

	if len(syntaxErrors) > 0 {
		checks = append(checks, output.HealthCheck{
			Name:       "syntax errors",
			Group:      "sources",
			Status:     "warn",
			Message:    fmt.Sprintf("%d files contain syntax errors", len(syntaxErrors)),
			IssueCount: len(syntaxErrors),
			Details:    syntaxErrors,
		})
	} else {
		checks = append(checks, output.HealthCheck{
			Name:   "syntax errors",
			Group:  "sources",
			Status: "pass",
		})
	}

	return analysis, checks
}

// checkInference reports on inference diagnostics and hierarchy shape.
func checkInference(analysis *report.Analysis) []output.HealthCheck {
	var checks []output.HealthCheck

	var details []string
	for _, d := range analysis.Diagnostics {
		if d.Kind == "parse-error" {
			continue
		}
		details = append(details, fmt.Sprintf("%s:%d %s", d.Path, d.Line, d.Message))
	}

	if len(details) > 0 {
		checks = append(checks, output.HealthCheck{
			Name:       "inference diagnostics",
			Group:      "inference",
			Status:     "warn",
			Message:    fmt.Sprintf("%d diagnostics recorded", len(details)),
			IssueCount: len(details),
			Details:    details,
		})
	} else {
		checks = append(checks, output.HealthCheck{
			Name:   "inference diagnostics",
			Group:  "inference",
			Status: "pass",
		})
	}

	graph := hierarchy.FromAnalysis(analysis)
	if cycle, found := graph.Cycle(); found {
		checks = append(checks, output.HealthCheck{
			Name:       "inheritance cycles",
			Group:      "inference",
			Status:     "error",
			Message:    "cycle: " + strings.Join(cycle, " -> "),
			IssueCount: 1,
		})
	} else {
		checks = append(checks, output.HealthCheck{
			Name:   "inheritance cycles",
			Group:  "inference",
			Status: "pass",
		})
	}

	return checks
}

// checkIndex reports whether the symbol index exists and is current.
func checkIndex(cmdCtx *CommandContext, analysis *report.Analysis) output.HealthCheck {
	store, err := cmdCtx.OpenStore()
	if err != nil {
		return output.HealthCheck{
			Name:       "symbol index",
			Group:      "index",
			Status:     "error",
			Message:    err.Error(),
			IssueCount: 1,
		}
	}
	defer func() { _ = store.Close() }()

	run, err := store.LatestRun(cmdCtx.Cfg.ProjectRoot)
	if err != nil {
		return output.HealthCheck{
			Name:       "symbol index",
			Group:      "index",
			Status:     "error",
			Message:    err.Error(),
			IssueCount: 1,
		}
	}
	if run == nil {
		return output.HealthCheck{
			Name:       "symbol index",
			Group:      "index",
			Status:     "warn",
			Message:    "project was never indexed; run 'pylens index'",
			IssueCount: 1,
		}
	}

	if analysis != nil && run.ClassCount != analysis.Stats.ClassCount {
		return output.HealthCheck{
			Name:       "symbol index",
			Group:      "index",
			Status:     "warn",
			Message:    fmt.Sprintf("index is stale: %d classes indexed, %d found now", run.ClassCount, analysis.Stats.ClassCount),
			IssueCount: 1,
		}
	}

	return output.HealthCheck{
		Name:    "symbol index",
		Group:   "index",
		Status:  "pass",
		Message: fmt.Sprintf("last indexed %s (%d classes)", run.StartedAt.Format("2006-01-02 15:04"), run.ClassCount),
	}
}

// checkPlugins reports whether the plugins directory loads cleanly.
func checkPlugins(cmdCtx *CommandContext) output.HealthCheck {
	set, _, err := loadPlugins(cmdCtx.Cfg, cmdCtx.Logger)
	if err != nil {
		return output.HealthCheck{
			Name:       "plugins",
			Group:      "plugins",
			Status:     "error",
			Message:    err.Error(),
			IssueCount: 1,
		}
	}

	if len(set.Plugins) == 0 {
		return output.HealthCheck{
			Name:    "plugins",
			Group:   "plugins",
			Status:  "pass",
			Message: "no plugins loaded",
		}
	}

	return output.HealthCheck{
		Name:    "plugins",
		Group:   "plugins",
		Status:  "pass",
		Message: fmt.Sprintf("%d plugins, %d overrides", len(set.Plugins), len(set.Overrides())),
	}
}

// buildProjectSummary condenses the analysis into project-level statistics.
func buildProjectSummary(analysis *report.Analysis) output.ProjectSummary {
	summary := output.ProjectSummary{
		Modules:     analysis.Stats.ModuleCount,
		Classes:     analysis.Stats.ClassCount,
		Diagnostics: analysis.Stats.DiagnosticCount,
	}

	graph := hierarchy.FromAnalysis(analysis)
	summary.EdgeCount = graph.EdgeCount()
	summary.RootCount = len(graph.Roots())
	summary.LeafCount = len(graph.Leaves())

	if levels, err := graph.Levels(); err == nil {
		summary.HierarchyDepth = len(levels)
	}

	return summary
}

// calculateHealthScore computes a health score from 0-100.
// The scoring weights:
// - Each issue reduces points
// - Errors count double
// - More classes means issues have less individual impact
func calculateHealthScore(checks []output.HealthCheck, classCount int) int {
	if len(checks) == 0 {
		return 100
	}

	// Base score starts at 100
	score := 100.0

	// Calculate penalty per issue
	// With more classes, each individual issue has less impact
	basePenalty := 5.0
	if classCount > 10 {
		basePenalty = 3.0
	}
	if classCount > 50 {
		basePenalty = 2.0
	}
	if classCount > 100 {
		basePenalty = 1.0
	}

	for _, check := range checks {
		issues := check.IssueCount
		if issues == 0 && check.Status != "pass" {
			issues = 1
		}
		switch check.Status {
		case "error":
			score -= float64(issues) * basePenalty * 2 // Errors count double
		case "warn":
			score -= float64(issues) * basePenalty
		}
	}

	// Clamp to 0-100
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return int(score)
}

// generateRecommendations creates actionable recommendations based on findings.
func generateRecommendations(checks []output.HealthCheck) []string {
	var recommendations []string
	seen := make(map[string]bool)

	for _, check := range checks {
		if check.Status == "pass" {
			continue
		}

		rec := getRecommendation(check.Name)
		if rec != "" && !seen[rec] {
			recommendations = append(recommendations, rec)
			seen[rec] = true
		}
	}

	// Limit to top 5 recommendations
	if len(recommendations) > 5 {
		recommendations = recommendations[:5]
	}

	return recommendations
}

// getRecommendation returns a recommendation for a specific check.
func getRecommendation(name string) string {
	switch name {
	case "config file":
		return "Create a pylens.yaml at the project root to pin your settings"
	case "source directory":
		return "Point --source-dir at the directory containing your Python code"
	case "python files":
		return "Check that source_dir and exclude settings match your layout"
	case "parse failures":
		return "Fix files that cannot be read or decoded as UTF-8"
	case "syntax errors":
		return "Fix Python syntax errors so classes in those files are fully analyzed"
	case "inference diagnostics":
		return "Review diagnostics; unresolvable bases degrade resolution orders"
	case "inheritance cycles":
		return "Break the inheritance cycle; affected classes get partial MROs"
	case "symbol index":
		return "Run 'pylens index' to refresh the symbol index"
	case "plugins":
		return "Fix the plugin manifest or remove broken plugin files"
	default:
		return ""
	}
}

func renderDoctorText(r *output.Renderer, out *output.DoctorOutput) error {
	styles := r.Styles()

	// Header
	r.Println("")
	r.Println(styles.Header1.Render("Pylens Project Health Report"))
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	r.Println("")

	// Project Summary
	r.Println(styles.Header2.Render("Project Summary"))
	r.Printf("   Modules: %d | Classes: %d | Diagnostics: %d\n",
		out.Summary.Modules, out.Summary.Classes, out.Summary.Diagnostics)
	r.Printf("   Hierarchy Depth: %d levels | Roots: %d | Leaves: %d\n",
		out.Summary.HierarchyDepth, out.Summary.RootCount, out.Summary.LeafCount)
	r.Println("")

	// Health Checks grouped by category
	r.Println(styles.Header2.Render("Health Checks"))
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println(styles.Bold.Render("   " + titleCaser.String(currentGroup)))
			r.Println(styles.Muted.Render("   " + strings.Repeat("-", 40)))
		}

		icon := styles.StatusSuccess.String()
		switch check.Status {
		case "warn":
			icon = styles.Warning.Render("!")
		case "error":
			icon = styles.StatusFailed.String()
		}

		status := fmt.Sprintf("%s %s", icon, check.Name)
		if check.Message != "" {
			status += ": " + check.Message
		}
		r.Println("   " + status)

		// Show first 3 details for issues
		for i, detail := range check.Details {
			if i >= 3 {
				r.Println(styles.Muted.Render(fmt.Sprintf("       ... and %d more", len(check.Details)-3)))
				break
			}
			r.Println(styles.Muted.Render("       - " + detail))
		}
	}
	r.Println("")

	// Health Score
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	scoreStyle := styles.Success
	if out.Score < 70 {
		scoreStyle = styles.Warning
	}
	if out.Score < 50 {
		scoreStyle = styles.Error
	}
	r.Printf("   Health Score: %s\n", scoreStyle.Render(fmt.Sprintf("%d/100", out.Score)))
	r.Println("")

	// Recommendations
	if len(out.Recommendations) > 0 {
		r.Println(styles.Header2.Render("Recommendations"))
		for i, rec := range out.Recommendations {
			r.Printf("   %d. %s\n", i+1, rec)
		}
		r.Println("")
	}

	return nil
}

func renderDoctorMarkdown(r *output.Renderer, out *output.DoctorOutput) error {
	r.Println("# Pylens Project Health Report")
	r.Println("")

	// Project Summary
	r.Println("## Project Summary")
	r.Println("")
	r.Printf("- **Modules**: %d\n", out.Summary.Modules)
	r.Printf("- **Classes**: %d\n", out.Summary.Classes)
	r.Printf("- **Diagnostics**: %d\n", out.Summary.Diagnostics)
	r.Printf("- **Hierarchy Depth**: %d levels\n", out.Summary.HierarchyDepth)
	r.Printf("- **Root Classes**: %d\n", out.Summary.RootCount)
	r.Printf("- **Leaf Classes**: %d\n", out.Summary.LeafCount)
	r.Println("")

	// Health Checks
	r.Println("## Health Checks")
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println("### " + titleCaser.String(currentGroup))
			r.Println("")
		}

		status := "PASS"
		switch check.Status {
		case "warn":
			status = "WARN"
		case "error":
			status = "ERROR"
		}

		r.Printf("- **[%s]** %s", status, check.Name)
		if check.Message != "" {
			r.Printf(": %s", check.Message)
		}
		r.Println("")

		for _, detail := range check.Details {
			r.Printf("  - %s\n", detail)
		}
	}
	r.Println("")

	// Health Score
	r.Println("## Health Score")
	r.Println("")
	r.Printf("**%d/100**\n", out.Score)
	r.Println("")

	// Recommendations
	if len(out.Recommendations) > 0 {
		r.Println("## Recommendations")
		r.Println("")
		for i, rec := range out.Recommendations {
			r.Printf("%d. %s\n", i+1, rec)
		}
		r.Println("")
	}

	return nil
}
