package commands

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/pylens/internal/analyzer"
	"github.com/leapstack-labs/pylens/pkg/report"
)

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Explore the class model interactively",
		Long: `Start an interactive session over the analyzed source tree.

Class names tab-complete. Typing a qualified name inspects that class;
dot-commands list classes, print resolution orders, and re-analyze the
tree after edits.`,
		Example: `  # Explore the current project
  pylens repl

  # Explore an explicit source tree
  pylens repl --source-dir ./src`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd)
		},
	}

	return cmd
}

// replSession holds the state shared by REPL commands.
type replSession struct {
	cmdCtx   *CommandContext
	analysis *report.Analysis
}

func runREPL(cmd *cobra.Command) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	analysis, err := cmdCtx.Analyzer.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	sess := &replSession{cmdCtx: cmdCtx, analysis: analysis}

	// Setup history file (project-local)
	historyFile := filepath.Join(filepath.Dir(cmdCtx.Cfg.StatePath), "repl_history")

	// Configure readline
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "pylens> ",
		HistoryFile:     historyFile,
		AutoComplete:    newClassCompleter(analysis),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	// Print welcome message
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Pylens REPL (%d classes in %d modules)\n",
		analysis.Stats.ClassCount, analysis.Stats.ModuleCount)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	// REPL loop
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			if handleDotCommand(cmd, sess, line) {
				if line == ".quit" || line == ".exit" {
					break
				}
				continue
			}
		}

		// Bare input inspects the named class
		inspectInREPL(cmd, sess, line, false)
		_, _ = fmt.Fprintln(cmd.OutOrStdout())
	}

	return nil
}

func handleDotCommand(cmd *cobra.Command, sess *replSession, line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(cmd.OutOrStdout())
		return true

	case ".classes":
		for _, cls := range sess.analysis.Classes() {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %-40s %s:%d\n", cls.QualName, cls.Module, cls.Line)
		}
		return true

	case ".inspect", ".instance":
		if len(parts) < 2 {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Usage: %s <qualname>\n", command)
			return true
		}
		inspectInREPL(cmd, sess, parts[1], command == ".instance")
		return true

	case ".mro":
		if len(parts) < 2 {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Usage: .mro <qualname>")
			return true
		}
		cls, ok := sess.analysis.Class(parts[1], "")
		if !ok {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Unknown class: %s\n", parts[1])
			return true
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(cls.MRO, " -> "))
		return true

	case ".reload":
		analysis, err := sess.cmdCtx.Analyzer.Run(cmd.Context())
		if err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return true
		}
		sess.analysis = analysis
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Reloaded: %d classes in %d modules\n",
			analysis.Stats.ClassCount, analysis.Stats.ModuleCount)
		return true

	case ".clear":
		fmt.Print("\033[H\033[2J")
		return true

	default:
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Unknown command: %s (type .help for commands)\n", command)
		return true
	}
}

// inspectInREPL renders one class from the held analysis. The instance view
// re-runs inference because instance attributes are not part of the report.
func inspectInREPL(cmd *cobra.Command, sess *replSession, qualName string, instance bool) {
	opts := &inspectOptions{instance: instance}

	if instance {
		cls, err := sess.cmdCtx.Analyzer.Inspect(cmd.Context(), qualName, analyzer.InspectOptions{InstanceView: true})
		if err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return
		}
		_ = inspectText(sess.cmdCtx.Renderer, cls, opts)
		return
	}

	cls, ok := sess.analysis.Class(qualName, "")
	if !ok {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Unknown class: %s (type .classes for a listing)\n", qualName)
		return
	}
	_ = inspectText(sess.cmdCtx.Renderer, &cls, opts)
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help             Show this help message
  .classes          List all discovered classes
  .inspect <name>   Show a class with its attributes
  .instance <name>  Show the instance view of a class
  .mro <name>       Print a class's method resolution order
  .reload           Re-analyze the source tree
  .clear            Clear the screen
  .quit / .exit     Exit the REPL

Tips:
  - Typing a bare qualified name inspects that class
  - Use arrow keys to navigate history
  - Tab completion works for class names
`
	_, _ = fmt.Fprintln(w, help)
}

// newClassCompleter creates a readline completer for class names.
func newClassCompleter(analysis *report.Analysis) *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for _, cls := range analysis.Classes() {
		items = append(items, readline.PcItem(cls.QualName))
	}

	// Add dot-commands
	items = append(items,
		readline.PcItem(".help"),
		readline.PcItem(".classes"),
		readline.PcItem(".inspect"),
		readline.PcItem(".instance"),
		readline.PcItem(".mro"),
		readline.PcItem(".reload"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)

	return readline.NewPrefixCompleter(items...)
}
