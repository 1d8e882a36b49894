// Package cli provides the command-line interface for Pylens.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/pylens/internal/analyzer"
	"github.com/leapstack-labs/pylens/internal/cli/commands"
	"github.com/leapstack-labs/pylens/internal/cli/config"
	"github.com/leapstack-labs/pylens/internal/cli/output"
	"github.com/leapstack-labs/pylens/internal/plugin"
	"github.com/leapstack-labs/pylens/pkg/inference"
)

var (
	cfgFile string
	cfg     *config.Config
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// configKey is used to store config in context.
type configKey struct{}

// rendererKey is used to store renderer in context.
type rendererKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pylens",
		Short: "Pylens - Python Class Analyzer",
		Long: `Pylens is a static analyzer for Python class hierarchies built with Go.

It parses a Python source tree without executing it, infers each class's
bases, method resolution order, metaclasses, and attributes, and serves
the results through reports, a queryable index, and a JSON API.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			// Load configuration with CLI flag overrides
			var err error
			cfg, err = config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			// Store config in context
			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)

			// Create and store renderer based on output mode
			mode := output.OutputMode(cfg.OutputFormat)
			renderer := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)
			ctx = context.WithValue(ctx, rendererKey{}, renderer)

			// Verbose runs log to stderr; quiet runs only surface warnings
			level := slog.LevelWarn
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			ctx = context.WithValue(ctx, config.LoggerKey(), logger)
			cmd.SetContext(ctx)

			// Print config file used (if verbose)
			if cfg.Verbose {
				if configFile := config.GetConfigFileUsed(); configFile != "" {
					fmt.Fprintf(os.Stderr, "Using config file: %s\n", configFile)
				}
			}

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set version template
	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
Static Python class analysis built with Go
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./pylens.yaml)")
	rootCmd.PersistentFlags().String("project-dir", "", "Path to the project root")
	rootCmd.PersistentFlags().String("source-dir", "", "Path to the Python source tree")
	rootCmd.PersistentFlags().String("plugins-dir", "", "Path to the plugins directory")
	rootCmd.PersistentFlags().String("state", "", "Path to the index database")
	rootCmd.PersistentFlags().StringSlice("exclude", nil, "Directory names to skip during discovery")
	rootCmd.PersistentFlags().Int("workers", 0, "Parallel parse workers (0 = CPU count)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (auto|text|markdown|json)")

	// Register completion for output flag
	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "text", "markdown", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(Version, GitCommit, BuildDate))
	rootCmd.AddCommand(commands.NewClassesCommand())
	rootCmd.AddCommand(commands.NewInspectCommand())
	rootCmd.AddCommand(commands.NewIndexCommand())
	rootCmd.AddCommand(commands.NewPluginsCommand())
	rootCmd.AddCommand(commands.NewREPLCommand())
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewDoctorCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	// Return default config if none in context
	return &config.Config{
		SourceDir:    config.DefaultSourceDir,
		PluginsDir:   config.DefaultPluginsDir,
		StatePath:    config.DefaultStateFile,
		Exclude:      config.DefaultExcludes(),
		OutputFormat: config.DefaultOutput,
	}
}

// GetRenderer retrieves the renderer from the command context.
func GetRenderer(ctx context.Context) *output.Renderer {
	if r, ok := ctx.Value(rendererKey{}).(*output.Renderer); ok {
		return r
	}
	// Return default renderer if none in context
	return output.NewRenderer(os.Stdout, os.Stderr, output.ModeAuto)
}

// CreateAnalyzer creates an analyzer from the current configuration.
func CreateAnalyzer(cfg *config.Config, logger *slog.Logger) (*analyzer.Analyzer, error) {
	registry := inference.NewPluginRegistry()
	set, err := plugin.NewLoader(cfg.PluginsDir, logger).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load plugins: %w", err)
	}
	set.Install(registry)

	return analyzer.New(analyzer.Config{
		SourceDir: cfg.SourceDir,
		Exclude:   cfg.Exclude,
		Workers:   cfg.Workers,
		Logger:    logger,
		Limits:    cfg.InferenceLimits(),
		Plugins:   registry,
	}), nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for Pylens.

To load completions:

Bash:
  $ source <(pylens completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ pylens completion bash > /etc/bash_completion.d/pylens
  # macOS:
  $ pylens completion bash > $(brew --prefix)/etc/bash_completion.d/pylens

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ pylens completion zsh > "${fpath[1]}/_pylens"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ pylens completion fish | source

  # To load completions for each session, execute once:
  $ pylens completion fish > ~/.config/fish/completions/pylens.fish

PowerShell:
  PS> pylens completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> pylens completion powershell > pylens.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
	return cmd
}
