package commands

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/pylens/internal/analyzer"
	"github.com/leapstack-labs/pylens/internal/cli/config"
	"github.com/leapstack-labs/pylens/internal/cli/output"
	"github.com/leapstack-labs/pylens/internal/plugin"
	"github.com/leapstack-labs/pylens/internal/state"
	"github.com/leapstack-labs/pylens/pkg/inference"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Analyzer *analyzer.Analyzer
	Plugins  *plugin.Set
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with the analysis pipeline wired
// up, including any plugins found in the configured plugins directory.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	ctx := NewCommandContextWithoutAnalyzer(cmd)

	set, registry, err := loadPlugins(ctx.Cfg, ctx.Logger)
	if err != nil {
		return nil, err
	}
	ctx.Plugins = set

	ctx.Analyzer = analyzer.New(analyzer.Config{
		SourceDir: ctx.Cfg.SourceDir,
		Exclude:   ctx.Cfg.Exclude,
		Workers:   ctx.Cfg.Workers,
		Logger:    ctx.Logger,
		Limits:    ctx.Cfg.InferenceLimits(),
		Plugins:   registry,
	})

	return ctx, nil
}

// NewCommandContextWithoutAnalyzer creates a CommandContext without the
// analysis pipeline. Useful for commands that only read configuration.
func NewCommandContextWithoutAnalyzer(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.OutputMode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// OpenStore opens the symbol index, creating its directory when missing.
// The caller must close the returned store.
func (c *CommandContext) OpenStore() (*state.Store, error) {
	stateDir := filepath.Dir(c.Cfg.StatePath)
	if stateDir != "." && stateDir != "" {
		if err := os.MkdirAll(stateDir, 0750); err != nil {
			return nil, err
		}
	}

	store := state.NewStore()
	if err := store.Open(c.Cfg.StatePath); err != nil {
		return nil, err
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// Helper functions shared across commands

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	// Fallback: read from environment with defaults
	sourceDir := getEnvOrDefault("PYLENS_SOURCE_DIR", config.DefaultSourceDir)
	pluginsDir := getEnvOrDefault("PYLENS_PLUGINS_DIR", config.DefaultPluginsDir)
	statePath := getEnvOrDefault("PYLENS_STATE_PATH", config.DefaultStateFile)
	verbose := os.Getenv("PYLENS_VERBOSE") == "true"
	outputFormat := os.Getenv("PYLENS_OUTPUT")

	cwd, _ := os.Getwd()

	return &config.Config{
		SourceDir:    sourceDir,
		PluginsDir:   pluginsDir,
		StatePath:    statePath,
		Exclude:      config.DefaultExcludes(),
		Verbose:      verbose,
		OutputFormat: outputFormat,
		ProjectRoot:  cwd,
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// loadPlugins reads the plugins directory and installs every override into a
// fresh registry. A missing directory yields an empty set.
func loadPlugins(cfg *config.Config, logger *slog.Logger) (*plugin.Set, *inference.PluginRegistry, error) {
	set, err := plugin.NewLoader(cfg.PluginsDir, logger).Load()
	if err != nil {
		return nil, nil, err
	}

	registry := inference.NewPluginRegistry()
	set.Install(registry)
	return set, registry, nil
}
