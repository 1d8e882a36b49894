package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/pylens/internal/server"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Host  string
	Port  int
	Watch bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the class model over a JSON API",
		Long: `Start a local HTTP server exposing the analyzed class model.

The API provides:
- Class listings and per-class detail
- Method resolution orders and attribute views
- The project inheritance hierarchy
- Analysis diagnostics

With watching enabled the source tree is re-analyzed whenever a Python
file changes, so responses stay current while you edit.`,
		Example: `  # Serve on the default address
  pylens serve

  # Serve on a custom port
  pylens serve --port 3000

  # Serve without re-analyzing on file changes
  pylens serve --watch=false`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Host, "host", "", "Host to bind (default: 127.0.0.1)")
	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8517)")
	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "Re-analyze when source files change")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	cfg := cmdCtx.Cfg

	// Get server config with defaults
	srvCfg := cfg.GetServerConfig()

	// CLI flags override config file
	host := srvCfg.Host
	if opts.Host != "" {
		host = opts.Host
	}

	port := srvCfg.Port
	if opts.Port != 0 {
		port = opts.Port
	}

	watch := srvCfg.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.Watch
	}

	// Validate source directory exists
	if err := cfg.ValidateDirectories(); err != nil {
		return err
	}

	srv := server.NewServer(server.Config{
		Analyzer:  cmdCtx.Analyzer,
		SourceDir: cfg.SourceDir,
		Host:      host,
		Port:      port,
		Watch:     watch,
		Logger:    cmdCtx.Logger,
	})

	fmt.Printf("Starting API server on http://%s:%d\n", host, port)
	fmt.Println("Press Ctrl+C to stop")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	return srv.Serve(ctx)
}
