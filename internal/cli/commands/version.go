package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/pylens/internal/cli/output"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version, commit, builtAt string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display Pylens version and build information.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := NewCommandContextWithoutAnalyzer(cmd)
			r := ctx.Renderer

			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(output.VersionOutput{
					Version: version,
					Commit:  commit,
					BuiltAt: builtAt,
				})
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Pylens v%s\n", version)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Static Python class analysis built with Go")
			if commit != "unknown" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "commit %s, built %s\n", commit, builtAt)
			}
			return nil
		},
	}
}
