package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/pylens/internal/cli/output"
	"github.com/leapstack-labs/pylens/internal/plugin"
)

// NewPluginsCommand creates the plugins command.
func NewPluginsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "List the loaded analysis plugins",
		Long: `List every plugin file found in the plugins directory together with the
metaclass overrides it registers.

Plugins are Starlark files declared in a plugin.yaml manifest. Each
override names a metaclass and the function that rewrites the attribute
filters of classes built by that metaclass.`,
		Example: `  # List plugins from the configured directory
  pylens plugins

  # List plugins from an explicit directory as JSON
  pylens plugins --plugins-dir ./my-plugins --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlugins(cmd)
		},
	}

	return cmd
}

func runPlugins(cmd *cobra.Command) error {
	cmdCtx := NewCommandContextWithoutAnalyzer(cmd)
	r := cmdCtx.Renderer

	set, _, err := loadPlugins(cmdCtx.Cfg, cmdCtx.Logger)
	if err != nil {
		return fmt.Errorf("failed to load plugins: %w", err)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return pluginsJSON(r, set)
	case output.ModeMarkdown:
		return pluginsMarkdown(r, cmdCtx.Cfg.PluginsDir, set)
	default:
		return pluginsText(r, cmdCtx.Cfg.PluginsDir, set)
	}
}

// pluginsText outputs plugins in styled text format.
func pluginsText(r *output.Renderer, dir string, set *plugin.Set) error {
	r.Header(1, fmt.Sprintf("Plugins (%d files)", len(set.Plugins)))

	if len(set.Plugins) == 0 {
		r.Muted("No plugins found in " + dir)
		return nil
	}

	if set.Name != "" {
		r.Printf("%s", set.Name)
		if set.Description != "" {
			r.Printf(" - %s", set.Description)
		}
		r.Println("")
	}

	for _, p := range set.Plugins {
		r.Printf("  %s (%s)\n", p.Namespace, p.Path)
		if len(p.Exports) > 0 {
			r.Muted("    exports: " + strings.Join(p.Exports, ", "))
		}
	}

	overrides := set.Overrides()
	if len(overrides) > 0 {
		r.Println("")
		r.Header(2, "Metaclass overrides")
		for _, o := range overrides {
			r.Printf("  %s -> %s.%s\n", o.Metaclass, o.Namespace, o.Function)
		}
	}

	return nil
}

// pluginsMarkdown outputs plugins in markdown format.
func pluginsMarkdown(r *output.Renderer, dir string, set *plugin.Set) error {
	r.Println(output.FormatHeader(1, "Plugins"))
	r.Println("")

	if len(set.Plugins) == 0 {
		r.Println("No plugins found in " + dir)
		return nil
	}

	for _, p := range set.Plugins {
		r.Println(output.FormatHeader(2, p.Namespace))
		r.Println(output.FormatKeyValue("File", p.Path))
		if len(p.Exports) > 0 {
			r.Println(output.FormatKeyValue("Exports", strings.Join(p.Exports, ", ")))
		}
		r.Println("")
	}

	overrides := set.Overrides()
	if len(overrides) > 0 {
		r.Println(output.FormatHeader(2, "Metaclass overrides"))
		for _, o := range overrides {
			r.Printf("- `%s` -> `%s.%s`\n", o.Metaclass, o.Namespace, o.Function)
		}
	}

	return nil
}

// pluginsJSON outputs plugins in JSON format.
func pluginsJSON(r *output.Renderer, set *plugin.Set) error {
	out := output.PluginListOutput{
		Name:        set.Name,
		Description: set.Description,
		Plugins:     make([]output.PluginFileInfo, 0, len(set.Plugins)),
		Overrides:   []output.OverrideInfo{},
	}

	for _, p := range set.Plugins {
		out.Plugins = append(out.Plugins, output.PluginFileInfo{
			Namespace: p.Namespace,
			Path:      p.Path,
			Exports:   p.Exports,
		})
	}

	for _, o := range set.Overrides() {
		out.Overrides = append(out.Overrides, output.OverrideInfo{
			Metaclass: o.Metaclass,
			Function:  o.Function,
			Namespace: o.Namespace,
		})
	}

	return r.JSON(out)
}
