package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/leapstack-labs/pylens/internal/cli/config"
	"github.com/leapstack-labs/pylens/internal/cli/output"
)

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	if cmd.Use != "pylens" {
		t.Errorf("Use = %q, want %q", cmd.Use, "pylens")
	}
	if !cmd.SilenceUsage {
		t.Error("SilenceUsage should be true")
	}
	if !cmd.SilenceErrors {
		t.Error("SilenceErrors should be true")
	}

	wantFlags := []string{
		"config", "project-dir", "source-dir", "plugins-dir",
		"state", "exclude", "workers", "verbose", "output",
	}
	for _, name := range wantFlags {
		if cmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("missing persistent flag %q", name)
		}
	}

	wantCommands := []string{
		"version", "classes", "inspect", "index",
		"plugins", "repl", "serve", "doctor", "completion",
	}
	for _, name := range wantCommands {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestRootCmdVersionFlag(t *testing.T) {
	cmd := NewRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "pylens "+Version) {
		t.Errorf("version output %q missing %q", out, "pylens "+Version)
	}
	if !strings.Contains(out, "Static Python class analysis") {
		t.Errorf("version output %q missing tagline", out)
	}
}

func TestGetConfigFallback(t *testing.T) {
	cfg := GetConfig(context.Background())

	if cfg == nil {
		t.Fatal("GetConfig returned nil")
	}
	if cfg.SourceDir != config.DefaultSourceDir {
		t.Errorf("SourceDir = %q, want %q", cfg.SourceDir, config.DefaultSourceDir)
	}
	if cfg.StatePath != config.DefaultStateFile {
		t.Errorf("StatePath = %q, want %q", cfg.StatePath, config.DefaultStateFile)
	}
	if len(cfg.Exclude) == 0 {
		t.Error("Exclude should default to the standard skip list")
	}
}

func TestGetConfigFromContext(t *testing.T) {
	want := &config.Config{SourceDir: "src", StatePath: "custom.db"}
	ctx := context.WithValue(context.Background(), configKey{}, want)

	if got := GetConfig(ctx); got != want {
		t.Errorf("GetConfig = %+v, want the stored config", got)
	}
}

func TestGetRendererFallback(t *testing.T) {
	r := GetRenderer(context.Background())
	if r == nil {
		t.Fatal("GetRenderer returned nil")
	}
}

func TestGetRendererFromContext(t *testing.T) {
	var buf bytes.Buffer
	want := output.NewRenderer(&buf, &buf, output.ModeJSON)
	ctx := context.WithValue(context.Background(), rendererKey{}, want)

	if got := GetRenderer(ctx); got != want {
		t.Error("GetRenderer should return the stored renderer")
	}
}

func TestNewCompletionCommand(t *testing.T) {
	cmd := NewCompletionCommand()

	wantShells := []string{"bash", "zsh", "fish", "powershell"}
	if len(cmd.ValidArgs) != len(wantShells) {
		t.Fatalf("ValidArgs = %v, want %v", cmd.ValidArgs, wantShells)
	}
	for i, shell := range wantShells {
		if cmd.ValidArgs[i] != shell {
			t.Errorf("ValidArgs[%d] = %q, want %q", i, cmd.ValidArgs[i], shell)
		}
	}

	if err := cmd.Args(cmd, []string{"bash"}); err != nil {
		t.Errorf("Args(bash) error = %v", err)
	}
	if err := cmd.Args(cmd, []string{"tcsh"}); err == nil {
		t.Error("Args(tcsh) should fail")
	}
	if err := cmd.Args(cmd, nil); err == nil {
		t.Error("Args() with no shell should fail")
	}
}
