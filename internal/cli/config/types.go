package config

import (
	"github.com/leapstack-labs/pylens/pkg/inference"
)

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Host  string `koanf:"host"`
	Port  int    `koanf:"port"`
	Watch bool   `koanf:"watch"`
}

// DefaultServerConfig returns a ServerConfig with default values.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Host:  "127.0.0.1",
		Port:  8517,
		Watch: true,
	}
}

// GetServerConfig returns the server config with defaults applied for any unset values.
func (c *Config) GetServerConfig() *ServerConfig {
	if c.Server == nil {
		return DefaultServerConfig()
	}
	srv := c.Server
	if srv.Host == "" {
		srv.Host = "127.0.0.1"
	}
	if srv.Port == 0 {
		srv.Port = 8517
	}
	return srv
}

// LimitsConfig bounds the analysis walks. Zero values take the engine defaults.
type LimitsConfig struct {
	MROEntries   int `koanf:"mro_entries"`
	ScopeDepth   int `koanf:"scope_depth"`
	ResolveDepth int `koanf:"resolve_depth"`
}

// InferenceLimits converts the configured bounds into engine limits, filling
// unset fields from the engine defaults.
func (c *Config) InferenceLimits() inference.Limits {
	lim := inference.DefaultLimits()
	if c.Limits == nil {
		return lim
	}
	if c.Limits.MROEntries > 0 {
		lim.MaxMROEntries = c.Limits.MROEntries
	}
	if c.Limits.ScopeDepth > 0 {
		lim.MaxScopeDepth = c.Limits.ScopeDepth
	}
	if c.Limits.ResolveDepth > 0 {
		lim.MaxResolveDepth = c.Limits.ResolveDepth
	}
	return lim
}

// Config holds all CLI configuration options.
type Config struct {
	SourceDir    string        `koanf:"source_dir"`
	PluginsDir   string        `koanf:"plugins_dir"`
	StatePath    string        `koanf:"state_path"`
	Exclude      []string      `koanf:"exclude"`
	Verbose      bool          `koanf:"verbose"`
	OutputFormat string        `koanf:"output"`
	Workers      int           `koanf:"workers"`
	Server       *ServerConfig `koanf:"server"`
	Limits       *LimitsConfig `koanf:"limits"`
	ProjectRoot  string        `koanf:"-"`
}

// Default configuration values.
const (
	DefaultSourceDir  = "."
	DefaultPluginsDir = "plugins"
	DefaultStateFile  = ".pylens/index.db"
	DefaultOutput     = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)

// DefaultExcludes returns the directory names skipped during source discovery.
func DefaultExcludes() []string {
	return []string{
		".git",
		".hg",
		".tox",
		".venv",
		"venv",
		"__pycache__",
		".mypy_cache",
		"node_modules",
	}
}
