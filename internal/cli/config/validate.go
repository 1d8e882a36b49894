package config

import (
	"fmt"
	"os"
	"strings"
)

// ValidOutputFormats lists the accepted values for the output setting.
var ValidOutputFormats = []string{"auto", "text", "markdown", "json"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.SourceDir == "" {
		return fmt.Errorf("source_dir is required")
	}

	if c.OutputFormat != "" && !isValidOutput(c.OutputFormat) {
		return fmt.Errorf("unknown output format %q: valid formats are %s (set output in pylens.yaml or use --output)",
			c.OutputFormat, strings.Join(ValidOutputFormats, ", "))
	}

	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}

	if c.Server != nil && (c.Server.Port < 0 || c.Server.Port > 65535) {
		return fmt.Errorf("server port out of range: %d", c.Server.Port)
	}

	// Only validate directory existence if we're running a command that needs it
	// This allows help commands to work without a valid directory
	return nil
}

// ValidateDirectories checks if required directories exist.
func (c *Config) ValidateDirectories() error {
	if _, err := os.Stat(c.SourceDir); os.IsNotExist(err) {
		return fmt.Errorf("source directory does not exist: %s\nHint: Create the directory or use --source-dir to specify a different path", c.SourceDir)
	}
	return nil
}

func isValidOutput(format string) bool {
	for _, f := range ValidOutputFormats {
		if f == format {
			return true
		}
	}
	return false
}
