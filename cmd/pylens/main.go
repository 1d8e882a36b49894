// Package main provides the Pylens command-line interface.
package main

import (
	"os"

	"github.com/leapstack-labs/pylens/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
