// Package main is the entry point for the vcrtsctl CLI. Every command
// runs against the shared data directory.
package main

import (
	"os"

	"vcrts/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
