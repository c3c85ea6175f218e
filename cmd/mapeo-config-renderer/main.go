// Package main provides the entry point for the Mapeo configuration renderer.
package main

import (
	"fmt"
	"os"

	"github.com/digidem/mapeo-config-renderer/cmd/mapeo-config-renderer/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
