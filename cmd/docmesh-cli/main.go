// Package main provides the entry point for docmesh-cli.
//
// docmesh-cli is the command-line management tool for DocMesh,
// covering document administration, session monitoring and local
// server management.
package main

import (
	"fmt"
	"os"

	"github.com/yndnr/docmesh-go/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
