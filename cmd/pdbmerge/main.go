// Package main provides the entry point for the pdbmerge CLI tool.
package main

import (
	"os"

	"github.com/ROCm/pdbmerge/cmd/pdbmerge/app"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	application, err := app.New(version, commit, date)
	if err != nil {
		app.Exit(err)
	}

	app.Exit(application.Execute(os.Args[1:]))
}
