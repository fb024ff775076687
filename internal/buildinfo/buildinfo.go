// Package buildinfo carries build metadata injected at link time, e.g.
//
//	go build -ldflags "-X github.com/dmitrijs2005/stakr/internal/buildinfo.Version=1.2.0"
package buildinfo

import (
	"fmt"
	"io"
)

var (
	Version   = "0.1.0"
	BuildDate = "N/A"
	Commit    = "N/A"
)

// PrintBuildData writes the build metadata, one field per line.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", Version)
	fmt.Fprintf(w, "Build date: %s\n", BuildDate)
	fmt.Fprintf(w, "Build commit: %s\n", Commit)
}
