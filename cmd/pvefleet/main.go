// Package main is the entry point for the pvefleet CLI.
//
// pvefleet is a stateless compiler for declarative homelab infrastructure
// manifests. It expands a compact description of Proxmox VE nodes,
// templates and a hybrid single/batch guest fleet into a fully validated
// set of concrete resource records, ready for an external provisioning
// layer to apply. It never talks to the hypervisor itself.
//
// Commands: validate, expand, topology, version, completion.
//
// For detailed usage information, run:
//
//	pvefleet --help
package main

import (
	"fmt"
	"os"

	"github.com/imamik/pvefleet/cmd/pvefleet/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
