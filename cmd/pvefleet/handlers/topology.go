package handlers

import (
	"errors"
	"fmt"

	"github.com/imamik/pvefleet/internal/compile"
)

// Topology compiles the manifest fragments and prints the cluster role
// partition of the expanded fleet.
func Topology(fragments []string, noColor bool) error {
	res, err := compile.Run(fragments)
	if err != nil {
		return err
	}

	r := newRenderer(noColor)
	if !res.Provisionable() {
		fmt.Print(r.renderReport(res.Report))
		return errors.New("manifest validation failed")
	}
	if res.Topology == nil {
		return errors.New("manifest declares no cluster section")
	}

	fmt.Print(r.renderTopology(res.Topology))
	return nil
}
