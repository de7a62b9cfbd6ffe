package handlers

import (
	"errors"
	"fmt"

	"github.com/imamik/pvefleet/internal/compile"
)

// Validate compiles the manifest fragments and prints the violation
// report. It returns an error when the manifest does not validate cleanly
// so the CLI exits non-zero.
func Validate(fragments []string, noColor bool) error {
	res, err := compile.Run(fragments)
	if err != nil {
		return err
	}

	r := newRenderer(noColor)
	fmt.Print(r.renderReport(res.Report))

	if !res.Provisionable() {
		return errors.New("manifest validation failed")
	}
	return nil
}
