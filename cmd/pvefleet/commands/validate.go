package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/pvefleet/cmd/pvefleet/handlers"
)

// Validate returns the command that compiles the manifest and reports
// every violation found, without emitting any output artifact.
//
// Flags:
//
//	--manifest, -m: Manifest fragment path; repeatable, merged in order (required)
//	--no-color:     Disable colored output
func Validate() *cobra.Command {
	var (
		fragments []string
		noColor   bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate manifest fragments and report all violations",
		Long: `Validate manifest fragments and report all violations.

Fragments are merged in the order given; later fragments override earlier
ones within merged sections. The full expansion and cross-reference checks
run, and every violation is reported in one pass.

Examples:
  # Validate a single manifest
  pvefleet validate -m infrastructure.yaml

  # Validate an ordered set of fragments
  pvefleet validate -m base.yaml -m site.yaml -m overrides.yaml`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.Validate(fragments, noColor)
		},
	}

	cmd.Flags().StringArrayVarP(&fragments, "manifest", "m", nil, "Manifest fragment path (repeatable, merge order)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	_ = cmd.MarkFlagRequired("manifest")

	return cmd
}
