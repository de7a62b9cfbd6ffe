package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/pvefleet/cmd/pvefleet/handlers"
)

// Expand returns the command that compiles the manifest and emits the
// expanded resource set for the provisioning layer.
//
// Flags:
//
//	--manifest, -m: Manifest fragment path; repeatable, merged in order (required)
//	--output, -o:   Output file path; "-" for stdout (default "-")
//	--format:       Output encoding, yaml or json (default yaml)
//	--no-color:     Disable colored output
func Expand() *cobra.Command {
	var (
		fragments []string
		output    string
		format    string
		noColor   bool
	)

	cmd := &cobra.Command{
		Use:   "expand",
		Short: "Expand the manifest into the provisionable resource set",
		Long: `Expand the manifest into the provisionable resource set.

The fleet is expanded into concrete instances with derived IDs and MAC
addresses, per-node network maps are flattened, and the full validation
pass runs. Output is only written when the manifest validates cleanly;
a manifest with violations never produces a partial resource set.

Examples:
  # Expand to stdout
  pvefleet expand -m infrastructure.yaml

  # Expand fragments to a file as JSON
  pvefleet expand -m base.yaml -m site.yaml -o resources.json --format json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.Expand(fragments, output, format, noColor)
		},
	}

	cmd.Flags().StringArrayVarP(&fragments, "manifest", "m", nil, "Manifest fragment path (repeatable, merge order)")
	cmd.Flags().StringVarP(&output, "output", "o", "-", `Output path ("-" for stdout)`)
	cmd.Flags().StringVar(&format, "format", "yaml", "Output format: yaml or json")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	_ = cmd.MarkFlagRequired("manifest")

	return cmd
}
