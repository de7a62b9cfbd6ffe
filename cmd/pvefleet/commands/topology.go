package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/pvefleet/cmd/pvefleet/handlers"
)

// Topology returns the command that prints the cluster role partition of
// the expanded fleet.
//
// Flags:
//
//	--manifest, -m: Manifest fragment path; repeatable, merged in order (required)
//	--no-color:     Disable colored output
func Topology() *cobra.Command {
	var (
		fragments []string
		noColor   bool
	)

	cmd := &cobra.Command{
		Use:   "topology",
		Short: "Show the control-plane/data-plane partition of the expanded fleet",
		Long: `Show the control-plane/data-plane partition of the expanded fleet.

Instances are partitioned by the cluster's name-prefix convention. The
first control-plane instance is the bootstrap head the cluster bootstrap
collaborator contacts first.

Examples:
  pvefleet topology -m infrastructure.yaml`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.Topology(fragments, noColor)
		},
	}

	cmd.Flags().StringArrayVarP(&fragments, "manifest", "m", nil, "Manifest fragment path (repeatable, merge order)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	_ = cmd.MarkFlagRequired("manifest")

	return cmd
}
