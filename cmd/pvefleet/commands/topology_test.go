package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopology(t *testing.T) {
	cmd := Topology()

	require.NotNil(t, cmd)
	assert.Equal(t, "topology", cmd.Use)
	assert.NotNil(t, cmd.RunE)
}

func TestTopology_Flags(t *testing.T) {
	cmd := Topology()

	manifest := cmd.Flags().Lookup("manifest")
	require.NotNil(t, manifest)
	assert.Equal(t, "m", manifest.Shorthand)

	assert.NotNil(t, cmd.Flags().Lookup("no-color"))
}

func TestTopology_ManifestRequired(t *testing.T) {
	cmd := Topology()
	cmd.SetArgs([]string{})
	assert.Error(t, cmd.Execute())
}
