package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	cmd := Expand()

	require.NotNil(t, cmd)
	assert.Equal(t, "expand", cmd.Use)
	assert.NotNil(t, cmd.RunE)
}

func TestExpand_Flags(t *testing.T) {
	cmd := Expand()

	manifest := cmd.Flags().Lookup("manifest")
	require.NotNil(t, manifest)
	assert.Equal(t, "m", manifest.Shorthand)

	output := cmd.Flags().Lookup("output")
	require.NotNil(t, output)
	assert.Equal(t, "o", output.Shorthand)
	assert.Equal(t, "-", output.DefValue)

	format := cmd.Flags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "yaml", format.DefValue)

	assert.NotNil(t, cmd.Flags().Lookup("no-color"))
}

func TestExpand_ManifestRequired(t *testing.T) {
	cmd := Expand()
	cmd.SetArgs([]string{})
	assert.Error(t, cmd.Execute())
}
