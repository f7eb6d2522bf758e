package adapters

import (
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrateMetaAdapter_PackageName(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `[package]
name = "sp-core"
version = "21.0.0"

[dependencies]
serde = "1.0"
sp-std = { path = "../std", default-features = false }
`)
	adapter := NewCrateMetaAdapter()
	name, err := adapter.PackageName(path)
	require.NoError(t, err)
	assert.Equal(t, "sp-core", name)
}

func TestCrateMetaAdapter_VirtualManifestHasNoName(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `[workspace]
members = ["node", "runtime"]
`)
	adapter := NewCrateMetaAdapter()
	name, err := adapter.PackageName(path)
	require.NoError(t, err)
	assert.Empty(t, name)
}

func TestCrateMetaAdapter_MalformedManifest(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "[package\nname = \"broken\"\n")

	adapter := NewCrateMetaAdapter()
	_, err := adapter.PackageName(path)
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
	assert.Contains(t, err.Error(), "failed to parse")
}
