package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cargo-repin/internal/types"
)

func writeIdentities(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "identities.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestIdentityFileAdapter_LoadIdentities(t *testing.T) {
	path := writeIdentities(t, `identities:
  - name: substrate
    repo: substrate-fork
    locator: https://github.com/forks/substrate-fork
  - name: orml
    repo: open-runtime-module-library
    locator: https://github.com/open-web3-stack/open-runtime-module-library
`)
	adapter := NewIdentityFileAdapter()
	identities, err := adapter.LoadIdentities(path)
	require.NoError(t, err)
	require.Len(t, identities, 2)
	assert.Equal(t, types.Identity{
		Name:    "substrate",
		Repo:    "substrate-fork",
		Locator: "https://github.com/forks/substrate-fork",
	}, identities[0])
	assert.Equal(t, "orml", identities[1].Name)
}

func TestIdentityFileAdapter_MissingFieldErrors(t *testing.T) {
	path := writeIdentities(t, `identities:
  - name: substrate
    repo: substrate
`)
	adapter := NewIdentityFileAdapter()
	_, err := adapter.LoadIdentities(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestIdentityFileAdapter_MalformedYAML(t *testing.T) {
	path := writeIdentities(t, "identities:\n  - name: [broken\n")

	adapter := NewIdentityFileAdapter()
	_, err := adapter.LoadIdentities(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestIdentityFileAdapter_MissingFile(t *testing.T) {
	adapter := NewIdentityFileAdapter()
	_, err := adapter.LoadIdentities(filepath.Join(t.TempDir(), "identities.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "identities file not found")
}
