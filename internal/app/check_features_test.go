package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckFeaturesReportsViolations(t *testing.T) {
	root := t.TempDir()
	offender := filepath.Join(root, "runtime", "Cargo.toml")
	writeFile(t, offender, `[package]
name = "runtime"
version = "0.1.0"

[dependencies]
sp-core = { git = "https://github.com/paritytech/substrate", default-features = false }
sp-io = { git = "https://github.com/paritytech/substrate", default-features = false }

[features]
std = ["sp-io/std"]
`)
	writeFile(t, filepath.Join(root, "tools", "Cargo.toml"), `[package]
name = "tools"
version = "0.1.0"

[dependencies]
serde = "1.0"
`)

	service := NewService()
	result, err := service.CheckFeatures(context.Background(), CheckFeaturesRequest{Root: root})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Scanned)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, offender, result.Violations[0].ManifestPath)
	assert.Equal(t, "sp-core", result.Violations[0].Dependency)

	// Read-only: the offending manifest is never mutated.
	assert.Contains(t, readFile(t, offender), `std = ["sp-io/std"]`)
}

func TestCheckFeaturesCleanTree(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Cargo.toml"), `[package]
name = "clean"
version = "0.1.0"

[dependencies]
sp-core = { git = "https://github.com/paritytech/substrate", default-features = false }

[features]
std = ["sp-core/std"]
`)

	service := NewService()
	result, err := service.CheckFeatures(context.Background(), CheckFeaturesRequest{Root: root})
	require.NoError(t, err)
	assert.Empty(t, result.Violations)
}
