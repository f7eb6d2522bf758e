package core

import (
	"context"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cargo-repin/internal/types"
)

func TestPatchBuilderCreatesTable(t *testing.T) {
	doc := parseDoc(t, `[workspace]
members = ["node"]
`)
	builder := PatchBuilder{
		Key:     types.DefaultPatchTarget,
		PointTo: types.PointTo{Kind: types.PointToPath},
	}
	crates := []types.PatchCrate{
		{Name: "sp-core", RelPath: "../substrate/primitives/core"},
		{Name: "sp-io", RelPath: "../substrate/primitives/io"},
	}
	changed, err := builder.Build(context.Background(), doc, crates)
	require.NoError(t, err)
	assert.True(t, changed)

	want := `[workspace]
members = ["node"]

[patch."https://github.com/paritytech/polkadot-sdk"]
sp-core = { path = "../substrate/primitives/core" }
sp-io = { path = "../substrate/primitives/io" }
`
	if diff := cmp.Diff(want, string(doc.Bytes())); diff != "" {
		t.Errorf("patched manifest (-want +got):\n%s", diff)
	}
}

func TestPatchBuilderRequiresWorkspaceTable(t *testing.T) {
	input := `[package]
name = "app"
version = "0.1.0"
`
	doc := parseDoc(t, input)
	builder := PatchBuilder{
		Key:     types.DefaultPatchTarget,
		PointTo: types.PointTo{Kind: types.PointToPath},
	}
	changed, err := builder.Build(context.Background(), doc,
		[]types.PatchCrate{{Name: "sp-core", RelPath: "../substrate/primitives/core"}})
	require.Error(t, err)
	assert.False(t, changed)
	assert.Equal(t, input, string(doc.Bytes()), "a failed build leaves the target alone")

	var builderErr *errbuilder.ErrBuilder
	require.ErrorAs(t, err, &builderErr)
	assert.Equal(t, errbuilder.CodeFailedPrecondition, builderErr.Code)
	assert.Contains(t, builderErr.Msg, "[workspace]")
}

func TestPatchBuilderIsIdempotent(t *testing.T) {
	doc := parseDoc(t, `[workspace]
members = ["node"]
`)
	builder := PatchBuilder{
		Key:     types.DefaultPatchTarget,
		PointTo: types.PointTo{Kind: types.PointToPath},
	}
	crates := []types.PatchCrate{{Name: "sp-core", RelPath: "../substrate/primitives/core"}}

	changed, err := builder.Build(context.Background(), doc, crates)
	require.NoError(t, err)
	require.True(t, changed)
	first := string(doc.Bytes())

	changed, err = builder.Build(context.Background(), doc, crates)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, first, string(doc.Bytes()))
}

func TestPatchBuilderRefreshesStaleEntries(t *testing.T) {
	doc := parseDoc(t, `[workspace]
members = ["node"]

[patch."https://github.com/paritytech/polkadot-sdk"]
sp-core = { path = "../old-checkout/core" }
frame-support = { path = "../old-checkout/frame/support" }
`)
	builder := PatchBuilder{
		Key:     types.DefaultPatchTarget,
		PointTo: types.PointTo{Kind: types.PointToPath},
	}
	changed, err := builder.Build(context.Background(), doc,
		[]types.PatchCrate{{Name: "sp-core", RelPath: "../substrate/primitives/core"}})
	require.NoError(t, err)
	assert.True(t, changed)

	out := string(doc.Bytes())
	assert.Contains(t, out, `sp-core = { path = "../substrate/primitives/core" }`)
	assert.Contains(t, out, `frame-support = { path = "../old-checkout/frame/support" }`,
		"entries for crates outside the source tree stay put")
}

func TestPatchBuilderRejectsDuplicateCrateNames(t *testing.T) {
	input := `[workspace]
members = ["node"]
`
	doc := parseDoc(t, input)
	builder := PatchBuilder{
		Key:     types.DefaultPatchTarget,
		PointTo: types.PointTo{Kind: types.PointToPath},
	}
	crates := []types.PatchCrate{
		{Name: "sp-core", RelPath: "a/core"},
		{Name: "sp-core", RelPath: "b/core"},
	}
	changed, err := builder.Build(context.Background(), doc, crates)
	require.Error(t, err)
	assert.False(t, changed)
	assert.Equal(t, input, string(doc.Bytes()))

	var builderErr *errbuilder.ErrBuilder
	require.ErrorAs(t, err, &builderErr)
	assert.Equal(t, errbuilder.CodeFailedPrecondition, builderErr.Code)
	assert.Contains(t, builderErr.Msg, "sp-core")
}

func TestPatchBuilderPointsToGit(t *testing.T) {
	doc := parseDoc(t, `[workspace]
members = ["node"]
`)
	builder := PatchBuilder{
		Key: "crates-io",
		PointTo: types.PointTo{
			Kind:   types.PointToGit,
			Git:    "https://github.com/paritytech/substrate",
			Branch: "fix-branch",
		},
	}
	changed, err := builder.Build(context.Background(), doc,
		[]types.PatchCrate{{Name: "sp-core", RelPath: "primitives/core"}})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Contains(t, string(doc.Bytes()),
		`[patch.crates-io]
sp-core = { git = "https://github.com/paritytech/substrate", branch = "fix-branch" }`)
}

func TestPatchBuilderPointsToGitCommit(t *testing.T) {
	doc := parseDoc(t, `[workspace]
members = ["node"]
`)
	builder := PatchBuilder{
		Key: types.DefaultPatchTarget,
		PointTo: types.PointTo{
			Kind:   types.PointToGit,
			Git:    "https://github.com/paritytech/substrate",
			Commit: "deadbeef",
		},
	}
	changed, err := builder.Build(context.Background(), doc,
		[]types.PatchCrate{{Name: "sp-core", RelPath: "primitives/core"}})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Contains(t, string(doc.Bytes()), `rev = "deadbeef"`)
}
