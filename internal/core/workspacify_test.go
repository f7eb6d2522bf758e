package core

import (
	"context"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspacifyRewiresSiblingDependencies(t *testing.T) {
	rootDoc := parseDoc(t, `[package]
name = "root"
version = "0.1.0"
`)
	nodeDoc := parseDoc(t, `[package]
name = "node"
version = "0.1.0"

[dependencies]
sp-core = { git = "https://github.com/paritytech/substrate", branch = "master", default-features = false }
serde = "1.0"
`)
	coreDoc := parseDoc(t, `[package]
name = "sp-core"
version = "21.0.0"
`)

	w := Workspacifier{RootDir: "/ws", RootDoc: rootDoc}
	changed, err := w.Run(context.Background(), []WorkspaceCrate{
		{Name: "node", Dir: "/ws/node", Doc: nodeDoc},
		{Name: "sp-core", Dir: "/ws/core", Doc: coreDoc},
	})
	require.NoError(t, err)
	require.Len(t, changed, 2, "node manifest and root manifest change")

	wantNode := `[package]
name = "node"
version = "0.1.0"

[dependencies]
sp-core = { path = "../core", default-features = false }
serde = "1.0"
`
	if diff := cmp.Diff(wantNode, string(nodeDoc.Bytes())); diff != "" {
		t.Errorf("node manifest (-want +got):\n%s", diff)
	}

	wantRoot := `[package]
name = "root"
version = "0.1.0"

[workspace]
members = [
	"core",
	"node",
]
`
	if diff := cmp.Diff(wantRoot, string(rootDoc.Bytes())); diff != "" {
		t.Errorf("root manifest (-want +got):\n%s", diff)
	}
}

func TestWorkspacifyConvertsStringEntries(t *testing.T) {
	rootDoc := parseDoc(t, "")
	nodeDoc := parseDoc(t, `[dependencies]
sp-core = "21.0.0"
renamed = { package = "sp-core", version = "21.0.0", optional = true }
`)
	coreDoc := parseDoc(t, `[package]
name = "sp-core"
version = "21.0.0"
`)

	w := Workspacifier{RootDir: "/ws", RootDoc: rootDoc}
	_, err := w.Run(context.Background(), []WorkspaceCrate{
		{Name: "node", Dir: "/ws/node", Doc: nodeDoc},
		{Name: "sp-core", Dir: "/ws/primitives/core", Doc: coreDoc},
	})
	require.NoError(t, err)

	out := string(nodeDoc.Bytes())
	assert.Contains(t, out, `sp-core = { path = "../primitives/core" }`)
	assert.Contains(t, out, `renamed = { package = "sp-core", path = "../primitives/core", optional = true }`)
}

func TestWorkspacifyIsIdempotent(t *testing.T) {
	rootDoc := parseDoc(t, "")
	nodeDoc := parseDoc(t, `[dependencies]
sp-core = { git = "https://github.com/paritytech/substrate", branch = "master" }
`)
	coreDoc := parseDoc(t, "")
	crates := []WorkspaceCrate{
		{Name: "node", Dir: "/ws/node", Doc: nodeDoc},
		{Name: "sp-core", Dir: "/ws/core", Doc: coreDoc},
	}

	w := Workspacifier{RootDir: "/ws", RootDoc: rootDoc}
	changed, err := w.Run(context.Background(), crates)
	require.NoError(t, err)
	require.NotEmpty(t, changed)
	firstNode := string(nodeDoc.Bytes())
	firstRoot := string(rootDoc.Bytes())

	changed, err = w.Run(context.Background(), crates)
	require.NoError(t, err)
	assert.Empty(t, changed, "second run has nothing left to do")
	assert.Equal(t, firstNode, string(nodeDoc.Bytes()))
	assert.Equal(t, firstRoot, string(rootDoc.Bytes()))
}

func TestWorkspacifyRejectsDuplicateCrateNames(t *testing.T) {
	w := Workspacifier{RootDir: "/ws", RootDoc: parseDoc(t, "")}
	_, err := w.Run(context.Background(), []WorkspaceCrate{
		{Name: "sp-core", Dir: "/ws/a", Doc: parseDoc(t, "")},
		{Name: "sp-core", Dir: "/ws/b", Doc: parseDoc(t, "")},
	})
	require.Error(t, err)

	var builderErr *errbuilder.ErrBuilder
	require.ErrorAs(t, err, &builderErr)
	assert.Equal(t, errbuilder.CodeFailedPrecondition, builderErr.Code)
	assert.Contains(t, builderErr.Msg, "sp-core")
}

func TestWorkspacifySkipsRootCrateInMembers(t *testing.T) {
	rootDoc := parseDoc(t, `[package]
name = "root"
version = "0.1.0"
`)
	w := Workspacifier{RootDir: "/ws", RootDoc: rootDoc}
	_, err := w.Run(context.Background(), []WorkspaceCrate{
		{Name: "root", Dir: "/ws", Doc: rootDoc},
		{Name: "node", Dir: "/ws/node", Doc: parseDoc(t, "")},
	})
	require.NoError(t, err)

	out := string(rootDoc.Bytes())
	assert.Contains(t, out, "\"node\",\n")
	assert.NotContains(t, out, `"."`)
}
