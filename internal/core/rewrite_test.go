package core

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cargo-repin/internal/types"
)

func substrateOnly(t *testing.T) types.IdentitySet {
	t.Helper()
	set, err := FilterIdentities(types.DefaultIdentities(), []string{"substrate"})
	require.NoError(t, err)
	return set
}

func TestRewriteBranchOnMatchedEntry(t *testing.T) {
	doc := parseDoc(t, `[dependencies]
sp-io = { git = "https://github.com/paritytech/substrate", branch = "old" }
other = { git = "https://github.com/example/some-other-repo", branch = "old" }
serde = "1.0"
`)
	rewriter := Rewriter{
		Identities: substrateOnly(t),
		Selector:   types.Selector{Kind: types.SelectorBranch, Value: "new"},
	}
	changed, err := rewriter.Rewrite(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, changed)

	want := `[dependencies]
sp-io = { git = "https://github.com/paritytech/substrate", branch = "new" }
other = { git = "https://github.com/example/some-other-repo", branch = "old" }
serde = "1.0"
`
	if diff := cmp.Diff(want, string(doc.Bytes())); diff != "" {
		t.Errorf("rewritten manifest (-want +got):\n%s", diff)
	}
}

func TestRewriteLeavesNonMatchingManifestUntouched(t *testing.T) {
	input := `[dependencies]
other = { git = "https://github.com/example/some-other-repo", branch = "old" }
`
	doc := parseDoc(t, input)
	rewriter := Rewriter{
		Identities: substrateOnly(t),
		Selector:   types.Selector{Kind: types.SelectorBranch, Value: "new"},
	}
	changed, err := rewriter.Rewrite(context.Background(), doc)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, input, string(doc.Bytes()))
}

func TestRewriteReplacesBranchWithRev(t *testing.T) {
	doc := parseDoc(t, `[dependencies]
sp-io = { git = "https://github.com/paritytech/substrate", branch = "old" }
`)
	rewriter := Rewriter{
		Identities: types.DefaultIdentities(),
		Selector:   types.Selector{Kind: types.SelectorRev, Value: "abc123"},
	}
	changed, err := rewriter.Rewrite(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, changed)

	out := string(doc.Bytes())
	assert.Contains(t, out, `rev = "abc123"`)
	assert.NotContains(t, out, "branch")
}

func TestRewriteKeepsExactlyOneSelectorKey(t *testing.T) {
	doc := parseDoc(t, `[dependencies]
a = { git = "https://github.com/paritytech/substrate", branch = "b", tag = "t" }

[dependencies.sp-core]
git = "https://github.com/paritytech/substrate"
rev = "000"
branch = "dev"
`)
	rewriter := Rewriter{
		Identities: types.DefaultIdentities(),
		Selector:   types.Selector{Kind: types.SelectorTag, Value: "v1.0"},
	}
	changed, err := rewriter.Rewrite(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, changed)

	entries, err := collectEntries(doc)
	require.NoError(t, err)
	for _, entry := range entries {
		present := 0
		for _, key := range selectorKeys {
			if entry.has(key) {
				present++
			}
		}
		assert.Equal(t, 1, present, entry.name)
		tag, ok := entry.getString("tag")
		require.True(t, ok, entry.name)
		assert.Equal(t, "v1.0", tag, entry.name)
	}
}

func TestRewriteIsIdempotent(t *testing.T) {
	doc := parseDoc(t, `[dependencies]
sp-io = { git = "https://github.com/paritytech/substrate", branch = "old" }
`)
	rewriter := Rewriter{
		Identities: types.DefaultIdentities(),
		Selector:   types.Selector{Kind: types.SelectorBranch, Value: "new"},
	}
	changed, err := rewriter.Rewrite(context.Background(), doc)
	require.NoError(t, err)
	require.True(t, changed)
	first := string(doc.Bytes())

	changed, err = rewriter.Rewrite(context.Background(), doc)
	require.NoError(t, err)
	assert.False(t, changed, "second run has nothing left to do")
	assert.Equal(t, first, string(doc.Bytes()))
}

func TestRewritePathSelectorReplacesGitSource(t *testing.T) {
	doc := parseDoc(t, `[dependencies]
sp-io = { git = "https://github.com/paritytech/substrate", branch = "old", default-features = false }
`)
	rewriter := Rewriter{
		Identities: types.DefaultIdentities(),
		Selector:   types.Selector{Kind: types.SelectorPath, Value: "../substrate"},
	}
	changed, err := rewriter.Rewrite(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, changed)

	out := string(doc.Bytes())
	assert.Contains(t, out, `path = "../substrate"`)
	assert.Contains(t, out, "default-features = false")
	assert.NotContains(t, out, "git")
	assert.NotContains(t, out, "branch")
}

func TestRewriteVersionSelectorUsesLockedVersions(t *testing.T) {
	doc := parseDoc(t, `[dependencies]
sp-io = { git = "https://github.com/paritytech/substrate", branch = "old" }
sp-core = { git = "https://github.com/paritytech/substrate", branch = "old" }
`)
	rewriter := Rewriter{
		Identities: types.DefaultIdentities(),
		Selector:   types.Selector{Kind: types.SelectorVersion},
		Versions:   map[string]string{"sp-io": "22.0.0"},
	}
	changed, err := rewriter.Rewrite(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, changed)

	out := string(doc.Bytes())
	assert.Contains(t, out, `sp-io = { version = "22.0.0" }`)
	assert.Contains(t, out, `sp-core = { git = "https://github.com/paritytech/substrate", branch = "old" }`,
		"entries without a locked version stay as they were")
}

func TestRewriteGitURLRedirect(t *testing.T) {
	doc := parseDoc(t, `[dependencies]
sp-io = { git = "https://github.com/paritytech/substrate", branch = "old" }
`)
	rewriter := Rewriter{
		Identities: substrateOnly(t),
		Selector:   types.Selector{Kind: types.SelectorBranch, Value: "fork-branch"},
		GitURL:     "https://github.com/forks/substrate",
	}
	changed, err := rewriter.Rewrite(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Contains(t, string(doc.Bytes()),
		`sp-io = { git = "https://github.com/forks/substrate", branch = "fork-branch" }`)
}

func TestRewriteGitURLRedirectWithoutSelector(t *testing.T) {
	doc := parseDoc(t, `[dependencies]
sp-io = { git = "https://github.com/paritytech/substrate", branch = "old" }
`)
	rewriter := Rewriter{
		Identities: substrateOnly(t),
		GitURL:     "https://github.com/forks/substrate",
	}
	changed, err := rewriter.Rewrite(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Contains(t, string(doc.Bytes()),
		`sp-io = { git = "https://github.com/forks/substrate", branch = "old" }`,
		"existing pins survive a pure URL redirect")
}

func TestRewriteSkipsExcludedPackages(t *testing.T) {
	input := `[dependencies]
sp-io = { git = "https://github.com/paritytech/substrate", branch = "old" }
renamed = { package = "sp-core", git = "https://github.com/paritytech/substrate", branch = "old" }
sp-runtime = { git = "https://github.com/paritytech/substrate", branch = "old" }
`
	doc := parseDoc(t, input)
	rewriter := Rewriter{
		Identities: types.DefaultIdentities(),
		Selector:   types.Selector{Kind: types.SelectorBranch, Value: "new"},
		Excludes:   map[string]struct{}{"sp-io": {}, "sp-core": {}},
	}
	changed, err := rewriter.Rewrite(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, changed)

	out := string(doc.Bytes())
	assert.True(t, strings.Contains(out, `sp-io = { git = "https://github.com/paritytech/substrate", branch = "old" }`))
	assert.True(t, strings.Contains(out, `renamed = { package = "sp-core", git = "https://github.com/paritytech/substrate", branch = "old" }`))
	assert.True(t, strings.Contains(out, `sp-runtime = { git = "https://github.com/paritytech/substrate", branch = "new" }`))
}

func TestRewriteCoversWorkspaceAndTargetTables(t *testing.T) {
	doc := parseDoc(t, `[workspace.dependencies]
sp-io = { git = "https://github.com/paritytech/substrate", branch = "old" }

[target.'cfg(unix)'.dependencies]
sp-core = { git = "https://github.com/paritytech/substrate", branch = "old" }
`)
	rewriter := Rewriter{
		Identities: types.DefaultIdentities(),
		Selector:   types.Selector{Kind: types.SelectorBranch, Value: "new"},
	}
	changed, err := rewriter.Rewrite(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.NotContains(t, string(doc.Bytes()), `branch = "old"`)
}
