package core

import (
	"context"
	"fmt"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"cargo-repin/internal/manifest"
	"cargo-repin/internal/types"
)

// PatchBuilder writes or refreshes the patch table for one upstream target in
// a workspace-root manifest. Key is the patch table key (an upstream locator
// or the crates-io registry), PointTo what the entries resolve to.
type PatchBuilder struct {
	Key     string
	PointTo types.PointTo
}

// Build inserts or overwrites one patch entry per source crate. Entries
// already present for other crates are never deleted. The target manifest
// must declare a workspace; building against anything else fails before any
// mutation.
func (b PatchBuilder) Build(ctx context.Context, doc *manifest.Document, crates []types.PatchCrate) (bool, error) {
	assert.NotEmpty(ctx, b.Key, "patch table key must be set")

	if !hasWorkspaceTable(doc) {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("manifest %s does not declare a [workspace] table, patch sections apply to workspace roots only", doc.Path()))
	}
	if dup := duplicateCrateName(crates); dup != "" {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("duplicate package name %q among source crates, cannot build an unambiguous patch table", dup))
	}

	table := doc.EnsureTable("patch", b.Key)
	changed := false
	for _, crate := range crates {
		changed = table.SetValue(crate.Name, b.renderEntry(crate)) || changed
	}
	log.Ctx(ctx).Debug().
		Int("crates", len(crates)).
		Str("target", b.Key).
		Str("manifest", doc.Path()).
		Msg("patch table refreshed")
	return changed, nil
}

func (b PatchBuilder) renderEntry(crate types.PatchCrate) string {
	if b.PointTo.Kind == types.PointToGit {
		rendered := "{ git = " + manifest.String(b.PointTo.Git)
		if b.PointTo.Branch != "" {
			rendered += ", branch = " + manifest.String(b.PointTo.Branch)
		}
		if b.PointTo.Commit != "" {
			rendered += ", rev = " + manifest.String(b.PointTo.Commit)
		}
		return rendered + " }"
	}
	return "{ path = " + manifest.String(crate.RelPath) + " }"
}

func hasWorkspaceTable(doc *manifest.Document) bool {
	for _, table := range doc.Tables() {
		keyPath := table.KeyPath()
		if len(keyPath) > 0 && keyPath[0] == "workspace" {
			return true
		}
	}
	return false
}

func duplicateCrateName(crates []types.PatchCrate) string {
	seen := make(map[string]struct{}, len(crates))
	for _, crate := range crates {
		if _, ok := seen[crate.Name]; ok {
			return crate.Name
		}
		seen[crate.Name] = struct{}{}
	}
	return ""
}
