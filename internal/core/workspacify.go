package core

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"cargo-repin/internal/manifest"
)

// WorkspaceCrate is one package manifest discovered under the workspacify
// root: its declared package name, the directory holding its manifest, and
// the parsed document.
type WorkspaceCrate struct {
	Name string
	Dir  string
	Doc  *manifest.Document
}

// Workspacifier turns a tree of checked-out crates into a self-contained
// workspace: inter-tree dependencies become path dependencies and the root
// manifest's workspace.members lists every crate directory.
type Workspacifier struct {
	RootDir string
	RootDoc *manifest.Document
}

// Run rewrites all crate manifests plus the root manifest and returns the
// documents that changed, in processing order.
func (w Workspacifier) Run(ctx context.Context, crates []WorkspaceCrate) ([]*manifest.Document, error) {
	byName := make(map[string]WorkspaceCrate, len(crates))
	for _, crate := range crates {
		if _, ok := byName[crate.Name]; ok {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg(fmt.Sprintf("duplicate package name %q in workspace tree", crate.Name))
		}
		byName[crate.Name] = crate
	}

	var changedDocs []*manifest.Document
	for _, crate := range crates {
		changed, err := w.rewriteCrate(ctx, crate, byName)
		if err != nil {
			return nil, err
		}
		if changed {
			changedDocs = append(changedDocs, crate.Doc)
		}
	}

	changed, err := w.fillMembers(ctx, crates)
	if err != nil {
		return nil, err
	}
	if changed && !containsDoc(changedDocs, w.RootDoc) {
		changedDocs = append(changedDocs, w.RootDoc)
	}
	return changedDocs, nil
}

// containsDoc guards against listing the root document twice when the root
// crate had dependencies rewired and its member list filled in one run.
func containsDoc(docs []*manifest.Document, doc *manifest.Document) bool {
	for _, d := range docs {
		if d == doc {
			return true
		}
	}
	return false
}

func (w Workspacifier) rewriteCrate(ctx context.Context, crate WorkspaceCrate, byName map[string]WorkspaceCrate) (bool, error) {
	entries, err := collectEntries(crate.Doc)
	if err != nil {
		return false, err
	}
	changed := false
	for _, entry := range entries {
		target, ok := byName[entry.packageName()]
		if !ok || target.Dir == crate.Dir {
			continue
		}
		rel, err := relPath(crate.Dir, target.Dir)
		if err != nil {
			return false, err
		}
		if w.rewriteEntry(entry, rel) {
			changed = true
			log.Ctx(ctx).Debug().
				Str("dependency", entry.name).
				Str("manifest", crate.Doc.Path()).
				Str("path", rel).
				Msg("dependency rewired to workspace path")
		}
	}
	return changed, nil
}

func (w Workspacifier) rewriteEntry(entry *depEntry, rel string) bool {
	if entry.form == entryString {
		return entry.replaceValue("{ path = " + manifest.String(rel) + " }")
	}
	changed := false
	for _, key := range []string{"git", "branch", "tag", "rev", "version"} {
		changed = entry.remove(key) || changed
	}
	changed = entry.setString("path", rel) || changed
	changed = entry.sortKeys(depKeyRank) || changed
	if changed {
		entry.flush()
	}
	return changed
}

func (w Workspacifier) fillMembers(ctx context.Context, crates []WorkspaceCrate) (bool, error) {
	members := make([]string, 0, len(crates))
	for _, crate := range crates {
		rel, err := relPath(w.RootDir, crate.Dir)
		if err != nil {
			return false, err
		}
		if rel == "." {
			continue
		}
		members = append(members, rel)
	}
	sort.Strings(members)

	workspace := w.RootDoc.EnsureTable("workspace")
	changed := workspace.SetValue("members", manifest.RenderStringArrayMultiline(members))
	if changed {
		log.Ctx(ctx).Debug().Int("members", len(members)).Msg("workspace members filled")
	}
	return changed, nil
}

// depKeyRank is the canonical ordering of dependency keys used when an entry
// is rewritten: name and source first, pins, then feature switches.
func depKeyRank(key string) int {
	switch key {
	case "package":
		return 0
	case "path", "git":
		return 1
	case "version", "branch", "tag", "rev":
		return 2
	case "default-features":
		return 3
	case "features":
		return 4
	case "optional":
		return 5
	}
	return 6
}

func relPath(fromDir, toDir string) (string, error) {
	rel, err := filepath.Rel(fromDir, toDir)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("cannot express %s relative to %s", toDir, fromDir)).
			WithCause(err)
	}
	return filepath.ToSlash(rel), nil
}
