package core

import (
	"context"

	"github.com/rs/zerolog/log"

	"cargo-repin/internal/manifest"
	"cargo-repin/internal/types"
)

var selectorKeys = []string{"branch", "tag", "rev"}

// Rewriter applies one pinning selector to every matched dependency entry of
// a manifest. Entries that do not classify against Identities are never
// touched, so their bytes survive serialization unchanged.
type Rewriter struct {
	Identities types.IdentitySet
	Selector   types.Selector
	GitURL     string
	Excludes   map[string]struct{}
	Versions   map[string]string
}

// Rewrite mutates doc in place and reports whether any entry changed.
func (r Rewriter) Rewrite(ctx context.Context, doc *manifest.Document) (bool, error) {
	entries, err := collectEntries(doc)
	if err != nil {
		return false, err
	}
	changed := false
	for _, entry := range entries {
		if !classifyEntry(entry, r.Identities, r.Excludes) {
			continue
		}
		if r.rewriteEntry(ctx, doc, entry) {
			changed = true
		}
	}
	return changed, nil
}

func (r Rewriter) rewriteEntry(ctx context.Context, doc *manifest.Document, entry *depEntry) bool {
	changed := false
	switch r.Selector.Kind {
	case types.SelectorBranch, types.SelectorTag, types.SelectorRev:
		if r.GitURL != "" {
			changed = entry.setString("git", r.GitURL) || changed
		}
		for _, key := range selectorKeys {
			if key == string(r.Selector.Kind) {
				continue
			}
			changed = entry.remove(key) || changed
		}
		changed = entry.setString(string(r.Selector.Kind), r.Selector.Value) || changed
	case types.SelectorPath:
		for _, key := range selectorKeys {
			changed = entry.remove(key) || changed
		}
		changed = entry.remove("git") || changed
		changed = entry.setString("path", r.Selector.Value) || changed
	case types.SelectorVersion:
		version, ok := r.Versions[entry.packageName()]
		if !ok {
			log.Ctx(ctx).Debug().
				Str("dependency", entry.name).
				Str("manifest", doc.Path()).
				Msg("no locked version for dependency, leaving entry unchanged")
			return false
		}
		for _, key := range selectorKeys {
			changed = entry.remove(key) || changed
		}
		changed = entry.remove("git") || changed
		changed = entry.remove("path") || changed
		changed = entry.setString("version", version) || changed
	case types.SelectorNone:
		// git URL redirect without repinning
		if r.GitURL != "" {
			changed = entry.setString("git", r.GitURL) || changed
		}
	}
	if changed {
		entry.flush()
		log.Ctx(ctx).Debug().
			Str("dependency", entry.name).
			Str("manifest", doc.Path()).
			Msg("dependency repinned")
	}
	return changed
}
