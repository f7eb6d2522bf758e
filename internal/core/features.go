package core

import (
	"context"

	"github.com/rs/zerolog/log"

	"cargo-repin/internal/manifest"
	"cargo-repin/internal/types"
)

// CheckFeatures lints one manifest for broken std feature propagation: every
// [dependencies] entry built with default-features = false must appear in the
// manifest's std feature as "name/std" (or "name?/std" for optional
// dependencies). Manifests without a std feature are skipped.
func CheckFeatures(ctx context.Context, doc *manifest.Document) ([]types.FeatureViolation, error) {
	features := doc.Table("features")
	if features == nil {
		return nil, nil
	}
	stdLine := features.Get("std")
	if stdLine == nil {
		return nil, nil
	}
	declared, ok := manifest.ParseStringArray(stdLine.Value())
	if !ok {
		return nil, nil
	}
	propagated := make(map[string]struct{}, len(declared))
	for _, item := range declared {
		propagated[item] = struct{}{}
	}

	entries, err := entriesMatching(doc, func(keyPath []string) bool {
		return len(keyPath) == 1 && keyPath[0] == "dependencies"
	})
	if err != nil {
		return nil, err
	}

	var violations []types.FeatureViolation
	for _, entry := range entries {
		raw, ok := entry.getRaw("default-features")
		if !ok || raw != "false" {
			continue
		}
		want := entry.name + "/std"
		if _, ok := propagated[want]; ok {
			continue
		}
		if _, ok := propagated[entry.name+"?/std"]; ok {
			continue
		}
		violations = append(violations, types.FeatureViolation{
			ManifestPath: doc.Path(),
			Dependency:   entry.name,
			Missing:      want,
		})
	}
	if len(violations) > 0 {
		log.Ctx(ctx).Debug().
			Str("manifest", doc.Path()).
			Int("violations", len(violations)).
			Msg("std feature propagation check failed")
	}
	return violations, nil
}
