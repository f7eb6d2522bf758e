package app

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"cargo-repin/internal/core"
)

// CheckFeatures lints every manifest under the root and reports dependencies
// that disable default features without propagating std. Read-only.
func (s Service) CheckFeatures(ctx context.Context, req CheckFeaturesRequest) (CheckFeaturesResult, error) {
	root := strings.TrimSpace(req.Root)
	if root == "" {
		root = "."
	}
	paths, err := s.Workspace.FindManifests(root)
	if err != nil {
		return CheckFeaturesResult{}, err
	}

	result := CheckFeaturesResult{Scanned: len(paths)}
	for _, path := range paths {
		doc, err := s.Manifests.Load(path)
		if err != nil {
			return result, err
		}
		violations, err := core.CheckFeatures(ctx, doc)
		if err != nil {
			return result, err
		}
		result.Violations = append(result.Violations, violations...)
	}
	log.Ctx(ctx).Info().
		Int("scanned", result.Scanned).
		Int("violations", len(result.Violations)).
		Msg("feature check completed")
	return result, nil
}
