package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"cargo-repin/internal/core"
	"cargo-repin/internal/types"
)

func (s Service) Patch(ctx context.Context, req PatchRequest) (PatchResult, error) {
	source := strings.TrimSpace(req.Source)
	if source == "" {
		return PatchResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("source workspace directory is required")
	}
	targetManifest := strings.TrimSpace(req.TargetManifest)
	if targetManifest == "" {
		targetManifest = "Cargo.toml"
	}
	key, err := s.patchKey(req)
	if err != nil {
		return PatchResult{}, err
	}
	pointTo, err := pointToFromRequest(req)
	if err != nil {
		return PatchResult{}, err
	}
	crates, err := s.collectPatchCrates(source, filepath.Dir(targetManifest))
	if err != nil {
		return PatchResult{}, err
	}
	doc, err := s.Manifests.Load(targetManifest)
	if err != nil {
		return PatchResult{}, err
	}
	builder := core.PatchBuilder{Key: key, PointTo: pointTo}
	changed, err := builder.Build(ctx, doc, crates)
	if err != nil {
		return PatchResult{}, err
	}
	if changed && !req.DryRun {
		if err := s.Manifests.Save(doc); err != nil {
			return PatchResult{}, err
		}
	}
	log.Ctx(ctx).Info().
		Str("key", key).
		Int("crates", len(crates)).
		Bool("changed", changed).
		Bool("dry_run", req.DryRun).
		Msg("patch completed")
	return PatchResult{Key: key, Crates: len(crates), Changed: changed}, nil
}

// patchKey picks the upstream table key: an explicit --target wins, then the
// named identity's locator, then the default patch target.
func (s Service) patchKey(req PatchRequest) (string, error) {
	if target := strings.TrimSpace(req.Target); target != "" {
		return target, nil
	}
	if identity := strings.TrimSpace(req.Identity); identity != "" {
		set, err := core.FilterIdentities(types.DefaultIdentities(), []string{identity})
		if err != nil {
			return "", err
		}
		return set[0].Locator, nil
	}
	return types.DefaultPatchTarget, nil
}

func pointToFromRequest(req PatchRequest) (types.PointTo, error) {
	git := strings.TrimSpace(req.PointToGit)
	if git == "" {
		if strings.TrimSpace(req.PointToBranch) != "" || strings.TrimSpace(req.PointToCommit) != "" {
			return types.PointTo{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("point-to-branch and point-to-commit require point-to-git")
		}
		return types.PointTo{Kind: types.PointToPath}, nil
	}
	return types.PointTo{
		Kind:   types.PointToGit,
		Git:    git,
		Branch: strings.TrimSpace(req.PointToBranch),
		Commit: strings.TrimSpace(req.PointToCommit),
	}, nil
}

func (s Service) collectPatchCrates(sourceDir, targetDir string) ([]types.PatchCrate, error) {
	absTarget, err := filepath.Abs(targetDir)
	if err != nil {
		return nil, pathError(targetDir, err)
	}
	paths, err := s.Workspace.FindManifests(sourceDir)
	if err != nil {
		return nil, err
	}
	var crates []types.PatchCrate
	for _, path := range paths {
		name, err := s.CrateMeta.PackageName(path)
		if err != nil {
			return nil, err
		}
		if name == "" {
			// Virtual workspace manifests declare no package.
			continue
		}
		dir, err := filepath.Abs(filepath.Dir(path))
		if err != nil {
			return nil, pathError(path, err)
		}
		rel, err := filepath.Rel(absTarget, dir)
		if err != nil {
			return nil, pathError(path, err)
		}
		crates = append(crates, types.PatchCrate{Name: name, Dir: dir, RelPath: filepath.ToSlash(rel)})
	}
	return crates, nil
}

func pathError(path string, err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("failed to resolve path: " + path).
		WithCause(err)
}
