package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"cargo-repin/internal/core"
	"cargo-repin/internal/manifest"
)

func (s Service) Workspacify(ctx context.Context, req WorkspacifyRequest) (WorkspacifyResult, error) {
	root := strings.TrimSpace(req.Root)
	if root == "" {
		root = "."
	}
	rootManifest := filepath.Join(root, "Cargo.toml")
	rootDoc, err := s.Manifests.Load(rootManifest)
	if err != nil {
		return WorkspacifyResult{}, err
	}
	paths, err := s.Workspace.FindManifests(root)
	if err != nil {
		return WorkspacifyResult{}, err
	}

	var crates []core.WorkspaceCrate
	for _, path := range paths {
		name, err := s.CrateMeta.PackageName(path)
		if err != nil {
			return WorkspacifyResult{}, err
		}
		if name == "" {
			// Virtual workspace manifests declare no package.
			continue
		}
		var doc *manifest.Document
		if filepath.Clean(path) == filepath.Clean(rootManifest) {
			doc = rootDoc
		} else {
			doc, err = s.Manifests.Load(path)
			if err != nil {
				return WorkspacifyResult{}, err
			}
		}
		crates = append(crates, core.WorkspaceCrate{
			Name: name,
			Dir:  filepath.Dir(path),
			Doc:  doc,
		})
	}

	w := core.Workspacifier{RootDir: root, RootDoc: rootDoc}
	changedDocs, err := w.Run(ctx, crates)
	if err != nil {
		return WorkspacifyResult{}, err
	}

	result := WorkspacifyResult{Scanned: len(paths)}
	for _, doc := range changedDocs {
		if !req.DryRun {
			if err := s.Manifests.Save(doc); err != nil {
				return result, err
			}
		}
		result.Changed = append(result.Changed, doc.Path())
	}
	log.Ctx(ctx).Info().
		Int("crates", len(crates)).
		Int("changed", len(result.Changed)).
		Bool("dry_run", req.DryRun).
		Msg("workspacify completed")
	return result, nil
}
