package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"cargo-repin/internal/core"
	"cargo-repin/internal/types"
)

func (s Service) Update(ctx context.Context, req UpdateRequest) (UpdateResult, error) {
	root := strings.TrimSpace(req.Root)
	if root == "" {
		root = "."
	}
	selector, err := core.NewSelector(req.Branch, req.Tag, req.Rev, req.Path, req.VersionFrom)
	if err != nil {
		return UpdateResult{}, err
	}
	gitURL := strings.TrimSpace(req.Git)
	if selector.IsZero() && gitURL == "" {
		return UpdateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("nothing to do: give one of branch, tag, rev, path or version-from, or a git URL")
	}

	identities, err := s.identitySet(req.Identities, req.IdentitiesFile)
	if err != nil {
		return UpdateResult{}, err
	}
	if gitURL != "" {
		if len(identities) != 1 {
			return UpdateResult{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("a git URL rewrite needs exactly one identity, pick it with --identity")
		}
		if selector.Kind == types.SelectorPath || selector.Kind == types.SelectorVersion {
			return UpdateResult{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("a git URL cannot be combined with a path or version-from selector")
		}
	}

	excludes, err := s.excludeSet(req.ExcludeFile)
	if err != nil {
		return UpdateResult{}, err
	}

	var versions map[string]string
	if selector.Kind == types.SelectorVersion {
		versions, err = s.Lockfile.Versions(selector.Value)
		if err != nil {
			return UpdateResult{}, err
		}
	}

	paths, err := s.Workspace.FindManifests(root)
	if err != nil {
		return UpdateResult{}, err
	}

	rewriter := core.Rewriter{
		Identities: identities,
		Selector:   selector,
		GitURL:     gitURL,
		Excludes:   excludes,
		Versions:   versions,
	}

	// A broken manifest must not stop the rest of the tree from being
	// repinned: collect per-file failures and report them together.
	result := UpdateResult{Scanned: len(paths)}
	var failures []error
	for _, path := range paths {
		changed, err := s.rewriteManifest(ctx, rewriter, path, req.DryRun)
		if err != nil {
			log.Ctx(ctx).Warn().Str("manifest", path).Err(err).Msg("manifest skipped")
			failures = append(failures, err)
			continue
		}
		if changed {
			result.Changed = append(result.Changed, path)
		}
	}
	log.Ctx(ctx).Info().
		Int("scanned", result.Scanned).
		Int("changed", len(result.Changed)).
		Bool("dry_run", req.DryRun).
		Msg("update completed")
	if len(failures) > 0 {
		return result, errbuilder.New().
			WithCode(errbuilder.CodeOf(failures[0])).
			WithMsg(fmt.Sprintf("update failed for %d of %d manifests", len(failures), len(paths))).
			WithCause(errors.Join(failures...))
	}
	return result, nil
}

func (s Service) rewriteManifest(ctx context.Context, rewriter core.Rewriter, path string, dryRun bool) (bool, error) {
	doc, err := s.Manifests.Load(path)
	if err != nil {
		return false, err
	}
	changed, err := rewriter.Rewrite(ctx, doc)
	if err != nil || !changed {
		return changed, err
	}
	if dryRun {
		log.Ctx(ctx).Info().Str("manifest", path).Msg("would update manifest")
		return true, nil
	}
	if err := s.Manifests.Save(doc); err != nil {
		return false, err
	}
	return true, nil
}

func (s Service) identitySet(filter []string, file string) (types.IdentitySet, error) {
	set := types.DefaultIdentities()
	if file = strings.TrimSpace(file); file != "" {
		extra, err := s.IdentitySource.LoadIdentities(file)
		if err != nil {
			return nil, err
		}
		set = set.Merge(extra)
	}
	return core.FilterIdentities(set, filter)
}

func (s Service) excludeSet(file string) (map[string]struct{}, error) {
	file = strings.TrimSpace(file)
	if file == "" {
		return nil, nil
	}
	names, err := s.ExcludeSource.LoadExcludes(file)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set, nil
}
