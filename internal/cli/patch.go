package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cargo-repin/internal/app"
)

type patchOptions struct {
	Source        string
	Manifest      string
	Identity      string
	Target        string
	PointToGit    string
	PointToBranch string
	PointToCommit string
	DryRun        bool
}

func newPatchCommand() *cobra.Command {
	opts := patchOptions{}
	cmd := &cobra.Command{
		Use:   "patch",
		Short: "Inject a patch section overriding upstream crates with a local checkout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPatch(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Source, "source", "", "Checked-out source workspace providing the crates")
	cmd.Flags().StringVar(&opts.Manifest, "manifest", "Cargo.toml", "Workspace manifest to patch")
	cmd.Flags().StringVar(&opts.Identity, "identity", "", "Upstream identity whose locator keys the patch table")
	cmd.Flags().StringVar(&opts.Target, "target", "", "Patch table key (crates-io or a git URL)")
	cmd.Flags().StringVar(&opts.PointToGit, "point-to-git", "", "Point entries at a git URL instead of the local path")
	cmd.Flags().StringVar(&opts.PointToBranch, "point-to-branch", "", "Branch for point-to-git entries")
	cmd.Flags().StringVar(&opts.PointToCommit, "point-to-commit", "", "Commit for point-to-git entries")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Report changes without writing files")
	_ = viper.BindPFlag("source", cmd.Flags().Lookup("source"))
	_ = viper.BindPFlag("manifest", cmd.Flags().Lookup("manifest"))
	_ = viper.BindPFlag("identity", cmd.Flags().Lookup("identity"))
	_ = viper.BindPFlag("target", cmd.Flags().Lookup("target"))
	_ = viper.BindPFlag("point_to_git", cmd.Flags().Lookup("point-to-git"))
	_ = viper.BindPFlag("point_to_branch", cmd.Flags().Lookup("point-to-branch"))
	_ = viper.BindPFlag("point_to_commit", cmd.Flags().Lookup("point-to-commit"))
	_ = viper.BindPFlag("dry_run", cmd.Flags().Lookup("dry-run"))
	return cmd
}

func runPatch(ctx context.Context, cmd *cobra.Command, opts patchOptions) error {
	ctx = log.Logger.WithContext(ctx)
	service := newAppService()
	result, err := service.Patch(ctx, app.PatchRequest{
		Source:         resolveString(cmd, opts.Source, "source", "source"),
		TargetManifest: resolveString(cmd, opts.Manifest, "manifest", "manifest"),
		Identity:       resolveString(cmd, opts.Identity, "identity", "identity"),
		Target:         resolveString(cmd, opts.Target, "target", "target"),
		PointToGit:     resolveString(cmd, opts.PointToGit, "point_to_git", "point-to-git"),
		PointToBranch:  resolveString(cmd, opts.PointToBranch, "point_to_branch", "point-to-branch"),
		PointToCommit:  resolveString(cmd, opts.PointToCommit, "point_to_commit", "point-to-commit"),
		DryRun:         resolveBool(cmd, opts.DryRun, "dry_run", "dry-run"),
	})
	if err != nil {
		return err
	}
	if !result.Changed {
		fmt.Printf("patch table for %s already up to date (%d crates)\n", result.Key, result.Crates)
		return nil
	}
	fmt.Printf("patched %s with %d crates\n", result.Key, result.Crates)
	return nil
}
