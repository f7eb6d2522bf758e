package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cargo-repin/internal/app"
)

type workspacifyOptions struct {
	Root   string
	DryRun bool
}

func newWorkspacifyCommand() *cobra.Command {
	opts := workspacifyOptions{}
	cmd := &cobra.Command{
		Use:   "workspacify",
		Short: "Turn a tree of crates into a self-contained workspace",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWorkspacify(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Root, "root", ".", "Crate tree root")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Report changes without writing files")
	_ = viper.BindPFlag("root", cmd.Flags().Lookup("root"))
	_ = viper.BindPFlag("dry_run", cmd.Flags().Lookup("dry-run"))
	return cmd
}

func runWorkspacify(ctx context.Context, cmd *cobra.Command, opts workspacifyOptions) error {
	ctx = log.Logger.WithContext(ctx)
	service := newAppService()
	result, err := service.Workspacify(ctx, app.WorkspacifyRequest{
		Root:   resolveString(cmd, opts.Root, "root", "root"),
		DryRun: resolveBool(cmd, opts.DryRun, "dry_run", "dry-run"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("workspacified %d manifests, rewrote %d\n", result.Scanned, len(result.Changed))
	return nil
}
