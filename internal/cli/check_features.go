package cli

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cargo-repin/internal/app"
)

type checkFeaturesOptions struct {
	Root string
}

func newCheckFeaturesCommand() *cobra.Command {
	opts := checkFeaturesOptions{}
	cmd := &cobra.Command{
		Use:   "check-features",
		Short: "Report no-std dependencies that do not propagate the std feature",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheckFeatures(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Root, "root", ".", "Manifest tree root")
	_ = viper.BindPFlag("root", cmd.Flags().Lookup("root"))
	return cmd
}

func runCheckFeatures(ctx context.Context, cmd *cobra.Command, opts checkFeaturesOptions) error {
	ctx = log.Logger.WithContext(ctx)
	service := newAppService()
	result, err := service.CheckFeatures(ctx, app.CheckFeaturesRequest{
		Root: resolveString(cmd, opts.Root, "root", "root"),
	})
	if err != nil {
		return err
	}
	if len(result.Violations) == 0 {
		fmt.Printf("checked %d manifests, all std features propagated\n", result.Scanned)
		return nil
	}
	for _, v := range result.Violations {
		fmt.Printf("%s: std feature misses %q\n", v.ManifestPath, v.Missing)
	}
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf("%d dependencies do not propagate the std feature", len(result.Violations)))
}
