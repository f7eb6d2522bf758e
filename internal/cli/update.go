package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cargo-repin/internal/app"
)

type updateOptions struct {
	Root           string
	Identities     []string
	IdentitiesFile string
	Branch         string
	Tag            string
	Rev            string
	Path           string
	VersionFrom    string
	Git            string
	Exclude        string
	DryRun         bool
}

func newUpdateCommand() *cobra.Command {
	opts := updateOptions{}
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Repin matching git dependencies across a manifest tree",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUpdate(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Root, "root", ".", "Manifest tree root")
	cmd.Flags().StringSliceVar(&opts.Identities, "identity", nil, "Upstream identities to touch (default: all)")
	cmd.Flags().StringVar(&opts.IdentitiesFile, "identities-file", "", "Extra identities YAML file")
	cmd.Flags().StringVar(&opts.Branch, "branch", "", "Pin matching dependencies to a branch")
	cmd.Flags().StringVar(&opts.Tag, "tag", "", "Pin matching dependencies to a tag")
	cmd.Flags().StringVar(&opts.Rev, "rev", "", "Pin matching dependencies to a commit")
	cmd.Flags().StringVar(&opts.Path, "path", "", "Point matching dependencies at a local checkout")
	cmd.Flags().StringVar(&opts.VersionFrom, "version-from", "", "Pin to registry versions recorded in this Cargo.lock")
	cmd.Flags().StringVar(&opts.Git, "git", "", "Rewrite the git URL of the selected identity")
	cmd.Flags().StringVar(&opts.Exclude, "exclude", "", "TOML file listing crates to skip")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Report changes without writing files")
	_ = viper.BindPFlag("root", cmd.Flags().Lookup("root"))
	_ = viper.BindPFlag("identities", cmd.Flags().Lookup("identity"))
	_ = viper.BindPFlag("identities_file", cmd.Flags().Lookup("identities-file"))
	_ = viper.BindPFlag("branch", cmd.Flags().Lookup("branch"))
	_ = viper.BindPFlag("tag", cmd.Flags().Lookup("tag"))
	_ = viper.BindPFlag("rev", cmd.Flags().Lookup("rev"))
	_ = viper.BindPFlag("path", cmd.Flags().Lookup("path"))
	_ = viper.BindPFlag("version_from", cmd.Flags().Lookup("version-from"))
	_ = viper.BindPFlag("git", cmd.Flags().Lookup("git"))
	_ = viper.BindPFlag("exclude", cmd.Flags().Lookup("exclude"))
	_ = viper.BindPFlag("dry_run", cmd.Flags().Lookup("dry-run"))
	return cmd
}

func runUpdate(ctx context.Context, cmd *cobra.Command, opts updateOptions) error {
	ctx = log.Logger.WithContext(ctx)
	service := newAppService()
	result, err := service.Update(ctx, app.UpdateRequest{
		Root:           resolveString(cmd, opts.Root, "root", "root"),
		Identities:     resolveStrings(cmd, opts.Identities, "identities", "identity"),
		IdentitiesFile: resolveString(cmd, opts.IdentitiesFile, "identities_file", "identities-file"),
		Branch:         resolveString(cmd, opts.Branch, "branch", "branch"),
		Tag:            resolveString(cmd, opts.Tag, "tag", "tag"),
		Rev:            resolveString(cmd, opts.Rev, "rev", "rev"),
		Path:           resolveString(cmd, opts.Path, "path", "path"),
		VersionFrom:    resolveString(cmd, opts.VersionFrom, "version_from", "version-from"),
		Git:            resolveString(cmd, opts.Git, "git", "git"),
		ExcludeFile:    resolveString(cmd, opts.Exclude, "exclude", "exclude"),
		DryRun:         resolveBool(cmd, opts.DryRun, "dry_run", "dry-run"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("updated %d of %d manifests\n", len(result.Changed), result.Scanned)
	return nil
}

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetString(key)
}

func resolveStrings(cmd *cobra.Command, values []string, key string, flagName string) []string {
	if cmd == nil {
		if len(values) > 0 {
			return values
		}
		return viper.GetStringSlice(key)
	}
	if flagChanged(cmd, flagName) {
		return values
	}
	return viper.GetStringSlice(key)
}

func resolveBool(cmd *cobra.Command, value bool, key string, flagName string) bool {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetBool(key)
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || strings.TrimSpace(name) == "" {
		return false
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}
