package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"betarank/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand(ctx))

	return configCmd
}

func newConfigInitCommand(ctx *commandContext) *cobra.Command {
	var (
		targetPath string
		apiKey     string
		force      bool
	)

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a starter betarank.toml",
		Long:        "Write a starter configuration to --path, the --config location, or ~/.config/betarank/config.toml, in that order.",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := initTarget(targetPath, ctx.configPath())
			if err != nil {
				return err
			}
			if !force {
				switch _, err := os.Stat(target); {
				case err == nil:
					return fmt.Errorf("%s already exists; pass --force to replace it", target)
				case !errors.Is(err, fs.ErrNotExist):
					return fmt.Errorf("inspect %s: %w", target, err)
				}
			}
			if err := config.CreateSample(target, apiKey); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			if strings.TrimSpace(apiKey) == "" {
				fmt.Fprintln(out, "Set [api] api_key or export API_KEY, then run: betarank check")
			} else {
				fmt.Fprintln(out, "Next: betarank check --config "+target)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Where to write the configuration (defaults to --config or the user config dir)")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "BetaSeries API key to store instead of the placeholder")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Replace an existing file")
	return cmd
}

func initTarget(flagPath, configFlag string) (string, error) {
	for _, candidate := range []string{flagPath, configFlag} {
		if candidate = strings.TrimSpace(candidate); candidate != "" {
			expanded, err := config.ExpandPath(candidate)
			if err != nil {
				return "", fmt.Errorf("resolve config path: %w", err)
			}
			return expanded, nil
		}
	}
	path, err := config.DefaultConfigPath()
	if err != nil {
		return "", fmt.Errorf("determine default config path: %w", err)
	}
	return path, nil
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Validate configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(ctx.configPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", path)
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			fmt.Fprintf(out, "API base URL: %s\n", cfg.API.BaseURL)
			fmt.Fprintf(out, "Ranking: sort=%s threshold=%d limit=%d\n", cfg.Ranking.Sort, cfg.Ranking.ThresholdCount, cfg.Ranking.Limit)
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}
