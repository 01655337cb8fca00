package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"betarank/internal/config"
	"betarank/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:         "check",
		Short:       "Verify credentials, API reachability, and output directory access",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := config.LoadUnvalidated(ctx.configPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			results := preflight.RunAll(cmd.Context(), cfg, outputPath)

			rows := make([][]string, 0, len(results))
			for _, r := range results {
				status := "ok"
				if !r.Passed {
					status = "FAIL"
				}
				rows = append(rows, []string{r.Name, status, r.Detail})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Check", "Status", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))

			if preflight.Failed(results) {
				return errors.New("preflight checks failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file whose directory should be checked")
	return cmd
}
