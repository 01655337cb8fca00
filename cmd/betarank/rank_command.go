package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"betarank/internal/betaseries"
	"betarank/internal/config"
	"betarank/internal/export"
	"betarank/internal/harvest"
	"betarank/internal/logging"
	"betarank/internal/metrics"
	"betarank/internal/ranking"
)

type rankOptions struct {
	kind        string
	sort        string
	limit       int
	output      string
	format      string
	threshold   int
	workers     int
	metricsFile string
	preview     int
}

func newRankCommand(ctx *commandContext) *cobra.Command {
	var opts rankOptions

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Fetch ratings, rank them by weighted average, and save the leaderboard",
		Long: `Fetch up to 1000 movies and/or shows from BetaSeries, score each one with a
Bayesian weighted average, sort, truncate, and write the result.

The weighted average is (R*v + C*m)/(v+m) where R is the item's mean rating,
v its vote count, C the mean rating across everything fetched, and m the
vote count of the --threshold-th most voted item.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			applyRankDefaults(cmd, cfg, &opts)
			return runRank(cmd, ctx, cfg, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.kind, "type", string(harvest.KindBoth), "Content to fetch: movies, shows, or both")
	flags.StringVar(&opts.sort, "sort", string(ranking.DefaultSortKey), "Sort column: score, mean_rating, or vote_count")
	flags.IntVar(&opts.limit, "limit", 100, "Number of rows in the saved leaderboard")
	flags.StringVarP(&opts.output, "output", "o", "", "Destination file (required)")
	flags.StringVar(&opts.format, "format", "", "Output format: csv, json, or sqlite (default: from extension, else csv)")
	flags.IntVar(&opts.threshold, "threshold", ranking.DefaultThresholdCount, "Popularity rank whose vote count becomes m")
	flags.IntVar(&opts.workers, "workers", 1, "Parallel movie detail lookups")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics for this run to a textfile")
	flags.IntVar(&opts.preview, "preview", 5, "Rows to print after saving (0 disables)")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

// applyRankDefaults fills options the user did not set from configuration.
func applyRankDefaults(cmd *cobra.Command, cfg *config.Config, opts *rankOptions) {
	flags := cmd.Flags()
	if !flags.Changed("sort") && cfg.Ranking.Sort != "" {
		opts.sort = cfg.Ranking.Sort
	}
	if !flags.Changed("limit") && cfg.Ranking.Limit > 0 {
		opts.limit = cfg.Ranking.Limit
	}
	if !flags.Changed("threshold") && cfg.Ranking.ThresholdCount > 0 {
		opts.threshold = cfg.Ranking.ThresholdCount
	}
	if !flags.Changed("workers") && cfg.Fetch.Workers > 0 {
		opts.workers = cfg.Fetch.Workers
	}
	if !flags.Changed("format") && cfg.Output.Format != "" {
		opts.format = cfg.Output.Format
	}
	if !flags.Changed("preview") {
		opts.preview = cfg.Output.PreviewRows
	}
}

func runRank(cmd *cobra.Command, ctx *commandContext, cfg *config.Config, opts rankOptions) error {
	started := time.Now()

	kind, err := harvest.ParseKind(opts.kind)
	if err != nil {
		return err
	}
	sortKey, err := ranking.ParseSortKey(opts.sort)
	if err != nil {
		return err
	}
	if opts.threshold <= 0 {
		return fmt.Errorf("--threshold must be positive, got %d", opts.threshold)
	}
	output := strings.TrimSpace(opts.output)
	format, err := export.DetectFormat(output, opts.format)
	if err != nil {
		return err
	}

	logger, err := ctx.logger(cmd, cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	runID := uuid.NewString()
	runCtx := logging.WithRunID(cmd.Context(), runID)
	logger = logging.WithContext(runCtx, logger)

	run, err := metrics.NewRun()
	if err != nil {
		return err
	}

	client, err := betaseries.New(cfg.API.APIKey,
		betaseries.WithBaseURL(cfg.API.BaseURL),
		betaseries.WithAccessToken(cfg.API.AccessToken),
		betaseries.WithClientID(cfg.API.ClientID),
		betaseries.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout()}),
		betaseries.WithRetryPolicy(betaseries.RetryPolicy{MaxRetries: cfg.Retry.MaxRetries, BaseDelay: cfg.RetryBaseDelay()}),
		betaseries.WithRateLimit(cfg.API.RatePerSecond, cfg.API.RateBurst),
		betaseries.WithObserver(run),
		betaseries.WithLogger(logging.NewComponentLogger(logger, "betaseries")),
	)
	if err != nil {
		return err
	}

	harvester := harvest.New(client, harvest.Options{
		Limit:           cfg.Fetch.Limit,
		Order:           cfg.Fetch.Order,
		Workers:         opts.workers,
		BreakerFailures: cfg.Fetch.BreakerFailures,
		Recorder:        run,
	}, logger)

	logger.Info("starting ranking run",
		logging.String("type", string(kind)),
		logging.String("sort", string(sortKey)),
		logging.Int("limit", opts.limit),
		logging.Int("threshold", opts.threshold),
	)

	items, report, err := harvester.Collect(runCtx, kind)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(items) == 0 {
		fmt.Fprintln(out, "No data fetched.")
		return finishMetrics(run, opts.metricsFile, started)
	}

	result, err := ranking.Rank(items, ranking.Options{SortBy: sortKey, Limit: opts.limit, ThresholdCount: opts.threshold})
	if err != nil {
		return fmt.Errorf("process data: %w", err)
	}
	run.ObserveRanking(len(result.Entries), result.Stats)

	if err := export.Write(runCtx, output, format, result.Entries); err != nil {
		if errors.Is(err, export.ErrLocked) {
			return fmt.Errorf("save results: %w (is another betarank run writing %s?)", err, output)
		}
		return fmt.Errorf("save results: %w", err)
	}

	logger.Info("ranking saved",
		logging.String("output", output),
		logging.String("format", string(format)),
		logging.Int("rows", len(result.Entries)),
		logging.Int("fetched", report.Fetched()),
		logging.Int("dropped", report.Dropped()),
		logging.Float64("global_mean", result.Stats.GlobalMean),
		logging.Int64("threshold_votes", result.Stats.Threshold),
	)

	fmt.Fprintf(out, "Successfully saved %d rows to %s\n", len(result.Entries), output)
	if opts.preview > 0 && len(result.Entries) > 0 {
		fmt.Fprintln(out, renderPreview(result.Entries, opts.preview, logging.IsTerminal(out)))
	}

	return finishMetrics(run, opts.metricsFile, started)
}

func finishMetrics(run *metrics.Run, path string, started time.Time) error {
	run.ObserveDuration(time.Since(started))
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	return run.WriteTextfile(path)
}
