package harvest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/sync/errgroup"

	"betarank/internal/betaseries"
	"betarank/internal/logging"
	"betarank/internal/ranking"
)

const (
	defaultOrder           = "popularity"
	defaultWorkers         = 1
	defaultBreakerFailures = 10
	maxWorkers             = 16
)

// Catalog is the subset of the BetaSeries client the harvester needs.
type Catalog interface {
	ListMovies(ctx context.Context, opts betaseries.ListOptions) ([]betaseries.Movie, error)
	ListShows(ctx context.Context, opts betaseries.ListOptions) ([]betaseries.Show, error)
	MovieDetail(ctx context.Context, id int64) (*betaseries.Movie, error)
}

// Recorder receives per-kind harvest totals.
type Recorder interface {
	ObserveHarvest(kind string, fetched, dropped int)
	ObserveBreakerState(name, state string)
}

// Options controls list sizes and detail lookup concurrency.
type Options struct {
	Limit           int
	Order           string
	Workers         int
	BreakerFailures int
	Recorder        Recorder
}

// KindReport summarises one content kind.
type KindReport struct {
	Kind    Kind
	Listed  int
	Fetched int
	Dropped int
	Err     error
}

// Report summarises a Collect call.
type Report struct {
	Kinds []KindReport
}

// Fetched returns the number of items collected across kinds.
func (r Report) Fetched() int {
	total := 0
	for _, k := range r.Kinds {
		total += k.Fetched
	}
	return total
}

// Dropped returns the number of items dropped across kinds.
func (r Report) Dropped() int {
	total := 0
	for _, k := range r.Kinds {
		total += k.Dropped
	}
	return total
}

// Failed lists the kinds whose list request failed.
func (r Report) Failed() []KindReport {
	var failed []KindReport
	for _, k := range r.Kinds {
		if k.Err != nil {
			failed = append(failed, k)
		}
	}
	return failed
}

// Harvester builds ranking items from the catalog.
type Harvester struct {
	catalog  Catalog
	opts     Options
	logger   *slog.Logger
	breaker  *gobreaker.CircuitBreaker[*betaseries.Movie]
	recorder Recorder
}

// New constructs a Harvester.
func New(catalog Catalog, opts Options, logger *slog.Logger) *Harvester {
	opts.Limit = clampLimit(opts.Limit)
	if strings.TrimSpace(opts.Order) == "" {
		opts.Order = defaultOrder
	}
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.Workers > maxWorkers {
		opts.Workers = maxWorkers
	}
	h := &Harvester{
		catalog:  catalog,
		opts:     opts,
		logger:   logging.NewComponentLogger(logger, "harvest"),
		recorder: opts.Recorder,
	}
	if opts.BreakerFailures > 0 {
		h.breaker = h.newBreaker(uint32(opts.BreakerFailures))
	}
	return h
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > betaseries.MaxListLimit {
		return betaseries.MaxListLimit
	}
	return limit
}

func (h *Harvester) newBreaker(failures uint32) *gobreaker.CircuitBreaker[*betaseries.Movie] {
	return gobreaker.NewCircuitBreaker[*betaseries.Movie](gobreaker.Settings{
		Name: "betaseries-movie-detail",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			// A missing or forbidden movie says nothing about service health.
			var statusErr *betaseries.StatusError
			if errors.As(err, &statusErr) {
				return !statusErr.Temporary()
			}
			if errors.Is(err, betaseries.ErrTooManyRedirects) {
				return true
			}
			var decodeErr *betaseries.DecodeError
			return errors.As(err, &decodeErr)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			h.logger.Warn("circuit breaker state change",
				logging.String(logging.FieldEventType, "breaker_state"),
				logging.String("breaker", name),
				logging.String("from", from.String()),
				logging.String("to", to.String()),
			)
			if h.recorder != nil {
				h.recorder.ObserveBreakerState(name, to.String())
			}
		},
	})
}

// Collect harvests the requested kinds, movies first. A list-level failure
// is logged and recorded in the report; it does not stop the other kind.
// Only context cancellation is returned as an error.
func (h *Harvester) Collect(ctx context.Context, kind Kind) ([]ranking.Item, Report, error) {
	var (
		items  []ranking.Item
		report Report
	)
	for _, k := range kind.Expand() {
		kctx := logging.WithKind(ctx, string(k))
		logger := logging.WithContext(kctx, h.logger)

		var (
			batch []ranking.Item
			kr    KindReport
			err   error
		)
		switch k {
		case KindMovies:
			batch, kr, err = h.Movies(kctx)
		case KindShows:
			batch, kr, err = h.Shows(kctx)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, report, ctxErr
		}
		if err != nil {
			kr.Err = err
			logging.WarnWithContext(logger, "catalog list failed; skipping content type",
				"list_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, fmt.Sprintf("no %s in this ranking", k)),
			)
		}
		logger.Info("finished fetching",
			logging.Int("fetched", kr.Fetched),
			logging.Int("dropped", kr.Dropped),
		)
		if h.recorder != nil {
			h.recorder.ObserveHarvest(string(k), kr.Fetched, kr.Dropped)
		}
		report.Kinds = append(report.Kinds, kr)
		items = append(items, batch...)
	}
	return items, report, nil
}

// Movies lists movies and fetches their rating details.
func (h *Harvester) Movies(ctx context.Context) ([]ranking.Item, KindReport, error) {
	report := KindReport{Kind: KindMovies}
	logger := logging.WithContext(ctx, h.logger)
	logger.Info("fetching movies", logging.Int("limit", h.opts.Limit), logging.String("order", h.opts.Order))

	movies, err := h.catalog.ListMovies(ctx, betaseries.ListOptions{Limit: h.opts.Limit, Order: h.opts.Order, Page: 1})
	if err != nil {
		return nil, report, err
	}
	report.Listed = len(movies)

	results := make([]*ranking.Item, len(movies))
	var (
		mu      sync.Mutex
		done    int
		sampler = logging.NewProgressSampler(10)
	)
	group := new(errgroup.Group)
	group.SetLimit(h.opts.Workers)

	for i, movie := range movies {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			item, err := h.movieItem(ctx, movie)
			if err != nil {
				var unavailable *ItemUnavailableError
				if errors.As(err, &unavailable) {
					logger.Warn("dropping movie",
						logging.String(logging.FieldEventType, "item_unavailable"),
						logging.Int64("id", unavailable.ID),
						logging.String("title", unavailable.Title),
						logging.Error(unavailable.Err),
					)
				} else {
					logger.Warn("dropping movie",
						logging.String(logging.FieldEventType, "item_invalid"),
						logging.Int64("id", movie.ID),
						logging.Error(err),
					)
				}
			} else {
				results[i] = item
			}

			mu.Lock()
			done++
			if sampler.ShouldLog(done, len(movies)) {
				logger.Info("fetching movie details",
					logging.Int("done", done),
					logging.Int("total", len(movies)),
					logging.String("progress", fmt.Sprintf("%.0f%%", logging.Percent(done, len(movies)))),
				)
			}
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, report, err
	}

	items := make([]ranking.Item, 0, len(movies))
	for _, item := range results {
		if item != nil {
			items = append(items, *item)
		}
	}
	report.Fetched = len(items)
	report.Dropped = report.Listed - report.Fetched
	return items, report, nil
}

func (h *Harvester) movieItem(ctx context.Context, movie betaseries.Movie) (*ranking.Item, error) {
	detail, err := h.detail(ctx, movie.ID)
	if err != nil {
		return nil, &ItemUnavailableError{ID: movie.ID, Title: movie.Title, Err: err}
	}
	title := strings.TrimSpace(movie.Title)
	if title == "" {
		title = strings.TrimSpace(detail.Title)
	}
	if title == "" {
		return nil, errors.New("movie has no title")
	}
	return &ranking.Item{Title: title, VoteCount: detail.Notes.Total, MeanRating: detail.Notes.Mean}, nil
}

func (h *Harvester) detail(ctx context.Context, id int64) (*betaseries.Movie, error) {
	if h.breaker == nil {
		return h.catalog.MovieDetail(ctx, id)
	}
	return h.breaker.Execute(func() (*betaseries.Movie, error) {
		return h.catalog.MovieDetail(ctx, id)
	})
}

// Shows lists shows with their rating notes included.
func (h *Harvester) Shows(ctx context.Context) ([]ranking.Item, KindReport, error) {
	report := KindReport{Kind: KindShows}
	logger := logging.WithContext(ctx, h.logger)
	logger.Info("fetching shows", logging.Int("limit", h.opts.Limit), logging.String("order", h.opts.Order))

	shows, err := h.catalog.ListShows(ctx, betaseries.ListOptions{
		Fields: []string{"title", "notes"},
		Limit:  h.opts.Limit,
		Order:  h.opts.Order,
		Page:   1,
	})
	if err != nil {
		return nil, report, err
	}
	report.Listed = len(shows)

	items := make([]ranking.Item, 0, len(shows))
	for _, show := range shows {
		title := strings.TrimSpace(show.Title)
		if title == "" {
			logger.Warn("dropping show",
				logging.String(logging.FieldEventType, "item_invalid"),
				logging.Int64("id", show.ID),
				logging.String("reason", "missing title"),
			)
			continue
		}
		items = append(items, ranking.Item{Title: title, VoteCount: show.Notes.Total, MeanRating: show.Notes.Mean})
	}
	report.Fetched = len(items)
	report.Dropped = report.Listed - report.Fetched
	return items, report, nil
}
