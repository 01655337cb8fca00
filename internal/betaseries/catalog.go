package betaseries

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ListMovies fetches one page of /movies/list.
func (c *Client) ListMovies(ctx context.Context, opts ListOptions) ([]Movie, error) {
	var payload moviesResponse
	if err := c.getJSON(ctx, "/movies/list", listParams(opts), &payload); err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	return payload.Movies, nil
}

// ListShows fetches one page of /shows/list.
func (c *Client) ListShows(ctx context.Context, opts ListOptions) ([]Show, error) {
	var payload showsResponse
	if err := c.getJSON(ctx, "/shows/list", listParams(opts), &payload); err != nil {
		return nil, fmt.Errorf("list shows: %w", err)
	}
	return payload.Shows, nil
}

// MovieDetail fetches /movies/movie for a single movie id.
func (c *Client) MovieDetail(ctx context.Context, id int64) (*Movie, error) {
	params := url.Values{}
	params.Set("id", strconv.FormatInt(id, 10))
	var payload movieResponse
	if err := c.getJSON(ctx, "/movies/movie", params, &payload); err != nil {
		return nil, fmt.Errorf("movie detail %d: %w", id, err)
	}
	return &payload.Movie, nil
}

func listParams(opts ListOptions) url.Values {
	params := url.Values{}
	if len(opts.Fields) > 0 {
		params.Set("fields", strings.Join(opts.Fields, ","))
	}
	if opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(opts.Limit))
	}
	if order := strings.TrimSpace(opts.Order); order != "" {
		params.Set("order", order)
	}
	if opts.Page > 0 {
		params.Set("page", strconv.Itoa(opts.Page))
	}
	return params
}
