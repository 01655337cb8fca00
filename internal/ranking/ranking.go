package ranking

import (
	"math"
	"slices"
	"strings"
)

// DefaultThresholdCount is the popularity rank whose vote count becomes m.
const DefaultThresholdCount = 250

// Item is one rated catalog entry.
type Item struct {
	Title      string
	VoteCount  int64
	MeanRating float64
}

// Entry is an item together with its weighted score.
type Entry struct {
	Item
	Score float64
}

// Stats describes the collection-wide values a scoring pass used.
type Stats struct {
	GlobalMean float64
	Threshold  int64
	Count      int
}

// Options controls Rank.
type Options struct {
	SortBy         SortKey
	Limit          int
	ThresholdCount int
}

// DefaultOptions returns score ordering, the default threshold, and limit.
func DefaultOptions(limit int) Options {
	return Options{SortBy: DefaultSortKey, Limit: limit, ThresholdCount: DefaultThresholdCount}
}

// Result is an ordered, truncated leaderboard.
type Result struct {
	Entries []Entry
	Stats   Stats
}

// GlobalMean returns the unweighted mean of MeanRating across items, or 0
// for an empty collection.
func GlobalMean(items []Item) float64 {
	if len(items) == 0 {
		return 0
	}
	var sum float64
	for _, item := range items {
		sum += item.MeanRating
	}
	return sum / float64(len(items))
}

// PopularityThreshold returns the vote count of the item ranked
// thresholdCount (1-indexed) by vote count descending. With fewer items than
// thresholdCount it returns the smallest vote count.
func PopularityThreshold(items []Item, thresholdCount int) (int64, error) {
	if thresholdCount <= 0 {
		return 0, &ValidationError{Field: "threshold count", Value: thresholdCount, Reason: "must be positive"}
	}
	if len(items) == 0 {
		return 0, nil
	}
	votes := make([]int64, len(items))
	for i, item := range items {
		votes[i] = item.VoteCount
	}
	slices.Sort(votes)
	slices.Reverse(votes)
	if len(votes) >= thresholdCount {
		return votes[thresholdCount-1], nil
	}
	return votes[len(votes)-1], nil
}

// WeightedScore computes (R*v + C*m)/(v+m). When v+m is zero the item has no
// evidence either way and scores the global mean.
func WeightedScore(meanRating float64, votes int64, globalMean float64, threshold int64) float64 {
	denominator := float64(votes) + float64(threshold)
	if denominator == 0 {
		return globalMean
	}
	return (meanRating*float64(votes) + globalMean*float64(threshold)) / denominator
}

// Validate checks every item for a title, a non-negative vote count and a
// finite mean rating.
func Validate(items []Item) error {
	for i, item := range items {
		var fields []string
		if strings.TrimSpace(item.Title) == "" {
			fields = append(fields, "title")
		}
		if item.VoteCount < 0 {
			fields = append(fields, "vote_count")
		}
		if math.IsNaN(item.MeanRating) || math.IsInf(item.MeanRating, 0) {
			fields = append(fields, "mean_rating")
		}
		if len(fields) > 0 {
			return &SchemaError{Index: i, Title: item.Title, Fields: fields}
		}
	}
	return nil
}

// Score validates items and scores each one, preserving input order.
func Score(items []Item, thresholdCount int) ([]Entry, Stats, error) {
	if thresholdCount <= 0 {
		return nil, Stats{}, &ValidationError{Field: "threshold count", Value: thresholdCount, Reason: "must be positive"}
	}
	if len(items) == 0 {
		return []Entry{}, Stats{}, nil
	}
	if err := Validate(items); err != nil {
		return nil, Stats{}, err
	}

	threshold, err := PopularityThreshold(items, thresholdCount)
	if err != nil {
		return nil, Stats{}, err
	}
	stats := Stats{
		GlobalMean: GlobalMean(items),
		Threshold:  threshold,
		Count:      len(items),
	}

	entries := make([]Entry, len(items))
	for i, item := range items {
		entries[i] = Entry{
			Item:  item,
			Score: WeightedScore(item.MeanRating, item.VoteCount, stats.GlobalMean, stats.Threshold),
		}
	}
	return entries, stats, nil
}

// Rank scores items, orders them descending by opts.SortBy, and keeps at
// most opts.Limit entries. Ties keep their input order. A non-positive
// limit yields an empty leaderboard.
func Rank(items []Item, opts Options) (Result, error) {
	if !opts.SortBy.valid() {
		return Result{}, &ValidationError{Field: "sort key", Value: string(opts.SortBy), Reason: "must be one of score, mean_rating, vote_count"}
	}
	entries, stats, err := Score(items, opts.ThresholdCount)
	if err != nil {
		return Result{}, err
	}

	sortEntries(entries, opts.SortBy)

	limit := opts.Limit
	if limit < 0 {
		limit = 0
	}
	if limit < len(entries) {
		entries = entries[:limit]
	}
	return Result{Entries: entries, Stats: stats}, nil
}
