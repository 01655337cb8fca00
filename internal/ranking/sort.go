package ranking

import (
	"cmp"
	"slices"
	"strings"
)

// SortKey names the column a leaderboard is ordered by. Ordering is always
// descending.
type SortKey string

const (
	SortByScore      SortKey = "score"
	SortByMeanRating SortKey = "mean_rating"
	SortByVoteCount  SortKey = "vote_count"
)

// DefaultSortKey orders by weighted score.
const DefaultSortKey = SortByScore

var sortAliases = map[string]SortKey{
	"score":            SortByScore,
	"weighted_average": SortByScore,
	"mean_rating":      SortByMeanRating,
	"mean_notes":       SortByMeanRating,
	"vote_count":       SortByVoteCount,
	"total_notes":      SortByVoteCount,
}

// SortKeys lists the canonical sort keys.
func SortKeys() []SortKey {
	return []SortKey{SortByScore, SortByMeanRating, SortByVoteCount}
}

// ParseSortKey resolves a sort key or one of its column aliases.
func ParseSortKey(value string) (SortKey, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if key, ok := sortAliases[normalized]; ok {
		return key, nil
	}
	return "", &ValidationError{Field: "sort key", Value: value, Reason: "must be one of score, mean_rating, vote_count"}
}

func (k SortKey) valid() bool {
	switch k {
	case SortByScore, SortByMeanRating, SortByVoteCount:
		return true
	default:
		return false
	}
}

// sortEntries orders entries descending by key. Equal keys keep input order.
func sortEntries(entries []Entry, key SortKey) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		switch key {
		case SortByMeanRating:
			return cmp.Compare(b.MeanRating, a.MeanRating)
		case SortByVoteCount:
			return cmp.Compare(b.VoteCount, a.VoteCount)
		default:
			return cmp.Compare(b.Score, a.Score)
		}
	})
}
