package harvest

import (
	"fmt"
	"strings"
)

// Kind selects which catalog types to harvest.
type Kind string

const (
	KindMovies Kind = "movies"
	KindShows  Kind = "shows"
	KindBoth   Kind = "both"
)

// ParseKind resolves a --type value.
func ParseKind(value string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(value))) {
	case KindMovies:
		return KindMovies, nil
	case KindShows:
		return KindShows, nil
	case KindBoth, "":
		return KindBoth, nil
	default:
		return "", fmt.Errorf("unknown content type %q (want movies, shows, or both)", value)
	}
}

// Expand returns the concrete kinds in harvest order: movies, then shows.
func (k Kind) Expand() []Kind {
	switch k {
	case KindMovies:
		return []Kind{KindMovies}
	case KindShows:
		return []Kind{KindShows}
	default:
		return []Kind{KindMovies, KindShows}
	}
}
