package harvest

import "fmt"

// ItemUnavailableError reports a per-item lookup that failed. The item is
// dropped from the collection.
type ItemUnavailableError struct {
	ID    int64
	Title string
	Err   error
}

func (e *ItemUnavailableError) Error() string {
	return fmt.Sprintf("item %d (%q) unavailable: %v", e.ID, e.Title, e.Err)
}

func (e *ItemUnavailableError) Unwrap() error { return e.Err }
