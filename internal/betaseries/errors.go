package betaseries

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError reports a non-2xx response from the service.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	text := http.StatusText(e.StatusCode)
	if e.Body == "" {
		return fmt.Sprintf("betaseries: GET %s returned %d %s", e.URL, e.StatusCode, text)
	}
	return fmt.Sprintf("betaseries: GET %s returned %d %s: %s", e.URL, e.StatusCode, text, e.Body)
}

// Temporary reports whether the status is a server-side failure worth retrying.
func (e *StatusError) Temporary() bool {
	return isServerError(e.StatusCode)
}

func isServerError(status int) bool {
	return status >= http.StatusInternalServerError && status < 600
}

// ErrTooManyRedirects is returned when a request keeps redirecting past
// maxRedirects. It is not retried.
var ErrTooManyRedirects = errors.New("betaseries: too many redirects")

// DecodeError reports a 2xx response whose body is not the expected JSON.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("betaseries: decode response from %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// MaxRetriesError is returned once every attempt allowed by the retry policy
// has failed with a retryable error. Last holds the final failure.
type MaxRetriesError struct {
	URL      string
	Attempts int
	Last     error
}

func (e *MaxRetriesError) Error() string {
	return "max retries exceeded with url: " + e.URL
}

func (e *MaxRetriesError) Unwrap() error { return e.Last }
