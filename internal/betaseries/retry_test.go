package betaseries

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		status int
		err    error
		want   Outcome
	}{
		{"ok", http.StatusOK, nil, OutcomeSuccess},
		{"no content", http.StatusNoContent, nil, OutcomeSuccess},
		{"internal error", http.StatusInternalServerError, nil, OutcomeRetryable},
		{"service unavailable", http.StatusServiceUnavailable, nil, OutcomeRetryable},
		{"last server error", 599, nil, OutcomeRetryable},
		{"beyond server range", 600, nil, OutcomePermanent},
		{"transport failure", 0, errors.New("dial tcp: refused"), OutcomeRetryable},
		{"redirect limit", 0, &url.Error{Op: "Get", URL: "http://x", Err: fmt.Errorf("%w: stopped after 10", ErrTooManyRedirects)}, OutcomePermanent},
		{"redirect", http.StatusFound, nil, OutcomePermanent},
		{"bad request", http.StatusBadRequest, nil, OutcomePermanent},
		{"unauthorized", http.StatusUnauthorized, nil, OutcomePermanent},
		{"not found", http.StatusNotFound, nil, OutcomePermanent},
		{"too many requests", http.StatusTooManyRequests, nil, OutcomePermanent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.status, tt.err); got != tt.want {
				t.Fatalf("classify(%d, %v) = %v, want %v", tt.status, tt.err, got, tt.want)
			}
		})
	}
}

func TestRetryPolicyDelay(t *testing.T) {
	policy := DefaultRetryPolicy()
	want := map[int]time.Duration{
		0: 0,
		1: time.Second,
		2: 2 * time.Second,
		3: 4 * time.Second,
	}
	for n, delay := range want {
		if got := policy.Delay(n); got != delay {
			t.Errorf("Delay(%d) = %v, want %v", n, got, delay)
		}
	}
	if got := policy.Attempts(); got != 4 {
		t.Errorf("Attempts() = %d, want 4", got)
	}
	if got := (RetryPolicy{MaxRetries: -1}).Attempts(); got != 1 {
		t.Errorf("negative MaxRetries Attempts() = %d, want 1", got)
	}
}

func TestSnippetTruncates(t *testing.T) {
	long := make([]byte, 400)
	for i := range long {
		long[i] = 'x'
	}
	got := snippet(long)
	if len(got) != 259 {
		t.Fatalf("snippet length = %d, want 259", len(got))
	}
	if snippet([]byte("  short \n")) != "short" {
		t.Fatalf("expected trimmed snippet")
	}
}

func TestStatusErrorTemporary(t *testing.T) {
	for status, want := range map[int]bool{404: false, 429: false, 500: true, 503: true, 599: true, 600: false} {
		if got := (&StatusError{StatusCode: status}).Temporary(); got != want {
			t.Fatalf("Temporary() for %d = %v, want %v", status, got, want)
		}
	}
}
