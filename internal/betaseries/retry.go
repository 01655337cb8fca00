package betaseries

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultMaxRetries bounds retries after the first attempt.
	DefaultMaxRetries = 3
	// DefaultBaseDelay is doubled for every retry: 1s, 2s, 4s.
	DefaultBaseDelay = 500 * time.Millisecond
)

// RetryPolicy bounds the retry loop for one request.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// DefaultRetryPolicy returns the policy used when none is configured.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: DefaultMaxRetries, BaseDelay: DefaultBaseDelay}
}

// Attempts returns the total number of requests the policy allows.
func (p RetryPolicy) Attempts() int {
	if p.MaxRetries < 0 {
		return 1
	}
	return p.MaxRetries + 1
}

// Delay returns the wait before retry n (1-based): BaseDelay * 2^n.
func (p RetryPolicy) Delay(n int) time.Duration {
	if n <= 0 || p.BaseDelay <= 0 {
		return 0
	}
	return p.BaseDelay << uint(n)
}

// Outcome classifies a single attempt.
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeRetryable Outcome = "retryable"
	OutcomePermanent Outcome = "permanent"
)

type retryState int

const (
	stateAttempting retryState = iota
	stateBackingOff
	stateSucceeded
	stateExhaustedFailed
)

func (s retryState) String() string {
	switch s {
	case stateAttempting:
		return "attempting"
	case stateBackingOff:
		return "backing_off"
	case stateSucceeded:
		return "succeeded"
	case stateExhaustedFailed:
		return "exhausted_failed"
	default:
		return "unknown"
	}
}

// classify maps a transport error or HTTP status onto an attempt outcome.
func classify(status int, err error) Outcome {
	if err != nil {
		if errors.Is(err, ErrTooManyRedirects) {
			return OutcomePermanent
		}
		return OutcomeRetryable
	}
	switch {
	case status >= http.StatusOK && status < http.StatusMultipleChoices:
		return OutcomeSuccess
	case isServerError(status):
		return OutcomeRetryable
	default:
		return OutcomePermanent
	}
}

// retryRun carries the state of one request through the retry loop.
type retryRun struct {
	state    retryState
	attempts int
	last     error
	body     []byte
}

// execute drives the retry state machine for target until it succeeds,
// fails permanently, exhausts the policy, or ctx is cancelled.
func (c *Client) execute(ctx context.Context, endpoint, target string) ([]byte, error) {
	run := retryRun{state: stateAttempting}
	maxAttempts := c.policy.Attempts()

	for {
		switch run.state {
		case stateAttempting:
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := c.wait(ctx); err != nil {
				return nil, err
			}
			run.attempts++
			started := time.Now()
			body, status, err := c.send(ctx, target)
			if err != nil && ctx.Err() != nil {
				return nil, ctx.Err()
			}
			outcome := classify(status, err)
			c.observer.ObserveAttempt(endpoint, outcome, time.Since(started))

			switch outcome {
			case OutcomeSuccess:
				run.body = body
				run.state = stateSucceeded
			case OutcomePermanent:
				if err != nil {
					return nil, fmt.Errorf("betaseries: GET %s: %w", target, err)
				}
				return nil, &StatusError{URL: target, StatusCode: status, Body: snippet(body)}
			case OutcomeRetryable:
				if err == nil {
					err = &StatusError{URL: target, StatusCode: status, Body: snippet(body)}
				}
				run.last = err
				if run.attempts >= maxAttempts {
					run.state = stateExhaustedFailed
				} else {
					run.state = stateBackingOff
				}
			}

		case stateBackingOff:
			delay := c.policy.Delay(run.attempts)
			c.observer.ObserveRetry(endpoint, delay)
			c.logger.Debug("retrying betaseries request",
				"endpoint", endpoint,
				"attempt", run.attempts,
				"max_attempts", maxAttempts,
				"delay", delay,
				"error", run.last,
			)
			if err := c.sleep(ctx, delay); err != nil {
				return nil, err
			}
			run.state = stateAttempting

		case stateSucceeded:
			return run.body, nil

		case stateExhaustedFailed:
			return nil, &MaxRetriesError{URL: target, Attempts: run.attempts, Last: run.last}

		default:
			return nil, errors.New("betaseries retry: invalid state " + run.state.String())
		}
	}
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

func (c *Client) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if c.sleeper != nil {
		c.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func snippet(body []byte) string {
	const limit = 256
	text := strings.TrimSpace(string(body))
	if len(text) > limit {
		return text[:limit] + "..."
	}
	return text
}
