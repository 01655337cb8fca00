// Package betaseries is the HTTP client for the BetaSeries rating service.
//
// Every request carries the static identification headers set at
// construction and runs through a bounded retry loop: server errors and
// transport failures are retried with exponential backoff (1s, 2s, 4s by
// default), while client errors and malformed payloads fail immediately.
// When the retry budget runs out the call returns a *MaxRetriesError naming
// the URL. Callers observe attempts through the Observer hook, which the
// metrics package implements.
package betaseries
