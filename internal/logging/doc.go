// Package logging assembles structured slog loggers and formatting helpers used
// across betarank.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so fetch and ranking code can tag
// log lines with the run identifier and content kind. The package also
// provides a no-op logger for tests and a progress sampler that keeps long
// per-item fetch loops from flooding the console.
package logging
