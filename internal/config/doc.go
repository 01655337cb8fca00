// Package config loads, normalizes, and validates betarank configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment credentials such as
// API_KEY and ACCESS_TOKEN. The Config type centralizes every knob the CLI
// needs: upstream API connection details, retry and fetch tuning, ranking
// defaults, output format, and logging.
//
// Always obtain settings through this package so downstream code receives
// trimmed values, clamped limits, and clear validation errors.
package config
