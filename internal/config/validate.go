package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrMissingAPIKey reports that no API key was configured.
var ErrMissingAPIKey = errors.New("api.api_key is required")

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateRetry(); err != nil {
		return err
	}
	if err := c.validateRanking(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigPath
		}
		return fmt.Errorf("%w. Set API_KEY env var or edit %s (create with 'betarank config init')", ErrMissingAPIKey, defaultPath)
	}
	parsed, err := url.Parse(c.API.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute URL, got %q", c.API.BaseURL)
	}
	if c.API.TimeoutSeconds <= 0 {
		return errors.New("api.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateRetry() error {
	if c.Retry.MaxRetries < 0 {
		return errors.New("retry.max_retries must be >= 0")
	}
	if c.Retry.BaseDelayMS <= 0 {
		return errors.New("retry.base_delay_ms must be positive")
	}
	return nil
}

func (c *Config) validateRanking() error {
	if c.Ranking.ThresholdCount <= 0 {
		return errors.New("ranking.threshold_count must be positive")
	}
	switch c.Ranking.Sort {
	case "score", "weighted_average", "mean_rating", "mean_notes", "vote_count", "total_notes":
	default:
		return fmt.Errorf("ranking.sort must be one of score, mean_rating, vote_count, got %q", c.Ranking.Sort)
	}
	return nil
}

func (c *Config) validateOutput() error {
	switch strings.TrimSpace(c.Output.Format) {
	case "", "csv", "json", "sqlite":
		return nil
	default:
		return fmt.Errorf("output.format must be csv, json, or sqlite, got %q", c.Output.Format)
	}
}
