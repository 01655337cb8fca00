package config

import (
	"os"
	"strings"
)

func (c *Config) normalize() {
	c.normalizeAPI()
	c.normalizeRetry()
	c.normalizeFetch()
	c.normalizeRanking()
	c.normalizeOutput()
	c.normalizeLogging()
}

func (c *Config) normalizeAPI() {
	c.API.APIKey = strings.TrimSpace(c.API.APIKey)
	if c.API.APIKey == defaultSampleAPIKeyHint {
		c.API.APIKey = ""
	}
	if value, ok := lookupEnv(envAPIKey, envPrefixedAPIKey); ok {
		c.API.APIKey = value
	}
	c.API.AccessToken = strings.TrimSpace(c.API.AccessToken)
	if value, ok := lookupEnv(envAccessToken, envPrefixedAccessToken); ok {
		c.API.AccessToken = value
	}
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaultAPIBaseURL
	}
	c.API.ClientID = strings.TrimSpace(c.API.ClientID)
	if c.API.ClientID == "" {
		c.API.ClientID = defaultClientID
	}
	if c.API.TimeoutSeconds <= 0 {
		c.API.TimeoutSeconds = defaultTimeoutSeconds
	}
	if c.API.RatePerSecond < 0 {
		c.API.RatePerSecond = 0
	}
	if c.API.RateBurst <= 0 {
		c.API.RateBurst = defaultRateBurst
	}
}

func (c *Config) normalizeRetry() {
	if c.Retry.BaseDelayMS <= 0 {
		c.Retry.BaseDelayMS = defaultBaseDelayMillis
	}
}

func (c *Config) normalizeFetch() {
	if c.Fetch.Limit <= 0 {
		c.Fetch.Limit = defaultFetchLimit
	}
	if c.Fetch.Limit > maxListLimit {
		c.Fetch.Limit = maxListLimit
	}
	c.Fetch.Order = strings.ToLower(strings.TrimSpace(c.Fetch.Order))
	if c.Fetch.Order == "" {
		c.Fetch.Order = defaultFetchOrder
	}
	if c.Fetch.Workers <= 0 {
		c.Fetch.Workers = defaultFetchWorkers
	}
	if c.Fetch.Workers > maxFetchWorkers {
		c.Fetch.Workers = maxFetchWorkers
	}
	if c.Fetch.BreakerFailures < 0 {
		c.Fetch.BreakerFailures = 0
	}
}

func (c *Config) normalizeRanking() {
	c.Ranking.Sort = strings.ToLower(strings.TrimSpace(c.Ranking.Sort))
	if c.Ranking.Sort == "" {
		c.Ranking.Sort = defaultSortKey
	}
	if c.Ranking.Limit <= 0 {
		c.Ranking.Limit = defaultRowLimit
	}
}

func (c *Config) normalizeOutput() {
	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	if c.Output.PreviewRows < 0 {
		c.Output.PreviewRows = 0
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func lookupEnv(keys ...string) (string, bool) {
	for _, key := range keys {
		if value, ok := os.LookupEnv(key); ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed, true
			}
		}
	}
	return "", false
}
