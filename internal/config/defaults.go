package config

const (
	defaultConfigPath       = "~/.config/betarank/config.toml"
	defaultProjectConfig    = "betarank.toml"
	defaultAPIBaseURL       = "https://api.betaseries.com"
	defaultClientID         = "betarank/1.0"
	defaultTimeoutSeconds   = 30
	defaultRateBurst        = 1
	defaultMaxRetries       = 3
	defaultBaseDelayMillis  = 500
	defaultFetchLimit       = 1000
	defaultFetchOrder       = "popularity"
	defaultFetchWorkers     = 1
	defaultBreakerFailures  = 10
	defaultThresholdCount   = 250
	defaultSortKey          = "score"
	defaultRowLimit         = 100
	defaultPreviewRows      = 5
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	maxListLimit            = 1000
	maxFetchWorkers         = 16
	envAPIKey               = "API_KEY"
	envAccessToken          = "ACCESS_TOKEN"
	envPrefixedAPIKey       = "BETASERIES_API_KEY"
	envPrefixedAccessToken  = "BETASERIES_ACCESS_TOKEN"
	defaultSampleAPIKeyHint = "your_betaseries_api_key_here"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		API: API{
			BaseURL:        defaultAPIBaseURL,
			ClientID:       defaultClientID,
			TimeoutSeconds: defaultTimeoutSeconds,
			RateBurst:      defaultRateBurst,
		},
		Retry: Retry{
			MaxRetries:  defaultMaxRetries,
			BaseDelayMS: defaultBaseDelayMillis,
		},
		Fetch: Fetch{
			Limit:           defaultFetchLimit,
			Order:           defaultFetchOrder,
			Workers:         defaultFetchWorkers,
			BreakerFailures: defaultBreakerFailures,
		},
		Ranking: Ranking{
			ThresholdCount: defaultThresholdCount,
			Sort:           defaultSortKey,
			Limit:          defaultRowLimit,
		},
		Output: Output{
			PreviewRows: defaultPreviewRows,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
