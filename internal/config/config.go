package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// API contains connection settings for the BetaSeries rating service.
type API struct {
	APIKey         string  `toml:"api_key"`
	AccessToken    string  `toml:"access_token"`
	BaseURL        string  `toml:"base_url"`
	ClientID       string  `toml:"client_id"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	RatePerSecond  float64 `toml:"rate_per_second"`
	RateBurst      int     `toml:"rate_burst"`
}

// Retry controls how transient upstream failures are retried.
type Retry struct {
	MaxRetries  int `toml:"max_retries"`
	BaseDelayMS int `toml:"base_delay_ms"`
}

// Fetch controls how catalog lists and per-item details are harvested.
type Fetch struct {
	Limit           int    `toml:"limit"`
	Order           string `toml:"order"`
	Workers         int    `toml:"workers"`
	BreakerFailures int    `toml:"breaker_failures"`
}

// Ranking contains defaults for the weighted-average leaderboard.
type Ranking struct {
	ThresholdCount int    `toml:"threshold_count"`
	Sort           string `toml:"sort"`
	Limit          int    `toml:"limit"`
}

// Output contains defaults for persisted and previewed results.
type Output struct {
	Format      string `toml:"format"`
	PreviewRows int    `toml:"preview_rows"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for betarank.
//
// Configuration sections by subsystem:
//   - API: credentials, base URL, client identifier, timeout, throttle
//   - Retry: bounded exponential backoff for transient failures
//   - Fetch: list size, ordering, detail lookup workers, circuit breaker
//   - Ranking: popularity threshold, default sort key and row limit
//   - Output: export format and preview size
//   - Logging: log format and level
type Config struct {
	API     API     `toml:"api"`
	Retry   Retry   `toml:"retry"`
	Fetch   Fetch   `toml:"fetch"`
	Ranking Ranking `toml:"ranking"`
	Output  Output  `toml:"output"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. A missing file is
// not an error; defaults and environment values are used instead.
func Load(path string) (*Config, string, bool, error) {
	cfg, resolvedPath, exists, err := LoadUnvalidated(path)
	if err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return cfg, resolvedPath, exists, nil
}

// LoadUnvalidated parses and normalizes configuration without validating it,
// for callers that report problems instead of failing on them.
func LoadUnvalidated(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.normalize()
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(defaultProjectConfig)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// RequestTimeout returns the per-call HTTP timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// RetryBaseDelay returns the backoff base delay.
func (c *Config) RetryBaseDelay() time.Duration {
	return time.Duration(c.Retry.BaseDelayMS) * time.Millisecond
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
// A non-empty apiKey replaces the placeholder key.
func CreateSample(path, apiKey string) error {
	contents := sampleConfig
	if key := strings.TrimSpace(apiKey); key != "" {
		contents = strings.Replace(contents, `"`+defaultSampleAPIKeyHint+`"`, strconv.Quote(key), 1)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
