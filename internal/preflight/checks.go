package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"betarank/internal/betaseries"
	"betarank/internal/config"
)

const apiCheckTimeout = 30 * time.Second

// CheckCredentials verifies that an API key is configured.
func CheckCredentials(cfg *config.Config) Result {
	const name = "Credentials"
	if cfg == nil || strings.TrimSpace(cfg.API.APIKey) == "" {
		return Result{Name: name, Detail: "API_KEY missing"}
	}
	detail := "API key set"
	if strings.TrimSpace(cfg.API.AccessToken) != "" {
		detail = "API key and access token set"
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckAPI verifies that the BetaSeries API is reachable and accepts the key.
// It lists a single show with one attempt (no retries).
func CheckAPI(ctx context.Context, cfg *config.Config, opts ...betaseries.Option) Result {
	const name = "BetaSeries API"
	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, apiCheckTimeout)
	defer cancel()

	base := []betaseries.Option{
		betaseries.WithBaseURL(cfg.API.BaseURL),
		betaseries.WithAccessToken(cfg.API.AccessToken),
		betaseries.WithClientID(cfg.API.ClientID),
	}
	client, err := betaseries.New(cfg.API.APIKey, append(base, opts...)...)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	client = client.WithPolicy(betaseries.RetryPolicy{MaxRetries: 0, BaseDelay: client.Policy().BaseDelay})

	if _, err := client.ListShows(checkCtx, betaseries.ListOptions{Limit: 1}); err != nil {
		return Result{Name: name, Detail: summarizeAPIError(err)}
	}
	return Result{Name: name, Passed: true, Detail: "API reachable"}
}

// CheckOutputDirectory verifies that the directory holding outputPath can be
// written. A missing directory passes when its nearest existing ancestor is
// writable, since the export creates it.
func CheckOutputDirectory(outputPath string) Result {
	const name = "Output directory"
	dir := filepath.Dir(filepath.Clean(outputPath))

	existing := dir
	for {
		if _, err := os.Stat(existing); err == nil {
			break
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: no existing ancestor)", dir)}
		}
		existing = parent
	}

	result := CheckDirectoryAccess(name, existing)
	if result.Passed && existing != dir {
		result.Detail = fmt.Sprintf("%s (will be created under %s)", dir, existing)
	}
	return result
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

func summarizeAPIError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "check timed out (API unresponsive)"
	}
	var statusErr *betaseries.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case 400, 401, 403:
			return fmt.Sprintf("auth failed (%d, check API_KEY)", statusErr.StatusCode)
		default:
			return fmt.Sprintf("request failed (%d)", statusErr.StatusCode)
		}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "check timed out (API unreachable)"
	}
	return err.Error()
}
