package preflight

import (
	"context"
	"strings"

	"betarank/internal/betaseries"
	"betarank/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}

// RunAll executes the credential, API, and (when outputPath is set) output
// directory checks. The API check is skipped when no credential is
// configured.
func RunAll(ctx context.Context, cfg *config.Config, outputPath string, opts ...betaseries.Option) []Result {
	if cfg == nil {
		return nil
	}

	credentials := CheckCredentials(cfg)
	results := []Result{credentials}

	if credentials.Passed {
		results = append(results, CheckAPI(ctx, cfg, opts...))
	}

	if strings.TrimSpace(outputPath) != "" {
		results = append(results, CheckOutputDirectory(outputPath))
	}

	return results
}
