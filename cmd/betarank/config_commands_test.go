package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t, nil)
	cfgPath := env.writeConfig(t, "test-key")

	out, _, err := runCLI(t, []string{"config", "validate"}, cfgPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "Config path: "+cfgPath)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected refusal to replace without --force")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--force"}, ""); err != nil {
		t.Fatalf("config init --force: %v", err)
	}
}

func TestConfigInitWritesToConfigFlagWithKey(t *testing.T) {
	env := setupCLITestEnv(t, nil)
	target := filepath.Join(t.TempDir(), "betarank.toml")

	out, _, err := runCLI(t, []string{"config", "init", "--api-key", "init-key"}, target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Next: betarank check")

	out, _, err = runCLI(t, []string{"config", "validate"}, target)
	if err != nil {
		t.Fatalf("config validate after init: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	if env.requests.Load() != 0 {
		t.Fatalf("expected no API requests, got %d", env.requests.Load())
	}
}

func TestConfigInitWorksWithoutCredentials(t *testing.T) {
	setupCLITestEnv(t, nil)
	target := filepath.Join(t.TempDir(), "fresh.toml")
	if _, _, err := runCLI(t, []string{"config", "init", "-p", target}, ""); err != nil {
		t.Fatalf("config init without credentials: %v", err)
	}
}

func TestConfigValidateReportsMissingKey(t *testing.T) {
	env := setupCLITestEnv(t, nil)
	cfgPath := env.writeConfig(t, "")
	_, _, err := runCLI(t, []string{"config", "validate"}, cfgPath)
	if err == nil {
		t.Fatal("expected validation error")
	}
	requireContains(t, err.Error(), "api.api_key is required")
}

func TestCheckCommand(t *testing.T) {
	env := setupCLITestEnv(t, nil)
	cfgPath := env.writeConfig(t, "test-key")

	out, _, err := runCLI(t, []string{"check", "--output", filepath.Join(env.baseDir, "rank.csv")}, cfgPath)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "BetaSeries API")
	requireContains(t, out, "API reachable")
}

func TestCheckCommandReportsMissingKey(t *testing.T) {
	env := setupCLITestEnv(t, nil)
	cfgPath := env.writeConfig(t, "")

	out, _, err := runCLI(t, []string{"check"}, cfgPath)
	if err == nil {
		t.Fatal("expected failure without credentials")
	}
	requireContains(t, out, "API_KEY missing")
	if env.requests.Load() != 0 {
		t.Fatalf("expected no API request without credentials, got %d", env.requests.Load())
	}
}
