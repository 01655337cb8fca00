package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	server     *httptest.Server
	requests   *atomic.Int32
}

// setupCLITestEnv isolates HOME, the working directory, and credential
// environment variables, and starts a fake BetaSeries API.
func setupCLITestEnv(t *testing.T, handler http.Handler) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	home := filepath.Join(base, "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)
	t.Chdir(base)
	for _, key := range []string{"API_KEY", "ACCESS_TOKEN", "BETASERIES_API_KEY", "BETASERIES_ACCESS_TOKEN"} {
		t.Setenv(key, "")
	}

	requests := &atomic.Int32{}
	if handler == nil {
		handler = fakeBetaSeries()
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)

	return &cliTestEnv{
		baseDir:  base,
		server:   server,
		requests: requests,
	}
}

func (e *cliTestEnv) writeConfig(t *testing.T, apiKey string) string {
	t.Helper()
	content := fmt.Sprintf(`[api]
api_key = %q
base_url = %q
timeout_seconds = 5

[retry]
max_retries = 0
base_delay_ms = 1

[fetch]
workers = 2
`, apiKey, e.server.URL)
	path := filepath.Join(e.baseDir, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	e.configPath = path
	return path
}

func fakeBetaSeries() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/movies/list", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"movies":[{"id":1,"title":"A"},{"id":2,"title":"B"},{"id":3,"title":"Broken"}]}`))
	})
	mux.HandleFunc("/movies/movie", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("id") {
		case "1":
			_, _ = w.Write([]byte(`{"movie":{"id":1,"title":"A","notes":{"total":1000,"mean":4.5}}}`))
		case "2":
			_, _ = w.Write([]byte(`{"movie":{"id":2,"title":"B","notes":{"total":100,"mean":4.8}}}`))
		default:
			http.NotFound(w, r)
		}
	})
	mux.HandleFunc("/shows/list", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"shows":[{"id":7,"title":"C","notes":{"total":500,"mean":3.0}}]}`))
	})
	return mux
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
