package main

import (
	"database/sql"
	"encoding/csv"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"
)

func TestRankWritesCSVAndPreview(t *testing.T) {
	env := setupCLITestEnv(t, nil)
	cfgPath := env.writeConfig(t, "test-key")
	output := filepath.Join(env.baseDir, "out", "rank.csv")

	out, stderr, err := runCLI(t, []string{"rank", "--output", output, "--threshold", "3", "--preview", "2"}, cfgPath)
	if err != nil {
		t.Fatalf("rank: %v (stderr: %s)", err, stderr)
	}
	requireContains(t, out, "Successfully saved 3 rows to "+output)
	requireContains(t, out, "1,000")
	requireContains(t, stderr, "dropping movie")

	f, err := os.Open(output)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if strings.Join(records[0], ",") != "title,score,mean_rating,vote_count" {
		t.Fatalf("unexpected header %v", records[0])
	}
	if len(records) != 4 || records[1][0] != "A" {
		t.Fatalf("expected A to lead the leaderboard, got %v", records)
	}
	if !strings.HasPrefix(records[1][1], "4.4636") {
		t.Fatalf("expected score(A) ~4.4636, got %s", records[1][1])
	}
}

func TestRankSortByVoteCountAndLimit(t *testing.T) {
	env := setupCLITestEnv(t, nil)
	cfgPath := env.writeConfig(t, "test-key")
	output := filepath.Join(env.baseDir, "rank.json")

	if _, stderr, err := runCLI(t, []string{"rank", "-o", output, "--sort", "total_notes", "--limit", "2", "--preview", "0"}, cfgPath); err != nil {
		t.Fatalf("rank: %v (stderr: %s)", err, stderr)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	content := string(data)
	if strings.Index(content, `"A"`) > strings.Index(content, `"C"`) {
		t.Fatalf("expected A before C by vote count: %s", content)
	}
	if strings.Contains(content, `"B"`) {
		t.Fatalf("expected B truncated by --limit 2: %s", content)
	}
}

func TestRankOnlyShowsToSQLite(t *testing.T) {
	env := setupCLITestEnv(t, nil)
	cfgPath := env.writeConfig(t, "test-key")
	output := filepath.Join(env.baseDir, "rank.db")

	if _, stderr, err := runCLI(t, []string{"rank", "-o", output, "--type", "shows"}, cfgPath); err != nil {
		t.Fatalf("rank: %v (stderr: %s)", err, stderr)
	}
	db, err := sql.Open("sqlite", output)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()
	var count int
	var title string
	if err := db.QueryRow("SELECT COUNT(*), MIN(title) FROM rankings").Scan(&count, &title); err != nil {
		t.Fatalf("query rankings: %v", err)
	}
	if count != 1 || title != "C" {
		t.Fatalf("expected only the show, got count=%d title=%q", count, title)
	}
}

func TestRankMissingAPIKeyFailsBeforeNetwork(t *testing.T) {
	env := setupCLITestEnv(t, nil)
	cfgPath := env.writeConfig(t, "")
	output := filepath.Join(env.baseDir, "rank.csv")

	_, _, err := runCLI(t, []string{"rank", "--output", output}, cfgPath)
	if err == nil {
		t.Fatal("expected error without API key")
	}
	requireContains(t, err.Error(), "api.api_key is required")
	if env.requests.Load() != 0 {
		t.Fatalf("expected no requests, got %d", env.requests.Load())
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Fatal("expected no output file")
	}
}

func TestRankNoDataExitsCleanly(t *testing.T) {
	env := setupCLITestEnv(t, http.NotFoundHandler())
	cfgPath := env.writeConfig(t, "test-key")
	output := filepath.Join(env.baseDir, "rank.csv")

	out, stderr, err := runCLI(t, []string{"rank", "--output", output}, cfgPath)
	if err != nil {
		t.Fatalf("expected clean exit, got %v", err)
	}
	requireContains(t, out, "No data fetched.")
	requireContains(t, stderr, "catalog list failed")
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Fatal("expected no output file when nothing was fetched")
	}
}

func TestRankRejectsInvalidFlags(t *testing.T) {
	env := setupCLITestEnv(t, nil)
	cfgPath := env.writeConfig(t, "test-key")
	output := filepath.Join(env.baseDir, "rank.csv")

	tests := [][]string{
		{"rank", "--output", output, "--sort", "title"},
		{"rank", "--output", output, "--type", "episodes"},
		{"rank", "--output", output, "--threshold", "0"},
		{"rank", "--output", output, "--format", "xlsx"},
		{"rank"},
	}
	for _, args := range tests {
		if _, _, err := runCLI(t, args, cfgPath); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
	if env.requests.Load() != 0 {
		t.Fatalf("expected validation before any request, got %d requests", env.requests.Load())
	}
}

func TestRankWritesMetricsFile(t *testing.T) {
	env := setupCLITestEnv(t, nil)
	cfgPath := env.writeConfig(t, "test-key")
	output := filepath.Join(env.baseDir, "rank.csv")
	metricsPath := filepath.Join(env.baseDir, "betarank.prom")

	if _, stderr, err := runCLI(t, []string{"rank", "-o", output, "--metrics-file", metricsPath}, cfgPath); err != nil {
		t.Fatalf("rank: %v (stderr: %s)", err, stderr)
	}
	data, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	requireContains(t, string(data), `betarank_items_total{kind="movies",result="dropped"} 1`)
	requireContains(t, string(data), "betarank_ranked_entries 3")
}
