package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"betarank/internal/ranking"
)

// Columns is the header order shared by every format.
var Columns = []string{"title", "score", "mean_rating", "vote_count"}

// ErrLocked reports that another run holds the destination lock.
var ErrLocked = errors.New("output destination is locked by another run")

// Row is one leaderboard line as persisted.
type Row struct {
	Title      string  `json:"title"`
	Score      float64 `json:"score"`
	MeanRating float64 `json:"mean_rating"`
	VoteCount  int64   `json:"vote_count"`
}

// Rows converts ranked entries to persisted rows, keeping order.
func Rows(entries []ranking.Entry) []Row {
	rows := make([]Row, len(entries))
	for i, e := range entries {
		rows[i] = Row{Title: e.Title, Score: e.Score, MeanRating: e.MeanRating, VoteCount: e.VoteCount}
	}
	return rows
}

// Write replaces the contents of path with entries in the given format.
func Write(ctx context.Context, path string, format Format, entries []ranking.Entry) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("export: output path required")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory %s: %w", dir, err)
		}
	}

	lockPath := path + ".lock"
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire output lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrLocked, lockPath)
	}
	defer func() { _ = lock.Unlock() }()

	rows := Rows(entries)
	switch format {
	case FormatCSV, "":
		return writeAtomic(path, func(f *os.File) error { return encodeCSV(f, rows) })
	case FormatJSON:
		return writeAtomic(path, func(f *os.File) error { return encodeJSON(f, rows) })
	case FormatSQLite:
		return writeSQLite(ctx, path, rows)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// writeAtomic writes through a temp file in the destination directory and
// renames it over path.
func writeAtomic(path string, encode func(*os.File) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp output: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if err := encode(tmp); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp output: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp output: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
