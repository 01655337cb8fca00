package export

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"
)

const (
	rankingsTable   = "rankings"
	sqliteBatchSize = 200
)

const createRankingsTable = `CREATE TABLE rankings (
    position INTEGER PRIMARY KEY,
    title TEXT NOT NULL,
    score REAL NOT NULL,
    mean_rating REAL NOT NULL,
    vote_count INTEGER NOT NULL
)`

// writeSQLite builds a fresh database next to path and renames it over the
// destination, so nothing from a previous file survives.
func writeSQLite(ctx context.Context, path string, rows []Row) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp database: %w", err)
	}
	tmpPath := tmp.Name()
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp database: %w", err)
	}

	if err := populateSQLite(ctx, tmpPath, rows); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("chmod temp database: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

func populateSQLite(ctx context.Context, path string, rows []Row) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite db: %w", err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin sqlite transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, createRankingsTable); err != nil {
		return fmt.Errorf("create rankings table: %w", err)
	}

	for start := 0; start < len(rows); start += sqliteBatchSize {
		end := min(start+sqliteBatchSize, len(rows))
		insert := sq.Insert(rankingsTable).Columns("position", "title", "score", "mean_rating", "vote_count")
		for i := start; i < end; i++ {
			row := rows[i]
			insert = insert.Values(i+1, row.Title, row.Score, row.MeanRating, row.VoteCount)
		}
		query, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("build rankings insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert rankings: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rankings: %w", err)
	}
	if err := db.Close(); err != nil {
		return fmt.Errorf("close sqlite db: %w", err)
	}
	return nil
}
