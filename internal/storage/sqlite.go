package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/cutaway/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Absent fields are stored as NULL so they stay distinguishable from empty text.
func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS gags (
		title TEXT PRIMARY KEY,
		season INTEGER,
		episode TEXT,
		episode_order INTEGER,
		cutaway_owner TEXT,
		description TEXT,
		source_name TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_gags_owner ON gags(cutaway_owner);
	CREATE INDEX IF NOT EXISTS idx_gags_season ON gags(season, episode_order);
	`
	_, err := db.Exec(schema)
	return err
}

const gagColumns = `title, season, episode, episode_order, cutaway_owner, description, source_name`

// ReplaceGags deletes every row and inserts gags in a single transaction.
func (s *SQLiteStorage) ReplaceGags(ctx context.Context, gags []models.Gag) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM gags`); err != nil {
		return fmt.Errorf("failed to clear gags: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO gags (`+gagColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, g := range gags {
		if _, err := stmt.ExecContext(ctx,
			g.Title,
			nullInt(g.Season),
			nullString(g.Episode),
			nullInt(g.EpisodeOrder),
			nullString(g.Owner),
			nullString(g.Description),
			g.SourceName,
		); err != nil {
			return fmt.Errorf("failed to insert %q: %w", g.Title, err)
		}
	}
	return tx.Commit()
}

// GetGag returns the gag stored under title.
func (s *SQLiteStorage) GetGag(ctx context.Context, title string) (models.Gag, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+gagColumns+` FROM gags WHERE title = ?`, title)
	g, err := scanGag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Gag{}, fmt.Errorf("%w: %s", ErrGagNotFound, title)
	}
	return g, err
}

// ListGags returns gags ordered by title with offset and limit.
func (s *SQLiteStorage) ListGags(ctx context.Context, offset, limit int) ([]models.Gag, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+gagColumns+` FROM gags ORDER BY title LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	gags := []models.Gag{}
	for rows.Next() {
		g, err := scanGag(rows)
		if err != nil {
			return nil, err
		}
		gags = append(gags, g)
	}
	return gags, rows.Err()
}

// CountGags returns the total number of stored gags.
func (s *SQLiteStorage) CountGags(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM gags`).Scan(&count)
	return count, err
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGag(row scanner) (models.Gag, error) {
	var (
		g                     models.Gag
		season, episodeOrder  sql.NullInt64
		episode, owner, descr sql.NullString
	)
	if err := row.Scan(&g.Title, &season, &episode, &episodeOrder, &owner, &descr, &g.SourceName); err != nil {
		return models.Gag{}, err
	}
	if season.Valid {
		g.Season = models.Some(int(season.Int64))
	}
	if episode.Valid {
		g.Episode = models.Some(episode.String)
	}
	if episodeOrder.Valid {
		g.EpisodeOrder = models.Some(int(episodeOrder.Int64))
	}
	if owner.Valid {
		g.Owner = models.Some(owner.String)
	}
	if descr.Valid {
		g.Description = models.Some(descr.String)
	}
	return g, nil
}

func nullInt(o models.Optional[int]) sql.NullInt64 {
	v, ok := o.Get()
	return sql.NullInt64{Int64: int64(v), Valid: ok}
}

func nullString(o models.Optional[string]) sql.NullString {
	v, ok := o.Get()
	return sql.NullString{String: v, Valid: ok}
}
