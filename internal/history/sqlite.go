package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"github.com/cabouelw/codewise.ai-sub000/migrations"
)

const timeLayout = "2006-01-02T15:04:05Z"

// SQLite implements Store backed by a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps ":memory:" databases shared across queries.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// RecordBuild stores a build and its URL set in one transaction.
func (s *SQLite) RecordBuild(ctx context.Context, siteURL string, builtAt time.Time, urls []string) (*Build, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	at := builtAt.UTC().Format(timeLayout)
	res, err := tx.ExecContext(ctx,
		`INSERT INTO builds (site_url, built_at, url_count) VALUES (?, ?, ?)`,
		siteURL, at, len(urls),
	)
	if err != nil {
		return nil, fmt.Errorf("insert build: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO build_urls (build_id, url) VALUES (?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("prepare url insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()
	for _, u := range urls {
		if _, err := stmt.ExecContext(ctx, id, u); err != nil {
			return nil, fmt.Errorf("insert url %q: %w", u, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit build: %w", err)
	}

	b := &Build{ID: id, SiteURL: siteURL, URLCount: len(urls)}
	b.BuiltAt, _ = time.Parse(timeLayout, at)
	return b, nil
}

// LatestBuild returns the most recently recorded build.
func (s *SQLite) LatestBuild(ctx context.Context) (*Build, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, site_url, built_at, url_count FROM builds ORDER BY id DESC LIMIT 1`)

	var (
		b  Build
		at string
	)
	if err := row.Scan(&b.ID, &b.SiteURL, &at, &b.URLCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoBuilds
		}
		return nil, fmt.Errorf("scan build: %w", err)
	}
	t, err := time.Parse(timeLayout, at)
	if err != nil {
		return nil, fmt.Errorf("parse built_at %q: %w", at, err)
	}
	b.BuiltAt = t
	return &b, nil
}

// BuildURLs returns the URLs recorded for a build, sorted.
func (s *SQLite) BuildURLs(ctx context.Context, id int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT url FROM build_urls WHERE build_id = ? ORDER BY url`, id)
	if err != nil {
		return nil, fmt.Errorf("query build urls: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan url: %w", err)
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}
