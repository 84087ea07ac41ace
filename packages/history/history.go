// Package history stores finished executions in SQLite.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/hitreq/packages/core/engine"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"
)

const schema = `CREATE TABLE IF NOT EXISTS executions (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	endpoint   TEXT    NOT NULL,
	method     TEXT    NOT NULL,
	url        TEXT    NOT NULL,
	status     INTEGER NOT NULL,
	elapsed_ms INTEGER NOT NULL,
	outcome    TEXT    NOT NULL,
	at         TEXT    NOT NULL
)`

// Store records executions. It implements engine.Recorder.
type Store struct {
	db           *sql.DB
	dataSource   string
	queryTimeout time.Duration
}

var _ engine.Recorder = (*Store)(nil)

// Open opens or creates the history database. Accepted forms are a plain
// path, sqlite://path and sqlite:path.
func Open(connectionString string) (*Store, error) {
	dsn, err := parseConnectionString(connectionString)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// sqlite serialises writers anyway; one connection avoids lock errors
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	return &Store{
		db:           db,
		dataSource:   dsn,
		queryTimeout: 30 * time.Second,
	}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record inserts one execution
func (s *Store) Record(ctx context.Context, e engine.Entry) error {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	at := e.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO executions (endpoint, method, url, status, elapsed_ms, outcome, at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Endpoint, e.Method, e.URL, e.Status, e.ElapsedMs, string(e.Outcome), at.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert failed: %w", err)
	}
	return nil
}

// Recent returns up to n executions, newest first
func (s *Store) Recent(ctx context.Context, n int) ([]engine.Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT endpoint, method, url, status, elapsed_ms, outcome, at FROM executions ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var entries []engine.Entry
	for rows.Next() {
		var (
			e       engine.Entry
			outcome string
			at      string
		)
		if err := rows.Scan(&e.Endpoint, &e.Method, &e.URL, &e.Status, &e.ElapsedMs, &outcome, &at); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		e.Outcome = engine.Outcome(outcome)
		if e.At, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, fmt.Errorf("bad timestamp %q: %w", at, err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}

// parseConnectionString strips the optional sqlite scheme
func parseConnectionString(connStr string) (string, error) {
	connStr = strings.TrimSpace(connStr)

	switch {
	case strings.HasPrefix(connStr, "sqlite://"):
		connStr = strings.TrimPrefix(connStr, "sqlite://")
	case strings.HasPrefix(connStr, "sqlite:"):
		connStr = strings.TrimPrefix(connStr, "sqlite:")
	case strings.Contains(connStr, "://"):
		return "", fmt.Errorf("unsupported history database: %s (only sqlite is supported)", connStr)
	}

	if connStr == "" {
		return "", fmt.Errorf("empty history database path")
	}
	return connStr, nil
}
