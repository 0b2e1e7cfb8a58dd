// Package sqlite backs the kv port with a local SQLite file. This is the
// single-machine persistence path; the hosted path lives in kv/postgres.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"undangan/internal/kv"

	_ "modernc.org/sqlite"
)

const defaultPollInterval = 2 * time.Second

type Store struct {
	db           *sql.DB
	pollInterval time.Duration
}

func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db, pollInterval: defaultPollInterval}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// Watch polls for upserts newer than the last observed write. Deletes are
// not surfaced; stores rewrite partitions in place, so every interesting
// change is a Set.
func (s *Store) Watch(ctx context.Context) (<-chan kv.Event, error) {
	ch := make(chan kv.Event, 16)
	since := time.Now().UnixNano()

	go func() {
		defer close(ch)
		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				next, err := s.emitChanges(ctx, since, ch)
				if err != nil {
					slog.WarnContext(ctx, "kv poll failed", "error", err)
					continue
				}
				since = next
			}
		}
	}()

	return ch, nil
}

func (s *Store) emitChanges(ctx context.Context, since int64, ch chan<- kv.Event) (int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value, updated_at FROM kv WHERE updated_at > ? ORDER BY updated_at`, since)
	if err != nil {
		return since, fmt.Errorf("query changes: %w", err)
	}
	defer rows.Close()

	last := since
	for rows.Next() {
		var ev kv.Event
		var at int64
		if err := rows.Scan(&ev.Key, &ev.Value, &at); err != nil {
			return last, fmt.Errorf("scan change: %w", err)
		}
		if at > last {
			last = at
		}
		select {
		case ch <- ev:
		case <-ctx.Done():
			return last, ctx.Err()
		}
	}
	return last, rows.Err()
}
