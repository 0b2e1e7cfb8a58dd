// Package postgres backs the kv port with a hosted Postgres table. Rows
// live in user_settings and are owned by a user id, so several operators
// can share one database without seeing each other's data.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"undangan/internal/kv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultPollInterval = 2 * time.Second

type Store struct {
	pool         *pgxpool.Pool
	userID       string
	pollInterval time.Duration
}

// Open connects, runs migrations and scopes the store to userID.
func Open(ctx context.Context, databaseURL, userID string) (*Store, error) {
	if userID == "" {
		return nil, errors.New("user id is required for the postgres backend")
	}

	if err := RunMigrations(databaseURL); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{pool: pool, userID: userID, pollInterval: defaultPollInterval}, nil
}

func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM user_settings WHERE user_id = $1 AND key = $2`,
		s.userID, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO user_settings (user_id, key, value, updated_at) VALUES ($1, $2, $3, now())
		 ON CONFLICT (user_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		s.userID, key, value)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM user_settings WHERE user_id = $1 AND key = $2`, s.userID, key)
	if err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// Watch polls for rows updated since the last pass, same contract as the
// sqlite backend. Concurrent writers are not merged: last writer wins and
// observers refresh from whatever landed.
func (s *Store) Watch(ctx context.Context) (<-chan kv.Event, error) {
	ch := make(chan kv.Event, 16)
	since := time.Now()

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
					slog.WarnContext(ctx, "user_settings poll failed", "error", err)
					continue
				}
				since = next
			}
		}
	}()

	return ch, nil
}

func (s *Store) emitChanges(ctx context.Context, since time.Time, ch chan<- kv.Event) (time.Time, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT key, value, updated_at FROM user_settings
		 WHERE user_id = $1 AND updated_at > $2 ORDER BY updated_at`,
		s.userID, since)
	if err != nil {
		return since, fmt.Errorf("query changes: %w", err)
	}
	defer rows.Close()

	last := since
	for rows.Next() {
		var ev kv.Event
		var at time.Time
		if err := rows.Scan(&ev.Key, &ev.Value, &at); err != nil {
			return last, fmt.Errorf("scan change: %w", err)
		}
		if at.After(last) {
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
