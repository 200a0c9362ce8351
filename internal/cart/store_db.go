package cart

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

// PostgresStore keeps one row per slot with the serialized cart, upserted
// whole on every save.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresStore) Load(ctx context.Context, slot string) ([]Item, error) {
	var raw []byte

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `
			SELECT items
			FROM carts
			WHERE slot = $1
		`, slot).Scan(&raw)
	})

	if err == sql.ErrNoRows {
		return []Item{}, nil
	}
	if err != nil {
		return nil, err
	}

	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return []Item{}, nil
	}
	return items, nil
}

func (s *PostgresStore) Save(ctx context.Context, slot string, items []Item) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}

	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO carts (slot, items, updated_at)
			VALUES ($1, $2, now())
			ON CONFLICT (slot) DO UPDATE
			SET items = EXCLUDED.items, updated_at = now()
		`, slot, raw)
		return err
	})
}

func (s *PostgresStore) Clear(ctx context.Context, slot string) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `DELETE FROM carts WHERE slot = $1`, slot)
		return err
	})
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
