package checkout

import (
	"context"
	"database/sql"
	"time"

	"AspectoStore/internal/cart"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 5 * time.Second
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Create(ctx context.Context, o Order) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, slot, customer_name, payment_method, total_cents, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, o.ID, o.Slot, o.CustomerName, string(o.Method), o.TotalCents, o.CreatedAt)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO order_items (order_id, product_id, size, name, price_cents, qty)
		VALUES ($1, $2, $3, $4, $5, $6)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, it := range o.Items {
		if _, err := stmt.ExecContext(ctx, o.ID, it.ProductID, it.Size, it.Name, it.PriceCents, it.Qty); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Order, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var (
		o      Order
		method string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, slot, customer_name, payment_method, total_cents, created_at
		FROM orders
		WHERE id = $1
	`, id).Scan(&o.ID, &o.Slot, &o.CustomerName, &method, &o.TotalCents, &o.CreatedAt)

	if err == sql.ErrNoRows {
		return Order{}, false, nil
	}
	if err != nil {
		return Order{}, false, err
	}
	o.Method = Method(method)

	rows, err := s.db.QueryContext(ctx, `
		SELECT product_id, size, name, price_cents, qty
		FROM order_items
		WHERE order_id = $1
		ORDER BY product_id ASC, size ASC
	`, id)
	if err != nil {
		return Order{}, false, err
	}
	defer rows.Close()

	items := make([]cart.Item, 0, 8)
	for rows.Next() {
		var it cart.Item
		if err := rows.Scan(&it.ProductID, &it.Size, &it.Name, &it.PriceCents, &it.Qty); err != nil {
			return Order{}, false, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return Order{}, false, err
	}
	o.Items = items

	return o, true, nil
}
