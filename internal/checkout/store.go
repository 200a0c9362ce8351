package checkout

import (
	"context"
	"time"

	"AspectoStore/internal/cart"
)

// Order is a completed checkout, recorded once the cart is externalized and
// cleared.
type Order struct {
	ID           string      `json:"id"`
	Slot         string      `json:"-"`
	CustomerName string      `json:"customer_name"`
	Method       Method      `json:"payment_method"`
	Items        []cart.Item `json:"items"`
	TotalCents   int64       `json:"total_cents"`
	CreatedAt    time.Time   `json:"created_at"`
}

type Store interface {
	Create(ctx context.Context, o Order) error
	Get(ctx context.Context, id string) (Order, bool, error)
	Ping(ctx context.Context) error
}
