package catalog

import "context"

// Product is one purchasable piece from the drop catalog. Products are
// read-only at runtime; cart lines copy the display fields at add time and
// never consult the catalog again.
type Product struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Year       int    `json:"year"`
	Image      string `json:"image"`
}

// AllYears selects every drop year in List.
const AllYears = 0

type Store interface {
	Ping(ctx context.Context) error
	// List returns products newest drop first. A non-zero year restricts the
	// result to that drop year.
	List(ctx context.Context, year int) ([]Product, error)
	Get(ctx context.Context, id int64) (Product, bool, error)
}
