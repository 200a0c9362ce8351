package cart

import "context"

// Store persists one cart per slot (slots are named by browsing session).
// The whole cart is read and rewritten on every mutation, last write wins;
// that mirrors the single key-value slot the storefront grew up with and is
// fine at this data volume.
//
// A slot that is absent, or whose stored value no longer decodes as a cart,
// loads as an empty cart. Corruption is never surfaced past the store.
type Store interface {
	Load(ctx context.Context, slot string) ([]Item, error)
	Save(ctx context.Context, slot string, items []Item) error
	Clear(ctx context.Context, slot string) error
	Ping(ctx context.Context) error
}
