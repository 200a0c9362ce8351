package cart

import (
	"fmt"

	"AspectoStore/internal/catalog"
)

// Sizes is the closed set of garment sizes a line may carry.
var Sizes = []string{"P", "M", "G", "GG"}

func ValidSize(size string) bool {
	for _, s := range Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// Item is one line in the cart. ProductID plus Size form the identity key;
// the display fields are frozen copies of the catalog product taken when the
// line was first added. Qty is always >= 1 in a persisted cart.
type Item struct {
	ProductID  int64  `json:"product_id"`
	Size       string `json:"size"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Image      string `json:"image"`
	Qty        int    `json:"qty"`
}

func (it Item) Key() string { return Key(it.ProductID, it.Size) }

// Key builds the identity key for a product/size pair.
func Key(productID int64, size string) string {
	return fmt.Sprintf("%d-%s", productID, size)
}

// Add merges the product into the cart: an existing line with the same
// identity key gains one unit, otherwise a new line with Qty 1 is appended at
// the end, preserving insertion order for display.
func Add(items []Item, p catalog.Product, size string) []Item {
	key := Key(p.ID, size)
	for i := range items {
		if items[i].Key() == key {
			items[i].Qty++
			return items
		}
	}
	return append(items, Item{
		ProductID:  p.ID,
		Size:       size,
		Name:       p.Name,
		PriceCents: p.PriceCents,
		Image:      p.Image,
		Qty:        1,
	})
}

// ChangeQty applies a +1/-1 step to the line with the given key, clamping at
// a floor of one unit. Decrementing a single-unit line leaves it at one;
// deleting a line takes an explicit removal. Unknown keys are a no-op.
func ChangeQty(items []Item, key string, delta int) []Item {
	for i := range items {
		if items[i].Key() != key {
			continue
		}
		q := items[i].Qty + delta
		if q < 1 {
			q = 1
		}
		items[i].Qty = q
		return items
	}
	return items
}

// Remove drops the line with the given key. Unknown keys return the cart
// unchanged.
func Remove(items []Item, key string) []Item {
	out := items[:0]
	for _, it := range items {
		if it.Key() != key {
			out = append(out, it)
		}
	}
	return out
}

// ItemCount sums line quantities, shown on the bag badge.
func ItemCount(items []Item) int {
	n := 0
	for _, it := range items {
		n += it.Qty
	}
	return n
}

// TotalCents sums price times quantity over all lines. Integer cents keep the
// sum exact.
func TotalCents(items []Item) int64 {
	var total int64
	for _, it := range items {
		total += it.PriceCents * int64(it.Qty)
	}
	return total
}
