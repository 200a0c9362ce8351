package checkout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AspectoStore/internal/cart"
)

func pendingItems() []cart.Item {
	return []cart.Item{{ProductID: 1, Size: "M", Name: "Camisa", PriceCents: 12000, Qty: 1}}
}

func TestPendingBook_TakeIsOneShot(t *testing.T) {
	b := newPendingBook()

	p := b.open("s1", "Maria", MethodPIX, pendingItems())

	got, ok := b.take(p.id, "s1")
	require.True(t, ok)
	assert.Equal(t, "Maria", got.customer)
	assert.Equal(t, MethodPIX, got.method)

	_, ok = b.take(p.id, "s1")
	assert.False(t, ok, "a pending checkout completes at most once")
}

func TestPendingBook_SlotMustMatch(t *testing.T) {
	b := newPendingBook()

	p := b.open("s1", "Maria", MethodPIX, pendingItems())

	_, ok := b.take(p.id, "other-session")
	assert.False(t, ok)
}

func TestPendingBook_Expires(t *testing.T) {
	b := newPendingBook()

	p := b.open("s1", "Maria", MethodPIX, pendingItems())
	b.now = func() time.Time { return p.created.Add(b.ttl + time.Minute) }

	_, ok := b.take(p.id, "s1")
	assert.False(t, ok)
}
