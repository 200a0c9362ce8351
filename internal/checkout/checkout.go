// Package checkout walks a cart through validation, external dispatch and
// completion. Validation failures reject without side effects; the PIX
// instant-transfer method inserts an explicit confirmation step before
// anything is dispatched or cleared.
package checkout

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"AspectoStore/internal/cart"
)

type Method string

const (
	MethodCash Method = "cash"
	MethodPIX  Method = "pix"
	MethodCard Method = "card"
)

// State names the stage a checkout reports itself in. A checkout is either
// rejected, parked awaiting the PIX confirmation, or completed; the dispatch
// states only ever show up in logs.
type State string

const (
	StateValidating           State = "validating"
	StateRejected             State = "rejected"
	StateDispatchingEmail     State = "dispatching_email"
	StateDispatchingMessage   State = "dispatching_message"
	StateAwaitingConfirmation State = "awaiting_confirmation"
	StateCompleted            State = "completed"
)

const pendingTTL = 15 * time.Minute

// pendingCheckout snapshots a validated PIX checkout until the shopper
// confirms the payment surface. The cart stays persisted untouched meanwhile.
type pendingCheckout struct {
	id       string
	slot     string
	customer string
	method   Method
	items    []cart.Item
	created  time.Time
}

type pendingBook struct {
	mu  sync.Mutex
	m   map[string]pendingCheckout
	ttl time.Duration
	now func() time.Time
}

func newPendingBook() *pendingBook {
	return &pendingBook{
		m:   map[string]pendingCheckout{},
		ttl: pendingTTL,
		now: time.Now,
	}
}

func (b *pendingBook) open(slot, customer string, method Method, items []cart.Item) pendingCheckout {
	p := pendingCheckout{
		id:       "chk_" + uuid.NewString(),
		slot:     slot,
		customer: customer,
		method:   method,
		items:    items,
		created:  b.now(),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.m[p.id] = p
	return p
}

// take removes the pending checkout so confirmation completes at most once.
func (b *pendingBook) take(id, slot string) (pendingCheckout, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.m[id]
	if !ok || p.slot != slot {
		return pendingCheckout{}, false
	}
	delete(b.m, id)

	if b.now().Sub(p.created) > b.ttl {
		return pendingCheckout{}, false
	}
	return p, true
}
