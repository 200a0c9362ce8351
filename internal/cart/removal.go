package cart

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const promptTTL = 5 * time.Minute

// removalPrompt is the pending confirmation for one remove request. Each
// prompt belongs to the session that opened it and expires if neither
// confirmed nor cancelled.
type removalPrompt struct {
	id      string
	slot    string
	key     string
	created time.Time
}

type promptBook struct {
	mu  sync.Mutex
	m   map[string]removalPrompt
	ttl time.Duration
	now func() time.Time
}

func newPromptBook() *promptBook {
	return &promptBook{
		m:   map[string]removalPrompt{},
		ttl: promptTTL,
		now: time.Now,
	}
}

func (b *promptBook) open(slot, key string) removalPrompt {
	p := removalPrompt{
		id:      uuid.NewString(),
		slot:    slot,
		key:     key,
		created: b.now(),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.m[p.id] = p
	return p
}

// take removes and returns the prompt, so a prompt confirms at most once.
func (b *promptBook) take(id, slot string) (removalPrompt, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.m[id]
	if !ok || p.slot != slot {
		return removalPrompt{}, false
	}
	delete(b.m, id)

	if b.now().Sub(p.created) > b.ttl {
		return removalPrompt{}, false
	}
	return p, true
}
