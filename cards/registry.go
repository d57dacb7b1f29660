package cards

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds the cards a host exposes. Registration is explicit: a card
// is only callable after Register, and hosts derive descriptors from the
// registry contents rather than from any ambient global.
type Registry struct {
	mu    sync.RWMutex
	cards map[string]*Card

	notifier changeNotifier
}

func NewRegistry() *Registry {
	return &Registry{cards: make(map[string]*Card)}
}

// Register adds a card. Registering an invalid card or a name that is
// already taken is an error.
func (r *Registry) Register(c *Card) error {
	if err := c.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	if _, exists := r.cards[c.Name]; exists {
		r.mu.Unlock()
		return fmt.Errorf("card %q already registered", c.Name)
	}
	r.cards[c.Name] = c
	r.mu.Unlock()

	r.notifier.notify()
	return nil
}

// MustRegister registers cards for package-level wiring; it panics on
// error.
func (r *Registry) MustRegister(defs ...*Card) {
	for _, c := range defs {
		if err := r.Register(c); err != nil {
			panic(err)
		}
	}
}

// Deregister removes a card by name and reports whether it was present.
func (r *Registry) Deregister(name string) bool {
	r.mu.Lock()
	_, ok := r.cards[name]
	delete(r.cards, name)
	r.mu.Unlock()

	if ok {
		r.notifier.notify()
	}
	return ok
}

// Lookup returns the card registered under name.
func (r *Registry) Lookup(name string) (*Card, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.cards[name]
	return c, ok
}

// Cards returns all registered cards sorted by name.
func (r *Registry) Cards() []*Card {
	r.mu.RLock()
	out := make([]*Card, 0, len(r.cards))
	for _, c := range r.cards {
		out = append(out, c)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of registered cards.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cards)
}

// Subscribe returns a channel that receives a signal after every
// registration change, plus a cancel func releasing the subscription. The
// channel is buffered with capacity 1; coalesced signals mean "the card set
// changed", not "exactly one change happened".
func (r *Registry) Subscribe() (<-chan struct{}, func()) {
	return r.notifier.subscribe()
}

// Close releases all change subscriptions. The registry itself remains
// usable for lookups.
func (r *Registry) Close() {
	r.notifier.close()
}
