package cards

import "sync"

// changeNotifier is a small in-process pub-sub used by Registry to signal
// that the card set changed, so hosts can re-derive descriptors and send
// list-changed notifications.
type changeNotifier struct {
	mu     sync.RWMutex
	subs   []chan struct{}
	closed bool
}

// notify signals every subscriber. Sends are non-blocking so a slow
// subscriber cannot hold up registration; each subscriber channel is
// buffered with capacity 1, so a backed-up subscriber still observes that a
// change happened.
func (n *changeNotifier) notify() {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if n.closed {
		return
	}
	for _, ch := range n.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// subscribe returns a signal channel and a cancel func that removes the
// subscription. After close, the returned channel is already closed.
func (n *changeNotifier) subscribe() (<-chan struct{}, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		ch := make(chan struct{})
		close(ch)
		return ch, func() {}
	}

	ch := make(chan struct{}, 1)
	n.subs = append(n.subs, ch)

	cancel := func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		for i, sub := range n.subs {
			if sub == ch {
				n.subs = append(n.subs[:i], n.subs[i+1:]...)
				break
			}
		}
	}
	return ch, cancel
}

// close closes every subscriber channel and drops them.
func (n *changeNotifier) close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	subs := n.subs
	n.subs = nil
	n.mu.Unlock()

	for _, ch := range subs {
		close(ch)
	}
}
