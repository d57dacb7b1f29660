// Package metrics counts callable-operation usage. The engine's transport
// adapters record one increment per invocation; hosts pick the
// implementation that matches their observability setup.
package metrics

import "sync"

// Usage counts invocations of callable operations. Implementations must be
// safe for concurrent use.
type Usage interface {
	// Record increments the counter for op.
	Record(op string)

	// Count returns the current counter for op.
	Count(op string) uint64
}

// Memory is an in-process Usage backed by a map.
type Memory struct {
	mu     sync.RWMutex
	counts map[string]uint64
}

func NewMemory() *Memory {
	return &Memory{counts: make(map[string]uint64)}
}

func (m *Memory) Record(op string) {
	m.mu.Lock()
	m.counts[op]++
	m.mu.Unlock()
}

func (m *Memory) Count(op string) uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counts[op]
}

// Snapshot returns a copy of all counters.
func (m *Memory) Snapshot() map[string]uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]uint64, len(m.counts))
	for k, v := range m.counts {
		out[k] = v
	}
	return out
}

// Compile-time interface check
var _ Usage = (*Memory)(nil)
