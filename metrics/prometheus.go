package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus is a Usage that exports operation counters to a Prometheus
// registry. A local shadow count backs Count so reads work without
// scraping.
type Prometheus struct {
	vec *prometheus.CounterVec

	mu     sync.RWMutex
	counts map[string]uint64
}

// NewPrometheus registers the operation counter vector with reg. Namespace
// may be empty.
func NewPrometheus(reg prometheus.Registerer, namespace string) (*Prometheus, error) {
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cards",
		Name:      "operation_calls_total",
		Help:      "Number of card operation invocations by operation name.",
	}, []string{"operation"})
	if err := reg.Register(vec); err != nil {
		return nil, err
	}
	return &Prometheus{vec: vec, counts: make(map[string]uint64)}, nil
}

func (p *Prometheus) Record(op string) {
	p.vec.WithLabelValues(op).Inc()

	p.mu.Lock()
	p.counts[op]++
	p.mu.Unlock()
}

func (p *Prometheus) Count(op string) uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.counts[op]
}

// Compile-time interface check
var _ Usage = (*Prometheus)(nil)
