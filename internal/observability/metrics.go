package observability

import (
	"sync"
)

// Metrics provides basic in-memory counters for one migration run.
type Metrics struct {
	mu     sync.Mutex
	counts map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		counts: make(map[string]int64),
	}
}

// Inc increments a named counter. Safe on a nil receiver.
func (m *Metrics) Inc(name string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[name]++
}

// Get returns a counter's current value.
func (m *Metrics) Get(name string) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[name]
}

// Snapshot copies all counters for end-of-run reporting.
func (m *Metrics) Snapshot() map[string]int64 {
	if m == nil {
		return map[string]int64{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := make(map[string]int64, len(m.counts))
	for name, value := range m.counts {
		snapshot[name] = value
	}
	return snapshot
}
