package session

import (
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/patrickmn/go-cache"

	"github.com/KaramelBytes/tabloom-cli/internal/logging"
)

// Memo caches one load result per key for the life of a session. Once more
// than limit keys are held the oldest is evicted, so with a limit of 1 a new upload
// supersedes the previous one. Failed loads are not cached.
type Memo[T any] struct {
	name    string
	max     int
	store   *cache.Cache
	mu      sync.Mutex
	order   []string
	log     hclog.Logger
	metrics *Metrics
}

// NewMemo returns an empty memo. name labels logs and metrics.
func NewMemo[T any](name string, limit int, log hclog.Logger, metrics *Metrics) *Memo[T] {
	if limit < 1 {
		limit = 1
	}
	return &Memo[T]{
		name:    name,
		max:     limit,
		store:   cache.New(cache.NoExpiration, 0),
		log:     logging.OrNull(log),
		metrics: metrics,
	}
}

// Get returns the value cached under key, calling load only on a miss.
func (m *Memo[T]) Get(key string, load func() (T, error)) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cached, found := m.store.Get(key); found {
		m.log.Debug("cache hit", "dataset", m.name, "key", key)
		m.metrics.recordCache(m.name, true)
		v, _ := cached.(T)
		return v, nil
	}
	m.log.Debug("cache miss", "dataset", m.name, "key", key)
	m.metrics.recordCache(m.name, false)

	v, err := load()
	if err != nil {
		var zero T
		return zero, err
	}
	m.store.Set(key, v, cache.DefaultExpiration)
	m.order = append(m.order, key)
	for len(m.order) > m.max {
		old := m.order[0]
		m.order = m.order[1:]
		m.store.Delete(old)
		m.log.Debug("cache evict", "dataset", m.name, "key", old)
	}
	return v, nil
}

// Len returns the number of cached entries.
func (m *Memo[T]) Len() int { return m.store.ItemCount() }

// Flush drops every entry.
func (m *Memo[T]) Flush() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store.Flush()
	m.order = nil
}
