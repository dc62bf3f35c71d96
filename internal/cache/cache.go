package cache

import (
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"fintrack/internal/log"
)

// Cache defines a generic cache interface
type Cache[T any] interface {
	// Get retrieves a value from the cache
	Get(key string) (T, bool)

	// Set stores a value in the cache, replacing any previous entry
	Set(key string, data T)

	// Delete removes a key from the cache
	Delete(key string)

	// DeletePrefix removes every key starting with prefix and returns the count
	DeletePrefix(prefix string) int

	// Size returns the current number of items in the cache
	Size() int
}

// Cleaner interface for caches that support cleanup
type Cleaner interface {
	CleanExpired() int
}

// Manager sweeps expired entries out of registered caches on a cron schedule.
// Expired entries are also dropped lazily on read, so the sweep only bounds memory.
type Manager struct {
	mu     sync.Mutex
	caches []Cleaner
	cron   *cron.Cron
	logger *log.Logger
}

// NewManager creates a new cache manager
func NewManager(logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Manager{
		caches: make([]Cleaner, 0),
		cron:   cron.New(),
		logger: logger.WithComponent(log.ComponentCache),
	}
}

// Register adds a cache to the manager for cleanup
func (m *Manager) Register(cache Cleaner) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.caches = append(m.caches, cache)
}

// Sweep runs CleanExpired on every registered cache and returns the total removed.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	caches := append([]Cleaner(nil), m.caches...)
	m.mu.Unlock()

	total := 0
	for _, c := range caches {
		total += c.CleanExpired()
	}
	return total
}

// Start schedules Sweep with a cron spec such as "@every 5m".
func (m *Manager) Start(schedule string) error {
	_, err := m.cron.AddFunc(schedule, func() {
		if removed := m.Sweep(); removed > 0 {
			m.logger.Debug("Cache sweep completed", "entries_removed", removed)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule cache sweep %q: %w", schedule, err)
	}
	m.cron.Start()
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish
func (m *Manager) Stop() {
	<-m.cron.Stop().Done()
}
