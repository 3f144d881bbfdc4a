package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/productscraper/backend/internal/domain"
)

// visitor tracks the token bucket of a single client
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryStore is a thread-safe in-memory set of per-client token buckets.
// A client may spend maxRequests at once and regains them evenly over window.
type MemoryStore struct {
	visitors map[string]*visitor
	mutex    sync.Mutex

	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

var _ domain.RateLimitStore = (*MemoryStore)(nil)

// NewMemoryStore creates a store allowing maxRequests per window for each key
func NewMemoryStore(maxRequests int, window time.Duration) *MemoryStore {
	if maxRequests <= 0 {
		maxRequests = 1
	}
	if window <= 0 {
		window = time.Minute
	}

	store := &MemoryStore{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(float64(maxRequests) / window.Seconds()),
		burst:    maxRequests,
		idleTTL:  window,
		now:      time.Now,
		stop:     make(chan struct{}),
	}

	// Idle visitors are evicted periodically
	go store.cleanupLoop(cleanupInterval(window))

	return store
}

// Allow consumes one token for key
func (s *MemoryStore) Allow(ctx context.Context, key string) (bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := s.now()
	v, exists := s.visitors[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.visitors[key] = v
	}
	v.lastSeen = now

	return v.limiter.AllowN(now, 1), nil
}

// Size returns the number of tracked clients
func (s *MemoryStore) Size() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.visitors)
}

// Close stops the cleanup goroutine
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}

func (s *MemoryStore) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.evictIdle(s.now())
		case <-s.stop:
			return
		}
	}
}

// evictIdle drops clients not seen for longer than the window.
// Such a client has a full bucket again, so forgetting it changes nothing.
func (s *MemoryStore) evictIdle(now time.Time) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for key, v := range s.visitors {
		if now.Sub(v.lastSeen) > s.idleTTL {
			delete(s.visitors, key)
		}
	}
}

func cleanupInterval(window time.Duration) time.Duration {
	if window > 10*time.Minute {
		return 10 * time.Minute
	}
	return window
}
