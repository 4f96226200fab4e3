// Package session keeps the category a conversation picked until the expense
// is stored or abandoned.
package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"max.ks1230/gastos-bot/internal/logger"
)

type entry struct {
	category  string
	updatedAt time.Time
}

// InMemStore is a per-process store. Entries older than ttl read as absent;
// a zero ttl keeps them until cleared.
type InMemStore struct {
	mu      sync.RWMutex
	entries map[int64]entry
	ttl     time.Duration
	clock   func() time.Time
}

func NewInMemStore(ttl time.Duration) *InMemStore {
	return &InMemStore{
		entries: make(map[int64]entry),
		ttl:     ttl,
		clock:   time.Now,
	}
}

func (s *InMemStore) SetCategory(_ context.Context, chatID int64, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[chatID] = entry{category: key, updatedAt: s.clock()}
	return nil
}

func (s *InMemStore) GetCategory(_ context.Context, chatID int64) (string, bool, error) {
	s.mu.RLock()
	e, ok := s.entries[chatID]
	s.mu.RUnlock()

	if !ok || s.expired(e, s.clock()) {
		return "", false, nil
	}
	return e.category, true, nil
}

func (s *InMemStore) Clear(_ context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, chatID)
	return nil
}

func (s *InMemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Evict drops expired entries and reports how many were removed.
func (s *InMemStore) Evict(at time.Time) int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.entries {
		if s.expired(e, at) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// RunEviction calls Evict every interval until ctx is done.
func (s *InMemStore) RunEviction(ctx context.Context, interval time.Duration) {
	if s.ttl <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("Start session eviction", zap.Duration("ttl", s.ttl), zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			logger.Info("Stop session eviction")
			return
		case <-ticker.C:
			if n := s.Evict(s.clock()); n > 0 {
				logger.Debug("evicted stale sessions", zap.Int("count", n))
			}
		}
	}
}

func (s *InMemStore) expired(e entry, at time.Time) bool {
	return s.ttl > 0 && at.Sub(e.updatedAt) >= s.ttl
}
