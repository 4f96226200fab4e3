package storage

import (
	"context"
	"sync"

	"max.ks1230/gastos-bot/internal/entity/expense"
)

// InMemStorage is a ledger that lives as long as the process. Records with an
// already seen ID are ignored, same as the Postgres ledger.
type InMemStorage struct {
	mu      sync.Mutex
	userMap map[int64][]expense.Record
	seen    map[string]struct{}
}

func NewInMemStorage() *InMemStorage {
	return &InMemStorage{
		userMap: make(map[int64][]expense.Record),
		seen:    make(map[string]struct{}),
	}
}

func (s *InMemStorage) Write(_ context.Context, rec expense.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.seen[rec.ID.String()]; dup {
		return nil
	}
	s.seen[rec.ID.String()] = struct{}{}
	s.userMap[rec.UserID] = append(s.userMap[rec.UserID], rec)
	return nil
}

func (s *InMemStorage) GetUserExpenses(_ context.Context, userID int64) ([]expense.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := make([]expense.Record, len(s.userMap[userID]))
	copy(res, s.userMap[userID])
	return res, nil
}
