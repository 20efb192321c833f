// Package memory provides in-memory store implementations.
// State lives for the process lifetime only - a restart loses all history.
package memory

import (
	"context"
	"sync"

	"github.com/pearlfi/sponsorgate/domain/sponsor"
	"github.com/pearlfi/sponsorgate/ports"
)

// UsageStore is an in-memory implementation of ports.UsageStore.
// Records are created on first Put and never deleted.
type UsageStore struct {
	mu      sync.RWMutex
	records map[string]sponsor.UsageRecord
}

// NewUsageStore creates a new in-memory usage store.
func NewUsageStore() *UsageStore {
	return &UsageStore{
		records: make(map[string]sponsor.UsageRecord),
	}
}

// Get retrieves the record for a user address.
func (s *UsageStore) Get(ctx context.Context, userID string) (sponsor.UsageRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[userID]
	return rec, ok, nil
}

// Put stores or replaces the record for rec.UserID.
func (s *UsageStore) Put(ctx context.Context, rec sponsor.UsageRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[rec.UserID] = rec
	return nil
}

// All returns every stored record.
func (s *UsageStore) All(ctx context.Context) ([]sponsor.UsageRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]sponsor.UsageRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	return out, nil
}

// Count returns the number of users with a record.
func (s *UsageStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// Clear removes all records (for testing).
func (s *UsageStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]sponsor.UsageRecord)
}

// Ensure interface compliance.
var _ ports.UsageStore = (*UsageStore)(nil)
