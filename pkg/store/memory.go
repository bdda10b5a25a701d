package store

import (
	"context"
	"fmt"
	"sync"
)

// DefaultMemoryRecords bounds a MemoryStore created with a non-positive size.
const DefaultMemoryRecords = 1000

// MemoryStore keeps the most recent records in a circular buffer.
type MemoryStore struct {
	mu      sync.RWMutex
	records []*Record
	byID    map[string]int // index into records
	next    int
	count   int
}

// NewMemoryStore creates a store holding at most size records.
func NewMemoryStore(size int) *MemoryStore {
	if size <= 0 {
		size = DefaultMemoryRecords
	}
	return &MemoryStore{
		records: make([]*Record, size),
		byID:    make(map[string]int, size),
	}
}

// Save implements Store. The oldest record is evicted when the buffer is full.
func (s *MemoryStore) Save(_ context.Context, rec *Record) error {
	if rec == nil {
		return fmt.Errorf("save: nil record")
	}
	prepare(rec)
	stored := *rec

	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.byID[stored.ID]; ok {
		s.records[i] = &stored
		return nil
	}
	if old := s.records[s.next]; old != nil {
		delete(s.byID, old.ID)
	}
	s.records[s.next] = &stored
	s.byID[stored.ID] = s.next
	s.next = (s.next + 1) % len(s.records)
	if s.count < len(s.records) {
		s.count++
	}
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *s.records[i]
	return &out, nil
}

// List implements Store.
func (s *MemoryStore) List(_ context.Context, limit int) ([]*Record, error) {
	limit = listLimit(limit)
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.records)
	out := make([]*Record, 0, min(limit, s.count))
	for i := 1; i <= n && len(out) < limit; i++ {
		rec := s.records[(s.next-i+n)%n]
		if rec == nil {
			continue
		}
		out = append(out, summary(rec))
	}
	return out, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	s.records[i] = nil
	delete(s.byID, id)
	s.count--
	return nil
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Close implements Store.
func (s *MemoryStore) Close(context.Context) error { return nil }
