package status

import (
	"sync"
	"time"
)

// Store maps reference ids to their last-known payment status. It is the
// single source of truth for "has this payment been confirmed": the
// callback handler writes, the polling handler reads. Last write wins;
// callback delivery order is not guaranteed and records are never merged.
type Store struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewStore() *Store {
	return &Store{records: make(map[string]Record)}
}

// Put upserts the record for its reference id, stamping ReceivedAt and
// Processed. It never fails.
func (s *Store) Put(rec Record) {
	rec.ReceivedAt = time.Now()
	rec.Processed = true
	s.mu.Lock()
	s.records[rec.ReferenceID] = rec
	s.mu.Unlock()
}

// Get returns the record for referenceID. A miss means no callback has
// arrived yet, which callers treat as pending.
func (s *Store) Get(referenceID string) (Record, bool) {
	s.mu.RLock()
	rec, ok := s.records[referenceID]
	s.mu.RUnlock()
	return rec, ok
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// PruneOlderThan drops records received more than age ago and returns how
// many were removed. The base design keeps records for the process
// lifetime; long-lived terminals run this on a ticker to bound growth.
func (s *Store) PruneOlderThan(age time.Duration) int {
	cutoff := time.Now().Add(-age)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, rec := range s.records {
		if rec.ReceivedAt.Before(cutoff) {
			delete(s.records, id)
			n++
		}
	}
	return n
}
