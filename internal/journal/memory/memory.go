package memory

import (
	"context"
	"sync"
	"time"

	"github.com/DavidMogrovejo23cm/allpy/scanner/internal/journal"
)

// Store is an in-memory append-only scan journal.  It is intended for use in
// tests and dev environments.
type Store struct {
	mu      sync.Mutex
	records []journal.Record
}

func New() *Store {
	return &Store{}
}

func (s *Store) Append(_ context.Context, rec journal.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

// PruneOlderThan drops records created before cutoff.
func (s *Store) PruneOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	var deleted int64
	for _, rec := range s.records {
		if rec.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, rec)
	}
	s.records = kept
	return deleted, nil
}

// Records returns a copy of all journaled outcomes.  Test-only helper.
func (s *Store) Records() []journal.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]journal.Record, len(s.records))
	copy(out, s.records)
	return out
}
