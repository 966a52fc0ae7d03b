// Package catalog holds the served set of services and the read-side
// query functions over it.
package catalog

import (
	"slices"
	"sync/atomic"
	"time"

	"servicehub/pkg/models"
)

// Snapshot is one published state of the catalog. It is never mutated
// after publication.
type Snapshot struct {
	Records   []models.Service // baseline first, then dynamic
	Baseline  int              // number of leading baseline records
	Version   uint64
	BatchID   string // ingestion batch that produced the dynamic part, "" for the initial state
	UpdatedAt time.Time
}

// Dynamic returns the records replaced by ingestion.
func (s *Snapshot) Dynamic() []models.Service {
	return s.Records[s.Baseline:]
}

// Store owns the baseline set and the current snapshot. The baseline is
// fixed at construction; Replace swaps the dynamic part by publishing a
// new snapshot through a single atomic pointer, so a reader sees either the
// old catalog or the new one, never a mix.
type Store struct {
	baseline []models.Service
	current  atomic.Pointer[Snapshot]
}

// NewStore creates a store serving only the baseline.
func NewStore(baseline []models.Service) *Store {
	s := &Store{baseline: slices.Clone(baseline)}
	s.current.Store(&Snapshot{
		Records:   slices.Clone(s.baseline),
		Baseline:  len(s.baseline),
		UpdatedAt: time.Now().UTC(),
	})
	return s
}

// Snapshot returns the current published state.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// Current returns baseline ++ dynamic. The returned slice is a copy.
func (s *Store) Current() []models.Service {
	return slices.Clone(s.current.Load().Records)
}

// Baseline returns a copy of the permanent baseline set.
func (s *Store) Baseline() []models.Service {
	return slices.Clone(s.baseline)
}

// Replace publishes baseline ++ dynamic as the new catalog and returns the
// published snapshot.
func (s *Store) Replace(dynamic []models.Service, batchID string) *Snapshot {
	records := make([]models.Service, 0, len(s.baseline)+len(dynamic))
	records = append(records, s.baseline...)
	records = append(records, dynamic...)

	for {
		prev := s.current.Load()
		next := &Snapshot{
			Records:   records,
			Baseline:  len(s.baseline),
			Version:   prev.Version + 1,
			BatchID:   batchID,
			UpdatedAt: time.Now().UTC(),
		}
		if s.current.CompareAndSwap(prev, next) {
			return next
		}
	}
}
