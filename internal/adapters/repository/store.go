// Package repository loads the leaderboard dataset and holds it in memory.
package repository

import (
	"context"
	"fmt"

	"github.com/okian/rankplot/internal/domain/model"
)

// Store provides read access to the loaded records.
type Store interface {
	// All returns every record in file order. Callers must not modify it.
	All(ctx context.Context) []model.Record

	// Get returns the record at index i.
	// Returns ErrNotFound if i is out of range.
	Get(ctx context.Context, i int) (model.Record, error)

	// Count returns the number of records.
	Count(ctx context.Context) int
}

// MemoryStore is a Store over a slice that is never written after
// construction, so it needs no locking.
type MemoryStore struct {
	records []model.Record
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore takes ownership of records.
func NewMemoryStore(records []model.Record) *MemoryStore {
	return &MemoryStore{records: records}
}

// All returns the backing slice.
func (s *MemoryStore) All(_ context.Context) []model.Record { return s.records }

// Get returns the record at index i.
func (s *MemoryStore) Get(_ context.Context, i int) (model.Record, error) {
	if i < 0 || i >= len(s.records) {
		return model.Record{}, fmt.Errorf("%w: index %d", ErrNotFound, i)
	}
	return s.records[i], nil
}

// Count returns the number of records.
func (s *MemoryStore) Count(_ context.Context) int { return len(s.records) }
