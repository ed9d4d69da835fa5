package catalog

import (
	"context"
	"slices"
	"sync"

	"github.com/claude/trainplan/internal/models"
)

// MemoryStore is an in-memory catalog safe for concurrent use.
type MemoryStore struct {
	mu        sync.RWMutex
	exercises []models.Exercise
}

// NewMemoryStore copies exercises into a new store.
func NewMemoryStore(exercises []models.Exercise) *MemoryStore {
	return &MemoryStore{exercises: slices.Clone(exercises)}
}

// Query returns every exercise matching f, in insertion order.
func (s *MemoryStore) Query(ctx context.Context, f models.Filter) ([]models.Exercise, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Exercise
	for _, e := range s.exercises {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

// UpsertExercises adds exercises, replacing any with the same id.
func (s *MemoryStore) UpsertExercises(ctx context.Context, exercises []models.Exercise) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range exercises {
		i := slices.IndexFunc(s.exercises, func(x models.Exercise) bool { return x.ID == e.ID })
		if i >= 0 {
			s.exercises[i] = e
		} else {
			s.exercises = append(s.exercises, e)
		}
	}
	return int64(len(exercises)), nil
}

// Len returns the number of stored exercises.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.exercises)
}
