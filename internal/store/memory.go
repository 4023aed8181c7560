package store

import (
	"sync"
	"sync/atomic"

	"github.com/i474232898/city-recipes/internal/city"
)

// IDGenerator hands out recipe identifiers.
type IDGenerator interface {
	Next() int64
}

// Sequence is a concurrency-safe monotonic IDGenerator starting at 1.
type Sequence struct {
	n atomic.Int64
}

// NewSequence creates a Sequence whose first id is 1.
func NewSequence() *Sequence {
	return &Sequence{}
}

// Next returns the next id.
func (s *Sequence) Next() int64 {
	return s.n.Add(1)
}

// Stats summarizes the store contents.
type Stats struct {
	Cities  int
	Recipes int
}

// MemoryStore is a concurrency-safe in-memory recipe store.
type MemoryStore struct {
	mu sync.RWMutex

	// key: city identifier, value: recipes in insertion order
	data map[string][]city.Recipe

	ids IDGenerator
}

// NewMemoryStore creates an empty MemoryStore.
// If ids is nil, a fresh Sequence is used.
func NewMemoryStore(ids IDGenerator) *MemoryStore {
	if ids == nil {
		ids = NewSequence()
	}
	return &MemoryStore{
		data: make(map[string][]city.Recipe),
		ids:  ids,
	}
}

// Append adds a new recipe to the end of the city's collection.
func (s *MemoryStore) Append(cityID, content string) city.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := city.Recipe{ID: s.ids.Next(), Content: content}
	s.data[cityID] = append(s.data[cityID], rec)
	return rec
}

// Remove deletes the recipe with the given id, keeping the order of the rest.
func (s *MemoryStore) Remove(cityID string, recipeID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recipes := s.data[cityID]
	if len(recipes) == 0 {
		return city.ErrNoRecipes
	}

	for i, rec := range recipes {
		if rec.ID != recipeID {
			continue
		}
		recipes = append(recipes[:i:i], recipes[i+1:]...)
		if len(recipes) == 0 {
			delete(s.data, cityID)
		} else {
			s.data[cityID] = recipes
		}
		return nil
	}
	return city.ErrRecipeNotFound
}

// List returns a copy of the city's recipes. Unknown cities yield an empty,
// non-nil slice.
func (s *MemoryStore) List(cityID string) []city.Recipe {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]city.Recipe, len(s.data[cityID]))
	copy(out, s.data[cityID])
	return out
}

// Stats returns the number of cities with recipes and the total recipe count.
func (s *MemoryStore) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{Cities: len(s.data)}
	for _, recipes := range s.data {
		st.Recipes += len(recipes)
	}
	return st
}
