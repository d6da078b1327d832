package testutil

import (
	"sort"
	"sync"
)

// InMemoryStore is a generic map-backed store with auto-incrementing int64
// keys, used as the base for per-entity test repositories.
type InMemoryStore[T any] struct {
	mu     sync.RWMutex
	items  map[int64]T
	nextID int64
}

func NewInMemoryStore[T any]() *InMemoryStore[T] {
	return &InMemoryStore[T]{
		items: make(map[int64]T),
	}
}

// Insert stores the item, minting an ID when the given one is zero, and
// returns the ID under which the item lives.
func (s *InMemoryStore[T]) Insert(id int64, item T) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == 0 {
		s.nextID++
		id = s.nextID
	} else if id > s.nextID {
		s.nextID = id
	}
	s.items[id] = item
	return id
}

func (s *InMemoryStore[T]) Get(id int64) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	return item, ok
}

func (s *InMemoryStore[T]) Update(id int64, item T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return false
	}
	s.items[id] = item
	return true
}

func (s *InMemoryStore[T]) Delete(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return false
	}
	delete(s.items, id)
	return true
}

// All returns every item in ascending ID order.
func (s *InMemoryStore[T]) All() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.items[id])
	}
	return out
}

func (s *InMemoryStore[T]) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *InMemoryStore[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[int64]T)
	s.nextID = 0
}
