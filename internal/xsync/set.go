package xsync

import (
	"sync"
)

// Set is a concurrent set. Zero value is ready to use.
type Set[K comparable] struct {
	mu    sync.Mutex
	items map[K]struct{}
}

// Add reports whether key was not in the set before
func (s *Set[K]) Add(key K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, has := s.items[key]; has {
		return false
	}
	if s.items == nil {
		s.items = make(map[K]struct{})
	}
	s.items[key] = struct{}{}

	return true
}

// Remove reports whether key was in the set. Concurrent Remove calls for
// the same key succeed once.
func (s *Set[K]) Remove(key K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, has := s.items[key]; !has {
		return false
	}
	delete(s.items, key)

	return true
}

func (s *Set[K]) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.items)
}

// Range calls f for keys present at the moment of call until f returns
// false. f may modify the set.
func (s *Set[K]) Range(f func(key K) bool) {
	for _, key := range s.keys() {
		if !f(key) {
			return
		}
	}
}

func (s *Set[K]) keys() []K {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]K, 0, len(s.items))
	for key := range s.items {
		keys = append(keys, key)
	}

	return keys
}
