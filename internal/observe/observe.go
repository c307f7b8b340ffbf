// Package observe holds the change callbacks shared by the in-memory stores.
package observe

import "sync"

// Set is a collection of change callbacks. The zero value is ready to use.
type Set struct {
	mu   sync.Mutex
	fns  map[int]func()
	next int
}

// Subscribe registers fn. The returned function removes it again.
func (s *Set) Subscribe(fn func()) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fns == nil {
		s.fns = make(map[int]func())
	}
	id := s.next
	s.next++
	s.fns[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.fns, id)
	}
}

// Notify runs every registered callback. Callbacks run on the caller's
// goroutine without the set's lock held, so they may subscribe or cancel.
func (s *Set) Notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.fns))
	for _, fn := range s.fns {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Len reports the number of registered callbacks.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.fns)
}
