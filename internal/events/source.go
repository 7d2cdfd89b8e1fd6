// Package events delivers fire-once notifications from view models to the
// screen hosting them.
package events

import (
	"errors"
	"sync"
)

var ErrAlreadyObserved = errors.New("events: source can only have one owner at a time")

// Source buffers events until an observer whose owner is at least Created
// is attached, then delivers them in submission order exactly once.
type Source[T any] struct {
	mu       sync.Mutex
	pending  []T
	owner    Lifecycle
	callback func(T)
	detach   func()
	flushing bool
}

func NewSource[T any]() *Source[T] {
	return &Source[T]{}
}

// Observe attaches callback for as long as owner lives. It panics with
// ErrAlreadyObserved when another owner is attached.
func (s *Source[T]) Observe(owner Lifecycle, callback func(T)) {
	s.mu.Lock()
	if s.owner != nil {
		s.mu.Unlock()
		panic(ErrAlreadyObserved)
	}
	if owner.State() == Destroyed {
		s.mu.Unlock()
		return
	}
	s.owner = owner
	s.callback = callback
	s.mu.Unlock()

	remove := owner.AddObserver(func(state State) {
		if state == Destroyed {
			s.release(owner)
			return
		}
		if state.AtLeast(Created) {
			s.flush()
		}
	})
	s.mu.Lock()
	if s.owner == owner {
		s.detach = remove
	}
	s.mu.Unlock()

	s.flush()
}

func (s *Source[T]) Submit(event T) {
	s.mu.Lock()
	s.pending = append(s.pending, event)
	s.mu.Unlock()
	s.flush()
}

// Pending returns the events not yet delivered.
func (s *Source[T]) Pending() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]T(nil), s.pending...)
}

func (s *Source[T]) release(owner Lifecycle) {
	s.mu.Lock()
	if s.owner != owner {
		s.mu.Unlock()
		return
	}
	detach := s.detach
	s.owner, s.callback, s.detach = nil, nil, nil
	s.mu.Unlock()
	if detach != nil {
		detach()
	}
}

// flush delivers outside the lock so callbacks may submit again. Events
// submitted during delivery go out in the same flush.
func (s *Source[T]) flush() {
	s.mu.Lock()
	if s.flushing {
		s.mu.Unlock()
		return
	}
	s.flushing = true
	defer func() {
		s.mu.Lock()
		s.flushing = false
		s.mu.Unlock()
	}()
	for {
		if s.owner == nil || s.callback == nil || !s.owner.State().AtLeast(Created) || len(s.pending) == 0 {
			s.mu.Unlock()
			return
		}
		batch := s.pending
		s.pending = nil
		callback := s.callback
		s.mu.Unlock()
		for _, event := range batch {
			callback(event)
		}
		s.mu.Lock()
	}
}
