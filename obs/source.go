package obs

import (
	"slices"
	"sync"
)

// Source is a cell whose value changes only when its owner calls Publish.
type Source[T any] struct {
	mu        sync.Mutex
	value     T
	resolved  bool
	frozen    bool
	version   uint64
	listeners []*listener[T]
}

// NewSource creates an unresolved Source.
func NewSource[T any]() *Source[T] {
	return &Source[T]{}
}

// NewSourceWith creates a Source that is already resolved to initial.
func NewSourceWith[T any](initial T) *Source[T] {
	return &Source[T]{
		value:    initial,
		resolved: true,
		version:  1,
	}
}

// Value returns the last published value.
func (s *Source[T]) Value() T {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.value
}

// Resolved reports whether a value was ever published.
func (s *Source[T]) Resolved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.resolved
}

// Listeners returns the number of active subscriptions.
func (s *Source[T]) Listeners() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.listeners)
}

// Publish sets the value and notifies every listener. It is a no-op once the source
// is frozen.
func (s *Source[T]) Publish(v T) {
	s.mu.Lock()
	if s.frozen {
		s.mu.Unlock()
		return
	}

	s.value = v
	s.resolved = true
	s.version++
	version := s.version
	ls := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, l := range ls {
		l.deliver(version, v)
	}
}

// Freeze stops the source from accepting further values. The current value is kept.
func (s *Source[T]) Freeze() {
	s.mu.Lock()
	s.frozen = true
	s.mu.Unlock()
}

// Frozen reports whether Freeze was called.
func (s *Source[T]) Frozen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.frozen
}

// Subscribe implements Obs.
func (s *Source[T]) Subscribe(fn func(T)) func() {
	l := &listener[T]{fn: fn}

	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	v, version, resolved := s.value, s.version, s.resolved
	s.mu.Unlock()

	if resolved {
		l.deliver(version, v)
	}

	return onceFunc(func() {
		s.mu.Lock()
		s.listeners = removeListener(s.listeners, l)
		s.mu.Unlock()
	})
}

func (s *Source[T]) watch(fn func()) func() {
	return s.Subscribe(func(T) { fn() })
}
