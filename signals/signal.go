package signals

import "sync"

// Package signals provides small reactive state cells for service state.

// Readable is the read side of a reactive cell. Both Signal and Computed
// satisfy it, so consumers can depend on either without caring which.
type Readable[T any] interface {
	// Get returns the current value.
	Get() T

	// Subscribe registers fn to run with every new value.
	// The returned function cancels the subscription.
	Subscribe(fn func(T)) (cancel func())
}

// Observable is the type-erased change feed used by Effect.
// It is satisfied by every Signal and Computed in this package.
type Observable interface {
	observe(fn func()) (cancel func())
}

// Option configures a Signal at construction time.
type Option[T any] func(*Signal[T])

// WithEquality installs a comparator used to skip notifications when a
// written value equals the current one.
func WithEquality[T any](eq func(a, b T) bool) Option[T] {
	return func(s *Signal[T]) {
		s.equal = eq
	}
}

// Signal is a mutable reactive cell holding a single value.
// Writes are synchronous: a Set is visible to any Get that happens after it,
// and subscribers are notified before Set returns.
type Signal[T any] struct {
	mu     sync.Mutex
	value  T
	subs   map[int]func(T)
	nextID int
	equal  func(a, b T) bool
}

// New creates a Signal holding initial.
func New[T any](initial T, opts ...Option[T]) *Signal[T] {
	s := &Signal[T]{
		value: initial,
		subs:  make(map[int]func(T)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the current value.
func (s *Signal[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set replaces the current value and notifies subscribers.
// With an equality comparator installed, writes of an equal value are dropped.
func (s *Signal[T]) Set(v T) {
	s.mu.Lock()
	if s.equal != nil && s.equal(s.value, v) {
		s.mu.Unlock()
		return
	}
	s.value = v
	subs := s.snapshotLocked()
	s.mu.Unlock()

	// Notify outside the lock so subscribers can read the signal.
	for _, fn := range subs {
		fn(v)
	}
}

// Update applies fn to the current value and stores the result.
func (s *Signal[T]) Update(fn func(T) T) {
	s.mu.Lock()
	v := fn(s.value)
	if s.equal != nil && s.equal(s.value, v) {
		s.mu.Unlock()
		return
	}
	s.value = v
	subs := s.snapshotLocked()
	s.mu.Unlock()

	for _, sub := range subs {
		sub(v)
	}
}

// Subscribe registers fn to run with every new value.
// The returned function cancels the subscription.
func (s *Signal[T]) Subscribe(fn func(T)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Signal[T]) snapshotLocked() []func(T) {
	if len(s.subs) == 0 {
		return nil
	}
	subs := make([]func(T), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return subs
}

func (s *Signal[T]) observe(fn func()) (cancel func()) {
	return s.Subscribe(func(T) { fn() })
}
