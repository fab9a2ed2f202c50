// Package undo implements the single-slot timed undo used by every ledger.
//
// A removal parks the record in the slot together with the position it was
// removed from. Until the deadline passes, Undo hands it back so the caller
// can reinsert it. A newer removal replaces whatever was pending.
package undo

import "time"

// DefaultWindow is how long a removed record stays recoverable.
const DefaultWindow = 10 * time.Second

type Slot[T any] struct {
	window time.Duration
	now    func() time.Time

	pending   *T
	index     int
	expiresAt time.Time
}

// New creates a slot. A nil clock means time.Now.
func New[T any](window time.Duration, now func() time.Time) *Slot[T] {
	if now == nil {
		now = time.Now
	}

	if window <= 0 {
		window = DefaultWindow
	}

	return &Slot[T]{window: window, now: now}
}

// Hold parks item, dropping any earlier pending item.
func (s *Slot[T]) Hold(item T, index int) {
	s.pending = &item
	s.index = index
	s.expiresAt = s.now().Add(s.window)
}

// Undo takes the pending item out of the slot. It reports false when the
// slot is empty or the window has passed.
func (s *Slot[T]) Undo() (T, int, bool) {
	var zero T

	s.Tick()

	if s.pending == nil {
		return zero, 0, false
	}

	item, index := *s.pending, s.index
	s.Clear()

	return item, index, true
}

// Tick discards the pending item once expired and reports whether it did.
func (s *Slot[T]) Tick() bool {
	if s.pending == nil || s.now().Before(s.expiresAt) {
		return false
	}

	s.Clear()

	return true
}

func (s *Slot[T]) Clear() {
	s.pending = nil
	s.index = 0
	s.expiresAt = time.Time{}
}

// Pending reports whether an unexpired item is waiting.
func (s *Slot[T]) Pending() bool {
	return s.pending != nil && s.now().Before(s.expiresAt)
}

// ExpiresAt returns the deadline of the pending item, or the zero time.
func (s *Slot[T]) ExpiresAt() time.Time {
	return s.expiresAt
}

// Mark copies the slot state so a caller can put it back with Reset.
func (s *Slot[T]) Mark() Slot[T] {
	return *s
}

func (s *Slot[T]) Reset(m Slot[T]) {
	*s = m
}
