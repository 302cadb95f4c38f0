// Package store holds one form's shared observable state: the record, the
// surfaced error list, and the validation display flags. Writes notify
// subscribers synchronously before returning, so "write, let observers
// settle, then read" is ordinary sequential code. Writes issued from inside
// a notification are queued and applied after the current pass, which keeps
// snapshot sequence numbers strictly ordered.
//
// The store is part of a single-threaded, callback-driven engine and must be
// confined to one goroutine; the re-entrancy queue is its only concurrency
// control.
package store

import (
	"github.com/mohae/deepcopy"

	"github.com/goliatone/go-formstate/pkg/fieldpath"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// DisplayMode selects which fields may surface errors.
type DisplayMode string

const (
	// DisplayOnInteraction surfaces errors only on touched fields.
	DisplayOnInteraction DisplayMode = "interaction"
	// DisplayAll unlocks every field, used during submission.
	DisplayAll DisplayMode = "all"
)

// Snapshot is one consistent view of the store. Data is a deep copy, so a
// subscriber can never observe a partial write or mutate shared state.
type Snapshot struct {
	Seq                 uint64
	Data                map[string]any
	Errors              []validation.Error
	DisplayMode         DisplayMode
	ValidationCompleted bool
}

type subscriber struct {
	id int
	fn func(Snapshot)
}

// Store is the shared state container one form mutates and observes.
type Store struct {
	state       Snapshot
	subscribers []subscriber
	nextID      int
	notifying   bool
	queue       []func(*Snapshot)
}

// New creates a store seeded with the initial record.
func New(initial map[string]any) *Store {
	return &Store{
		state: Snapshot{
			Data:        cloneRecord(initial),
			DisplayMode: DisplayOnInteraction,
		},
	}
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Snapshot {
	return s.state.clone()
}

// Subscribe registers a callback invoked with a snapshot after every applied
// write. The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	id := s.nextID
	s.nextID++
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})
	return func() {
		for i, sub := range s.subscribers {
			if sub.id == id {
				s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
				return
			}
		}
	}
}

// UpdateData replaces the value at path with mutate(current).
func (s *Store) UpdateData(path fieldpath.Path, mutate func(current any) any) {
	s.apply(func(state *Snapshot) {
		current, _ := fieldpath.Lookup(state.Data, path)
		fieldpath.Set(state.Data, path, mutate(current))
	})
}

// ReplaceData swaps in a whole new record.
func (s *Store) ReplaceData(record map[string]any) {
	s.apply(func(state *Snapshot) {
		state.Data = cloneRecord(record)
	})
}

// SetErrors publishes the reconciled error list.
func (s *Store) SetErrors(errors []validation.Error) {
	s.apply(func(state *Snapshot) {
		state.Errors = append([]validation.Error(nil), errors...)
	})
}

// SetDisplayMode switches the error display policy.
func (s *Store) SetDisplayMode(mode DisplayMode) {
	s.apply(func(state *Snapshot) {
		state.DisplayMode = mode
	})
}

// SetValidationCompleted records that a full validation pass finished.
func (s *Store) SetValidationCompleted(done bool) {
	s.apply(func(state *Snapshot) {
		state.ValidationCompleted = done
	})
}

// Reset restores the record and clears errors and validation flags in one
// write.
func (s *Store) Reset(record map[string]any) {
	s.apply(func(state *Snapshot) {
		state.Data = cloneRecord(record)
		state.Errors = nil
		state.DisplayMode = DisplayOnInteraction
		state.ValidationCompleted = false
	})
}

// apply runs one write and drains any writes subscribers queued while being
// notified. Each applied write bumps the sequence number exactly once.
func (s *Store) apply(mutate func(*Snapshot)) {
	if s.notifying {
		s.queue = append(s.queue, mutate)
		return
	}

	s.notifying = true
	defer func() { s.notifying = false }()

	s.commit(mutate)
	for len(s.queue) > 0 {
		next := s.queue[0]
		s.queue = s.queue[1:]
		s.commit(next)
	}
}

func (s *Store) commit(mutate func(*Snapshot)) {
	mutate(&s.state)
	s.state.Seq++

	snapshot := s.state.clone()
	for _, sub := range append([]subscriber(nil), s.subscribers...) {
		sub.fn(snapshot)
	}
}

func (snap Snapshot) clone() Snapshot {
	out := snap
	out.Data = cloneRecord(snap.Data)
	out.Errors = append([]validation.Error(nil), snap.Errors...)
	return out
}

func cloneRecord(record map[string]any) map[string]any {
	if record == nil {
		return make(map[string]any)
	}
	return deepcopy.Copy(record).(map[string]any)
}
