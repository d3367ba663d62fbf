package store

import (
	"fmt"
	"sync"

	"github.com/signalsfoundry/geomag-engine/model"
)

// Event is emitted to subscribers when the active coefficient set changes.
type Event struct {
	Name      string
	Epoch     float64
	MaxDegree int
}

// ModelStore is a thread-safe holder for the active CoefficientSet. Queries
// read whatever set is current; a reload builds a fresh set and swaps the
// reference, never mutating the one in-flight queries may still hold.
type ModelStore struct {
	mu   sync.RWMutex
	set  *model.CoefficientSet
	subs []func(Event)
}

// New constructs a store holding the given set.
func New(set *model.CoefficientSet) (*ModelStore, error) {
	if set == nil {
		return nil, fmt.Errorf("model store needs a non-nil coefficient set")
	}
	return &ModelStore{set: set}, nil
}

// Current returns the active coefficient set. The returned set is immutable;
// callers may use it for any number of evaluations without holding the store.
func (s *ModelStore) Current() *model.CoefficientSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set
}

// Swap atomically replaces the active set and notifies subscribers. It
// returns the previous set.
func (s *ModelStore) Swap(set *model.CoefficientSet) (*model.CoefficientSet, error) {
	if set == nil {
		return nil, fmt.Errorf("cannot swap in a nil coefficient set")
	}

	s.mu.Lock()
	prev := s.set
	s.set = set
	subs := make([]func(Event), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	ev := Event{Name: set.Name(), Epoch: set.Epoch(), MaxDegree: set.MaxDegree()}
	for _, fn := range subs {
		fn(ev)
	}
	return prev, nil
}

// Subscribe registers a callback invoked after every successful Swap.
// Callbacks run synchronously on the swapping goroutine; keep them short.
func (s *ModelStore) Subscribe(fn func(Event)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}
