package auth

import (
	"sync"

	"vendorflow-backend/internal/models"
)

// Snapshot is the published auth state. Loading is true only during the
// initial resolution pass; after the first commit it never goes back.
type Snapshot struct {
	User    *models.AuthenticatedUser
	Loading bool
}

// State holds the process-wide published auth state. The Resolver is the
// single writer; everything else reads snapshots or subscribes.
type State struct {
	mu          sync.RWMutex
	current     Snapshot
	subscribers map[int]chan Snapshot
	nextID      int
}

// NewState returns a State in the initializing snapshot (loading, no user).
func NewState() *State {
	return &State{
		current:     Snapshot{User: nil, Loading: true},
		subscribers: make(map[int]chan Snapshot),
	}
}

// Current returns the latest published snapshot.
func (s *State) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// set commits a new snapshot and notifies subscribers. Unexported: only the
// Resolver, in this package, writes.
func (s *State) set(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = snap
	for _, ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// Subscriber buffer full, skip; it will catch up from Current
		}
	}
}

// StateSubscription delivers snapshots on C until Unsubscribe is called.
type StateSubscription struct {
	C     <-chan Snapshot
	id    int
	state *State
	once  sync.Once
}

// Unsubscribe releases the subscription. Safe to call more than once.
func (sub *StateSubscription) Unsubscribe() {
	sub.once.Do(func() {
		sub.state.mu.Lock()
		defer sub.state.mu.Unlock()
		if ch, ok := sub.state.subscribers[sub.id]; ok {
			delete(sub.state.subscribers, sub.id)
			close(ch)
		}
	})
}

// Subscribe registers a snapshot subscriber.
func (s *State) Subscribe() *StateSubscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Snapshot, 8)
	id := s.nextID
	s.nextID++
	s.subscribers[id] = ch

	return &StateSubscription{C: ch, id: id, state: s}
}
