package store

import (
	"fmt"
	"sync"
)

// subscriberBuffer is the channel capacity given to each subscriber.
const subscriberBuffer = 100

// MemoryStore is an in-memory implementation of [Store].
//
// Records are kept in a map keyed by poll id and never removed. Changes are
// published while the write lock is held, so every subscriber sees them in
// mutation order. Publishing never blocks: each subscriber has its own queue
// drained by a goroutine, and a subscriber that stops reading only grows its
// queue.
type MemoryStore struct {
	mu          sync.RWMutex
	polls       map[string]*PollRecord
	subscribers map[<-chan Change]*subscription
	subMu       sync.RWMutex
}

// NewMemoryStore creates an empty [MemoryStore], ready for use.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		polls:       make(map[string]*PollRecord),
		subscribers: make(map[<-chan Change]*subscription),
	}
}

// Insert stores a copy of rec under rec.ID.
func (m *MemoryStore) Insert(rec PollRecord) error {
	m.mu.Lock()
	if _, exists := m.polls[rec.ID]; exists {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDuplicateID, rec.ID)
	}
	stored := rec.clone()
	m.polls[rec.ID] = &stored
	m.notifySubscribers(Change{Kind: ChangeCreated, Record: stored.clone()})
	m.mu.Unlock()

	return nil
}

// Get returns a copy of the record stored under id.
func (m *MemoryStore) Get(id string) (PollRecord, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.polls[id]
	if !ok {
		return PollRecord{}, false
	}
	return rec.clone(), true
}

// AddVotes increments the counters for indices under the write lock.
//
// Every index is bounds-checked before any counter changes, so a failed call
// leaves the record untouched.
func (m *MemoryStore) AddVotes(id string, indices []int) (PollRecord, error) {
	m.mu.Lock()
	rec, ok := m.polls[id]
	if !ok {
		m.mu.Unlock()
		return PollRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	for _, idx := range indices {
		if idx < 0 || idx >= len(rec.Votes) {
			m.mu.Unlock()
			return PollRecord{}, fmt.Errorf("%w: %d", ErrOptionRange, idx)
		}
	}
	for _, idx := range indices {
		rec.Votes[idx]++
	}
	rec.TotalVotes += len(indices)
	snapshot := rec.clone()
	m.notifySubscribers(Change{
		Kind:    ChangeVoted,
		Record:  snapshot.clone(),
		Indices: append([]int(nil), indices...),
	})
	m.mu.Unlock()

	return snapshot, nil
}

// GetAll returns a snapshot of all records. Order is not guaranteed.
func (m *MemoryStore) GetAll() []PollRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]PollRecord, 0, len(m.polls))
	for _, rec := range m.polls {
		results = append(results, rec.clone())
	}
	return results
}

// Subscribe creates a new subscription that receives every change published
// after it returns, in order.
//
// Caller must call [MemoryStore.Unsubscribe] when done to prevent resource leaks.
func (m *MemoryStore) Subscribe() <-chan Change {
	sub := newSubscription()

	m.subMu.Lock()
	m.subscribers[sub.out] = sub
	m.subMu.Unlock()

	return sub.out
}

// Unsubscribe removes a subscription. Its channel is closed once the queue
// goroutine exits; changes still queued are discarded.
// Safe to call multiple times or with an unknown channel.
func (m *MemoryStore) Unsubscribe(ch <-chan Change) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	if sub, ok := m.subscribers[ch]; ok {
		delete(m.subscribers, ch)
		close(sub.done)
	}
}

// notifySubscribers queues the change for all active subscribers.
// Callers hold m.mu so changes are queued in mutation order.
func (m *MemoryStore) notifySubscribers(change Change) {
	m.subMu.RLock()
	defer m.subMu.RUnlock()

	for _, sub := range m.subscribers {
		sub.push(change)
	}
}

// subscription is the per-subscriber queue between publishers and the
// subscriber's channel. push never blocks; pump moves queued changes into out.
type subscription struct {
	mu      sync.Mutex
	pending []Change
	wake    chan struct{}
	done    chan struct{}
	out     chan Change
}

func newSubscription() *subscription {
	sub := &subscription{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
		out:  make(chan Change, subscriberBuffer),
	}
	go sub.pump()
	return sub
}

func (s *subscription) push(change Change) {
	s.mu.Lock()
	s.pending = append(s.pending, change)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
		// pump already has a wakeup pending
	}
}

func (s *subscription) pump() {
	defer close(s.out)

	for {
		select {
		case <-s.done:
			return
		case <-s.wake:
		}

		s.mu.Lock()
		batch := s.pending
		s.pending = nil
		s.mu.Unlock()

		for _, change := range batch {
			select {
			case s.out <- change:
			case <-s.done:
				return
			}
		}
	}
}
