package poll

import (
	"context"

	"github.com/jpalmerr/quickpoll/internal/store"
)

// EventKind identifies what happened to a poll.
type EventKind string

const (
	// EventCreated is emitted when a poll is created or seeded.
	EventCreated EventKind = "created"

	// EventVoted is emitted after a vote is recorded.
	EventVoted EventKind = "voted"
)

// Event describes a change to a poll.
//
// Events reach a watcher in the order the store applied the changes, so the
// TotalVotes of successive EventVoted events for one poll never decreases.
type Event struct {
	Kind EventKind

	// Poll is a snapshot taken right after the change.
	Poll Poll

	// Selection holds the option indices of the vote. Nil for EventCreated.
	Selection []int
}

// Watch streams an [Event] for every poll created and vote recorded until ctx
// is cancelled, after which the channel is closed.
//
// Every event is delivered in order. Voters never wait on a watcher; events
// for a watcher that falls behind are queued until it catches up.
func (s *PollStore) Watch(ctx context.Context) <-chan Event {
	changes := s.records.Subscribe()
	out := make(chan Event)

	go func() {
		defer close(out)
		defer s.records.Unsubscribe(changes)

		for {
			select {
			case change, ok := <-changes:
				if !ok {
					return
				}
				select {
				case out <- eventFromChange(change):
				case <-ctx.Done():
					return
				}

			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

func eventFromChange(c store.Change) Event {
	ev := Event{Poll: pollFromRecord(c.Record)}
	switch c.Kind {
	case store.ChangeVoted:
		ev.Kind = EventVoted
		ev.Selection = c.Indices
	default:
		ev.Kind = EventCreated
	}
	return ev
}
