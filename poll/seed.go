package poll

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jpalmerr/quickpoll/internal/store"
)

// DemoPollID is the id of the poll returned by [DemoPoll].
const DemoPollID = "DEMO123"

// SeedPoll describes a poll to preload with a fixed id and optional tallies.
type SeedPoll struct {
	ID            string
	Question      string
	Options       []string
	AllowMultiple bool

	// Votes holds starting counts, one per option. Nil means all zero.
	Votes []int
}

// DemoPoll returns the sample poll offered on the home screen.
func DemoPoll() SeedPoll {
	return SeedPoll{
		ID:       DemoPollID,
		Question: "What's your favorite programming language?",
		Options:  []string{"JavaScript", "Python", "Java", "Go"},
		Votes:    []int{25, 30, 15, 10},
	}
}

// Seed inserts a poll with a caller-chosen id and starting tallies.
//
// The id is normalised with [NormalizeID] and must use only A-Z and 0-9.
// Options follow the same rules as [PollStore.CreatePoll] except that empty
// entries are rejected rather than dropped, since Votes is positional.
// TotalVotes is derived from Votes. Fails with [*ValidationError].
func (s *PollStore) Seed(sp SeedPoll) (Poll, error) {
	id := NormalizeID(sp.ID)
	if !validID(id) {
		return Poll{}, validationErr("id", "seed id %q must be non-empty and use only A-Z and 0-9", sp.ID)
	}

	question := strings.TrimSpace(sp.Question)
	if question == "" {
		return Poll{}, validationErr("question", "please enter a poll question")
	}

	if len(sp.Options) < MinOptions || len(sp.Options) > MaxOptions {
		return Poll{}, validationErr("options", "a poll needs between %d and %d options, got %d",
			MinOptions, MaxOptions, len(sp.Options))
	}
	labels := make([]string, len(sp.Options))
	for i, opt := range sp.Options {
		labels[i] = strings.TrimSpace(opt)
		if labels[i] == "" {
			return Poll{}, validationErr("options", "option %d is empty", i)
		}
	}

	votes := make([]int, len(labels))
	if sp.Votes != nil {
		if len(sp.Votes) != len(labels) {
			return Poll{}, validationErr("votes", "got %d counts for %d options", len(sp.Votes), len(labels))
		}
		copy(votes, sp.Votes)
	}
	total := 0
	for i, v := range votes {
		if v < 0 {
			return Poll{}, validationErr("votes", "count for option %d is negative", i)
		}
		total += v
	}

	rec := store.PollRecord{
		ID:            id,
		Question:      question,
		Options:       labels,
		Votes:         votes,
		AllowMultiple: sp.AllowMultiple,
		TotalVotes:    total,
		Created:       s.now(),
	}
	if err := s.records.Insert(rec); err != nil {
		if errors.Is(err, store.ErrDuplicateID) {
			return Poll{}, validationErr("id", "poll %s already exists", id)
		}
		return Poll{}, fmt.Errorf("failed to seed poll: %w", err)
	}

	s.logger.Info("poll seeded", "poll_id", id, "total_votes", total)
	return pollFromRecord(rec), nil
}
