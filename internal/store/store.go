package store

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no record exists for the requested id.
	ErrNotFound = errors.New("poll record not found")

	// ErrDuplicateID is returned by Insert when the id is already taken.
	ErrDuplicateID = errors.New("poll id already exists")

	// ErrOptionRange is returned by AddVotes for an index outside the options.
	ErrOptionRange = errors.New("option index out of range")
)

// PollRecord is the storage representation of a poll.
//
// Options and Votes are parallel slices: Votes[i] counts the votes for
// Options[i]. TotalVotes always equals the sum of Votes. Records handed out
// by a [Store] are copies; modifying them does not affect the store.
type PollRecord struct {
	ID            string
	Question      string
	Options       []string
	Votes         []int
	AllowMultiple bool
	TotalVotes    int
	Created       time.Time
}

// clone returns a deep copy of the record.
func (r PollRecord) clone() PollRecord {
	r.Options = append([]string(nil), r.Options...)
	r.Votes = append([]int(nil), r.Votes...)
	return r
}

// ChangeKind identifies what happened to a record.
type ChangeKind string

const (
	// ChangeCreated is published after a record is inserted.
	ChangeCreated ChangeKind = "created"

	// ChangeVoted is published after votes are added to a record.
	ChangeVoted ChangeKind = "voted"
)

// Change is published to subscribers after every successful mutation.
type Change struct {
	Kind ChangeKind

	// Record is a snapshot taken immediately after the mutation.
	Record PollRecord

	// Indices holds the option indices that were incremented.
	// Empty for ChangeCreated.
	Indices []int
}

// Store defines storage and change notification for poll records.
//
// Store implementations must be safe for concurrent access. Every mutation
// is atomic: readers never observe Votes and TotalVotes out of step.
type Store interface {
	// Insert adds a new record. Returns ErrDuplicateID if the id is taken.
	Insert(rec PollRecord) error

	// Get returns a copy of the record with the given id.
	Get(id string) (PollRecord, bool)

	// AddVotes increments Votes[i] for each index and TotalVotes by
	// len(indices) in a single step, returning the updated record.
	AddVotes(id string, indices []int) (PollRecord, error)

	// GetAll returns copies of all records. Order is not guaranteed.
	GetAll() []PollRecord

	// Subscribe returns a channel that receives a Change after every
	// mutation, in mutation order and without gaps. Publishing must not
	// block on a slow subscriber.
	// Caller must call Unsubscribe when done to prevent resource leaks.
	Subscribe() <-chan Change

	// Unsubscribe removes a subscription and eventually closes the channel.
	// Safe to call with a channel that was already unsubscribed.
	Unsubscribe(ch <-chan Change)
}
