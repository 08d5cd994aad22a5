package poll

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/jpalmerr/quickpoll/internal/store"
)

// PollStore owns every poll and its vote tallies.
//
// PollStore validates input, generates ids and delegates storage to an
// in-memory record store. All methods are safe for concurrent use, and each
// vote is applied as one indivisible step so concurrent voters never lose
// updates. Polls are never deleted or edited.
type PollStore struct {
	records    store.Store
	idAttempts int
	newID      func() string
	now        func() time.Time
	logger     *slog.Logger
}

// NewPollStore creates an empty [PollStore].
//
// Returns an error if any option is invalid.
//
// Example:
//
//	ps, err := poll.NewPollStore(poll.WithIDAttempts(5))
func NewPollStore(opts ...StoreOption) (*PollStore, error) {
	cfg := &storeConfig{
		idAttempts: DefaultIDAttempts,
		newID:      GenerateID,
		now:        time.Now,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &PollStore{
		records:    store.NewMemoryStore(),
		idAttempts: cfg.idAttempts,
		newID:      cfg.newID,
		now:        cfg.now,
		logger:     logger,
	}, nil
}

// CreatePoll validates the input and inserts a new poll with zeroed tallies.
//
// The question is trimmed and must not be empty. Options are trimmed and
// empty entries discarded; between [MinOptions] and [MaxOptions] must remain.
// Fails with [*ValidationError] on bad input or [ErrIDExhausted] if no free
// id was found.
func (s *PollStore) CreatePoll(question string, options []string, allowMultiple bool) (Poll, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Poll{}, validationErr("question", "please enter a poll question")
	}

	labels := cleanOptions(options)
	if len(labels) < MinOptions {
		return Poll{}, validationErr("options", "please provide at least %d options, got %d", MinOptions, len(labels))
	}
	if len(labels) > MaxOptions {
		return Poll{}, validationErr("options", "at most %d options are allowed, got %d", MaxOptions, len(labels))
	}

	rec := store.PollRecord{
		Question:      question,
		Options:       labels,
		Votes:         make([]int, len(labels)),
		AllowMultiple: allowMultiple,
		Created:       s.now(),
	}

	for attempt := 0; attempt < s.idAttempts; attempt++ {
		rec.ID = s.newID()
		err := s.records.Insert(rec)
		if errors.Is(err, store.ErrDuplicateID) {
			s.logger.Debug("poll id collision", "id", rec.ID, "attempt", attempt+1)
			continue
		}
		if err != nil {
			return Poll{}, fmt.Errorf("failed to store poll: %w", err)
		}

		s.logger.Info("poll created",
			"poll_id", rec.ID,
			"options", len(labels),
			"allow_multiple", allowMultiple,
		)
		return pollFromRecord(rec), nil
	}

	return Poll{}, fmt.Errorf("%w after %d attempts", ErrIDExhausted, s.idAttempts)
}

// GetPoll returns a snapshot of the poll with the given id.
//
// Lookup is exact; normalise user input with [NormalizeID] first. A missing
// id is reported through the boolean, never as an error.
func (s *PollStore) GetPoll(id string) (Poll, bool) {
	rec, ok := s.records.Get(id)
	if !ok {
		return Poll{}, false
	}
	return pollFromRecord(rec), true
}

// RecordVote adds one vote to each selected option and returns the updated poll.
//
// Fails with [*NotFoundError] for an unknown id, and with [*ValidationError]
// if the selection is empty, repeats an index, names an index outside the
// poll's options, or picks several options on a single-choice poll. A failed
// call changes nothing.
func (s *PollStore) RecordVote(id string, optionIndices []int) (Poll, error) {
	rec, ok := s.records.Get(id)
	if !ok {
		return Poll{}, &NotFoundError{ID: id}
	}

	if err := validateSelection(rec, optionIndices); err != nil {
		return Poll{}, err
	}

	updated, err := s.records.AddVotes(id, optionIndices)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return Poll{}, &NotFoundError{ID: id}
	case errors.Is(err, store.ErrOptionRange):
		return Poll{}, validationErr("selection", "%v", err)
	case err != nil:
		return Poll{}, fmt.Errorf("failed to record vote: %w", err)
	}

	s.logger.Debug("vote recorded",
		"poll_id", id,
		"options", optionIndices,
		"total_votes", updated.TotalVotes,
	)
	return pollFromRecord(updated), nil
}

// List returns snapshots of every poll, newest first.
func (s *PollStore) List() []Poll {
	records := s.records.GetAll()
	sort.Slice(records, func(i, j int) bool {
		if !records[i].Created.Equal(records[j].Created) {
			return records[i].Created.After(records[j].Created)
		}
		return records[i].ID < records[j].ID
	})

	polls := make([]Poll, len(records))
	for i, rec := range records {
		polls[i] = pollFromRecord(rec)
	}
	return polls
}

// Len returns the number of polls in the store.
func (s *PollStore) Len() int {
	return len(s.records.GetAll())
}

// cleanOptions trims each option and drops the empty ones.
func cleanOptions(options []string) []string {
	labels := make([]string, 0, len(options))
	for _, opt := range options {
		opt = strings.TrimSpace(opt)
		if opt != "" {
			labels = append(labels, opt)
		}
	}
	return labels
}

// validateSelection checks a set of option indices against a poll.
func validateSelection(rec store.PollRecord, indices []int) error {
	if len(indices) == 0 {
		return validationErr("selection", "please select at least one option")
	}
	if !rec.AllowMultiple && len(indices) > 1 {
		return validationErr("selection", "this poll allows a single choice, got %d", len(indices))
	}

	seen := make(map[int]struct{}, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(rec.Options) {
			return validationErr("selection", "option index %d out of range [0, %d)", idx, len(rec.Options))
		}
		if _, dup := seen[idx]; dup {
			return validationErr("selection", "option index %d selected more than once", idx)
		}
		seen[idx] = struct{}{}
	}
	return nil
}
