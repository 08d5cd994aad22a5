package poll

import "sync"

// Backend is the subset of [PollStore] a [Session] depends on.
type Backend interface {
	CreatePoll(question string, options []string, allowMultiple bool) (Poll, error)
	GetPoll(id string) (Poll, bool)
	RecordVote(id string, optionIndices []int) (Poll, error)
}

// Session is one user's interaction context: the poll they are looking at and
// the selections they have voted in this session.
//
// A vote is recorded in the session exactly once per poll and never removed.
// Sessions are safe for concurrent use, though the expected driver is a single
// user issuing one command at a time.
type Session struct {
	backend Backend

	mu        sync.Mutex
	currentID string
	votes     map[string][]int
}

// NewSession creates a session with no current poll and no votes.
func NewSession(backend Backend) *Session {
	return &Session{
		backend: backend,
		votes:   make(map[string][]int),
	}
}

// Join makes the poll with the given id current.
//
// The id is passed through [NormalizeID] first. Fails with [*ValidationError]
// for a blank id and [*NotFoundError] for an unknown one; on failure the
// current poll is unchanged.
func (s *Session) Join(id string) (Poll, error) {
	norm := NormalizeID(id)
	if norm == "" {
		return Poll{}, validationErr("id", "please enter a poll ID")
	}

	p, ok := s.backend.GetPoll(norm)
	if !ok {
		return Poll{}, &NotFoundError{ID: norm}
	}

	s.mu.Lock()
	s.currentID = p.ID()
	s.mu.Unlock()
	return p, nil
}

// Create creates a poll and makes it current.
func (s *Session) Create(question string, options []string, allowMultiple bool) (Poll, error) {
	p, err := s.backend.CreatePoll(question, options, allowMultiple)
	if err != nil {
		return Poll{}, err
	}

	s.mu.Lock()
	s.currentID = p.ID()
	s.mu.Unlock()
	return p, nil
}

// Vote records the selection against the current poll.
//
// Fails with [*InvalidStateError] if no poll is current or this session has
// already voted in it; otherwise errors from [PollStore.RecordVote] are
// returned unchanged.
func (s *Session) Vote(optionIndices []int) (Poll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentID == "" {
		return Poll{}, &InvalidStateError{Op: "vote", Reason: "no poll selected"}
	}
	if _, voted := s.votes[s.currentID]; voted {
		return Poll{}, &InvalidStateError{Op: "vote", Reason: "already voted in poll " + s.currentID}
	}

	p, err := s.backend.RecordVote(s.currentID, optionIndices)
	if err != nil {
		return Poll{}, err
	}

	s.votes[s.currentID] = append([]int(nil), optionIndices...)
	return p, nil
}

// HasVoted reports whether this session has voted in the poll with the given id.
func (s *Session) HasVoted(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.votes[id]
	return ok
}

// Selection returns a copy of the option indices this session voted for in
// the given poll.
func (s *Session) Selection(id string) ([]int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel, ok := s.votes[id]
	if !ok {
		return nil, false
	}
	return append([]int(nil), sel...), true
}

// CurrentPoll returns a fresh snapshot of the current poll, if any.
func (s *Session) CurrentPoll() (Poll, bool) {
	s.mu.Lock()
	id := s.currentID
	s.mu.Unlock()

	if id == "" {
		return Poll{}, false
	}
	return s.backend.GetPoll(id)
}
