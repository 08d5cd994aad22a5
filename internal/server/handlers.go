package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jpalmerr/quickpoll/poll"
)

type createPollRequest struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	AllowMultiple bool     `json:"allow_multiple"`
}

type joinRequest struct {
	ID string `json:"id"`
}

type voteRequest struct {
	Options []int `json:"options"`
}

// decode reads a JSON body into v, writing a 400 response on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}

// handleListPolls returns every poll, newest first.
func (s *Server) handleListPolls(w http.ResponseWriter, r *http.Request) {
	sess := s.existingSession(r)

	polls := s.polls.List()
	resp := make([]pollResponse, len(polls))
	for i, p := range polls {
		resp[i] = toPollResponse(p, sess)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// handleCreatePoll creates a poll and makes it the session's current poll.
func (s *Server) handleCreatePoll(w http.ResponseWriter, r *http.Request) {
	var req createPollRequest
	if !s.decode(w, r, &req) {
		return
	}

	sess := s.session(w, r)

	p, err := sess.Create(req.Question, req.Options, req.AllowMultiple)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toPollResponse(p, sess))
}

// handleGetPoll returns one poll by id without changing the session.
func (s *Server) handleGetPoll(w http.ResponseWriter, r *http.Request) {
	sess := s.existingSession(r)

	id := poll.NormalizeID(chi.URLParam(r, "id"))
	p, ok := s.polls.GetPoll(id)
	if !ok {
		s.writeError(w, r, &poll.NotFoundError{ID: id})
		return
	}
	s.writeJSON(w, http.StatusOK, toPollResponse(p, sess))
}

// handleSession returns the session's current poll, or null.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	sess := s.existingSession(r)

	var resp sessionResponse
	if sess == nil {
		s.writeJSON(w, http.StatusOK, resp)
		return
	}
	if p, ok := sess.CurrentPoll(); ok {
		pr := toPollResponse(p, sess)
		resp.Poll = &pr
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// handleJoin makes the requested poll current.
func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if !s.decode(w, r, &req) {
		return
	}

	sess := s.session(w, r)

	p, err := sess.Join(req.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toPollResponse(p, sess))
}

// handleVote records the session's vote in its current poll.
func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	var req voteRequest
	if !s.decode(w, r, &req) {
		return
	}

	sess := s.session(w, r)

	p, err := sess.Vote(req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toPollResponse(p, sess))
}
