package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jpalmerr/quickpoll/poll"
)

// pollResponse is the JSON representation of a poll snapshot, decorated with
// what the caller's session knows about it.
type pollResponse struct {
	ID            string           `json:"id"`
	Question      string           `json:"question"`
	AllowMultiple bool             `json:"allow_multiple"`
	Options       []optionResponse `json:"options"`
	TotalVotes    int              `json:"total_votes"`
	TotalLabel    string           `json:"total_label"`
	Created       time.Time        `json:"created"`
	CreatedAgo    string           `json:"created_ago"`
	ShareText     string           `json:"share_text"`
	HasVoted      bool             `json:"has_voted"`
	Selection     []int            `json:"selection,omitempty"`
}

// optionResponse is one row of the results bar chart.
type optionResponse struct {
	Index      int    `json:"index"`
	Label      string `json:"label"`
	Votes      int    `json:"votes"`
	VotesLabel string `json:"votes_label"`
	Percent    int    `json:"percent"`
}

// sessionResponse describes the caller's current poll, if any.
type sessionResponse struct {
	Poll *pollResponse `json:"poll"`
}

// errorResponse is the body of every non-2xx API response.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func toPollResponse(p poll.Poll, sess *poll.Session) pollResponse {
	results := p.Results()
	options := make([]optionResponse, len(results))
	for i, r := range results {
		options[i] = optionResponse{
			Index:      r.Index,
			Label:      r.Label,
			Votes:      r.Votes,
			VotesLabel: poll.VoteLabel(r.Votes),
			Percent:    r.Percent,
		}
	}

	resp := pollResponse{
		ID:            p.ID(),
		Question:      p.Question(),
		AllowMultiple: p.AllowMultiple(),
		Options:       options,
		TotalVotes:    p.TotalVotes(),
		TotalLabel:    poll.VoteLabel(p.TotalVotes()),
		Created:       p.Created(),
		CreatedAgo:    humanize.Time(p.Created()),
		ShareText:     p.ShareText(),
	}
	if sess != nil {
		resp.Selection, resp.HasVoted = sess.Selection(p.ID())
	}
	return resp
}

// writeJSON writes data as a JSON response with the given status code.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// writeMessage writes an errorResponse with the given status and message.
func (s *Server) writeMessage(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

// writeError maps a poll error to a status code and user-facing message.
//
// Validation and not-found errors carry their own message. Invalid-state
// errors are caller sequencing bugs and anything else is unexpected, so both
// are logged and reported generically.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr *poll.ValidationError
		nf   *poll.NotFoundError
		serr *poll.InvalidStateError
	)

	switch {
	case errors.As(err, &verr):
		s.writeMessage(w, http.StatusBadRequest, verr.Message)
	case errors.As(err, &nf):
		s.writeMessage(w, http.StatusNotFound, "Poll not found. Please check the poll ID.")
	case errors.As(err, &serr):
		s.logger.Warn("invalid session state",
			"path", r.URL.Path,
			"error", err,
		)
		s.writeMessage(w, http.StatusConflict, "That action isn't available right now.")
	default:
		s.logger.Error("request failed",
			"path", r.URL.Path,
			"error", err,
		)
		s.writeMessage(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
}
