package server

import (
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/jpalmerr/quickpoll/poll"
)

// sessionRegistry maps browser session ids to their [poll.Session].
//
// TODO: evict sessions idle past a configurable TTL; entries currently live
// as long as the process.
type sessionRegistry struct {
	backend poll.Backend

	mu       sync.Mutex
	sessions map[string]*poll.Session
}

func newSessionRegistry(backend poll.Backend) *sessionRegistry {
	return &sessionRegistry{
		backend:  backend,
		sessions: make(map[string]*poll.Session),
	}
}

// lookup returns the session for id, if one exists.
func (r *sessionRegistry) lookup(id string) (*poll.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[id]
	return sess, ok
}

// create registers a new session under a fresh random id.
func (r *sessionRegistry) create() (string, *poll.Session) {
	id := uuid.NewString()
	sess := poll.NewSession(r.backend)

	r.mu.Lock()
	r.sessions[id] = sess
	r.mu.Unlock()

	return id, sess
}

// len returns the number of registered sessions.
func (r *sessionRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// existingSession returns the session named by the request cookie, or nil.
// Read-only handlers use it so they never allocate sessions.
func (s *Server) existingSession(r *http.Request) *poll.Session {
	c, err := r.Cookie(s.cookieName)
	if err != nil {
		return nil
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return nil
	}
	sess, ok := s.sessions.lookup(c.Value)
	if !ok {
		return nil
	}
	return sess
}

// session returns the caller's session, creating one and setting the cookie
// when the request carries no known session id.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *poll.Session {
	if sess := s.existingSession(r); sess != nil {
		return sess
	}

	id, sess := s.sessions.create()
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.logger.Debug("session started", "session_id", id)
	return sess
}
