package server

import (
	"context"
	"fmt"
	"html"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jpalmerr/quickpoll/poll"
)

const (
	// shutdownTimeout bounds graceful shutdown of in-flight requests.
	shutdownTimeout = 5 * time.Second

	// maxBodyBytes caps JSON request bodies.
	maxBodyBytes = 1 << 20

	// defaultTitle is used when no custom title is configured.
	defaultTitle = "QuickPoll"

	// defaultCookieName names the browser session cookie when none is configured.
	defaultCookieName = "qp_session"

	// titlePlaceholder is the marker in HTML that gets replaced with the actual title.
	titlePlaceholder = "{{.Title}}"
)

// Server is the presentation layer for quickpoll: a JSON API over
// [poll.Session] plus the embedded single-page UI.
//
// Each browser gets its own [poll.Session], keyed by a cookie, so "already
// voted" is tracked per browser while all browsers share one [poll.PollStore].
type Server struct {
	polls      *poll.PollStore
	sessions   *sessionRegistry
	port       int
	httpServer *http.Server
	assets     fs.FS
	title      string
	cookieName string
	logger     *slog.Logger
}

// NewServer creates a new HTTP [Server].
//
// Parameters:
//   - ps: the shared poll store
//   - port: TCP port to listen on
//   - assets: embedded filesystem containing the UI (may be nil)
//   - title: page title (defaults to "QuickPoll" if empty)
//   - cookieName: session cookie name (defaults to "qp_session" if empty)
//   - logger: logger for server events
//
// The server is not started until [Server.Start] is called.
func NewServer(ps *poll.PollStore, port int, assets fs.FS, title, cookieName string, logger *slog.Logger) *Server {
	if cookieName == "" {
		cookieName = defaultCookieName
	}
	return &Server{
		polls:      ps,
		sessions:   newSessionRegistry(ps),
		port:       port,
		assets:     assets,
		title:      title,
		cookieName: cookieName,
		logger:     logger,
	}
}

// Handler returns the router serving the UI and API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/polls", func(r chi.Router) {
			r.Get("/", s.handleListPolls)
			r.Post("/", s.handleCreatePoll)
			r.Get("/{id}", s.handleGetPoll)
		})

		r.Route("/session", func(r chi.Router) {
			r.Get("/", s.handleSession)
			r.Post("/join", s.handleJoin)
			r.Post("/vote", s.handleVote)
		})
	})

	if s.assets != nil {
		r.Get("/", s.handleDashboard)
	}

	return r
}

// Start begins serving HTTP requests in a background goroutine.
//
// Start is non-blocking and returns once the listener is bound. The server
// runs until the context is cancelled, then shuts down gracefully with a
// 5-second timeout.
//
// Returns an error if the server fails to bind to the configured port.
func (s *Server) Start(ctx context.Context) error {
	// create listener first to verify port availability synchronously
	addr := fmt.Sprintf(":%d", s.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind to port %d: %w", s.port, err)
	}

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http server shutdown error", "error", err)
		}
	}()

	return nil
}

// handleDashboard serves the single-page UI.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	content, err := fs.ReadFile(s.assets, "assets/index.html")
	if err != nil {
		http.Error(w, "Page not found", http.StatusInternalServerError)
		return
	}

	// apply title substitution with HTML escaping to prevent XSS
	title := s.title
	if title == "" {
		title = defaultTitle
	}
	rendered := strings.ReplaceAll(string(content), titlePlaceholder, html.EscapeString(title))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err = w.Write([]byte(rendered)); err != nil {
		s.logger.Error("failed to write page response", "error", err)
	}
}

// logRequests logs one line per request once the response is written.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Debug("request completed",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
