package quickpoll

import (
	"errors"
	"log/slog"
	"time"

	"github.com/jpalmerr/quickpoll/poll"
)

// qpConfig holds mutable state during QuickPoll construction.
type qpConfig struct {
	title         string
	port          int
	cookieName    string
	idAttempts    int
	clock         func() time.Time
	logger        *slog.Logger
	seeds         []poll.SeedPoll
	voteCallbacks []func(poll.Event)
}

// Option is a function that configures a [QuickPoll] instance during construction.
//
// Built-in options: [WithPort], [WithTitle], [WithLogger], [WithIDAttempts],
// [WithSessionCookie], [WithClock], [WithDemoPoll], [WithSeedPoll],
// [WithVoteCallback].
type Option func(*qpConfig) error

// WithPort sets the HTTP port for the UI and API.
//
// Defaults to 8080 if not specified.
//
// Returns an error if the port is outside the valid range (1-65535).
func WithPort(port int) Option {
	return func(cfg *qpConfig) error {
		if port < 1 || port > 65535 {
			return errors.New("port must be between 1 and 65535")
		}
		cfg.port = port
		return nil
	}
}

// WithTitle sets the title displayed in the browser tab and header.
//
// If not specified, defaults to "QuickPoll".
func WithTitle(title string) Option {
	return func(cfg *qpConfig) error {
		cfg.title = title
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the QuickPoll instance and its
// poll store. If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *qpConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithIDAttempts bounds how many random ids are drawn for a new poll before
// creation fails. Defaults to [poll.DefaultIDAttempts].
//
// Returns an error if n is less than 1.
func WithIDAttempts(n int) Option {
	return func(cfg *qpConfig) error {
		if n < 1 {
			return errors.New("id attempts must be at least 1")
		}
		cfg.idAttempts = n
		return nil
	}
}

// WithSessionCookie sets the name of the browser session cookie.
// Defaults to "qp_session".
//
// Returns an error if name is empty.
func WithSessionCookie(name string) Option {
	return func(cfg *qpConfig) error {
		if name == "" {
			return errors.New("session cookie name cannot be empty")
		}
		cfg.cookieName = name
		return nil
	}
}

// WithClock sets the function used to stamp poll creation times.
//
// Returns an error if now is nil.
func WithClock(now func() time.Time) Option {
	return func(cfg *qpConfig) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		cfg.clock = now
		return nil
	}
}

// WithDemoPoll seeds the store with [poll.DemoPoll] so visitors can try
// joining with id "DEMO123".
func WithDemoPoll() Option {
	return WithSeedPoll(poll.DemoPoll())
}

// WithSeedPoll adds a poll, with its id and optional starting tallies, to be
// loaded when [New] runs. Can be called multiple times.
//
// Validation happens in [New]; an invalid seed makes New fail.
func WithSeedPoll(sp poll.SeedPoll) Option {
	return func(cfg *qpConfig) error {
		cfg.seeds = append(cfg.seeds, sp)
		return nil
	}
}

// WithVoteCallback registers a function to be called after every recorded vote.
//
// The callback receives a [poll.Event] holding a snapshot of the poll right
// after the vote and the option indices that were chosen.
//
// Callbacks run while [QuickPoll.Start] is running, on a single goroutine,
// once per vote in the order the votes were recorded. Multiple callbacks may
// be registered; they execute in registration order. A slow callback delays
// later callbacks but never a voter. Panics within callbacks are recovered
// and logged.
//
// Example:
//
//	qp, err := quickpoll.New(
//	    quickpoll.WithVoteCallback(func(ev poll.Event) {
//	        log.Printf("%s now has %d votes", ev.Poll.ID(), ev.Poll.TotalVotes())
//	    }),
//	)
//
// Nil callbacks are silently ignored.
func WithVoteCallback(cb func(poll.Event)) Option {
	return func(cfg *qpConfig) error {
		if cb == nil {
			return nil
		}
		cfg.voteCallbacks = append(cfg.voteCallbacks, cb)
		return nil
	}
}
