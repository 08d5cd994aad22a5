package quickpoll

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/google/uuid"

	"github.com/jpalmerr/quickpoll/dashboard"
	"github.com/jpalmerr/quickpoll/internal/server"
	"github.com/jpalmerr/quickpoll/poll"
)

const defaultPort = 8080

// QuickPoll is the main orchestrator for the poll store and the web UI.
//
// QuickPoll owns one shared [poll.PollStore], seeds it at construction, and
// serves the browser UI and JSON API via HTTP. It is created using [New] with
// functional options and started with [QuickPoll.Start].
//
// The typical lifecycle is:
//
//	qp, err := quickpoll.New(quickpoll.WithDemoPoll())
//	if err != nil {
//	    slog.Error("failed to create quickpoll", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	qp.Start(ctx) // blocks until context cancelled
//
// The caller controls the lifecycle via the context. Cancel the context to
// trigger graceful shutdown.
type QuickPoll struct {
	title         string
	port          int
	cookieName    string
	logger        *slog.Logger
	polls         *poll.PollStore
	voteCallbacks []func(poll.Event)
}

// New creates a new [QuickPoll] instance with the given options.
//
// Defaults:
//   - Port: 8080
//   - Id attempts: [poll.DefaultIDAttempts]
//   - Title: "QuickPoll"
//
// Seed polls registered with [WithDemoPoll] or [WithSeedPoll] are loaded into
// the store before New returns.
//
// Returns an error if any option is invalid or a seed poll is rejected.
func New(opts ...Option) (*QuickPoll, error) {
	cfg := &qpConfig{
		port:       defaultPort,
		idAttempts: poll.DefaultIDAttempts,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.port < 1 || cfg.port > 65535 {
		return nil, fmt.Errorf("port must be between 1 and 65535, got %d", cfg.port)
	}

	// default to slog.Default() if no logger provided
	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	storeOpts := []poll.StoreOption{
		poll.WithIDAttempts(cfg.idAttempts),
		poll.WithStoreLogger(logger),
	}
	if cfg.clock != nil {
		storeOpts = append(storeOpts, poll.WithClock(cfg.clock))
	}

	polls, err := poll.NewPollStore(storeOpts...)
	if err != nil {
		return nil, err
	}

	for i, sp := range cfg.seeds {
		if _, err := polls.Seed(sp); err != nil {
			return nil, fmt.Errorf("seed poll %d: %w", i, err)
		}
	}

	return &QuickPoll{
		title:         cfg.title,
		port:          cfg.port,
		cookieName:    cfg.cookieName,
		logger:        logger,
		polls:         polls,
		voteCallbacks: cfg.voteCallbacks,
	}, nil
}

// Start serves the UI and dispatches poll events until ctx is cancelled.
//
// Start is a blocking call. During execution:
//
//   - The HTTP server starts on the configured port
//   - Poll creations and votes are logged
//   - Vote callbacks registered with [WithVoteCallback] run for every vote
//   - The UI is available at http://localhost:<port>
//
// Returns nil on graceful shutdown. Returns an error if the HTTP server fails
// to start.
func (qp *QuickPoll) Start(ctx context.Context) error {
	qp.logger.Info("quickpoll starting", "poll_count", qp.polls.Len())
	qp.logger.Info("ui available", "url", fmt.Sprintf("http://localhost:%d", qp.port))

	// check if context already cancelled
	if ctx.Err() != nil {
		return nil
	}

	watchCtx, stopWatch := context.WithCancel(ctx)
	events := qp.polls.Watch(watchCtx)

	// track the events consumer goroutine to ensure clean shutdown
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for ev := range events {
			qp.handleEvent(ev)
		}
	}()

	cleanup := func() {
		stopWatch() // closes events channel
		wg.Wait()
	}

	httpServer := server.NewServer(qp.polls, qp.port, dashboard.Assets, qp.title, qp.cookieName, qp.logger)
	if err := httpServer.Start(ctx); err != nil {
		cleanup()
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	<-ctx.Done()
	cleanup()
	qp.logger.Info("quickpoll stopped")
	return nil
}

func (qp *QuickPoll) handleEvent(ev poll.Event) {
	switch ev.Kind {
	case poll.EventCreated:
		qp.logger.Info("poll available",
			"poll_id", ev.Poll.ID(),
			"question", ev.Poll.Question(),
			"options", len(ev.Poll.Options()),
		)
	case poll.EventVoted:
		for _, cb := range qp.voteCallbacks {
			invokeCallbackSafe(cb, ev, qp.logger)
		}
		qp.logger.Debug("vote recorded",
			"poll_id", ev.Poll.ID(),
			"selection", ev.Selection,
			"total_votes", ev.Poll.TotalVotes(),
		)
	}
}

// Store returns the shared poll store, for callers embedding QuickPoll that
// want to create or read polls directly.
func (qp *QuickPoll) Store() *poll.PollStore {
	return qp.polls
}

// Port returns the configured HTTP port.
func (qp *QuickPoll) Port() int {
	return qp.port
}

// invokeCallbackSafe calls a vote callback with panic recovery.
// Panics are logged with a correlation ID and stack trace but do not propagate.
func invokeCallbackSafe(cb func(poll.Event), ev poll.Event, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("vote callback panicked",
				"correlation_id", uuid.NewString(),
				"panic", fmt.Sprintf("%v", r),
				"poll_id", ev.Poll.ID(),
				"stack", string(debug.Stack()),
			)
		}
	}()
	cb(ev)
}
