// Package quickpoll provides a small, embeddable polling widget: create a
// question with two to six answers, share its eight-character id, collect
// votes and watch the percentages.
//
// QuickPoll is SDK-first. The domain lives in the [poll] package and can be
// used on its own; this package wires it to an HTTP server and an embedded
// single-page UI.
//
// # Quick Start
//
//	qp, _ := quickpoll.New(quickpoll.WithDemoPoll())
//
//	// Set up graceful shutdown on SIGINT/SIGTERM
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	qp.Start(ctx) // blocks until context is cancelled
//
// # Configuration
//
//	qp, err := quickpoll.New(
//	    quickpoll.WithPort(9090),
//	    quickpoll.WithTitle("Team Lunch"),
//	    quickpoll.WithSeedPoll(poll.SeedPoll{
//	        ID:       "LUNCH001",
//	        Question: "Where should we eat?",
//	        Options:  []string{"Tacos", "Ramen", "Salad"},
//	    }),
//	    quickpoll.WithVoteCallback(func(ev poll.Event) {
//	        slog.Info("vote", "poll", ev.Poll.ID(), "total", ev.Poll.TotalVotes())
//	    }),
//	)
//
// YAML configuration is also supported through the config package and the
// quickpoll command:
//
//	quickpoll serve -c quickpoll.yaml
//
// # Architecture
//
//   - poll: polls, the thread-safe PollStore, per-user Session, typed errors
//   - internal/store: in-memory records with atomic vote tallies and change fan-out
//   - internal/server: chi router, JSON API, per-browser sessions, embedded UI
//   - config: YAML loading and validation
//   - dashboard: the embedded HTML page
//
// All state is held in memory and lost on restart.
package quickpoll
