package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/quickpoll"
	"github.com/jpalmerr/quickpoll/poll"
)

func main() {
	qp, err := quickpoll.New(
		quickpoll.WithPort(8080),
		quickpoll.WithTitle("QuickPoll Demo"),
		quickpoll.WithDemoPoll(),
		quickpoll.WithSeedPoll(poll.SeedPoll{
			ID:            "STANDUP1",
			Question:      "Which standup time works for you?",
			Options:       []string{"9:00", "9:30", "10:00"},
			AllowMultiple: true,
		}),
		quickpoll.WithVoteCallback(func(ev poll.Event) {
			fmt.Printf("  %s: %s (%s)\n", ev.Poll.ID(), ev.Poll.Question(), poll.VoteLabel(ev.Poll.TotalVotes()))
		}),
	)
	if err != nil {
		slog.Error("failed to create quickpoll", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("  ╔═══════════════════════════════════════════════════════╗")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   QuickPoll Demo                                      ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Open http://localhost:8080 in your browser          ║")
	fmt.Println("  ║   and join DEMO123 or STANDUP1                        ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Simulated voters cast a vote every few seconds      ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Press Ctrl+C to stop                                ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ╚═══════════════════════════════════════════════════════╝")
	fmt.Println()

	// set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go SimulateVoters(ctx, qp.Store(), 3*time.Second, poll.DemoPollID, "STANDUP1")

	if err := qp.Start(ctx); err != nil {
		slog.Error("quickpoll error", "error", err)
		os.Exit(1)
	}
}
