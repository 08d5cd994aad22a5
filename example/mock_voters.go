package main

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/jpalmerr/quickpoll/poll"
)

// SimulateVoters casts one vote every interval, each from a fresh session,
// into a random poll from ids. It stops when ctx is cancelled.
func SimulateVoters(ctx context.Context, store *poll.PollStore, interval time.Duration, ids ...string) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		id := ids[rand.IntN(len(ids))]
		sess := poll.NewSession(store)
		p, err := sess.Join(id)
		if err != nil {
			slog.Warn("simulated voter could not join", "poll_id", id, "error", err)
			continue
		}

		if _, err := sess.Vote(randomSelection(p)); err != nil {
			slog.Warn("simulated vote failed", "poll_id", id, "error", err)
		}
	}
}

// randomSelection picks one option, or a random non-empty subset when the
// poll allows multiple choices.
func randomSelection(p poll.Poll) []int {
	n := len(p.Options())
	if !p.AllowMultiple() {
		return []int{rand.IntN(n)}
	}

	var sel []int
	for i := 0; i < n; i++ {
		if rand.IntN(2) == 0 {
			sel = append(sel, i)
		}
	}
	if len(sel) == 0 {
		sel = append(sel, rand.IntN(n))
	}
	return sel
}
