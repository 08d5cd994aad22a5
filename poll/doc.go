// Package poll implements the poll lifecycle and voting state machine.
//
// A [PollStore] owns every poll and its tallies; a [Session] tracks the poll
// one user is looking at and what they have voted. Presentation code (the
// HTTP server in this module, or any other front end) drives a Session and
// renders the [Poll] snapshots it returns.
//
//	ps, _ := poll.NewPollStore()
//	sess := poll.NewSession(ps)
//
//	p, err := sess.Create("Pick a color", []string{"Red", "Blue"}, false)
//	if err != nil {
//	    // *poll.ValidationError: show err to the user
//	}
//
//	p, err = sess.Vote([]int{0})
//	for _, r := range p.Results() {
//	    fmt.Printf("%s %d%% (%s)\n", r.Label, r.Percent, poll.VoteLabel(r.Votes))
//	}
//
// # Errors
//
// Operations return typed errors, inspected with [errors.As]:
//
//   - [*ValidationError]: bad input, recoverable by correcting it
//   - [*NotFoundError]: unknown poll id
//   - [*InvalidStateError]: an operation the session's state does not allow
//
// and [ErrIDExhausted], inspected with [errors.Is], when id generation keeps
// colliding. No error leaves a store or session unusable.
//
// # Identifiers
//
// Poll ids are 8 characters from A-Z and 0-9. Stores match ids exactly;
// [NormalizeID] trims and uppercases user input.
package poll
