package poll

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize/english"

	"github.com/jpalmerr/quickpoll/internal/store"
)

const (
	// MinOptions is the fewest options a poll may have.
	MinOptions = 2

	// MaxOptions is the most options a poll may have.
	MaxOptions = 6
)

// Poll is a snapshot of a poll and its tallies.
//
// Poll values are immutable. The id, question, options and choice mode never
// change for the lifetime of a poll; the tallies in a snapshot reflect the
// moment it was taken. Fetch a fresh snapshot with [PollStore.GetPoll] or
// [Session.CurrentPoll] to see later votes. Getters return copies of slices.
type Poll struct {
	id            string
	question      string
	options       []string
	votes         []int
	allowMultiple bool
	totalVotes    int
	created       time.Time
}

// ID returns the poll's identifier.
func (p Poll) ID() string {
	return p.id
}

// Question returns the poll's question text.
func (p Poll) Question() string {
	return p.question
}

// Options returns a copy of the option labels, in index order.
func (p Poll) Options() []string {
	return append([]string(nil), p.options...)
}

// Votes returns a copy of the per-option vote counts, parallel to [Poll.Options].
func (p Poll) Votes() []int {
	return append([]int(nil), p.votes...)
}

// AllowMultiple reports whether a voter may choose more than one option.
func (p Poll) AllowMultiple() bool {
	return p.allowMultiple
}

// TotalVotes returns the sum of all option counts.
func (p Poll) TotalVotes() int {
	return p.totalVotes
}

// Created returns the creation time.
func (p Poll) Created() time.Time {
	return p.created
}

// IsZero reports whether p is the zero Poll, as returned on a failed lookup.
func (p Poll) IsZero() bool {
	return p.id == ""
}

// OptionResult is one row of a results chart.
type OptionResult struct {
	Index   int
	Label   string
	Votes   int
	Percent int
}

// Results returns one [OptionResult] per option, in index order.
func (p Poll) Results() []OptionResult {
	results := make([]OptionResult, len(p.options))
	for i, label := range p.options {
		results[i] = OptionResult{
			Index:   i,
			Label:   label,
			Votes:   p.votes[i],
			Percent: Percent(p.votes[i], p.totalVotes),
		}
	}
	return results
}

// ShareText returns the message offered when sharing a poll's results.
func (p Poll) ShareText() string {
	return fmt.Sprintf(`Check out the results of this poll: "%s" - Poll ID: %s`, p.question, p.id)
}

// Percent returns votes as a whole percentage of total, rounded half away
// from zero. Returns 0 when total is zero.
func Percent(votes, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(votes) / float64(total) * 100))
}

// VoteLabel formats a vote count for display: "0 votes", "1 vote", "2 votes".
func VoteLabel(n int) string {
	return english.Plural(n, "vote", "")
}

func pollFromRecord(rec store.PollRecord) Poll {
	return Poll{
		id:            rec.ID,
		question:      rec.Question,
		options:       rec.Options,
		votes:         rec.Votes,
		allowMultiple: rec.AllowMultiple,
		totalVotes:    rec.TotalVotes,
		created:       rec.Created,
	}
}
