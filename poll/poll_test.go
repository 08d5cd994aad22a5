package poll

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercent(t *testing.T) {
	tests := []struct {
		votes, total, want int
	}{
		{0, 0, 0},
		{5, 0, 0},
		{1, 2, 50},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13}, // 12.5 rounds up
		{25, 80, 31},
		{30, 80, 38},
		{80, 80, 100},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Percent(tt.votes, tt.total), "Percent(%d, %d)", tt.votes, tt.total)
	}
}

func TestVoteLabel(t *testing.T) {
	assert.Equal(t, "0 votes", VoteLabel(0))
	assert.Equal(t, "1 vote", VoteLabel(1))
	assert.Equal(t, "80 votes", VoteLabel(80))
}

func TestPoll_ResultsForDemo(t *testing.T) {
	ps := newTestStore(t)
	p, err := ps.Seed(DemoPoll())
	require.NoError(t, err)

	results := p.Results()
	require.Len(t, results, 4)

	want := []OptionResult{
		{Index: 0, Label: "JavaScript", Votes: 25, Percent: 31},
		{Index: 1, Label: "Python", Votes: 30, Percent: 38},
		{Index: 2, Label: "Java", Votes: 15, Percent: 19},
		{Index: 3, Label: "Go", Votes: 10, Percent: 13},
	}
	assert.Equal(t, want, results)
}

func TestPoll_ResultsWithNoVotes(t *testing.T) {
	ps := newTestStore(t)
	p, err := ps.CreatePoll("q", []string{"a", "b"}, false)
	require.NoError(t, err)

	for _, r := range p.Results() {
		assert.Zero(t, r.Percent)
		assert.Zero(t, r.Votes)
	}
}

func TestPoll_GettersReturnCopies(t *testing.T) {
	ps := newTestStore(t)
	p, err := ps.CreatePoll("q", []string{"a", "b"}, false)
	require.NoError(t, err)

	opts := p.Options()
	opts[0] = "changed"
	votes := p.Votes()
	votes[0] = 42

	assert.Equal(t, "a", p.Options()[0])
	assert.Zero(t, p.Votes()[0])
}

func TestPoll_ShareText(t *testing.T) {
	ps := newTestStore(t, WithIDGenerator(func() string { return "SHARE123" }))
	p, err := ps.CreatePoll("Pick a color", []string{"Red", "Blue"}, false)
	require.NoError(t, err)

	assert.Equal(t, `Check out the results of this poll: "Pick a color" - Poll ID: SHARE123`, p.ShareText())
}

func TestGenerateID(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		id := GenerateID()
		require.Len(t, id, IDLength)
		for _, r := range id {
			assert.True(t, strings.ContainsRune(idAlphabet, r), "unexpected rune %q in %s", r, id)
		}
		seen[id] = struct{}{}
	}
	// 36^8 ids: 200 draws colliding would point at a broken generator
	assert.Greater(t, len(seen), 190)
}

func TestNormalizeID(t *testing.T) {
	assert.Equal(t, "ABCD1234", NormalizeID("  abcd1234\n"))
	assert.Equal(t, "", NormalizeID("   "))
}
