package config

import (
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/jpalmerr/quickpoll"
	"github.com/jpalmerr/quickpoll/poll"
)

// testLogger returns a logger that discards all output for clean test output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// build parses yaml and constructs a QuickPoll from it.
func build(t *testing.T, yaml string) *quickpoll.QuickPoll {
	t.Helper()

	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	qp, err := quickpoll.New(append(BuildOptions(cfg), quickpoll.WithLogger(testLogger()))...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return qp
}

func TestBuildOptions_Defaults(t *testing.T) {
	qp := build(t, ``)

	if qp.Port() != 8080 {
		t.Errorf("Port() = %d, want 8080", qp.Port())
	}
	if qp.Store().Len() != 0 {
		t.Errorf("Store().Len() = %d, want 0", qp.Store().Len())
	}
}

func TestBuildOptions_Port(t *testing.T) {
	qp := build(t, `port: 9393`)

	if qp.Port() != 9393 {
		t.Errorf("Port() = %d, want 9393", qp.Port())
	}
}

func TestBuildOptions_Demo(t *testing.T) {
	qp := build(t, `demo: true`)

	p, ok := qp.Store().GetPoll(poll.DemoPollID)
	if !ok {
		t.Fatalf("GetPoll(%q) not found", poll.DemoPollID)
	}
	if !reflect.DeepEqual(p.Votes(), []int{25, 30, 15, 10}) {
		t.Errorf("Votes() = %v, want [25 30 15 10]", p.Votes())
	}
}

func TestBuildOptions_SeedPolls(t *testing.T) {
	qp := build(t, `
demo: true
polls:
  - id: lunch001
    question: Where should we eat?
    options: [Tacos, Ramen, Salad]
    allow_multiple: true
    votes: [3, 4, 0]
  - id: COFFEE01
    question: Coffee?
    options: ["Yes", "No"]
`)

	if qp.Store().Len() != 3 {
		t.Fatalf("Store().Len() = %d, want 3", qp.Store().Len())
	}

	lunch, ok := qp.Store().GetPoll("LUNCH001")
	if !ok {
		t.Fatal("GetPoll(LUNCH001) not found")
	}
	if lunch.Question() != "Where should we eat?" {
		t.Errorf("Question() = %q", lunch.Question())
	}
	if !lunch.AllowMultiple() {
		t.Error("AllowMultiple() = false, want true")
	}
	if lunch.TotalVotes() != 7 {
		t.Errorf("TotalVotes() = %d, want 7", lunch.TotalVotes())
	}

	coffee, ok := qp.Store().GetPoll("COFFEE01")
	if !ok {
		t.Fatal("GetPoll(COFFEE01) not found")
	}
	if !reflect.DeepEqual(coffee.Votes(), []int{0, 0}) {
		t.Errorf("Votes() = %v, want [0 0]", coffee.Votes())
	}
}

func TestBuildSeedPoll_CopiesSlices(t *testing.T) {
	pc := PollConfig{
		ID:       "ABC",
		Question: "q",
		Options:  []string{"a", "b"},
		Votes:    []int{1, 2},
	}

	sp := buildSeedPoll(pc)
	pc.Options[0] = "changed"
	pc.Votes[0] = 99

	if sp.Options[0] != "a" {
		t.Errorf("Options[0] = %q, want %q", sp.Options[0], "a")
	}
	if sp.Votes[0] != 1 {
		t.Errorf("Votes[0] = %d, want 1", sp.Votes[0])
	}
}

func TestBuildSeedPoll_NoVotes(t *testing.T) {
	sp := buildSeedPoll(PollConfig{ID: "ABC", Question: "q", Options: []string{"a", "b"}})

	if sp.Votes != nil {
		t.Errorf("Votes = %v, want nil", sp.Votes)
	}
}
