package quickpoll

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jpalmerr/quickpoll/poll"
)

// testLogger returns a logger that discards all output for clean test output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// freePort asks the kernel for an unused TCP port.
func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

// startAndWait runs qp.Start in the background and waits for the server to
// answer health checks. The returned channel yields Start's result.
func startAndWait(t *testing.T, ctx context.Context, qp *QuickPoll) <-chan error {
	t.Helper()

	done := make(chan error, 1)
	go func() {
		done <- qp.Start(ctx)
	}()

	url := fmt.Sprintf("http://127.0.0.1:%d/healthz", qp.Port())
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			return done
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("server did not become ready")
	return nil
}

// TestStart_BlocksUntilContextCancelled verifies that Start blocks until the
// provided context is cancelled.
func TestStart_BlocksUntilContextCancelled(t *testing.T) {
	qp, err := New(WithPort(freePort(t)), WithLogger(testLogger()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := startAndWait(t, ctx, qp)

	// verify Start is still blocking (channel should be empty)
	select {
	case err := <-done:
		t.Fatalf("Start() returned early with error: %v", err)
	default:
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not return after context cancellation")
	}
}

// TestStart_ReturnsImmediatelyIfContextAlreadyCancelled verifies that Start
// returns immediately if the context is already cancelled.
func TestStart_ReturnsImmediatelyIfContextAlreadyCancelled(t *testing.T) {
	qp, err := New(WithPort(freePort(t)), WithLogger(testLogger()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() {
		done <- qp.Start(ctx)
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Start() did not return immediately for cancelled context")
	}
}

func TestStart_PortInUse(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	defer ln.Close()

	qp, err := New(WithPort(ln.Addr().(*net.TCPAddr).Port), WithLogger(testLogger()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = qp.Start(ctx)
	if err == nil {
		t.Fatal("Start() expected error for port in use, got nil")
	}
	if !strings.Contains(err.Error(), "failed to start HTTP server") {
		t.Errorf("Start() error = %v, want it to mention the HTTP server", err)
	}
}

func TestStart_ServesDashboardWithTitle(t *testing.T) {
	qp, err := New(WithPort(freePort(t)), WithTitle("Team Lunch"), WithLogger(testLogger()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	startAndWait(t, ctx, qp)

	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/", qp.Port()))
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "Team Lunch") {
		t.Error("dashboard should contain the configured title")
	}
}

func TestWithVoteCallback_InvokedOnVote(t *testing.T) {
	var (
		mu     sync.Mutex
		events []poll.Event
	)
	got := make(chan struct{}, 10)

	qp, err := New(
		WithPort(freePort(t)),
		WithDemoPoll(),
		WithLogger(testLogger()),
		WithVoteCallback(func(ev poll.Event) {
			mu.Lock()
			events = append(events, ev)
			mu.Unlock()
			got <- struct{}{}
		}),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	startAndWait(t, ctx, qp)

	if _, err := qp.Store().RecordVote(poll.DemoPollID, []int{3}); err != nil {
		t.Fatalf("RecordVote() error = %v", err)
	}

	select {
	case <-got:
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for vote callback")
	}

	mu.Lock()
	defer mu.Unlock()

	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	ev := events[0]
	if ev.Kind != poll.EventVoted {
		t.Errorf("Kind = %q, want %q", ev.Kind, poll.EventVoted)
	}
	if ev.Poll.ID() != poll.DemoPollID {
		t.Errorf("Poll.ID() = %q, want %q", ev.Poll.ID(), poll.DemoPollID)
	}
	if ev.Poll.TotalVotes() != 81 {
		t.Errorf("Poll.TotalVotes() = %d, want 81", ev.Poll.TotalVotes())
	}
	if len(ev.Selection) != 1 || ev.Selection[0] != 3 {
		t.Errorf("Selection = %v, want [3]", ev.Selection)
	}
}

func TestWithVoteCallback_InvokedForEveryVoteInBurst(t *testing.T) {
	var calls atomic.Int64
	last := make(chan int, 1)

	qp, err := New(
		WithPort(freePort(t)),
		WithDemoPoll(),
		WithLogger(testLogger()),
		WithVoteCallback(func(ev poll.Event) {
			time.Sleep(time.Millisecond)
			select {
			case <-last:
			default:
			}
			last <- ev.Poll.TotalVotes()
			calls.Add(1)
		}),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	startAndWait(t, ctx, qp)

	const votes = 500
	for i := 0; i < votes; i++ {
		if _, err := qp.Store().RecordVote(poll.DemoPollID, []int{i % 4}); err != nil {
			t.Fatalf("RecordVote() error = %v", err)
		}
	}

	deadline := time.Now().Add(10 * time.Second)
	for calls.Load() < votes && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if got := calls.Load(); got != votes {
		t.Fatalf("callback calls = %d, want %d", got, votes)
	}
	// demo poll starts at 80 votes
	if total := <-last; total != 80+votes {
		t.Errorf("last callback saw TotalVotes() = %d, want %d", total, 80+votes)
	}
}

func TestWithVoteCallback_NotInvokedOnCreate(t *testing.T) {
	var calls int
	var mu sync.Mutex

	qp, err := New(
		WithPort(freePort(t)),
		WithLogger(testLogger()),
		WithVoteCallback(func(poll.Event) {
			mu.Lock()
			calls++
			mu.Unlock()
		}),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := startAndWait(t, ctx, qp)

	if _, err := qp.Store().CreatePoll("q", []string{"a", "b"}, false); err != nil {
		t.Fatalf("CreatePoll() error = %v", err)
	}

	// Start waits for the event consumer to exit before returning
	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	if calls != 0 {
		t.Errorf("callback calls = %d, want 0", calls)
	}
}

func TestWithVoteCallback_PanicRecovered(t *testing.T) {
	var buf bytes.Buffer
	var mu sync.Mutex
	logger := slog.New(slog.NewTextHandler(&lockedWriter{w: &buf, mu: &mu}, nil))

	second := make(chan struct{}, 10)

	qp, err := New(
		WithPort(freePort(t)),
		WithDemoPoll(),
		WithLogger(logger),
		WithVoteCallback(func(poll.Event) { panic("boom") }),
		WithVoteCallback(func(poll.Event) { second <- struct{}{} }),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	startAndWait(t, ctx, qp)

	if _, err := qp.Store().RecordVote(poll.DemoPollID, []int{0}); err != nil {
		t.Fatalf("RecordVote() error = %v", err)
	}

	select {
	case <-second:
	case <-time.After(5 * time.Second):
		t.Fatal("second callback was not invoked after the first panicked")
	}

	mu.Lock()
	defer mu.Unlock()
	out := buf.String()
	if !strings.Contains(out, "vote callback panicked") {
		t.Errorf("log output should record the panic, got %q", out)
	}
	if !strings.Contains(out, "correlation_id=") {
		t.Errorf("log output should carry a correlation id, got %q", out)
	}
}

// lockedWriter serializes writes so tests can read the buffer safely.
type lockedWriter struct {
	w  io.Writer
	mu *sync.Mutex
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
