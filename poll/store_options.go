package poll

import (
	"errors"
	"log/slog"
	"time"
)

// DefaultIDAttempts is how many ids [PollStore.CreatePoll] draws before
// giving up with [ErrIDExhausted].
const DefaultIDAttempts = 10

// storeConfig holds mutable state during PollStore construction.
type storeConfig struct {
	idAttempts int
	newID      func() string
	now        func() time.Time
	logger     *slog.Logger
}

// StoreOption configures a [PollStore] during construction.
//
// Built-in options: [WithIDAttempts], [WithIDGenerator], [WithClock],
// [WithStoreLogger].
type StoreOption func(*storeConfig) error

// WithIDAttempts bounds how many ids are drawn per created poll before
// creation fails with [ErrIDExhausted]. Defaults to 10.
//
// Returns an error if n is less than 1.
func WithIDAttempts(n int) StoreOption {
	return func(cfg *storeConfig) error {
		if n < 1 {
			return errors.New("id attempts must be at least 1")
		}
		cfg.idAttempts = n
		return nil
	}
}

// WithIDGenerator replaces [GenerateID] as the source of new poll ids.
//
// Returns an error if fn is nil.
func WithIDGenerator(fn func() string) StoreOption {
	return func(cfg *storeConfig) error {
		if fn == nil {
			return errors.New("id generator cannot be nil")
		}
		cfg.newID = fn
		return nil
	}
}

// WithClock sets the function used to stamp poll creation times.
//
// Returns an error if now is nil.
func WithClock(now func() time.Time) StoreOption {
	return func(cfg *storeConfig) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		cfg.now = now
		return nil
	}
}

// WithStoreLogger sets the logger for store events. Defaults to [slog.Default].
//
// Returns an error if the logger is nil.
func WithStoreLogger(logger *slog.Logger) StoreOption {
	return func(cfg *storeConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}
