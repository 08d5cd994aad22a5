package config

import (
	"github.com/jpalmerr/quickpoll"
	"github.com/jpalmerr/quickpoll/poll"
)

// BuildOptions converts parsed configuration into SDK options for
// [quickpoll.New].
//
// The demo poll, when enabled, is seeded before the configured polls. The
// caller appends its own options (such as a logger) to the result.
func BuildOptions(cfg *Config) []quickpoll.Option {
	opts := []quickpoll.Option{
		quickpoll.WithPort(cfg.Port),
		quickpoll.WithIDAttempts(cfg.IDAttempts),
	}

	if cfg.Title != "" {
		opts = append(opts, quickpoll.WithTitle(cfg.Title))
	}
	if cfg.SessionCookie != "" {
		opts = append(opts, quickpoll.WithSessionCookie(cfg.SessionCookie))
	}
	if cfg.Demo {
		opts = append(opts, quickpoll.WithDemoPoll())
	}

	for _, pc := range cfg.Polls {
		opts = append(opts, quickpoll.WithSeedPoll(buildSeedPoll(pc)))
	}

	return opts
}

// buildSeedPoll converts a single PollConfig to a seed poll.
func buildSeedPoll(pc PollConfig) poll.SeedPoll {
	sp := poll.SeedPoll{
		ID:            pc.ID,
		Question:      pc.Question,
		Options:       append([]string(nil), pc.Options...),
		AllowMultiple: pc.AllowMultiple,
	}
	if len(pc.Votes) > 0 {
		sp.Votes = append([]int(nil), pc.Votes...)
	}
	return sp
}
