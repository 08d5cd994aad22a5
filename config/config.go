// Package config provides YAML configuration parsing for QuickPoll.
//
// This package enables running QuickPoll as a standalone binary with a
// configuration file, as an alternative to the programmatic SDK approach.
//
// Example configuration:
//
//	title: ${TEAM_NAME:-Team} Polls
//	port: 8080
//	demo: true
//
//	polls:
//	  - id: LUNCH001
//	    question: Where should we eat?
//	    options: [Tacos, Ramen, Salad]
//	    votes: [3, 4, 0]
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jpalmerr/quickpoll/poll"
)

const (
	defaultPort          = 8080
	defaultSessionCookie = "qp_session"

	// maxIDAttempts keeps a misconfigured retry bound from spinning.
	maxIDAttempts = 1000
)

// Config is the root configuration structure for QuickPoll.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Title is the page title. Defaults to "QuickPoll" if not set.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	Title string `yaml:"title"`

	// Port is the HTTP server port. Defaults to 8080.
	Port int `yaml:"port"`

	// IDAttempts bounds id re-rolls when creating a poll. Defaults to 10.
	IDAttempts int `yaml:"id_attempts"`

	// SessionCookie names the browser session cookie. Defaults to "qp_session".
	SessionCookie string `yaml:"session_cookie"`

	// Demo seeds the DEMO123 sample poll when true.
	Demo bool `yaml:"demo"`

	// Polls are seeded into the store at startup.
	Polls []PollConfig `yaml:"polls"`
}

// PollConfig defines a poll seeded at startup.
type PollConfig struct {
	// ID is the poll id users join with. Case-insensitive; stored uppercase.
	ID string `yaml:"id"`

	// Question is the text shown above the options.
	Question string `yaml:"question"`

	// Options are the answer labels, 2 to 6 of them.
	Options []string `yaml:"options"`

	// AllowMultiple lets a voter choose more than one option.
	AllowMultiple bool `yaml:"allow_multiple"`

	// Votes are optional starting tallies, one per option.
	Votes []int `yaml:"votes"`
}

// seedIDPattern matches ids a seeded poll may use once normalised.
var seedIDPattern = regexp.MustCompile(`^[A-Z0-9]+$`)

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		// already have an error, skip processing
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Returns an error if the file cannot be read, parsed or validated.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in the title. Defaults are applied for
// Port (8080), IDAttempts (10) and SessionCookie ("qp_session"). Seed poll
// ids are normalised to uppercase.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.IDAttempts == 0 {
		cfg.IDAttempts = poll.DefaultIDAttempts
	}
	if cfg.SessionCookie == "" {
		cfg.SessionCookie = defaultSessionCookie
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	title, err := expandEnvVars(c.Title)
	if err != nil {
		return fmt.Errorf("title: %w", err)
	}
	c.Title = title

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}

	if c.IDAttempts < 1 || c.IDAttempts > maxIDAttempts {
		return fmt.Errorf("id_attempts must be between 1 and %d, got %d", maxIDAttempts, c.IDAttempts)
	}

	if strings.ContainsAny(c.SessionCookie, " \t;,=\"") {
		return fmt.Errorf("session_cookie %q contains characters not allowed in a cookie name", c.SessionCookie)
	}

	seen := make(map[string]int, len(c.Polls)+1)
	if c.Demo {
		seen[poll.DemoPollID] = -1
	}

	for i := range c.Polls {
		p := &c.Polls[i]

		p.ID = poll.NormalizeID(p.ID)
		if p.ID == "" {
			return fmt.Errorf("polls[%d]: id is required", i)
		}
		if !seedIDPattern.MatchString(p.ID) {
			return fmt.Errorf("polls[%d] (%s): id must use only letters and digits", i, p.ID)
		}
		if prev, exists := seen[p.ID]; exists {
			if prev < 0 {
				return fmt.Errorf("polls[%d] (%s): id is reserved for the demo poll", i, p.ID)
			}
			return fmt.Errorf("polls[%d] (%s): duplicate id, already used by polls[%d]", i, p.ID, prev)
		}
		seen[p.ID] = i

		if strings.TrimSpace(p.Question) == "" {
			return fmt.Errorf("polls[%d] (%s): question is required", i, p.ID)
		}

		if len(p.Options) < poll.MinOptions || len(p.Options) > poll.MaxOptions {
			return fmt.Errorf("polls[%d] (%s): must have between %d and %d options, got %d",
				i, p.ID, poll.MinOptions, poll.MaxOptions, len(p.Options))
		}
		for j, opt := range p.Options {
			if strings.TrimSpace(opt) == "" {
				return fmt.Errorf("polls[%d] (%s): options[%d] is empty", i, p.ID, j)
			}
		}

		if len(p.Votes) > 0 {
			if len(p.Votes) != len(p.Options) {
				return fmt.Errorf("polls[%d] (%s): votes must have one entry per option (%d), got %d",
					i, p.ID, len(p.Options), len(p.Votes))
			}
			for j, v := range p.Votes {
				if v < 0 {
					return fmt.Errorf("polls[%d] (%s): votes[%d] cannot be negative, got %d", i, p.ID, j, v)
				}
			}
		}
	}

	return nil
}
