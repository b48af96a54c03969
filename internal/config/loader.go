package config

import (
	"context"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New(ctx))
//  2. file (YAML) if TRACKER_CONFIG is set
//  3. env (prefix TRACKER_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New(ctx)

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("TRACKER_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, wrapLoad(err)
		}
	}

	// Environment variables: TRACKER_BOT_TOKEN, TRACKER_WORKOUT_CHANNEL, ...
	// Map env keys like TRACKER_FETCH_DAYS -> fetch_days (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("TRACKER_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "tracker_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, wrapLoad(err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, wrapLoad(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the required fields. A missing credential or channel
// identifier is fatal at startup.
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return missing("bot_token")
	}
	if c.WorkoutChannel == "" {
		return missing("workout_channel")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}
