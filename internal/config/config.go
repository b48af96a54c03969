// Package config defines process configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"time"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFile appends log records to a file when set; empty logs to stdout.
	LogFile string `koanf:"log_file"`

	// BotToken authenticates against the chat platform. Required.
	BotToken string `koanf:"bot_token"`

	// AppToken enables the socket-mode command surface. Required only for listen.
	AppToken string `koanf:"app_token"`

	// WorkoutChannel is the channel the activity log is ingested from. Required.
	WorkoutChannel string `koanf:"workout_channel"`

	// CaptainsChannel receives the weekly compliance report.
	CaptainsChannel string `koanf:"captains_channel"`

	// Timezone is the team-local zone used for weekly windows.
	Timezone string `koanf:"timezone"`

	// DataDir holds the activity log, snapshots and rendered charts.
	DataDir string `koanf:"data_dir"`

	// FetchDays bounds how far back one ingestion pass looks.
	FetchDays int `koanf:"fetch_days"`

	// PageSize caps messages per transport page.
	PageSize int `koanf:"page_size"`

	// PageDelaySeconds is the mandatory sleep between page fetches.
	PageDelaySeconds int `koanf:"page_delay_seconds"`

	// PostDelaySeconds is the mandatory sleep between outbound posts.
	PostDelaySeconds int `koanf:"post_delay_seconds"`

	// RulesVersion selects the marker-weight ruleset for the tracking period.
	RulesVersion string `koanf:"rules_version"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use and is
// currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:         "info",
		LogFile:          "",
		Timezone:         "America/New_York",
		DataDir:          ".",
		FetchDays:        3,
		PageSize:         100,
		PageDelaySeconds: 30,
		PostDelaySeconds: 4,
		RulesVersion:     "fall-2025",
	}
}

// Location resolves the configured team timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, wrapInvalid("timezone", err)
	}
	return loc, nil
}

// PageDelay returns the inter-page fetch delay as a duration.
func (c *Config) PageDelay() time.Duration {
	return time.Duration(c.PageDelaySeconds) * time.Second
}

// PostDelay returns the inter-post delay as a duration.
func (c *Config) PostDelay() time.Duration {
	return time.Duration(c.PostDelaySeconds) * time.Second
}
