// Package config manages application configuration from environment
// variables, config.yaml, and default values.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrConfiguration marks any failure to load or validate configuration.
var ErrConfiguration = errors.New("configuration error")

// Config defines the application configuration. Values can be set via
// environment variables prefixed with BOT_ (e.g. BOT_TWITCH_ACCESS_TOKEN) or
// through config.yaml.
type Config struct {
	Log        LogConfig        `mapstructure:"log"`
	Twitch     TwitchConfig     `mapstructure:"twitch"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Throttle   ThrottleConfig   `mapstructure:"throttle"`
	Moderation ModerationConfig `mapstructure:"moderation"`
	OpGG       OpGGConfig       `mapstructure:"opgg"`

	// Timezone is the IANA zone timestamps are rendered in.
	Timezone string `mapstructure:"timezone" validate:"required"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level  string `mapstructure:"level"  validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json text"`
}

// TwitchConfig carries the chat identity and Helix credentials.
type TwitchConfig struct {
	BotLogin      string `mapstructure:"bot_login"      validate:"required"`
	BotUserID     string `mapstructure:"bot_user_id"    validate:"required"`
	Channel       string `mapstructure:"channel"        validate:"required"`
	BroadcasterID string `mapstructure:"broadcaster_id" validate:"required"`
	ClientID      string `mapstructure:"client_id"      validate:"required"`
	ClientSecret  string `mapstructure:"client_secret"  validate:"required"`
	AccessToken   string `mapstructure:"access_token"   validate:"required"`
	RefreshToken  string `mapstructure:"refresh_token"  validate:"required"`
}

// DatabaseConfig points at the SQLite file.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// ThrottleConfig controls per-rule reply suppression.
type ThrottleConfig struct {
	Window time.Duration `mapstructure:"window" validate:"min=0"`
}

// ModerationConfig controls the spam heuristic thresholds.
type ModerationConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	MaxEmoji       int     `mapstructure:"max_emoji"         validate:"min=1"`
	MaxNonASCIIPct float64 `mapstructure:"max_non_ascii_pct" validate:"min=1,max=100"`
}

// OpGGConfig points at the op.gg API. BaseURL is overridable for tests.
type OpGGConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
}

// Validate checks the complete configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("%w: unknown timezone %q", ErrConfiguration, c.Timezone)
	}
	return nil
}

// Location returns the configured timezone. Validate must have passed.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
