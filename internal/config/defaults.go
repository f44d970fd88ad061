package config

import "time"

// Default values for optional configuration parameters.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"

	DefaultDBPath = "ripbot.db"

	DefaultTimezone = "UTC"

	DefaultThrottleWindow = 15 * time.Second

	DefaultModerationEnabled        = true
	DefaultModerationMaxEmoji       = 24
	DefaultModerationMaxNonASCIIPct = 45.0
)
