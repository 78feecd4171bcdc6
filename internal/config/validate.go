// internal/config/validate.go
package config

import (
	"fmt"

	"github.com/rs/zerolog"
)

var supportedBaudRates = map[int]bool{
	9600:   true,
	19200:  true,
	38400:  true,
	57600:  true,
	115200: true,
	230400: true,
}

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
// Zero values are accepted and filled in by Normalize.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is empty")
	}
	if cfg.Device == "" {
		return fmt.Errorf("device is required")
	}
	if cfg.BaudRate != 0 && !supportedBaudRates[cfg.BaudRate] {
		return fmt.Errorf("baud_rate %d is not supported", cfg.BaudRate)
	}
	if cfg.PollIntervalMs != 0 && (cfg.PollIntervalMs < 10 || cfg.PollIntervalMs > 1000) {
		return fmt.Errorf("poll_interval_ms %d out of range [10, 1000]", cfg.PollIntervalMs)
	}
	if cfg.ReconnectDelayMs < 0 {
		return fmt.Errorf("reconnect_delay_ms must not be negative")
	}
	if cfg.LogLevel != "" {
		if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
			return fmt.Errorf("log_level: %w", err)
		}
	}
	return nil
}
