// internal/config/normalize.go
package config

// Normalize fills in defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.BaudRate == 0 {
		cfg.BaudRate = 115200
	}
	if cfg.PollIntervalMs == 0 {
		cfg.PollIntervalMs = 100
	}
	if cfg.ReconnectDelayMs == 0 {
		cfg.ReconnectDelayMs = 1000
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.CommandNewline == "" {
		cfg.CommandNewline = "\n"
	}
}
