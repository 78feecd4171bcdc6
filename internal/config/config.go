// internal/config/config.go
package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the thermo-client configuration file.
type Config struct {
	Device           string `yaml:"device"`
	BaudRate         int    `yaml:"baud_rate"`
	PollIntervalMs   int    `yaml:"poll_interval_ms"`
	ReconnectDelayMs int    `yaml:"reconnect_delay_ms"`
	LogLevel         string `yaml:"log_level"`
	CommandNewline   string `yaml:"command_newline"`
}

// Load reads and decodes a YAML config file. Unknown keys are rejected.
// The result is neither validated nor normalized.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

func (c *Config) ReconnectDelay() time.Duration {
	return time.Duration(c.ReconnectDelayMs) * time.Millisecond
}
