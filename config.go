package thermo

import (
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultBaudRate is the rate the sensor board transmits at.
	DefaultBaudRate = 115200
	// DefaultPollInterval bounds every wait on the line, and with it the
	// latency of cancellation.
	DefaultPollInterval = 100 * time.Millisecond
)

// Config holds parameters for opening a sensor board port.
// Zero values are replaced by defaults.
type Config struct {
	Device       string
	BaudRate     int
	PollInterval time.Duration
	Logger       *zerolog.Logger // nil disables logging
}

func (c Config) withDefaults() Config {
	if c.BaudRate == 0 {
		c.BaudRate = DefaultBaudRate
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.Logger == nil {
		nop := zerolog.Nop()
		c.Logger = &nop
	}
	return c
}
