//go:build !linux

package thermo

import (
	"fmt"

	"go.bug.st/serial"
)

// portLine is the portable line backend. The read timeout set on the port
// plays the role of the bounded wait.
type portLine struct {
	port serial.Port
}

func openLine(cfg Config) (line, error) {
	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(cfg.Device, mode)
	if err != nil {
		return nil, fmt.Errorf("open failed: %w", err)
	}
	if err := port.SetReadTimeout(cfg.PollInterval); err != nil {
		port.Close()
		return nil, fmt.Errorf("set read timeout: %w", err)
	}
	if err := port.ResetInputBuffer(); err != nil {
		port.Close()
		return nil, fmt.Errorf("flush input: %w", err)
	}
	return &portLine{port: port}, nil
}

func (l *portLine) waitRead(p []byte) (int, error) {
	return l.port.Read(p)
}

func (l *portLine) Write(p []byte) (int, error) {
	return l.port.Write(p)
}

func (l *portLine) Close() error {
	return l.port.Close()
}
