package thermo

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

// Port is an open sensor board line together with its frame synchronizer.
//
// ReadNext must be called from one goroutine at a time. Write and WriteLine
// may be used concurrently with ReadNext. Close must not race an in-flight
// ReadNext; cancel the read first.
type Port struct {
	line   line
	syncer synchronizer
	stats  counters
	log    zerolog.Logger

	closeOnce sync.Once
	closed    atomic.Bool
}

// Open opens and configures the device named in cfg. On failure the error
// wraps ErrPortOpen and no descriptor is left open.
func Open(cfg Config) (*Port, error) {
	cfg = cfg.withDefaults()
	if cfg.Device == "" {
		return nil, fmt.Errorf("%w: no device", ErrPortOpen)
	}
	l, err := openLine(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrPortOpen, cfg.Device, err)
	}
	p := newPort(l, cfg)
	p.log.Debug().Int("baud", cfg.BaudRate).Dur("poll", cfg.PollInterval).Msg("port opened")
	return p, nil
}

func newPort(l line, cfg Config) *Port {
	cfg = cfg.withDefaults()
	p := &Port{
		line: l,
		log:  cfg.Logger.With().Str("device", cfg.Device).Logger(),
	}
	p.syncer.stats = &p.stats
	p.syncer.log = &p.log
	return p
}

// ReadNext reads until one record is decoded, the stream yields a frame that
// cannot be decoded, or ctx is done. It returns:
//
//   - (rec, true, nil) for a decoded record;
//   - (Record{}, false, nil) when a marker was not followed by a valid payload,
//     in which case the caller should simply call again;
//   - an error wrapping ErrDesync when a Locked read lost synchronization; the
//     Port stays usable and resumes scanning on the next call;
//   - an error wrapping ErrIO when the line failed; the Port must be reopened;
//   - ctx.Err() when ctx was cancelled. It is observed at least once per poll
//     interval.
func (p *Port) ReadNext(ctx context.Context) (Record, bool, error) {
	if p.closed.Load() {
		return Record{}, false, ErrClosed
	}
	return p.syncer.next(ctx, p.line)
}

// State reports the synchronizer state. Safe for concurrent use.
func (p *Port) State() SyncState {
	return p.syncer.current()
}

// Stats returns a snapshot of the synchronizer counters. Safe for concurrent use.
func (p *Port) Stats() Stats {
	return p.stats.snapshot()
}

// Write sends raw bytes to the board.
func (p *Port) Write(b []byte) (int, error) {
	if p.closed.Load() {
		return 0, ErrClosed
	}
	return p.line.Write(b)
}

// WriteLine writes a line (with specified newline) to the board.
func (p *Port) WriteLine(line string, newline string) error {
	_, err := p.Write([]byte(line + newline))
	return err
}

// Close releases the line. Safe to call multiple times; subsequent calls are no-ops.
func (p *Port) Close() error {
	var err error
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		err = p.line.Close()
		p.log.Debug().Msg("port closed")
	})
	return err
}
