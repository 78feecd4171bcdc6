package thermo

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

// SyncState is the frame synchronizer state of a Port.
type SyncState int32

const (
	// Scanning searches the stream for the marker one byte at a time.
	Scanning SyncState = iota
	// Locked reads whole frames back to back until one fails to verify.
	Locked
)

func (s SyncState) String() string {
	switch s {
	case Scanning:
		return "scanning"
	case Locked:
		return "locked"
	default:
		return fmt.Sprintf("SyncState(%d)", int32(s))
	}
}

// synchronizer locates frames in the byte stream of one line. It is not safe
// for concurrent use; only state may be read from other goroutines.
type synchronizer struct {
	state atomic.Int32
	match int // marker bytes matched so far while scanning

	buf [FrameSize]byte

	// Bytes read from the line but not yet scanned. A rejected payload or
	// frame is rescanned instead of dropped.
	carry   [FrameSize]byte
	pending []byte

	stats *counters
	log   *zerolog.Logger
}

func (s *synchronizer) current() SyncState {
	return SyncState(s.state.Load())
}

func (s *synchronizer) setState(st SyncState) {
	if s.current() == st {
		return
	}
	s.state.Store(int32(st))
	s.log.Debug().Stringer("state", st).Msg("sync state changed")
}

func (s *synchronizer) next(ctx context.Context, l line) (Record, bool, error) {
	if s.current() == Locked {
		return s.readLocked(ctx, l)
	}
	return s.scan(ctx, l)
}

// scan consumes bytes until the marker has been seen, then decodes the
// payload that follows from a single bounded read. A short or malformed
// payload yields no record and leaves the synchronizer scanning.
func (s *synchronizer) scan(ctx context.Context, l line) (Record, bool, error) {
	var one [1]byte
	for s.match < MarkerSize {
		c, err := s.nextByte(ctx, l, one[:])
		if err != nil {
			return Record{}, false, err
		}
		switch {
		case c == Marker[s.match]:
			s.match++
		case c == Marker[0]:
			// The failed partial match is dropped but c opens a new one.
			s.stats.discarded.Add(uint64(s.match))
			s.match = 1
		default:
			s.stats.discarded.Add(uint64(s.match) + 1)
			s.match = 0
		}
	}
	s.match = 0

	payload := s.buf[MarkerSize:FrameSize]
	n := copy(payload, s.pending)
	s.pending = s.pending[n:]
	if n < PayloadSize {
		m, err := readOnce(ctx, l, payload[n:])
		n += m
		if err != nil {
			s.pushBack(payload[:n])
			return Record{}, false, err
		}
	}

	rec, err := decodePayload(payload[:n])
	if err != nil {
		s.stats.incomplete.Inc()
		s.log.Debug().Err(err).Int("bytes", n).Msg("incomplete frame after marker")
		s.pushBack(payload[:n])
		return Record{}, false, nil
	}
	s.stats.records.Inc()
	s.setState(Locked)
	return rec, true, nil
}

// readLocked reads one whole frame and verifies the full marker before
// decoding it. Any failure drops back to scanning.
func (s *synchronizer) readLocked(ctx context.Context, l line) (Record, bool, error) {
	frame := s.buf[:]
	n, err := readFull(ctx, l, frame)
	if err != nil {
		if n > 0 {
			s.pushBack(frame[:n])
			s.setState(Scanning)
		}
		return Record{}, false, err
	}

	rec, err := DecodeFrame(frame)
	if err != nil {
		s.stats.resyncs.Inc()
		s.log.Warn().Err(err).Msg("frame synchronization lost")
		s.pushBack(frame[1:])
		s.setState(Scanning)
		return Record{}, false, fmt.Errorf("%w: %w", ErrDesync, err)
	}
	s.stats.records.Inc()
	return rec, true, nil
}

// nextByte returns the next unscanned byte, pending bytes first.
func (s *synchronizer) nextByte(ctx context.Context, l line, one []byte) (byte, error) {
	if len(s.pending) > 0 {
		c := s.pending[0]
		s.pending = s.pending[1:]
		return c, nil
	}
	if _, err := pollRead(ctx, l, one); err != nil {
		return 0, err
	}
	return one[0], nil
}

// pushBack queues b to be scanned before any new input. It is only called
// once pending has been drained: a marker match consumes at most
// FrameSize-1-MarkerSize carried bytes and the payload takes the rest.
func (s *synchronizer) pushBack(b []byte) {
	n := copy(s.carry[:], b)
	s.pending = s.carry[:n]
}
