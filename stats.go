package thermo

import "go.uber.org/atomic"

// Stats is a snapshot of a Port's synchronizer counters.
type Stats struct {
	Records    uint64 // records decoded
	Resyncs    uint64 // Locked reads that lost synchronization
	Incomplete uint64 // marker matches not followed by a valid payload
	Discarded  uint64 // bytes skipped while scanning for a marker
}

// counters are written by the reading goroutine and may be read from any other.
type counters struct {
	records    atomic.Uint64
	resyncs    atomic.Uint64
	incomplete atomic.Uint64
	discarded  atomic.Uint64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Records:    c.records.Load(),
		Resyncs:    c.resyncs.Load(),
		Incomplete: c.incomplete.Load(),
		Discarded:  c.discarded.Load(),
	}
}
