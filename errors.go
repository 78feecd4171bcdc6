package thermo

import "errors"

var (
	// ErrPortOpen reports that the device could not be opened or configured.
	// No Port is returned alongside it.
	ErrPortOpen = errors.New("thermo: port open failed")

	// ErrIO reports a read, poll or hangup failure. The Port must be closed
	// and reopened.
	ErrIO = errors.New("thermo: i/o failure")

	// ErrDesync reports that a Locked read did not find a valid frame. The
	// Port has fallen back to scanning and remains usable.
	ErrDesync = errors.New("thermo: frame synchronization lost")

	// ErrClosed is returned by operations on a closed Port.
	ErrClosed = errors.New("thermo: port closed")

	errIncomplete  = errors.New("incomplete frame")
	errBadSep      = errors.New("bad separator")
	errUnknownKind = errors.New("unknown record kind")
	errBadMarker   = errors.New("bad marker")
)
