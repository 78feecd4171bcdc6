package thermo

// line is an open, configured serial line.
//
// waitRead waits at most one poll interval for input and reads whatever is
// available into p. A timeout is reported as (0, nil), never as an error.
type line interface {
	waitRead(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
}
