package thermo

import (
	"context"
	"fmt"
)

// pollRead waits for at least one byte, checking ctx between bounded waits.
// It never blocks longer than one wait interval without observing ctx.
func pollRead(ctx context.Context, l line, p []byte) (int, error) {
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		n, err := l.waitRead(p)
		if err != nil {
			return n, fmt.Errorf("%w: %w", ErrIO, err)
		}
		if n > 0 {
			return n, nil
		}
	}
}

// readOnce performs a single bounded wait and read. It returns fewer than
// len(p) bytes, possibly zero, when the line goes quiet.
func readOnce(ctx context.Context, l line, p []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	n, err := l.waitRead(p)
	if err != nil {
		return n, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return n, nil
}

// readFull accumulates reads until p is full, the line fails or ctx is done.
func readFull(ctx context.Context, l line, p []byte) (int, error) {
	got := 0
	for got < len(p) {
		n, err := pollRead(ctx, l, p[got:])
		got += n
		if err != nil {
			return got, err
		}
	}
	return got, nil
}
