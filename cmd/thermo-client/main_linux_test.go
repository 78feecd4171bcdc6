//go:build linux

package main

import (
	"bytes"
	"context"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	thermo "github.com/luhtfiimanal/go-thermo-client"
	"github.com/luhtfiimanal/go-thermo-client/internal/config"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestClient_PrintsRecordsAndForwardsCommands(t *testing.T) {
	master, slave, err := pty.Open()
	require.NoError(t, err)
	t.Cleanup(func() { master.Close(); slave.Close() })

	cfg := &config.Config{Device: slave.Name()}
	require.NoError(t, config.Validate(cfg))
	config.Normalize(cfg)

	commands := make(chan string)
	out := &syncBuffer{}
	c := &client{cfg: cfg, log: zerolog.Nop(), commands: commands, out: out}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.run(ctx)
		close(done)
	}()

	// Wait for the port to be opened before writing, so the input flush
	// on open does not eat the frame.
	commands <- "ping"
	buf := make([]byte, 5)
	_, err = master.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "ping\n", string(buf))

	frame := thermo.EncodeFrame(thermo.Record{Kind: thermo.Temperature, Source: 7, Value: 23.5})
	_, err = master.Write(frame)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Received: Type: T, Source: 0x00000007, Value: 23.50 C")
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("client did not stop after cancel")
	}
}

func TestClient_KeepsReadingThroughDesync(t *testing.T) {
	master, slave, err := pty.Open()
	require.NoError(t, err)
	t.Cleanup(func() { master.Close(); slave.Close() })

	port, err := thermo.Open(thermo.Config{Device: slave.Name()})
	require.NoError(t, err)
	t.Cleanup(func() { port.Close() })

	cfg := &config.Config{Device: slave.Name()}
	config.Normalize(cfg)
	out := &syncBuffer{}
	c := &client{cfg: cfg, log: zerolog.Nop(), commands: make(chan string), out: out}

	bad := thermo.EncodeFrame(thermo.Record{Kind: thermo.Humidity, Source: 2, Value: float32(math.Pi)})
	bad[0] = 'K'
	var stream []byte
	stream = append(stream, thermo.EncodeFrame(thermo.Record{Kind: thermo.Humidity, Source: 1, Value: 40})...)
	stream = append(stream, bad...)
	stream = append(stream, thermo.EncodeFrame(thermo.Record{Kind: thermo.Humidity, Source: 3, Value: 41})...)
	_, err = master.Write(stream)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- c.session(ctx, port) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Source: 0x00000003")
	}, time.Second, 10*time.Millisecond)
	require.Equal(t, uint64(1), port.Stats().Resyncs)

	cancel()
	require.NoError(t, <-errc)
}
