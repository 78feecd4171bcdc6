//go:build linux

package thermo

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/stretchr/testify/require"
)

func openPTY(t *testing.T) (*os.File, *Port) {
	t.Helper()
	master, slave, err := pty.Open()
	require.NoError(t, err)
	t.Cleanup(func() { master.Close(); slave.Close() })

	port, err := Open(Config{Device: slave.Name()})
	require.NoError(t, err)
	t.Cleanup(func() { port.Close() })
	return master, port
}

func TestPort_ReadsFramesFromTTY(t *testing.T) {
	master, port := openPTY(t)

	stream := cat(
		[]byte("XX"),
		frameBytes('T', ',', 7, 23.5),
		frameBytes('H', ',', 3, 57),
	)
	_, err := master.Write(stream)
	require.NoError(t, err)

	require.Equal(t, Record{Kind: Temperature, Source: 7, Value: 23.5}, readRecord(t, port))
	require.Equal(t, Locked, port.State())
	require.Equal(t, Record{Kind: Humidity, Source: 3, Value: 57}, readRecord(t, port))
}

func TestPort_FrameWrittenInPieces(t *testing.T) {
	master, port := openPTY(t)

	_, err := master.Write(frameBytes('T', ',', 1, 20))
	require.NoError(t, err)
	readRecord(t, port)

	f := frameBytes('H', ',', 2, 40)
	go func() {
		for _, part := range [][]byte{f[:4], f[4:11], f[11:]} {
			master.Write(part)
			time.Sleep(10 * time.Millisecond)
		}
	}()
	require.Equal(t, Record{Kind: Humidity, Source: 2, Value: 40}, readRecord(t, port))
}

func TestPort_BinaryPayloadPassesRaw(t *testing.T) {
	master, port := openPTY(t)

	// Bytes a cooked tty would translate or swallow: CR, XON/XOFF, ^C.
	src := uint32(0x13110d03)
	_, err := master.Write(frameBytes('T', ',', src, 12.25))
	require.NoError(t, err)

	require.Equal(t, Record{Kind: Temperature, Source: src, Value: 12.25}, readRecord(t, port))
}

func TestPort_Killability(t *testing.T) {
	_, port := openPTY(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, _, err := port.ReadNext(ctx)
		done <- err
	}()

	// Give the goroutine a chance to block
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * DefaultPollInterval):
		t.Fatal("timeout waiting for ReadNext to return after cancel")
	}
}

func TestPort_ErrorPropagation(t *testing.T) {
	master, port := openPTY(t)

	// Simulate device disconnect by closing master
	require.NoError(t, master.Close())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, ok, err := port.ReadNext(ctx)
	require.ErrorIs(t, err, ErrIO)
	require.False(t, ok)
}

func TestPort_WriteLine(t *testing.T) {
	master, port := openPTY(t)

	line := "tmu_bootloader"
	newline := "\r\n"
	require.NoError(t, port.WriteLine(line, newline))

	buf := make([]byte, len(line)+len(newline))
	n, err := master.Read(buf)
	require.NoError(t, err)
	require.Equal(t, len(line)+len(newline), n)
	require.Equal(t, line+newline, string(buf))
}

func TestOpen_MissingDevice(t *testing.T) {
	_, err := Open(Config{Device: filepath.Join(t.TempDir(), "ttyNONE")})
	require.ErrorIs(t, err, ErrPortOpen)

	_, err = Open(Config{})
	require.ErrorIs(t, err, ErrPortOpen)
}

func TestOpen_NotATTY(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "plain")
	require.NoError(t, err)
	f.Close()

	_, err = Open(Config{Device: f.Name()})
	require.ErrorIs(t, err, ErrPortOpen)
	require.ErrorContains(t, err, "get termios")
}
