// Package thermo reads temperature and humidity records from a serial-attached
// sensor board on Linux.
//
// The board streams fixed 16-byte frames:
//
//	"CHRIS," | kind 'T' or 'H' | ',' | uint32 source | float32 value
//
// with both numbers little-endian. A Port locates frames in the raw byte
// stream, decodes them, and recovers when the stream is torn or corrupted:
//
//   - Scanning: the marker is searched for one byte at a time. Once found, the
//     payload is decoded and the port locks onto the stream.
//   - Locked: whole frames are read back to back. A frame whose marker,
//     separator or kind does not verify drops the port back to scanning and
//     ReadNext reports ErrDesync for that call.
//
// Every wait on the line is bounded by the poll interval (100ms by default),
// so a cancelled context is noticed within one interval even on a silent line.
//
// Features:
//   - Raw termios configuration, 115200 8N1, no flow control
//   - poll(2)-based bounded waits, cancellable through context.Context
//   - Partial reads accumulated across read boundaries in Locked mode
//   - Independent writer path for sending commands to the board
//   - PTY-based tests for reliability
//
// On platforms other than Linux the line is opened through go.bug.st/serial.
//
// Example usage:
//
//	port, err := thermo.Open(thermo.Config{Device: "/dev/ttyACM0"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
//
//	for {
//	    rec, ok, err := port.ReadNext(ctx)
//	    switch {
//	    case errors.Is(err, thermo.ErrDesync):
//	        continue // still usable, scanning again
//	    case err != nil:
//	        return err // reopen the port, or stop if ctx is done
//	    case ok:
//	        fmt.Println(rec)
//	    }
//	}
//
// ReadNext must not be called concurrently on the same Port.
package thermo
