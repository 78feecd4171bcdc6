//go:build linux

package thermo

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// ttyLine is a Linux tty configured through termios and read through poll(2).
type ttyLine struct {
	fd          int
	file        *os.File
	pollTimeout int // milliseconds
}

func openLine(cfg Config) (line, error) {
	fd, err := unix.Open(cfg.Device, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK, 0666)
	if err != nil {
		return nil, fmt.Errorf("open failed: %w", err)
	}
	if err := configureTTY(fd, cfg.BaudRate); err != nil {
		unix.Close(fd)
		return nil, err
	}
	// Back to blocking mode now that config is done; waits happen in poll.
	if err := unix.SetNonblock(fd, false); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("set blocking: %w", err)
	}
	return &ttyLine{
		fd:          fd,
		file:        os.NewFile(uintptr(fd), cfg.Device),
		pollTimeout: pollMillis(cfg.PollInterval),
	}, nil
}

// configureTTY puts the line in raw 8N1 mode with receiver enabled and modem
// control ignored. Reads return after at most one decisecond with VMIN=0.
func configureTTY(fd int, baudRate int) error {
	termios, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return fmt.Errorf("get termios: %w", err)
	}

	// Raw mode
	termios.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP | unix.INPCK |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON | unix.IXOFF | unix.IXANY
	termios.Oflag &^= unix.OPOST
	termios.Lflag &^= unix.ECHO | unix.ECHOE | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN

	// 8N1, no hardware flow control
	termios.Cflag &^= unix.CSIZE | unix.PARENB | unix.CSTOPB | unix.CRTSCTS
	termios.Cflag |= unix.CS8 | unix.CREAD | unix.CLOCAL

	baud := baudToUnix(baudRate)
	termios.Cflag &^= unix.CBAUD
	termios.Cflag |= baud
	termios.Ispeed = baud
	termios.Ospeed = baud

	termios.Cc[unix.VMIN] = 0
	termios.Cc[unix.VTIME] = 1

	if err := unix.IoctlSetInt(fd, unix.TCFLSH, unix.TCIFLUSH); err != nil {
		return fmt.Errorf("flush input: %w", err)
	}
	if err := unix.IoctlSetTermios(fd, unix.TCSETS, termios); err != nil {
		return fmt.Errorf("set termios: %w", err)
	}
	if err := unix.IoctlSetInt(fd, unix.TCFLSH, unix.TCIFLUSH); err != nil {
		return fmt.Errorf("flush input: %w", err)
	}
	return nil
}

var errHangup = errors.New("line hung up")

func (l *ttyLine) waitRead(p []byte) (int, error) {
	pfd := []unix.PollFd{{Fd: int32(l.fd), Events: unix.POLLIN}}
	n, err := unix.Poll(pfd, l.pollTimeout)
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return 0, nil
		}
		return 0, fmt.Errorf("poll: %w", err)
	}
	if n == 0 {
		return 0, nil
	}
	re := pfd[0].Revents
	if re&unix.POLLIN != 0 {
		n, err := unix.Read(l.fd, p)
		switch {
		case n > 0:
			return n, nil
		case err == nil:
			// Readable with nothing to read: the other end is gone.
			return 0, io.EOF
		case errors.Is(err, unix.EAGAIN), errors.Is(err, unix.EINTR):
			return 0, nil
		default:
			return 0, fmt.Errorf("read: %w", err)
		}
	}
	if re&(unix.POLLERR|unix.POLLHUP|unix.POLLNVAL) != 0 {
		return 0, fmt.Errorf("%w (revents %#x)", errHangup, re)
	}
	return 0, nil
}

func (l *ttyLine) Write(p []byte) (int, error) {
	return l.file.Write(p)
}

func (l *ttyLine) Close() error {
	return l.file.Close()
}

func pollMillis(d time.Duration) int {
	ms := int(d / time.Millisecond)
	if ms < 1 {
		ms = 1
	}
	return ms
}

func baudToUnix(baud int) uint32 {
	switch baud {
	case 9600:
		return unix.B9600
	case 19200:
		return unix.B19200
	case 38400:
		return unix.B38400
	case 57600:
		return unix.B57600
	case 115200:
		return unix.B115200
	case 230400:
		return unix.B230400
	default:
		return unix.B115200 // fallback
	}
}
