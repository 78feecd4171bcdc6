// cmd/thermo-client/main.go
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	thermo "github.com/luhtfiimanal/go-thermo-client"
	"github.com/luhtfiimanal/go-thermo-client/internal/config"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	if len(os.Args) < 2 {
		log.Fatal().Msg("usage: thermo-client <config.yaml>")
	}

	cfg, err := config.Load(os.Args[1])
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatal().Err(err).Msg("config validation failed")
	}
	config.Normalize(cfg)

	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	log = log.Level(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands := make(chan string)
	go readCommands(ctx, stop, commands)

	c := &client{cfg: cfg, log: log, commands: commands, out: os.Stdout}
	c.run(ctx)
	log.Info().Msg("thermo-client exiting")
}

// readCommands forwards console lines until stdin closes or /quit is typed.
func readCommands(ctx context.Context, quit context.CancelFunc, out chan<- string) {
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "/quit" {
			quit()
			return
		}
		if line == "" {
			continue
		}
		select {
		case out <- line:
		case <-ctx.Done():
			return
		}
	}
}

type client struct {
	cfg      *config.Config
	log      zerolog.Logger
	commands <-chan string
	out      io.Writer
}

// run owns the reconnect loop: open, read until the port fails, close, wait,
// and open again until ctx is done.
func (c *client) run(ctx context.Context) {
	for ctx.Err() == nil {
		port, err := thermo.Open(thermo.Config{
			Device:       c.cfg.Device,
			BaudRate:     c.cfg.BaudRate,
			PollInterval: c.cfg.PollInterval(),
			Logger:       &c.log,
		})
		if err != nil {
			c.log.Error().Err(err).Msg("open failed")
			sleepCtx(ctx, c.cfg.ReconnectDelay())
			continue
		}
		c.log.Info().Str("device", c.cfg.Device).Msg("port opened")

		err = c.session(ctx, port)
		st := port.Stats()
		port.Close()
		if err != nil {
			c.log.Error().Err(err).
				Uint64("records", st.Records).
				Uint64("resyncs", st.Resyncs).
				Msg("port failed, reconnecting")
			sleepCtx(ctx, c.cfg.ReconnectDelay())
		}
	}
}

// session reads records from one open port. It returns nil when ctx is done
// and the fatal error otherwise.
func (c *client) session(ctx context.Context, port *thermo.Port) error {
	writeErr := make(chan error, 1)
	sctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		for {
			select {
			case <-sctx.Done():
				return
			case cmd := <-c.commands:
				if err := port.WriteLine(cmd, c.cfg.CommandNewline); err != nil {
					writeErr <- fmt.Errorf("write command: %w", err)
					cancel()
					return
				}
				c.log.Debug().Str("command", cmd).Msg("command sent")
			}
		}
	}()

	for {
		rec, ok, err := port.ReadNext(sctx)
		switch {
		case errors.Is(err, thermo.ErrDesync):
			c.log.Warn().Err(err).Uint64("resyncs", port.Stats().Resyncs).Msg("resynchronizing")
			continue
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			select {
			case werr := <-writeErr:
				return werr
			default:
				return nil
			}
		case err != nil:
			return err
		case !ok:
			continue
		}
		fmt.Fprintf(c.out, "Received: %s\n", rec)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
