package bridge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"phyboot/internal/domain"
)

// DefaultExitDirective ends the bridge.
const DefaultExitDirective = "exit"

type Config struct {
	ExitDirective string        // default DefaultExitDirective
	Terminator    string        // appended to every human line, default "\n"
	ReadTimeout   time.Duration // device read-back per turn, default 1s
	Logger        *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.ExitDirective == "" {
		c.ExitDirective = DefaultExitDirective
	}
	if c.Terminator == "" {
		c.Terminator = "\n"
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// Bridge relays between a human and a transport it does not own.
type Bridge struct {
	t   domain.LineTransport
	in  domain.InputSource
	out io.Writer
	cfg Config
}

func New(t domain.LineTransport, in domain.InputSource, out io.Writer, cfg Config) *Bridge {
	return &Bridge{t: t, in: in, out: out, cfg: cfg.withDefaults()}
}

// Run takes turns until the exit directive has been forwarded, input ends,
// or an error occurs. It returns the number of completed write/read turns.
func (b *Bridge) Run(ctx context.Context) (int, error) {
	turns := 0
	for {
		text, err := b.in.ReadLine(ctx)
		if errors.Is(err, io.EOF) {
			b.cfg.Logger.Info("input closed, leaving console", "turns", turns)
			return turns, nil
		}
		if err != nil {
			return turns, err
		}

		if err := b.t.WriteLine([]byte(text + b.cfg.Terminator)); err != nil {
			return turns, err
		}
		line, ok, err := b.t.ReadLine(b.cfg.ReadTimeout)
		if err != nil {
			return turns, err
		}
		turns++
		if ok {
			if _, err := fmt.Fprintln(b.out, line); err != nil {
				return turns, fmt.Errorf("write console output: %w", err)
			}
		}

		if text == b.cfg.ExitDirective {
			b.cfg.Logger.Info("exit directive received", "turns", turns)
			return turns, nil
		}
	}
}
