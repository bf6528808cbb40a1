package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"phyboot/internal/domain"
	"phyboot/internal/image"
	"phyboot/internal/services/bridge"
	"phyboot/internal/transport"
)

// Opener opens the transport for a device.
type Opener func(device string, baud int) (domain.LineTransport, error)

// OpenDevice is the production Opener: a serial device node, or a network
// console given as tcp://host:port.
func OpenDevice(device string, baud int) (domain.LineTransport, error) {
	t, err := transport.Open(device, baud)
	if err != nil {
		return nil, err
	}
	return t, nil
}

type App struct {
	cfg  Config
	open Opener
	log  *slog.Logger
}

func New(cfg Config, open Opener) *App {
	if cfg.Input == nil {
		cfg.Input = os.Stdin
	}
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if open == nil {
		open = OpenDevice
	}
	cfg.Logger = cfg.Logger.With("device", cfg.Device)
	return &App{cfg: cfg, open: open, log: cfg.Logger}
}

// Boot detects the prompt, loads and jumps into the image, then bridges the
// console until the exit directive.
func (a *App) Boot(ctx context.Context) error {
	a.describeImage()
	return a.withSession(ctx, func(sess *domain.Session) error {
		w, err := NewWire(a.cfg, sess.Transport, func(s domain.State) {
			// Keep the state the run failed in rather than Failed itself.
			if s != domain.StateFailed {
				sess.State = s
			}
		})
		if err != nil {
			return err
		}
		if err := w.Sequencer.Run(ctx); err != nil {
			return err
		}
		a.log.Info("boot commands sent", "image", a.cfg.ImagePath,
			"attempts", w.Sequencer.Attempts(), "state", w.Sequencer.State().String())
		if a.cfg.NoBridge {
			return nil
		}
		a.log.Info("console attached", "exit", exitDirective(a.cfg))
		_, err = w.Bridge.Run(ctx)
		return err
	})
}

// Console bridges the console without booting anything.
func (a *App) Console(ctx context.Context) error {
	return a.withSession(ctx, func(sess *domain.Session) error {
		sess.State = domain.StateDone
		a.log.Info("console attached", "exit", exitDirective(a.cfg))
		_, err := newBridge(a.cfg, sess.Transport).Run(ctx)
		return err
	})
}

// Probe writes one nudge and prints the single line the device answers.
func (a *App) Probe(ctx context.Context) error {
	return a.withSession(ctx, func(sess *domain.Session) error {
		t := sess.Transport
		if err := ctx.Err(); err != nil {
			return err
		}
		nudge := a.cfg.Nudge
		if nudge == "" {
			nudge = "\n"
		}
		if err := t.WriteLine([]byte(nudge)); err != nil {
			return err
		}
		timeout := a.cfg.ReadTimeout
		if timeout <= 0 {
			timeout = time.Second
		}
		line, _, err := t.ReadLine(timeout)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(a.cfg.Output, "Response: %s\n", line)
		return err
	})
}

// withSession opens the transport, runs fn and closes the transport exactly
// once whatever fn returns.
func (a *App) withSession(ctx context.Context, fn func(*domain.Session) error) (err error) {
	sess := &domain.Session{
		Device:    a.cfg.Device,
		Baud:      a.cfg.Baud,
		ImagePath: a.cfg.ImagePath,
		State:     domain.StateAwaitingPrompt,
	}
	t, err := a.open(sess.Device, sess.Baud)
	if err != nil {
		return &domain.SessionError{Device: sess.Device, State: sess.State, Err: err}
	}
	a.log.Info("serial device open", "baud", sess.Baud)
	sess.Transport = t

	defer func() {
		sess.Transport = nil
		cerr := t.Close()
		if cerr != nil {
			a.log.Error("close serial device", "error", cerr)
			if err == nil {
				err = &domain.SessionError{Device: sess.Device, State: sess.State, Err: cerr}
			}
			return
		}
		a.log.Debug("serial device closed")
	}()

	if ferr := fn(sess); ferr != nil {
		if ctx.Err() != nil && errors.Is(ferr, ctx.Err()) {
			a.log.Warn("interrupted", "state", sess.State.String())
		}
		return &domain.SessionError{Device: sess.Device, State: sess.State, Err: ferr}
	}
	return nil
}

func (a *App) describeImage() {
	info, err := image.Inspect(a.cfg.ImagePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		a.log.Warn("image not found locally, relying on the copy on the USB medium", "name", info.Name)
	case err != nil:
		a.log.Warn("inspect image", "error", err)
	default:
		a.log.Info("image", "name", info.Name, "size", info.Size, "blake2b", info.Fingerprint)
	}
}

func exitDirective(cfg Config) string {
	if cfg.ExitDirective == "" {
		return bridge.DefaultExitDirective
	}
	return cfg.ExitDirective
}
