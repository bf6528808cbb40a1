package boot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"phyboot/internal/domain"
)

// Config controls one boot run.
type Config struct {
	ImagePath   string
	LoadAddress string        // default DefaultLoadAddress
	Nudge       []byte        // default "\n"
	Terminator  string        // default "\n"
	ReadTimeout time.Duration // per read, default 1s
	MaxAttempts int           // default 300
	MaxWait     time.Duration // wall-clock cap on prompt detection, 0 disables

	// SkipConfirm accepts the first ReadyPrompt instead of waiting for a
	// second one.
	SkipConfirm bool
	// ListFiles inserts "fatls usb 0" into the load command.
	ListFiles bool

	// Echo receives every non-empty device line read while awaiting the
	// prompt. Nil discards them.
	Echo io.Writer
	// OnState is called on every state transition.
	OnState func(domain.State)
	Logger  *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.LoadAddress == "" {
		c.LoadAddress = DefaultLoadAddress
	}
	if c.Nudge == nil {
		c.Nudge = []byte("\n")
	}
	if c.Terminator == "" {
		c.Terminator = "\n"
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = time.Second
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 300
	}
	if c.Echo == nil {
		c.Echo = io.Discard
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// Sequencer runs the boot state machine over a transport it does not own.
type Sequencer struct {
	t   domain.LineTransport
	d   domain.Detector
	cfg Config

	state    domain.State
	attempts int
}

// New validates cfg and returns a Sequencer in AwaitingPrompt.
func New(t domain.LineTransport, d domain.Detector, cfg Config) (*Sequencer, error) {
	if t == nil || d == nil {
		return nil, errors.New("boot: transport and detector are required")
	}
	if strings.TrimSpace(cfg.ImagePath) == "" {
		return nil, fmt.Errorf("%w: image path is empty", domain.ErrUsage)
	}
	return &Sequencer{t: t, d: d, cfg: cfg.withDefaults(), state: domain.StateAwaitingPrompt}, nil
}

// State returns the current state.
func (s *Sequencer) State() domain.State { return s.state }

// Attempts returns how many read attempts were spent awaiting the prompt.
func (s *Sequencer) Attempts() int { return s.attempts }

// Commands returns the commands emitted in Sequencing, in order.
func (s *Sequencer) Commands() []domain.Command {
	load := LoadCommand(s.cfg.LoadAddress, s.cfg.ImagePath, s.cfg.Terminator)
	if s.cfg.ListFiles {
		load = ListingLoadCommand(s.cfg.LoadAddress, s.cfg.ImagePath, s.cfg.Terminator)
	}
	return []domain.Command{load, JumpCommand(s.cfg.LoadAddress, s.cfg.Terminator)}
}

// Run drives the console until Done or Failed. It returns nil only in Done.
// A prompt never observed within budget yields domain.ErrPromptTimeout; I/O
// failures carry domain.ErrTransport; cancellation returns ctx.Err().
func (s *Sequencer) Run(ctx context.Context) error {
	if s.state.Terminal() {
		return fmt.Errorf("boot: sequencer already %s", s.state)
	}
	if err := s.awaitPrompt(ctx); err != nil {
		s.transition(domain.StateFailed)
		return err
	}
	s.transition(domain.StateSequencing)
	for _, c := range s.Commands() {
		if err := s.t.WriteLine(c.Bytes()); err != nil {
			s.transition(domain.StateFailed)
			return err
		}
		s.cfg.Logger.Info("command sent", "command", strings.TrimRight(string(c), "\r\n"))
	}
	s.transition(domain.StateDone)
	return nil
}

func (s *Sequencer) awaitPrompt(ctx context.Context) error {
	start := time.Now()
	seen := false
	quiet := true
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.attempts >= s.cfg.MaxAttempts {
			return fmt.Errorf("%w after %d attempts", domain.ErrPromptTimeout, s.attempts)
		}
		if s.cfg.MaxWait > 0 && time.Since(start) >= s.cfg.MaxWait {
			return fmt.Errorf("%w within %s (%d attempts)", domain.ErrPromptTimeout, s.cfg.MaxWait, s.attempts)
		}
		s.attempts++

		// Once the prompt was seen, nudges the loop already sent usually
		// queue more prompts; nudge again only if the line went quiet.
		if !seen || quiet {
			if err := s.t.WriteLine(s.cfg.Nudge); err != nil {
				return err
			}
		}
		line, ok, err := s.t.ReadLine(s.cfg.ReadTimeout)
		if err != nil {
			return err
		}
		quiet = !ok
		if !ok {
			s.cfg.Logger.Debug("no output", "attempt", s.attempts)
			continue
		}
		if strings.TrimSpace(line) != "" {
			_, _ = fmt.Fprintln(s.cfg.Echo, line)
		}
		if s.d.Classify(line) != domain.MarkerReadyPrompt {
			continue
		}
		if seen || s.cfg.SkipConfirm {
			s.cfg.Logger.Info("ready prompt detected", "attempt", s.attempts)
			return nil
		}
		seen = true
		s.cfg.Logger.Debug("ready prompt seen, confirming", "attempt", s.attempts)
	}
}

func (s *Sequencer) transition(to domain.State) {
	s.cfg.Logger.Debug("state transition", "from", s.state.String(), "to", to.String())
	s.state = to
	if s.cfg.OnState != nil {
		s.cfg.OnState(to)
	}
}
