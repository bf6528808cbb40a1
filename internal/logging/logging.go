// Package logging builds the process logger: a text handler for the
// operator's terminal fanned out to optional file and journald sinks.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"
)

type Options struct {
	Level   slog.Leveler
	Writer  io.Writer // terminal sink, default os.Stderr
	File    string    // JSON lines appended here when set
	Journal bool      // also send to the systemd journal
}

// New returns the logger and a closer for any file it opened.
func New(opts Options) (*slog.Logger, func() error, error) {
	if opts.Writer == nil {
		opts.Writer = os.Stderr
	}
	if opts.Level == nil {
		opts.Level = slog.LevelInfo
	}
	closer := func() error { return nil }

	terminal := slog.NewTextHandler(opts.Writer, &slog.HandlerOptions{Level: opts.Level})
	handlers := []slog.Handler{terminal}

	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, closer, fmt.Errorf("open log file: %w", err)
		}
		closer = f.Close
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: opts.Level}))
	}

	if opts.Journal {
		jh, err := slogjournal.NewHandler(&slogjournal.Options{
			Level: opts.Level,
			ReplaceGroup: func(key string) string {
				return toJournalKey(key)
			},
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				a.Key = toJournalKey(a.Key)
				return a
			},
		})
		if err != nil {
			record := slog.NewRecord(time.Now(), slog.LevelWarn, "systemd journal unavailable", 0)
			record.Add("error", err)
			_ = terminal.Handle(context.Background(), record)
		} else {
			handlers = append(handlers, jh)
		}
	}

	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}

// ParseLevel accepts debug, info, warn or error.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return l, errors.New("log level must be one of debug, info, warn, error")
	}
	return l, nil
}

// toJournalKey maps attribute keys onto journald's upper-case field names.
func toJournalKey(str string) string {
	str = strings.ToUpper(str)
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, str)
}
