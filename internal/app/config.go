package app

import (
	"io"
	"log/slog"
	"time"
)

// Config holds everything one invocation needs. Zero values fall back to the
// component defaults.
type Config struct {
	Device    string
	Baud      int
	ImagePath string

	Markers     []string // ready-prompt substrings, default detect.DefaultMarkers
	LoadAddress string
	Nudge       string
	Terminator  string
	ReadTimeout time.Duration
	MaxAttempts int
	MaxWait     time.Duration
	SkipConfirm bool
	ListFiles   bool

	ExitDirective string
	NoBridge      bool // stop after the jump command

	Input  io.Reader // human lines, default os.Stdin
	Output io.Writer // device output shown to the human, default os.Stdout
	Logger *slog.Logger
}
