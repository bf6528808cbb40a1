package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUsage             = errors.New("usage error")
	ErrDeviceUnavailable = errors.New("device unavailable")
	ErrTransport         = errors.New("transport error")
	ErrPromptTimeout     = errors.New("ready prompt not observed")
)

// SessionError reports a fatal session failure with the device and the last
// sequencer state reached.
type SessionError struct {
	Device string
	State  State
	Err    error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("session %s (state %s): %v", e.Device, e.State, e.Err)
}

func (e *SessionError) Unwrap() error { return e.Err }
