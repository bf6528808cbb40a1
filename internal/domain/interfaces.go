package domain

import (
	"context"
	"io"
	"time"
)

// Port is a duplex byte stream with a settable read timeout. A Read that
// times out returns 0, nil.
type Port interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
}

// LineTransport writes bytes to the device and reads it back line by line.
type LineTransport interface {
	// WriteLine writes b verbatim; callers include the terminator.
	WriteLine(b []byte) error
	// ReadLine returns one line without its terminator. ok is false when the
	// timeout elapsed with nothing received, which is not an error.
	ReadLine(timeout time.Duration) (line string, ok bool, err error)
	Close() error
}

// Detector classifies console lines.
type Detector interface {
	Classify(line string) PromptMarker
}

// InputSource yields human-typed lines. It returns io.EOF when input ends.
type InputSource interface {
	ReadLine(ctx context.Context) (string, error)
}
