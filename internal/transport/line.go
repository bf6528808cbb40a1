package transport

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"time"

	"phyboot/internal/domain"
)

// maxPending bounds how many bytes are buffered without a newline before
// they are handed out as a line anyway.
const maxPending = 4096

// LineTransport is the exclusive owner of one Port for a session.
type LineTransport struct {
	port    domain.Port
	pending []byte
	chunk   []byte

	closeOnce sync.Once
	closeErr  error
	closed    bool
}

// New wraps port. The transport takes ownership and closes port in Close.
func New(port domain.Port) *LineTransport {
	return &LineTransport{
		port:  port,
		chunk: make([]byte, 256),
	}
}

// WriteLine writes b to the device exactly as given.
func (t *LineTransport) WriteLine(b []byte) error {
	if t.closed {
		return fmt.Errorf("%w: write on closed transport", domain.ErrTransport)
	}
	if _, err := t.port.Write(b); err != nil {
		return fmt.Errorf("%w: write: %w", domain.ErrTransport, err)
	}
	return nil
}

// ReadLine returns the next line with its "\r\n" or "\n" stripped and invalid
// UTF-8 dropped. It never waits longer than timeout.
func (t *LineTransport) ReadLine(timeout time.Duration) (string, bool, error) {
	if t.closed {
		return "", false, fmt.Errorf("%w: read on closed transport", domain.ErrTransport)
	}
	deadline := time.Now().Add(timeout)
	for {
		if line, ok := t.takeLine(); ok {
			return line, true, nil
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		if err := t.port.SetReadTimeout(remaining); err != nil {
			return "", false, fmt.Errorf("%w: set read timeout: %w", domain.ErrTransport, err)
		}
		n, err := t.port.Read(t.chunk)
		if n > 0 {
			t.pending = append(t.pending, t.chunk[:n]...)
		}
		if err != nil {
			return "", false, fmt.Errorf("%w: read: %w", domain.ErrTransport, err)
		}
		if n == 0 {
			// The port only returns an empty read once its timeout elapsed.
			break
		}
	}
	if len(t.pending) == 0 {
		return "", false, nil
	}
	line := clean(t.pending)
	t.pending = t.pending[:0]
	return line, true, nil
}

// takeLine pops one complete line from the pending buffer.
func (t *LineTransport) takeLine() (string, bool) {
	i := bytes.IndexByte(t.pending, '\n')
	if i < 0 {
		if len(t.pending) >= maxPending {
			line := clean(t.pending)
			t.pending = t.pending[:0]
			return line, true
		}
		return "", false
	}
	line := clean(t.pending[:i])
	t.pending = append(t.pending[:0], t.pending[i+1:]...)
	return line, true
}

// Close releases the port. Only the first call reaches the port; later calls
// return the same result.
func (t *LineTransport) Close() error {
	t.closeOnce.Do(func() {
		t.closed = true
		if err := t.port.Close(); err != nil {
			t.closeErr = fmt.Errorf("%w: close: %w", domain.ErrTransport, err)
		}
	})
	return t.closeErr
}

func clean(b []byte) string {
	s := strings.TrimRight(string(b), "\r")
	return strings.ToValidUTF8(s, "")
}

var _ domain.LineTransport = (*LineTransport)(nil)
