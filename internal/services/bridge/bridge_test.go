package bridge_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"phyboot/internal/domain"
	"phyboot/internal/services/bridge"
)

// scriptedInput hands out fixed human lines, then io.EOF.
type scriptedInput struct {
	lines []string
	reads int
}

func (s *scriptedInput) ReadLine(context.Context) (string, error) {
	s.reads++
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	l := s.lines[0]
	s.lines = s.lines[1:]
	return l, nil
}

// scriptedDevice answers each ReadLine with the next response; "" reads as
// silence.
type scriptedDevice struct {
	responses []string
	writeErr  error
	writes    []string
	reads     int
}

func (d *scriptedDevice) WriteLine(b []byte) error {
	if d.writeErr != nil {
		return d.writeErr
	}
	d.writes = append(d.writes, string(b))
	return nil
}

func (d *scriptedDevice) ReadLine(time.Duration) (string, bool, error) {
	d.reads++
	if len(d.responses) == 0 {
		return "", false, nil
	}
	r := d.responses[0]
	d.responses = d.responses[1:]
	return r, r != "", nil
}

func (d *scriptedDevice) Close() error { return nil }

func TestRun_StatusThenExitTakesTwoTurns(t *testing.T) {
	in := &scriptedInput{lines: []string{"status", "exit", "never-sent"}}
	dev := &scriptedDevice{responses: []string{"ok", ""}}
	var out bytes.Buffer

	turns, err := bridge.New(dev, in, &out, bridge.Config{}).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, turns)
	require.Equal(t, []string{"status\n", "exit\n"}, dev.writes)
	require.Equal(t, 2, dev.reads)
	require.Equal(t, 2, in.reads)
	require.Equal(t, "ok\n", out.String())
}

func TestRun_ExitMustMatchExactly(t *testing.T) {
	in := &scriptedInput{lines: []string{" exit", "EXIT", "exit"}}
	dev := &scriptedDevice{}

	turns, err := bridge.New(dev, in, io.Discard, bridge.Config{}).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, turns)
}

func TestRun_CustomDirectiveAndTerminator(t *testing.T) {
	in := &scriptedInput{lines: []string{"printenv", "quit"}}
	dev := &scriptedDevice{responses: []string{"bootdelay=2", "bye"}}
	var out bytes.Buffer

	turns, err := bridge.New(dev, in, &out, bridge.Config{
		ExitDirective: "quit",
		Terminator:    "\r\n",
	}).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, turns)
	require.Equal(t, []string{"printenv\r\n", "quit\r\n"}, dev.writes)
	require.Equal(t, "bootdelay=2\nbye\n", out.String())
}

func TestRun_EndOfInputStopsWithoutTurn(t *testing.T) {
	dev := &scriptedDevice{}
	turns, err := bridge.New(dev, &scriptedInput{}, io.Discard, bridge.Config{}).Run(context.Background())
	require.NoError(t, err)
	require.Zero(t, turns)
	require.Empty(t, dev.writes)
}

func TestRun_TransportErrorStops(t *testing.T) {
	dev := &scriptedDevice{writeErr: errors.Join(domain.ErrTransport, errors.New("EIO"))}
	in := &scriptedInput{lines: []string{"help", "exit"}}

	turns, err := bridge.New(dev, in, io.Discard, bridge.Config{}).Run(context.Background())
	require.ErrorIs(t, err, domain.ErrTransport)
	require.Zero(t, turns)
	require.Equal(t, 1, in.reads)
}

func TestLineInput_ReadsLinesThenEOF(t *testing.T) {
	in := bridge.NewLineInput(strings.NewReader("help\r\nversion\n"))
	ctx := context.Background()

	l, err := in.ReadLine(ctx)
	require.NoError(t, err)
	require.Equal(t, "help", l)
	l, err = in.ReadLine(ctx)
	require.NoError(t, err)
	require.Equal(t, "version", l)
	_, err = in.ReadLine(ctx)
	require.ErrorIs(t, err, io.EOF)
}

func TestLineInput_ContextUnblocksRead(t *testing.T) {
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })
	in := bridge.NewLineInput(pr)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := in.ReadLine(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRun_CancelledWhileWaitingForHuman(t *testing.T) {
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })
	dev := &scriptedDevice{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := bridge.New(dev, bridge.NewLineInput(pr), io.Discard, bridge.Config{}).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, dev.writes)
}
