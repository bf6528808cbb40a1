package app_test

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"phyboot/internal/app"
	"phyboot/internal/domain"
	"phyboot/internal/sim"
	"phyboot/internal/transport"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// startSim serves one emulated console on a loopback port and returns its
// tcp:// device identifier and the simulator's log.
func startSim(t *testing.T, opts sim.Options) (string, *lockedBuffer) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		_ = ln.Close()
	})

	simLog := &lockedBuffer{}
	opts.Logger = slog.New(slog.NewTextHandler(simLog, nil))
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		_ = sim.Serve(ctx, conn, opts)
	}()
	return transport.TCPScheme + ln.Addr().String(), simLog
}

func TestBoot_AgainstEmulatedConsole(t *testing.T) {
	device, simLog := startSim(t, sim.Options{
		Countdown: 200,
		Tick:      10 * time.Millisecond,
		Deaf:      100 * time.Millisecond,
		Files:     map[string]int64{"kernel.img": 4096},
	})
	var out bytes.Buffer

	err := app.New(app.Config{
		Device:      device,
		Baud:        115200,
		ImagePath:   "/home/user/build/kernel.img",
		ReadTimeout: 30 * time.Millisecond,
		MaxAttempts: 200,
		Input:       strings.NewReader("uname\nexit\n"),
		Output:      &out,
	}, nil).Boot(context.Background())
	require.NoError(t, err)

	require.Contains(t, out.String(), "U-Boot 2022.01-phytium")
	require.Contains(t, out.String(), "Phytium-Pi#")
	require.Eventually(t, func() bool {
		return strings.Contains(simLog.String(), "application started")
	}, 2*time.Second, 10*time.Millisecond, simLog.String())
}

func TestBoot_EmulatedConsoleThatAutoboots(t *testing.T) {
	device, _ := startSim(t, sim.Options{
		Countdown: 2,
		Tick:      5 * time.Millisecond,
		Deaf:      time.Hour,
	})
	var out bytes.Buffer

	err := app.New(app.Config{
		Device:      device,
		Baud:        115200,
		ImagePath:   "kernel.img",
		ReadTimeout: 10 * time.Millisecond,
		MaxAttempts: 20,
		Output:      &out,
		Input:       strings.NewReader(""),
	}, nil).Boot(context.Background())
	require.ErrorIs(t, err, domain.ErrPromptTimeout)
	require.Contains(t, out.String(), "Starting kernel ...")
}
