package sim_test

import (
	"bytes"
	"context"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"phyboot/internal/sim"
)

// transcript collects everything the console writes.
type transcript struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (tr *transcript) String() string {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.buf.String()
}

func startConsole(t *testing.T, opts sim.Options) (net.Conn, *transcript, <-chan error) {
	t.Helper()
	server, client := net.Pipe()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sim.Serve(ctx, server, opts) }()

	tr := &transcript{}
	go func() {
		buf := make([]byte, 512)
		for {
			n, err := client.Read(buf)
			tr.mu.Lock()
			tr.buf.Write(buf[:n])
			tr.mu.Unlock()
			if err != nil {
				return
			}
		}
	}()
	t.Cleanup(func() {
		cancel()
		_ = client.Close()
		_ = server.Close()
	})
	return client, tr, done
}

func waitFor(t *testing.T, tr *transcript, s string) {
	t.Helper()
	require.Eventually(t, func() bool { return strings.Contains(tr.String(), s) }, 2*time.Second, 5*time.Millisecond, "waiting for %q in %q", s, tr.String())
}

func TestServe_KeyDuringCountdownReachesPrompt(t *testing.T) {
	conn, tr, _ := startConsole(t, sim.Options{
		Countdown: 100,
		Tick:      10 * time.Millisecond,
		Deaf:      -1,
		Files:     map[string]int64{"kernel.img": 1024},
	})
	waitFor(t, tr, "Hit any key to stop autoboot")

	_, err := conn.Write([]byte("\n"))
	require.NoError(t, err)
	waitFor(t, tr, "Phytium-Pi# ")

	_, err = conn.Write([]byte("usb start; fatls usb 0; fatload usb 0 0x90100000 kernel.img\n"))
	require.NoError(t, err)
	waitFor(t, tr, "1024 bytes read")
	require.Contains(t, tr.String(), "1 Storage Device(s) found")
	require.Contains(t, tr.String(), "kernel.img")

	_, err = conn.Write([]byte("go 0x90100000\r\n"))
	require.NoError(t, err)
	waitFor(t, tr, "Hello from the image")
	waitFor(t, tr, "phytium:/$ ")
}

func TestServe_MissingFileAndUnknownCommand(t *testing.T) {
	conn, tr, _ := startConsole(t, sim.Options{Countdown: 100, Tick: 10 * time.Millisecond, Deaf: -1})
	waitFor(t, tr, "Hit any key")
	_, err := conn.Write([]byte("\n"))
	require.NoError(t, err)
	waitFor(t, tr, "Phytium-Pi# ")

	_, err = conn.Write([]byte("fatload usb 0 0x90100000 nope.img\n"))
	require.NoError(t, err)
	waitFor(t, tr, "** Bad device specification usb 0 **")

	_, err = conn.Write([]byte("usb start; fatload usb 0 0x90100000 nope.img\nbootm\n"))
	require.NoError(t, err)
	waitFor(t, tr, "** Unable to read file nope.img **")
	waitFor(t, tr, "Unknown command 'bootm' - try 'help'")
}

func TestServe_UninterruptedCountdownBootsAndGoesQuiet(t *testing.T) {
	_, tr, done := startConsole(t, sim.Options{Countdown: 2, Tick: 5 * time.Millisecond})
	waitFor(t, tr, "Starting kernel ...")
	require.NotContains(t, tr.String(), "Phytium-Pi#")

	select {
	case err := <-done:
		t.Fatalf("console returned early: %v", err)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestServe_DeafWindowSwallowsEarlyKeys(t *testing.T) {
	conn, tr, _ := startConsole(t, sim.Options{
		Countdown: 3,
		Tick:      30 * time.Millisecond,
		Deaf:      time.Hour,
	})
	waitFor(t, tr, "Hit any key")
	_, err := conn.Write([]byte("\n"))
	require.NoError(t, err)
	waitFor(t, tr, "Starting kernel ...")
	require.NotContains(t, tr.String(), "Phytium-Pi#")
}
