package sim

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"
)

// Options configures one emulated console.
type Options struct {
	Prompt    string        // default "Phytium-Pi# "
	AppPrompt string        // prompt of the started image, default "phytium:/$ "
	Banner    []string      // default DefaultBanner
	Countdown int           // autoboot seconds, default 3
	Tick      time.Duration // length of one countdown second, default 1s
	Deaf      time.Duration // input ignored after power-on, default 500ms, negative disables
	Files     map[string]int64
	Logger    *slog.Logger
}

// DefaultBanner is printed at power-on.
var DefaultBanner = []string{
	"",
	"U-Boot 2022.01-phytium (Jan 01 2024 - 00:00:00 +0800)",
	"",
	"DRAM:  4 GiB",
	"PHYTIUM PI",
	"In:    uart@2800d000",
	"Out:   uart@2800d000",
	"Err:   uart@2800d000",
}

func (o Options) withDefaults() Options {
	if o.Prompt == "" {
		o.Prompt = "Phytium-Pi# "
	}
	if o.AppPrompt == "" {
		o.AppPrompt = "phytium:/$ "
	}
	if o.Banner == nil {
		o.Banner = DefaultBanner
	}
	if o.Countdown <= 0 {
		o.Countdown = 3
	}
	if o.Tick <= 0 {
		o.Tick = time.Second
	}
	if o.Deaf < 0 {
		o.Deaf = 0
	} else if o.Deaf == 0 {
		o.Deaf = 500 * time.Millisecond
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

type console struct {
	opts   Options
	w      io.Writer
	input  <-chan []byte
	usb    bool
	loaded string
	booted bool
}

// Serve runs one console session on rw until ctx ends or rw fails.
func Serve(ctx context.Context, rw io.ReadWriter, opts Options) error {
	done := make(chan struct{})
	defer close(done)
	c := &console{opts: opts.withDefaults(), w: rw, input: pump(rw, done)}

	start := time.Now()
	for _, l := range c.opts.Banner {
		if err := c.println(l); err != nil {
			return err
		}
	}
	if !c.autoboot(ctx, start) {
		c.opts.Logger.Info("autoboot not interrupted")
		return c.idle(ctx)
	}
	c.opts.Logger.Info("autoboot interrupted")
	return c.shell(ctx)
}

// pump forwards reads from r until r fails or done closes.
func pump(r io.Reader, done <-chan struct{}) <-chan []byte {
	ch := make(chan []byte)
	go func() {
		defer close(ch)
		buf := make([]byte, 256)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				select {
				case ch <- append([]byte(nil), buf[:n]...):
				case <-done:
					return
				}
			}
			if err != nil {
				return
			}
		}
	}()
	return ch
}

// autoboot counts down and reports whether a key stopped it.
func (c *console) autoboot(ctx context.Context, start time.Time) bool {
	for n := c.opts.Countdown; n > 0; n-- {
		if err := c.printf("\rHit any key to stop autoboot: %2d ", n); err != nil {
			return false
		}
		tick := time.After(c.opts.Tick)
	wait:
		for {
			select {
			case <-ctx.Done():
				return false
			case b, ok := <-c.input:
				if !ok {
					return false
				}
				if time.Since(start) < c.opts.Deaf || len(b) == 0 {
					continue
				}
				_ = c.println("")
				return true
			case <-tick:
				break wait
			}
		}
	}
	_ = c.println("")
	_ = c.println("Starting kernel ...")
	return false
}

// idle swallows input after an uninterrupted boot.
func (c *console) idle(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-c.input:
			if !ok {
				return nil
			}
		}
	}
}

func (c *console) shell(ctx context.Context) error {
	if err := c.prompt(); err != nil {
		return err
	}
	var line []byte
	cr := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case b, ok := <-c.input:
			if !ok {
				return nil
			}
			for _, ch := range b {
				switch ch {
				case '\r', '\n':
					// "\r\n" is one Enter.
					if ch == '\n' && cr {
						cr = false
						continue
					}
					cr = ch == '\r'
					if err := c.exec(string(line)); err != nil {
						return err
					}
					line = line[:0]
				default:
					cr = false
					line = append(line, ch)
				}
			}
		}
	}
}

func (c *console) exec(line string) error {
	if err := c.println(line); err != nil {
		return err
	}
	for _, cmd := range strings.Split(line, ";") {
		if err := c.run(strings.Fields(cmd)); err != nil {
			return err
		}
	}
	return c.prompt()
}

func (c *console) run(args []string) error {
	if len(args) == 0 {
		return nil
	}
	c.opts.Logger.Debug("command", "args", args)
	if c.booted {
		return c.printf("%s: command not found\r\n", args[0])
	}
	switch {
	case len(args) == 2 && args[0] == "usb" && args[1] == "start":
		c.usb = true
		return c.printf("starting USB...\r\nscanning usb for storage devices... 1 Storage Device(s) found\r\n")
	case len(args) == 3 && args[0] == "fatls" && args[1] == "usb" && args[2] == "0":
		if !c.usb {
			return c.printf("** Bad device specification usb 0 **\r\n")
		}
		names := make([]string, 0, len(c.opts.Files))
		for n := range c.opts.Files {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			if err := c.printf(" %8d   %s\r\n", c.opts.Files[n], n); err != nil {
				return err
			}
		}
		return c.printf("\r\n%d file(s), 0 dir(s)\r\n", len(names))
	case len(args) == 5 && args[0] == "fatload" && args[1] == "usb" && args[2] == "0":
		if !c.usb {
			return c.printf("** Bad device specification usb 0 **\r\n")
		}
		size, ok := c.opts.Files[args[4]]
		if !ok {
			return c.printf("** Unable to read file %s **\r\n", args[4])
		}
		c.loaded = args[3]
		return c.printf("%d bytes read in 12 ms\r\n", size)
	case len(args) == 2 && args[0] == "go":
		if c.loaded == "" || c.loaded != args[1] {
			return c.printf("## Starting application at %s ...\r\n\"Synchronous Abort\" handler, esr 0x02000000\r\n", args[1])
		}
		c.booted = true
		c.opts.Logger.Info("application started", "addr", args[1])
		return c.printf("## Starting application at %s ...\r\nHello from the image\r\n", args[1])
	case args[0] == "version":
		return c.printf("U-Boot 2022.01-phytium\r\n")
	case args[0] == "help":
		return c.printf("fatload - load binary file from a dos filesystem\r\nfatls   - list files in a directory\r\ngo      - start application at address 'addr'\r\nusb     - USB sub-system\r\n")
	default:
		return c.printf("Unknown command '%s' - try 'help'\r\n", args[0])
	}
}

func (c *console) prompt() error {
	if c.booted {
		return c.printf("%s", c.opts.AppPrompt)
	}
	return c.printf("%s", c.opts.Prompt)
}

func (c *console) println(s string) error {
	_, err := io.WriteString(c.w, s+"\r\n")
	return err
}

func (c *console) printf(format string, a ...any) error {
	_, err := fmt.Fprintf(c.w, format, a...)
	return err
}
