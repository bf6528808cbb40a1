package commands

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"phyboot/internal/app"
	"phyboot/internal/detect"
	"phyboot/internal/domain"
	"phyboot/internal/logging"
	"phyboot/internal/services/boot"
	"phyboot/internal/services/bridge"
)

// Version is set at build time via -ldflags.
var Version = "0.1.0"

// openTransport is stubbed in tests.
var openTransport app.Opener = app.OpenDevice

var (
	cfg      app.Config
	logger   *slog.Logger
	closeLog = func() error { return nil }
)

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	if cerr := closeLog(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	root := &cobra.Command{
		Use:   "phyboot <device> <baud> <file>",
		Short: "Boot an image from USB through the U-Boot serial console",
		Long: "Nudges the U-Boot console on <device> until its prompt appears, loads <file> " +
			"from the first USB FAT partition to the load address, jumps to it and then " +
			"relays your input to the console until you type the exit directive.",
		Version: Version,
		Args:    cobra.ExactArgs(3),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return configure(cmd, v)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setTarget(args[0], args[1]); err != nil {
				return err
			}
			cfg.ImagePath = args[2]
			cmd.SilenceUsage = true
			return app.New(cfg, openTransport).Boot(cmd.Context())
		},
	}

	f := root.PersistentFlags()
	f.StringSlice("marker", detect.DefaultMarkers,
		fmt.Sprintf("substring that marks the ready prompt, repeatable (e.g. %q)", detect.AutobootBanner))
	f.Duration("read-timeout", time.Second, "how long one console read waits")
	f.Int("max-attempts", 300, "nudge/read attempts before giving up on the prompt")
	f.Duration("max-wait", 0, "wall-clock limit for prompt detection (0 disables)")
	f.String("nudge", `\n`, "bytes written to wake the console (escapes allowed)")
	f.String("terminator", `\n`, "line terminator for commands and console input (escapes allowed)")
	f.Bool("no-confirm", false, "send commands on the first prompt instead of waiting for a second one")
	f.String("exit-directive", bridge.DefaultExitDirective, "console input that ends the session")
	f.String("load-address", boot.DefaultLoadAddress, "address the image is loaded to and started at")
	f.Bool("list", false, "list the USB medium (fatls) before loading")
	f.Bool("no-bridge", false, "exit after the jump command instead of attaching the console")
	f.String("log-level", "info", "debug, info, warn or error")
	f.String("log-file", "", "append JSON logs to this file")
	f.Bool("journal", false, "also log to the systemd journal")

	if err := v.BindPFlags(f); err != nil {
		panic(fmt.Sprintf("bind flags: %v", err))
	}
	v.SetEnvPrefix("PHYBOOT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root.AddCommand(consoleCmd(), probeCmd(), portsCmd(), fingerprintCmd())
	return root
}

// configure resolves flags and environment into cfg and builds the logger.
func configure(cmd *cobra.Command, v *viper.Viper) error {
	level, err := logging.ParseLevel(v.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUsage, err)
	}
	l, closer, err := logging.New(logging.Options{
		Level:   level,
		Writer:  cmd.ErrOrStderr(),
		File:    v.GetString("log-file"),
		Journal: v.GetBool("journal"),
	})
	if err != nil {
		return err
	}
	logger, closeLog = l, closer

	markers, err := markerList(v)
	if err != nil {
		return fmt.Errorf("%w: --marker: %w", domain.ErrUsage, err)
	}

	nudge, err := unescape(v.GetString("nudge"))
	if err != nil {
		return fmt.Errorf("%w: --nudge: %w", domain.ErrUsage, err)
	}
	term, err := unescape(v.GetString("terminator"))
	if err != nil {
		return fmt.Errorf("%w: --terminator: %w", domain.ErrUsage, err)
	}

	cfg = app.Config{
		Markers:       markers,
		LoadAddress:   v.GetString("load-address"),
		Nudge:         nudge,
		Terminator:    term,
		ReadTimeout:   v.GetDuration("read-timeout"),
		MaxAttempts:   v.GetInt("max-attempts"),
		MaxWait:       v.GetDuration("max-wait"),
		SkipConfirm:   v.GetBool("no-confirm"),
		ListFiles:     v.GetBool("list"),
		ExitDirective: v.GetString("exit-directive"),
		NoBridge:      v.GetBool("no-bridge"),
		Input:         cmd.InOrStdin(),
		Output:        cmd.OutOrStdout(),
		Logger:        logger,
	}
	return nil
}

// markerList reads --marker or PHYBOOT_MARKER. viper hands environment values
// over as a plain string, which GetStringSlice would split on whitespace;
// parse it as CSV like the flag itself.
func markerList(v *viper.Viper) ([]string, error) {
	switch raw := v.Get("marker").(type) {
	case []string:
		return raw, nil
	case string:
		if strings.TrimSpace(raw) == "" {
			return nil, nil
		}
		return csv.NewReader(strings.NewReader(raw)).Read()
	default:
		return v.GetStringSlice("marker"), nil
	}
}

// setTarget validates the device and baud positional arguments.
func setTarget(device, baud string) error {
	b, err := strconv.Atoi(baud)
	if err != nil || b <= 0 {
		return fmt.Errorf("%w: baud must be a positive integer, got %q", domain.ErrUsage, baud)
	}
	cfg.Device = device
	cfg.Baud = b
	return nil
}

// unescape interprets Go escape sequences such as \n and \r\n.
func unescape(s string) (string, error) {
	return strconv.Unquote(`"` + strings.ReplaceAll(s, `"`, `\"`) + `"`)
}
