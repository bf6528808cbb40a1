package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"phyboot/internal/logging"
	"phyboot/internal/sim"
)

func main() {
	var (
		listen    string
		files     map[string]int64
		countdown int
		tick      time.Duration
		deaf      time.Duration
		level     string
	)

	root := &cobra.Command{
		Use:   "ubootsim",
		Short: "Serve an emulated U-Boot console over TCP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := logging.ParseLevel(level)
			if err != nil {
				return err
			}
			logger, _, err := logging.New(logging.Options{Level: lvl})
			if err != nil {
				return err
			}

			ln, err := net.Listen("tcp", listen)
			if err != nil {
				return err
			}
			go func() {
				<-cmd.Context().Done()
				_ = ln.Close()
			}()
			logger.Info("ubootsim listening", "addr", ln.Addr().String(), "files", len(files))

			opts := sim.Options{Countdown: countdown, Tick: tick, Deaf: deaf, Files: files}
			for {
				conn, err := ln.Accept()
				if err != nil {
					if cmd.Context().Err() != nil {
						return nil
					}
					return err
				}
				go serve(cmd.Context(), conn, opts, logger)
			}
		},
	}
	root.Flags().StringVar(&listen, "listen", "127.0.0.1:2323", "address to listen on")
	root.Flags().StringToInt64Var(&files, "file", map[string]int64{"kernel.img": 8 << 20}, "file on the emulated USB medium as name=size (repeatable)")
	root.Flags().IntVar(&countdown, "countdown", 3, "autoboot countdown in ticks")
	root.Flags().DurationVar(&tick, "tick", time.Second, "length of one countdown tick")
	root.Flags().DurationVar(&deaf, "deaf", 500*time.Millisecond, "input ignored after power-on (negative disables)")
	root.Flags().StringVar(&level, "log-level", "info", "debug, info, warn or error")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func serve(ctx context.Context, conn net.Conn, opts sim.Options, logger *slog.Logger) {
	defer conn.Close()
	l := logger.With("remote", conn.RemoteAddr().String())
	opts.Logger = l
	start := time.Now()
	l.Info("power on")
	err := sim.Serve(ctx, conn, opts)
	l.Info("power off", "duration", time.Since(start).Round(time.Millisecond), "error", err)
}
