// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/snrf/pkg/snrf/host"
)

var (
	// Serial connection flags
	portName string
	baudRate int

	// WebSocket connection flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool

	// Session flags
	requestTimeout time.Duration
	requestTries   int
	syncPace       time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "snrf",
	Short: "SNRF radio gateway client",
	Long: `snrf - talk to an SNRF radio gateway over a serial link.

Reads and writes gateway configuration, sends and receives radio payloads and
monitors traffic. A simulated gateway is available through the sim command.

Connection modes:
  Serial:    --port /dev/ttyUSB0 [--baud 115200]
  WebSocket: --url ws://host/path [--username user]

For WebSocket authentication, the password is read from the SNRF_PASSWORD
environment variable, or prompted interactively if not set.

Keys may be given by name (chan, rx_addr, ...) or numeric id.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// glog refuses to log before the Go flag set is parsed
		return flag.CommandLine.Parse(nil)
	},
}

func init() {
	// Serial connection flags
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 115200, "Baud rate (serial only)")

	// WebSocket connection flags
	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "WebSocket URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")

	// Session flags
	rootCmd.PersistentFlags().DurationVar(&requestTimeout, "timeout", host.DefaultTimeout, "Completion timeout per attempt")
	rootCmd.PersistentFlags().IntVar(&requestTries, "attempts", host.DefaultAttempts, "Request attempts before giving up")
	rootCmd.PersistentFlags().DurationVar(&syncPace, "sync-pace", host.DefaultSyncPace, "Delay between resync bytes")

	// glog flags (-v, -vmodule, -logtostderr, ...)
	flag.Set("logtostderr", "true")
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
}

// Execute runs the root command. Ctrl+C cancels the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}
