// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/snrf/pkg/snrf"
	"github.com/Thermoquad/snrf/pkg/snrf/host"
)

var (
	pingTimeout time.Duration
	pingCount   int
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check the gateway answers by reading its INFO key",
	Long: `Send GET INFO requests to the gateway and wait for each completion.

Each ping is a single attempt: a missing completion counts as lost and the
link is resynchronized before the next one.

This is useful for verifying:
  - the serial or WebSocket link is up
  - the gateway firmware is running
  - which radio back-end it drives

Exit codes:
  0 - All pings successful
  1 - One or more pings failed/timed out
  2 - Connection error`,
	RunE: runPing,
}

func init() {
	rootCmd.AddCommand(pingCmd)
	pingCmd.Flags().DurationVar(&pingTimeout, "wait", time.Second, "Timeout for each ping")
	pingCmd.Flags().IntVar(&pingCount, "count", 3, "Number of pings to send")
}

func runPing(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}

	opts := append(sessionOptions(nil), host.WithTimeout(pingTimeout), host.WithAttempts(1))
	s := host.NewSession(host.NewPort(conn), opts...)
	defer s.Close()

	fmt.Printf("snrf - Gateway Ping\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Timeout: %v per ping\n", pingTimeout)
	fmt.Printf("Count: %d pings\n\n", pingCount)

	ctx := cmd.Context()
	successCount := 0
	failCount := 0

	for i := 1; i <= pingCount && ctx.Err() == nil; i++ {
		fmt.Printf("Ping %d/%d: ", i, pingCount)

		startTime := time.Now()
		info, err := s.Get(ctx, snrf.KeyInfo)
		if err != nil {
			fmt.Printf("FAILED: %v\n", err)
			failCount++

			// Leave the link framed for the next ping
			if err := s.Sync(); err != nil {
				fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
				os.Exit(2)
			}
		} else {
			rtt := time.Since(startTime)
			fmt.Printf("INFO %s, rtt=%v\n", formatInfo(info), rtt.Round(time.Microsecond))
			successCount++
		}

		// Small delay between pings
		if i < pingCount {
			sleep(ctx, 100*time.Millisecond)
		}
	}

	// Summary
	sent := successCount + failCount
	fmt.Printf("\n--- Ping statistics ---\n")
	if sent > 0 {
		fmt.Printf("%d pings sent, %d completions received, %.0f%% loss\n",
			sent, successCount, float64(failCount)/float64(sent)*100)
	}

	if failCount > 0 {
		os.Exit(1)
	}
	return nil
}

// formatInfo splits the INFO value into radio id and protocol version
func formatInfo(info uint32) string {
	return fmt.Sprintf("radio=%d protocol=%d", info&0xff, (info>>8)&0xff)
}

func sleep(ctx context.Context, d time.Duration) {
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}
