// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/Thermoquad/snrf/pkg/snrf"
)

var rawLogCmd = &cobra.Command{
	Use:   "raw_log",
	Short: "Display every message from the gateway in human-readable format",
	Long: `Continuously decode and display SNRF messages as they arrive, without
sending anything to the gateway.

Messages are framed by position only: start the log while the link is idle
or run the sync command first.

Supports both serial and WebSocket connections.`,
	Args: cobra.NoArgs,
	RunE: runRawLog,
}

func init() {
	rootCmd.AddCommand(rawLogCmd)
}

func runRawLog(cmd *cobra.Command, args []string) error {
	// Open connection (serial or WebSocket)
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	go func() {
		<-cmd.Context().Done()
		conn.Close()
	}()

	fmt.Printf("snrf - Raw Message Log\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	var buf [snrf.MessageSize]byte
	for {
		if _, err := io.ReadFull(conn, buf[:]); err != nil {
			if cmd.Context().Err() != nil {
				return nil
			}
			// A closed link is the normal end of the log
			if errors.Is(err, ErrConnectionClosed) || errors.Is(err, io.EOF) {
				glog.Info("connection closed")
				return nil
			}
			return fmt.Errorf("read error: %w", err)
		}

		m, err := snrf.DecodeMessage(buf[:])
		if err != nil {
			fmt.Printf("[ERROR] %v\n", err)
			continue
		}
		fmt.Print(snrf.FormatMessage(&m, time.Now()))
	}
}
