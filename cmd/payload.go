// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/snrf/pkg/snrf"
)

var (
	readCapture string
	writeHex    bool
)

var readCmd = &cobra.Command{
	Use:   "read [count]",
	Short: "Receive radio payloads",
	Long: `Switch the gateway to TRANSMIT_RECEIVE and print received payloads in hex.

Without a count, payloads are read until interrupted. With --capture the
payloads are also appended to a CBOR capture file that the dump command
can replay.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRead,
}

var writeCmd = &cobra.Command{
	Use:   "write <bytes>",
	Short: "Transmit one radio payload",
	Long: `Switch the gateway to TRANSMIT_RECEIVE and transmit one payload.

The argument is sent as raw bytes; with --hex it is decoded from hex first.
Payloads longer than 16 bytes are truncated.`,
	Args: cobra.ExactArgs(1),
	RunE: runWrite,
}

func init() {
	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(writeCmd)
	readCmd.Flags().StringVar(&readCapture, "capture", "", "Append payloads to a capture file")
	writeCmd.Flags().BoolVar(&writeHex, "hex", false, "Decode the argument as hex")
}

func runRead(cmd *cobra.Command, args []string) error {
	count := -1
	if len(args) == 1 {
		n, err := strconv.ParseUint(args[0], 0, 31)
		if err != nil {
			return fmt.Errorf("invalid count %q: %w", args[0], err)
		}
		count = int(n)
	}

	var capture *snrf.CaptureWriter
	if readCapture != "" {
		f, err := os.OpenFile(readCapture, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open capture file: %w", err)
		}
		defer f.Close()
		capture = snrf.NewCaptureWriter(f)
	}

	ctx := cmd.Context()
	s, _, err := OpenSession(ctx, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := forceState(ctx, s, snrf.StateTransmitReceive); err != nil {
		return err
	}

	for ; count != 0; count-- {
		data, err := s.ReadPayload(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		fmt.Print(formatPayload(data))

		if capture != nil {
			if err := capture.Write(time.Now(), data); err != nil {
				return err
			}
		}
	}
	return nil
}

func runWrite(cmd *cobra.Command, args []string) error {
	data := []byte(args[0])
	if writeHex {
		var err error
		data, err = hex.DecodeString(strings.ReplaceAll(args[0], " ", ""))
		if err != nil {
			return fmt.Errorf("invalid hex payload: %w", err)
		}
	}
	if len(data) > snrf.MaxPayloadSize {
		data = data[:snrf.MaxPayloadSize]
	}

	ctx := cmd.Context()
	s, _, err := OpenSession(ctx, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := forceState(ctx, s, snrf.StateTransmitReceive); err != nil {
		return err
	}
	return s.WritePayload(ctx, data)
}

// formatPayload prints data as hex, 8 bytes per line
func formatPayload(data []byte) string {
	var b strings.Builder
	for i, x := range data {
		if i > 0 && i%8 == 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%02x", x)
	}
	b.WriteByte('\n')
	return b.String()
}
