// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/snrf/pkg/snrf"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <capture-file>",
	Short: "Print payloads stored by read --capture",
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	r := snrf.NewCaptureReader(f)
	count := 0
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("record %d: %w", count, err)
		}
		count++
		fmt.Printf("[%s] %d bytes: %s\n", rec.Timestamp().Format("2006-01-02 15:04:05.000"),
			len(rec.Payload), snrf.FormatHex(rec.Payload))
	}

	fmt.Printf("%d records\n", count)
	return nil
}
