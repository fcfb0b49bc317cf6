// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/snrf/pkg/snrf"
	"github.com/Thermoquad/snrf/pkg/snrf/host"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Resynchronize the link to the gateway",
	Long: `Send the resynchronization sequence (sync bytes followed by the
terminator) and confirm the gateway answers.

After a resync the gateway is in CONFIGURING.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	s := host.NewSession(host.NewPort(conn), sessionOptions(nil)...)
	defer s.Close()

	if err := s.Sync(); err != nil {
		return err
	}

	state, err := s.Get(cmd.Context(), snrf.KeyState)
	if err != nil {
		return err
	}
	fmt.Printf("%s: synchronized, state = %s\n", connInfo, snrf.FormatState(snrf.State(state)))
	return nil
}
