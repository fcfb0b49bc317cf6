// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Thermoquad/snrf/pkg/snrf"
	"github.com/Thermoquad/snrf/pkg/snrf/host"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Interactive payload monitor (TUI)",
	Long: `Switch the gateway to TRANSMIT_RECEIVE and show received payloads live,
with session statistics and a prompt to transmit payloads.

Keys:
  enter   transmit the typed payload (prefix with 0x for hex)
  ctrl+r  read the radio configuration
  ctrl+s  resynchronize the link
  esc     quit`,
	Args: cobra.NoArgs,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	stats := snrf.NewStatistics()
	s, connInfo, err := OpenSession(ctx, stats)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := forceState(ctx, s, snrf.StateTransmitReceive); err != nil {
		return err
	}

	loop := host.NewLoop(s, 0)
	p := tea.NewProgram(initialMonitorModel(ctx, loop, connInfo, stats), tea.WithAltScreen())

	// The loop owns the session from here on
	go func() {
		err := loop.Run(ctx)
		if !errors.Is(err, context.Canceled) {
			p.Send(loopDoneMsg{err: err})
		}
	}()
	go func() {
		for rx := range loop.Payloads() {
			p.Send(payloadMsg(rx))
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
