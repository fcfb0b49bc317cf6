// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/snrf/pkg/snrf"
)

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Read a gateway configuration value",
	Long: `Read one configuration value from the gateway and print it as "key = value".

The gateway is switched to CONFIGURING first. Known keys:
  info, state, crc, rate, chan, addr_width, rx_addr, tx_addr, tx_ack,
  payload_width, uart_flags`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

var setCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Write a gateway configuration value",
	Long: `Write one configuration value to the gateway.

The gateway is switched to CONFIGURING first. Values are numbers (decimal or
0x hex) or names for enumerated keys, e.g.:
  snrf set rate 2mbps
  snrf set crc 16
  snrf set rx_addr 0xE7E7E7E7`,
	Args: cobra.ExactArgs(2),
	RunE: runSet,
}

func init() {
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	key, err := snrf.ParseKey(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	s, _, err := OpenSession(ctx, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := forceState(ctx, s, snrf.StateConfiguring); err != nil {
		return err
	}

	value, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	fmt.Println(snrf.FormatKeyValue(key, value))
	return nil
}

func runSet(cmd *cobra.Command, args []string) error {
	key, err := snrf.ParseKey(args[0])
	if err != nil {
		return err
	}
	value, err := snrf.ParseValue(key, args[1])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	s, _, err := OpenSession(ctx, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	// Setting the state is how the gateway leaves CONFIGURING
	if key != snrf.KeyState {
		if err := forceState(ctx, s, snrf.StateConfiguring); err != nil {
			return err
		}
	}

	return s.Set(ctx, key, value)
}
