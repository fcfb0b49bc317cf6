// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad
//
// snrf - SNRF radio gateway client
//
// A CLI tool for configuring an SNRF gateway and exchanging radio payloads
// through it over a serial or WebSocket link.

package main

import (
	"fmt"
	"os"

	"github.com/golang/glog"

	"github.com/Thermoquad/snrf/cmd"
)

func main() {
	err := cmd.Execute()
	glog.Flush()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
