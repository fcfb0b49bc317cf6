// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/Thermoquad/snrf/pkg/snrf/device"
	"github.com/Thermoquad/snrf/pkg/snrf/radio"
)

var (
	simListen  string
	simProfile string
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Serve simulated gateways over WebSocket",
	Long: `Run simulated SNRF gateways behind a WebSocket endpoint.

Every WebSocket connection gets its own gateway with a simulated radio. All
radios share one ether, so two clients tuned alike exchange payloads:

  snrf sim --listen :8080 --profile nrf905
  snrf --url ws://localhost:8080/ read
  snrf --url ws://localhost:8080/ write hello`,
	Args: cobra.NoArgs,
	RunE: runSim,
}

func init() {
	rootCmd.AddCommand(simCmd)
	simCmd.Flags().StringVar(&simListen, "listen", ":8080", "Listen address")
	simCmd.Flags().StringVar(&simProfile, "profile", radio.NRF24L01P.Name,
		"Radio profile ("+strings.Join(profileNames(), ", ")+")")
}

func profileNames() []string {
	names := make([]string, 0, len(radio.Profiles))
	for name := range radio.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// simServer hands each WebSocket connection a gateway on the shared ether
type simServer struct {
	ctx      context.Context
	profile  *radio.Profile
	ether    *radio.Ether
	upgrader websocket.Upgrader
}

func (s *simServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		glog.Warningf("upgrade from %s failed: %v", r.RemoteAddr, err)
		return
	}
	ws := &WebSocketConnection{conn: conn}
	defer ws.Close()

	rf := radio.NewSim(s.profile, s.ether)
	defer rf.Close()

	glog.Infof("%s: gateway attached (%d on ether)", r.RemoteAddr, s.ether.Len())
	g := device.NewGateway(device.NewStreamLine(ws), rf)

	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	go func() {
		// Unblocks the line reader on shutdown
		<-ctx.Done()
		ws.Close()
	}()

	err = g.Run(ctx)
	glog.Infof("%s: gateway detached: %v", r.RemoteAddr, err)
}

func runSim(cmd *cobra.Command, args []string) error {
	profile, ok := radio.Profiles[simProfile]
	if !ok {
		return fmt.Errorf("unknown radio profile %q", simProfile)
	}

	ctx := cmd.Context()
	srv := &http.Server{
		Addr: simListen,
		Handler: &simServer{
			ctx:     ctx,
			profile: profile,
			ether:   radio.NewEther(),
		},
	}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(sctx)
	}()

	fmt.Printf("snrf - Simulated Gateway\n")
	fmt.Printf("Listening: ws://%s/ (%s)\n", simListen, profile.Name)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
