// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.bug.st/serial"
	"golang.org/x/term"

	"github.com/Thermoquad/snrf/pkg/snrf"
	"github.com/Thermoquad/snrf/pkg/snrf/host"
)

// Connection is the byte stream to a gateway, serial or WebSocket
type Connection interface {
	io.Reader
	io.Writer
	io.Closer
}

// SerialConnection is a serial port. Besides the byte stream it exposes the
// buffer controls the host session uses when resynchronizing.
type SerialConnection struct {
	serial.Port
}

// ErrConnectionClosed is returned when reading from a closed WebSocket connection
var ErrConnectionClosed = errors.New("websocket connection closed")

// WebSocketConnection carries the byte stream in binary WebSocket messages,
// one write per message. It serves both the client side (--url) and the
// sim server.
//
// Reads and writes may run on different goroutines; each side must stay on
// one goroutine.
type WebSocketConnection struct {
	conn *websocket.Conn
	cur  io.Reader // remainder of the current binary message
	err  error
}

func (w *WebSocketConnection) Read(p []byte) (int, error) {
	for w.err == nil {
		if w.cur == nil {
			typ, r, err := w.conn.NextReader()
			if err != nil {
				w.err = err
				break
			}
			// Text frames carry nothing for SNRF
			if typ != websocket.BinaryMessage {
				continue
			}
			w.cur = r
		}

		n, err := w.cur.Read(p)
		if errors.Is(err, io.EOF) {
			w.cur = nil
			if n == 0 {
				continue
			}
			err = nil
		}
		return n, err
	}

	if websocket.IsCloseError(w.err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return 0, ErrConnectionClosed
	}
	return 0, w.err
}

func (w *WebSocketConnection) Write(p []byte) (int, error) {
	if err := w.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *WebSocketConnection) Close() error {
	return w.conn.Close()
}

// OpenSerialConnection opens a serial port at baudRate, 8N1
func OpenSerialConnection(portName string, baudRate int) (*SerialConnection, error) {
	port, err := serial.Open(portName, &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", portName, err)
	}
	return &SerialConnection{Port: port}, nil
}

// OpenWebSocketConnection dials a ws:// or wss:// URL. Credentials, when
// given, are sent as HTTP Basic auth.
func OpenWebSocketConnection(wsURL, username, password string, skipSSLVerify bool) (*WebSocketConnection, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("unsupported URL scheme: %q (use ws:// or wss://)", u.Scheme)
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	if u.Scheme == "wss" {
		dialer.TLSClientConfig = &tls.Config{InsecureSkipVerify: skipSSLVerify}
	}

	var header http.Header
	if username != "" {
		req := http.Request{Header: http.Header{}}
		req.SetBasicAuth(username, password)
		header = req.Header
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	conn, resp, err := dialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("WebSocket connection failed (HTTP %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("WebSocket connection failed: %w", err)
	}
	return &WebSocketConnection{conn: conn}, nil
}

// GetPassword returns SNRF_PASSWORD, or asks for it on the terminal
func GetPassword() (string, error) {
	if pw, ok := os.LookupEnv("SNRF_PASSWORD"); ok && pw != "" {
		return pw, nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	defer fmt.Fprintln(os.Stderr)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		pw, err := term.ReadPassword(fd)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(pw), nil
	}

	// Piped input
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// OpenConnection opens the link selected by the root flags and describes it
func OpenConnection() (Connection, string, error) {
	switch {
	case wsURL != "":
		var password string
		if wsUsername != "" {
			pw, err := GetPassword()
			if err != nil {
				return nil, "", err
			}
			password = pw
		}
		conn, err := OpenWebSocketConnection(wsURL, wsUsername, password, wsNoSSLVerify)
		if err != nil {
			return nil, "", err
		}
		return conn, "WebSocket: " + wsURL, nil

	case portName != "":
		conn, err := OpenSerialConnection(portName, baudRate)
		if err != nil {
			return nil, "", err
		}
		return conn, fmt.Sprintf("Serial: %s @ %d baud", portName, baudRate), nil
	}

	return nil, "", errors.New("either --port or --url must be specified")
}

// sessionOptions builds host session options from the root flags
func sessionOptions(stats *snrf.Statistics) []host.Option {
	return []host.Option{
		host.WithTimeout(requestTimeout),
		host.WithAttempts(requestTries),
		host.WithSyncPace(syncPace),
		host.WithStatistics(stats),
	}
}

// OpenSession connects to the gateway and mirrors its state
func OpenSession(ctx context.Context, stats *snrf.Statistics) (*host.Session, string, error) {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return nil, "", err
	}

	s, err := host.Open(ctx, host.NewPort(conn), sessionOptions(stats)...)
	if err != nil {
		conn.Close()
		return nil, "", err
	}
	return s, connInfo, nil
}

// forceState moves the gateway to state unless the session already mirrors it
func forceState(ctx context.Context, s *host.Session, state snrf.State) error {
	if s.State() == state {
		return nil
	}
	if err := s.SetState(ctx, state); err != nil {
		return fmt.Errorf("failed to enter %s: %w", snrf.FormatState(state), err)
	}
	return nil
}
