// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Thermoquad/snrf/pkg/snrf"
	"github.com/Thermoquad/snrf/pkg/snrf/host"
)

// Event log entry
type logEntry struct {
	timestamp time.Time
	message   string
	kind      entryKind
}

type entryKind int

const (
	entryInfo entryKind = iota
	entryReceived
	entrySent
	entryError
)

// Radio configuration as last read from the gateway
type radioConfig struct {
	info    uint32
	channel uint32
	rate    uint32
	crc     uint32
	rxAddr  uint32
	txAddr  uint32
}

// TUI model
type monitorModel struct {
	ctx      context.Context
	loop     *host.Loop
	connInfo string
	stats    *snrf.Statistics

	input         textinput.Model
	log           []logEntry
	maxLogEntries int
	state         snrf.State
	config        *radioConfig
	busy          bool
	stopped       bool
	width         int
	height        int
	quitting      bool
}

// Messages
type monitorTickMsg time.Time
type payloadMsg host.Received
type loopDoneMsg struct {
	err error
}
type sentMsg struct {
	data  []byte
	state snrf.State
	err   error
}
type configMsg struct {
	config radioConfig
	err    error
}
type resyncMsg struct {
	state snrf.State
	err   error
}

// formatUptime formats a duration as a human-friendly string
func formatUptime(d time.Duration) string {
	seconds := int64(d / time.Second)
	minutes := seconds / 60
	hours := minutes / 60
	days := hours / 24

	seconds %= 60
	minutes %= 60
	hours %= 24

	parts := []string{}
	if days > 0 {
		parts = append(parts, plural(days, "day"))
	}
	if hours > 0 {
		parts = append(parts, plural(hours, "hour"))
	}
	if minutes > 0 {
		parts = append(parts, plural(minutes, "minute"))
	}
	if seconds > 0 || len(parts) == 0 {
		parts = append(parts, plural(seconds, "second"))
	}

	// Join with commas and "and" for last item
	if len(parts) == 1 {
		return parts[0]
	}
	last := parts[len(parts)-1]
	return strings.Join(parts[:len(parts)-1], ", ") + " and " + last
}

func plural(n int64, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func initialMonitorModel(ctx context.Context, loop *host.Loop, connInfo string, stats *snrf.Statistics) monitorModel {
	ti := textinput.New()
	ti.Placeholder = "payload or 0x..."
	ti.CharLimit = 2 + 2*snrf.MaxPayloadSize
	ti.Width = 2 + 2*snrf.MaxPayloadSize
	ti.Prompt = "tx> "
	ti.Focus()

	return monitorModel{
		ctx:           ctx,
		loop:          loop,
		connInfo:      connInfo,
		stats:         stats,
		input:         ti,
		log:           make([]logEntry, 0),
		maxLogEntries: 100,
		state:         snrf.StateTransmitReceive,
		width:         80,
		height:        24,
	}
}

func (m monitorModel) Init() tea.Cmd {
	return tea.Batch(
		monitorTickCmd(),
		textinput.Blink,
		m.readConfigCmd(),
	)
}

func monitorTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return monitorTickMsg(t)
	})
}

// parsePayload accepts raw text or 0x-prefixed hex
func parsePayload(s string) ([]byte, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return hex.DecodeString(strings.ReplaceAll(s[2:], " ", ""))
	}
	return []byte(s), nil
}

func (m monitorModel) sendCmd(data []byte) tea.Cmd {
	return func() tea.Msg {
		var state snrf.State
		err := m.loop.Do(m.ctx, func(ctx context.Context, s *host.Session) error {
			err := s.WritePayload(ctx, data)
			state = s.State()
			return err
		})
		return sentMsg{data: data, state: state, err: err}
	}
}

func (m monitorModel) readConfigCmd() tea.Cmd {
	return func() tea.Msg {
		var c radioConfig
		err := m.loop.Do(m.ctx, func(ctx context.Context, s *host.Session) error {
			fields := []struct {
				key snrf.Key
				dst *uint32
			}{
				{snrf.KeyInfo, &c.info},
				{snrf.KeyChannel, &c.channel},
				{snrf.KeyRate, &c.rate},
				{snrf.KeyCRC, &c.crc},
				{snrf.KeyRxAddr, &c.rxAddr},
				{snrf.KeyTxAddr, &c.txAddr},
			}
			for _, f := range fields {
				v, err := s.Get(ctx, f.key)
				if err != nil {
					return err
				}
				*f.dst = v
			}
			return nil
		})
		return configMsg{config: c, err: err}
	}
}

func (m monitorModel) resyncCmd() tea.Cmd {
	return func() tea.Msg {
		var state snrf.State
		err := m.loop.Do(m.ctx, func(ctx context.Context, s *host.Session) error {
			if err := s.Sync(); err != nil {
				return err
			}
			err := s.SetState(ctx, snrf.StateTransmitReceive)
			state = s.State()
			return err
		})
		return resyncMsg{state: state, err: err}
	}
}

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			if m.busy || m.stopped {
				return m, nil
			}
			data, err := parsePayload(m.input.Value())
			if err != nil {
				m.addLogEntry(fmt.Sprintf("Invalid hex: %v", err), entryError)
				return m, nil
			}
			if len(data) == 0 {
				return m, nil
			}
			if len(data) > snrf.MaxPayloadSize {
				m.addLogEntry(fmt.Sprintf("Payload too large: %d bytes (max %d)", len(data), snrf.MaxPayloadSize), entryError)
				return m, nil
			}
			m.input.Reset()
			m.busy = true
			return m, m.sendCmd(data)

		case "ctrl+r":
			if !m.stopped {
				return m, m.readConfigCmd()
			}
			return m, nil

		case "ctrl+s":
			if !m.busy && !m.stopped {
				m.busy = true
				m.addLogEntry("Resynchronizing...", entryInfo)
				return m, m.resyncCmd()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case monitorTickMsg:
		return m, monitorTickCmd()

	case payloadMsg:
		m.addLogEntryAt(msg.Time, fmt.Sprintf("RX %2d bytes  %s", len(msg.Data), formatPayloadLine(msg.Data)), entryReceived)

	case sentMsg:
		m.busy = false
		m.state = msg.state
		if msg.err != nil {
			m.addLogEntry(fmt.Sprintf("TX failed: %v", msg.err), entryError)
		} else {
			m.addLogEntry(fmt.Sprintf("TX %2d bytes  %s", len(msg.data), formatPayloadLine(msg.data)), entrySent)
		}

	case configMsg:
		if msg.err != nil {
			m.addLogEntry(fmt.Sprintf("Config read failed: %v", msg.err), entryError)
		} else {
			c := msg.config
			m.config = &c
		}

	case resyncMsg:
		m.busy = false
		m.state = msg.state
		if msg.err != nil {
			m.addLogEntry(fmt.Sprintf("Resync failed: %v", msg.err), entryError)
		} else {
			m.addLogEntry("Synchronized", entryInfo)
		}

	case loopDoneMsg:
		m.stopped = true
		m.addLogEntry(fmt.Sprintf("Session stopped: %v", msg.err), entryError)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *monitorModel) addLogEntry(message string, kind entryKind) {
	m.addLogEntryAt(time.Now(), message, kind)
}

func (m *monitorModel) addLogEntryAt(ts time.Time, message string, kind entryKind) {
	m.log = append(m.log, logEntry{
		timestamp: ts,
		message:   message,
		kind:      kind,
	})

	// Keep only last N entries
	if len(m.log) > m.maxLogEntries {
		m.log = m.log[len(m.log)-m.maxLogEntries:]
	}
}

// formatPayloadLine shows a payload as hex and, when printable, as text
func formatPayloadLine(data []byte) string {
	text := true
	for _, b := range data {
		if b < 0x20 || b > 0x7e {
			text = false
			break
		}
	}
	if text {
		return fmt.Sprintf("%-47s %q", snrf.FormatHex(data), string(data))
	}
	return snrf.FormatHex(data)
}

func (m monitorModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	// Styles
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	statsLabelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	statsValueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	warningStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	sentStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("14"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	// Header
	var s strings.Builder
	s.WriteString(titleStyle.Render("SNRF - MONITOR"))
	s.WriteString("\n")
	s.WriteString(headerStyle.Render(fmt.Sprintf("%s | State: %s | enter: send  ctrl+r: config  ctrl+s: resync  esc: quit",
		m.connInfo, snrf.FormatState(m.state))))
	s.WriteString("\n\n")

	// Statistics
	snap := m.stats.Snapshot()
	statsContent := strings.Builder{}
	statsContent.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s\n",
		statsLabelStyle.Render("Received:"), statsValueStyle.Render(fmt.Sprintf("%d", snap.PayloadsReceived)),
		statsLabelStyle.Render("Sent:"), statsValueStyle.Render(fmt.Sprintf("%d", snap.PayloadsSent)),
		statsLabelStyle.Render("Requests:"), statsValueStyle.Render(fmt.Sprintf("%d", snap.Requests)),
	))

	if snap.Timeouts > 0 || snap.Resyncs > 0 || snap.CompletionErrors > 0 {
		statsContent.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s\n",
			statsLabelStyle.Render("Timeouts:"), errorStyle.Render(fmt.Sprintf("%d", snap.Timeouts)),
			statsLabelStyle.Render("Resyncs:"), warningStyle.Render(fmt.Sprintf("%d", snap.Resyncs)),
			statsLabelStyle.Render("Errors:"), errorStyle.Render(fmt.Sprintf("%d", snap.CompletionErrors)),
		))
	}

	statsContent.WriteString(fmt.Sprintf("%s %s   %s %s",
		statsLabelStyle.Render("Message Rate:"), statsValueStyle.Render(fmt.Sprintf("%.1f msg/s", snap.MessageRate)),
		statsLabelStyle.Render("Up:"), statsValueStyle.Render(formatUptime(snap.Elapsed)),
	))

	s.WriteString(boxStyle.Render(statsContent.String()))
	s.WriteString("\n\n")

	// Radio configuration (once read)
	if m.config != nil {
		c := m.config
		s.WriteString(statsLabelStyle.Render("Radio:"))
		s.WriteString("\n")
		s.WriteString(boxStyle.Render(fmt.Sprintf("%s %s   %s %s   %s %s   %s %s\n%s %s   %s %s",
			statsLabelStyle.Render("Info:"), statsValueStyle.Render(formatInfo(c.info)),
			statsLabelStyle.Render("Chan:"), statsValueStyle.Render(snrf.FormatValue(snrf.KeyChannel, c.channel)),
			statsLabelStyle.Render("Rate:"), statsValueStyle.Render(snrf.FormatValue(snrf.KeyRate, c.rate)),
			statsLabelStyle.Render("CRC:"), statsValueStyle.Render(snrf.FormatValue(snrf.KeyCRC, c.crc)),
			statsLabelStyle.Render("RX addr:"), statsValueStyle.Render(snrf.FormatValue(snrf.KeyRxAddr, c.rxAddr)),
			statsLabelStyle.Render("TX addr:"), statsValueStyle.Render(snrf.FormatValue(snrf.KeyTxAddr, c.txAddr)),
		)))
		s.WriteString("\n\n")
	}

	// Event log
	s.WriteString(statsLabelStyle.Render("Traffic:"))
	s.WriteString("\n")

	// Calculate how many log entries we can show
	logHeight := m.height - 18 // Reserve space for header, boxes and input
	if logHeight < 5 {
		logHeight = 5
	}

	logContent := strings.Builder{}
	startIdx := len(m.log) - logHeight
	if startIdx < 0 {
		startIdx = 0
	}

	if len(m.log) == 0 {
		logContent.WriteString(headerStyle.Render("  (no traffic yet)"))
	} else {
		for i := startIdx; i < len(m.log); i++ {
			entry := m.log[i]
			timestamp := headerStyle.Render(entry.timestamp.Format("15:04:05.000"))
			switch entry.kind {
			case entryReceived:
				logContent.WriteString(timestamp + " " + statsValueStyle.Render("← "+entry.message) + "\n")
			case entrySent:
				logContent.WriteString(timestamp + " " + sentStyle.Render("→ "+entry.message) + "\n")
			case entryError:
				logContent.WriteString(timestamp + " " + errorStyle.Render("✗ "+entry.message) + "\n")
			default:
				logContent.WriteString(timestamp + " " + warningStyle.Render("ℹ "+entry.message) + "\n")
			}
		}
	}

	s.WriteString(boxStyle.Width(m.width - 4).Render(logContent.String()))
	s.WriteString("\n")

	// Input line
	if m.stopped {
		s.WriteString(errorStyle.Render("session stopped, press esc to quit"))
	} else if m.busy {
		s.WriteString(warningStyle.Render("waiting for gateway..."))
	} else {
		s.WriteString(m.input.View())
	}

	return s.String()
}
