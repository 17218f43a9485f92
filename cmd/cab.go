// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Trackside Labs

package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tracksidelabs/wicab/pkg/withrottle"
)

var cabCmd = &cobra.Command{
	Use:   "cab",
	Short: "Interactive TUI throttle",
	Long: `Drive locomotives via an interactive terminal UI.

This command provides a cab-style throttle for a WiThrottle server:
select, steal, or release a locomotive, control speed and direction,
toggle function outputs, and watch the fast clock, track power, and
heartbeat state. Inbound protocol events appear in the session log.

Keys:
  tab         Switch between address entry and the cab
  enter       Acquire the typed address (e.g. L1234 or S3)
  s           Steal the typed address
  r           Release the current locomotive
  up/down     Speed +1 / -1 (hold shift for +10 / -10)
  left/right  Direction reverse / forward
  0-9         Toggle function 0-9
  x           Emergency stop
  q           Quit

Supports TCP, serial, and WebSocket connections.`,
	RunE: runCab,
}

func init() {
	rootCmd.AddCommand(cabCmd)
}

func runCab(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	stream := withrottle.NewIOStream(conn)
	defer stream.Close()

	throttle := withrottle.New(false)
	throttle.Connect(stream)

	throttle.SetDeviceName(deviceName)
	if deviceID != "" {
		throttle.SetDeviceID(deviceID)
	}

	m := initialCabModel(throttle, connInfo)

	// Every Check() and every outbound command runs inside the
	// Bubble Tea update loop; the throttle is never touched from
	// another goroutine.
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %v", err)
	}

	return nil
}
