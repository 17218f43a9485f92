// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Trackside Labs

package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// TCP connection flags
	serverAddress string

	// Serial connection flags
	portName string
	baudRate int

	// WebSocket connection flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool

	// Throttle identity flags
	deviceName string
	deviceID   string
)

var rootCmd = &cobra.Command{
	Use:   "wicab",
	Short: "WiThrottle protocol cab",
	Long: `Wicab - a command-line throttle for WiThrottle servers.

Connects to a JMRI WiThrottle server (or a compatible command station such
as the Digitrax LNWI) and provides commands for driving locomotives,
monitoring protocol traffic, and probing server capabilities.

Connection modes:
  TCP:       --address host:12090
  Serial:    --port /dev/ttyUSB0 [--baud 115200]
  WebSocket: --url ws://host/path [--username user]

For WebSocket authentication, the password is read from the WICAB_PASSWORD
environment variable, or prompted interactively if not set. The --password
flag is intentionally not provided to avoid leaking credentials in shell
history.`,
	Version: "1.0.0",
}

func init() {
	// TCP connection flags
	rootCmd.PersistentFlags().StringVarP(&serverAddress, "address", "a", "", "WiThrottle server address (host:port)")

	// Serial connection flags
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 115200, "Baud rate (serial only)")

	// WebSocket connection flags
	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "WebSocket URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")

	// Throttle identity flags
	rootCmd.PersistentFlags().StringVar(&deviceName, "name", "wicab", "Throttle name announced to the server")
	rootCmd.PersistentFlags().StringVar(&deviceID, "id", "", "Throttle device ID announced to the server")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
