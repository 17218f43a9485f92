// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Trackside Labs
//
// wicab - WiThrottle command station cab
//
// A CLI throttle for WiThrottle-speaking command stations (JMRI,
// Digitrax LnWi, DCC-EX) over TCP, WebSocket, or serial.

package main

import (
	"fmt"
	"os"

	"github.com/tracksidelabs/wicab/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
