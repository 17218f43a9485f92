// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Trackside Labs

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tracksidelabs/wicab/pkg/withrottle"
)

var probeTimeout time.Duration

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Query server capabilities and exit",
	Long: `Connect to a WiThrottle server, wait for its initial announcements
(protocol version, web port, heartbeat requirement, track power state),
print what was learned, and disconnect.

Useful for checking that a server is reachable and seeing what it offers
before starting an interactive session.`,
	RunE: runProbe,
}

func init() {
	probeCmd.Flags().DurationVar(&probeTimeout, "timeout", 3*time.Second, "How long to wait for announcements")
	rootCmd.AddCommand(probeCmd)
}

// probeDelegate collects the server's opening announcements.
type probeDelegate struct {
	withrottle.NopDelegate

	version    string
	webPort    int
	hasWebPort bool
	heartbeat  int
	power      withrottle.TrackPower
	hasPower   bool
}

func (d *probeDelegate) ReceivedVersion(version string) {
	d.version = version
}

func (d *probeDelegate) ReceivedWebPort(port int) {
	d.webPort = port
	d.hasWebPort = true
}

func (d *probeDelegate) HeartbeatConfig(seconds int) {
	d.heartbeat = seconds
}

func (d *probeDelegate) ReceivedTrackPower(state withrottle.TrackPower) {
	d.power = state
	d.hasPower = true
}

func runProbe(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	stream := withrottle.NewIOStream(conn)
	defer stream.Close()

	delegate := &probeDelegate{}

	throttle := withrottle.New(false)
	throttle.SetDelegate(delegate)
	throttle.Connect(stream)

	throttle.SetDeviceName(deviceName)
	if deviceID != "" {
		throttle.SetDeviceID(deviceID)
	}

	deadline := time.Now().Add(probeTimeout)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for time.Now().Before(deadline) {
		<-ticker.C
		throttle.Check()
	}

	fmt.Printf("Connection:       %s\n", connInfo)
	if delegate.version != "" {
		fmt.Printf("Protocol version: %s\n", delegate.version)
	} else {
		fmt.Printf("Protocol version: (none announced)\n")
	}
	if delegate.hasWebPort {
		fmt.Printf("Web port:         %d\n", delegate.webPort)
	}
	if delegate.heartbeat > 0 {
		fmt.Printf("Heartbeat period: %ds\n", delegate.heartbeat)
	} else {
		fmt.Printf("Heartbeat:        not required\n")
	}
	if delegate.hasPower {
		fmt.Printf("Track power:      %s\n", delegate.power)
	}
	if rate := throttle.FastTimeRate(); rate != 0 {
		fmt.Printf("Fast clock:       %02d:%02d at %.1fx\n",
			throttle.FastTimeHours(), throttle.FastTimeMinutes(), rate)
	}

	return nil
}
