// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Trackside Labs

package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tracksidelabs/wicab/pkg/withrottle"
)

var monitorVerbose bool

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Log WiThrottle protocol events as they arrive",
	Long: `Connect to a WiThrottle server and continuously log every inbound
protocol event: fast clock updates, heartbeat configuration, track power,
version and web port announcements, and roster add/remove traffic.

With --verbose the raw line traffic in both directions is shown as well.

Press Ctrl+C to exit; session statistics are printed on shutdown.`,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().BoolVarP(&monitorVerbose, "verbose", "v", false, "Log raw protocol traffic")
	rootCmd.AddCommand(monitorCmd)
}

// logDelegate logs every inbound event through zerolog.
type logDelegate struct {
	log zerolog.Logger
}

func (d *logDelegate) HeartbeatConfig(seconds int) {
	d.log.Info().Int("seconds", seconds).Msg("heartbeat period configured")
}

func (d *logDelegate) ReceivedVersion(version string) {
	d.log.Info().Str("version", version).Msg("protocol version")
}

func (d *logDelegate) ReceivedWebPort(port int) {
	d.log.Info().Int("port", port).Msg("web port")
}

func (d *logDelegate) ReceivedTrackPower(state withrottle.TrackPower) {
	d.log.Info().Str("state", state.String()).Msg("track power")
}

func (d *logDelegate) ReceivedFunctionState(funcNum int, state bool) {
	d.log.Info().Int("function", funcNum).Bool("on", state).Msg("function state")
}

func (d *logDelegate) ReceivedSpeed(speed int) {
	d.log.Info().Int("speed", speed).Msg("speed")
}

func (d *logDelegate) ReceivedSpeedSteps(steps int) {
	d.log.Info().Int("steps", steps).Msg("speed steps")
}

func (d *logDelegate) ReceivedDirection(dir withrottle.Direction) {
	d.log.Info().Str("direction", dir.String()).Msg("direction")
}

func (d *logDelegate) AddressAdded(address, entry string) {
	d.log.Info().Str("address", address).Str("entry", entry).Msg("address added")
}

func (d *logDelegate) AddressRemoved(address, entry string) {
	d.log.Info().Str("address", address).Str("entry", entry).Msg("address removed")
}

func (d *logDelegate) AddressStealNeeded(address, entry string) {
	d.log.Warn().Str("address", address).Str("entry", entry).Msg("steal needed")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	log := newLogger(monitorVerbose)
	log.Info().Str("connection", connInfo).Msg("connected")

	stream := withrottle.NewIOStream(conn)
	defer stream.Close()

	throttle := withrottle.New(false)
	throttle.SetConsole(zerologConsole{log: log})
	throttle.SetDelegate(&logDelegate{log: log})
	throttle.Connect(stream)

	throttle.SetDeviceName(deviceName)
	if deviceID != "" {
		throttle.SetDeviceID(deviceID)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-sigChan:
			stats := throttle.Statistics()
			fmt.Print(stats.String())
			return nil
		case <-ticker.C:
			throttle.Check()
		}
	}
}
