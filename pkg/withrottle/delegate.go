// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Trackside Labs

package withrottle

// Delegate receives inbound protocol events. Register one with
// SetDelegate; a nil delegate is valid, in which case event-only
// commands may skip their parsing work entirely.
type Delegate interface {
	// HeartbeatConfig reports the heartbeat period (seconds) the server
	// expects. The throttle starts sending keep-alives at half this
	// period on its own.
	HeartbeatConfig(seconds int)

	// ReceivedVersion reports the server's protocol version string.
	ReceivedVersion(version string)

	// ReceivedWebPort reports the server's web interface port.
	ReceivedWebPort(port int)

	// ReceivedTrackPower reports the track power state.
	ReceivedTrackPower(state TrackPower)

	// ReceivedFunctionState reports a function output state for the
	// selected locomotive.
	ReceivedFunctionState(funcNum int, state bool)

	// ReceivedSpeed reports the selected locomotive's speed (0-126).
	ReceivedSpeed(speed int)

	// ReceivedSpeedSteps reports the decoder speed-step mode, one of
	// 1, 2, 4, 8, 16.
	ReceivedSpeedSteps(steps int)

	// ReceivedDirection reports the selected locomotive's direction.
	ReceivedDirection(dir Direction)

	// AddressAdded reports that the server confirmed control of a
	// locomotive address, with its roster entry.
	AddressAdded(address, entry string)

	// AddressRemoved reports that the server released a locomotive
	// address. entry is the dispatch ("d") or release ("r") marker.
	AddressRemoved(address, entry string)

	// AddressStealNeeded reports that the address is held by another
	// throttle and requires a steal to acquire.
	AddressStealNeeded(address, entry string)
}

// NopDelegate is a Delegate with empty methods, intended for embedding
// so callers only implement the callbacks they care about.
type NopDelegate struct{}

func (NopDelegate) HeartbeatConfig(int)               {}
func (NopDelegate) ReceivedVersion(string)            {}
func (NopDelegate) ReceivedWebPort(int)               {}
func (NopDelegate) ReceivedTrackPower(TrackPower)     {}
func (NopDelegate) ReceivedFunctionState(int, bool)   {}
func (NopDelegate) ReceivedSpeed(int)                 {}
func (NopDelegate) ReceivedSpeedSteps(int)            {}
func (NopDelegate) ReceivedDirection(Direction)       {}
func (NopDelegate) AddressAdded(string, string)       {}
func (NopDelegate) AddressRemoved(string, string)     {}
func (NopDelegate) AddressStealNeeded(string, string) {}
