// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Trackside Labs

// Package withrottle implements the client side of the WiThrottle text
// protocol used to operate a model-railroad command station (JMRI, or
// compatible devices such as the Digitrax LNWI).
//
// The package provides line framing over a polled byte stream, command
// classification and field extraction for each inbound command family,
// a simulated fast clock, heartbeat keep-alive handling, and builders
// for the outbound throttle commands (locomotive selection, speed,
// direction, functions, emergency stop).
package withrottle

// Wire format
const (
	// Separator is the literal field separator used between command
	// fields on the wire. There is no escaping mechanism.
	Separator = "<;>"

	// InputBufferSize is the capacity of the inbound line buffer. A line
	// that reaches this length without a terminator is discarded.
	InputBufferSize = 1023

	// echoGarbage is a modem-style echo prefix emitted by the Digitrax
	// LnWi in the middle of regular traffic. It is stripped, possibly
	// repeatedly, before a line is classified.
	echoGarbage = "AT+CIPSENDBUF="
)

// Speed limits for the 126-step speed scale
const (
	MinSpeed = 0
	MaxSpeed = 126
)

// MaxFunction is the highest function number accepted by SetFunction.
const MaxFunction = 28

// Direction is the travel direction of a locomotive.
type Direction int

// Direction values
const (
	Reverse Direction = 0
	Forward Direction = 1
)

// String returns the wire-independent name of the direction.
func (d Direction) String() string {
	if d == Reverse {
		return "Reverse"
	}
	return "Forward"
}

// TrackPower is the reported state of track power at the command station.
type TrackPower int

// Track power values
const (
	PowerOff     TrackPower = 0
	PowerOn      TrackPower = 1
	PowerUnknown TrackPower = 2
)

// String returns the human-readable name of the power state.
func (p TrackPower) String() string {
	switch p {
	case PowerOff:
		return "Off"
	case PowerOn:
		return "On"
	default:
		return "Unknown"
	}
}

// ValidSpeedSteps reports whether steps is one of the speed-step modes a
// command station can announce (128, 28, 27, 14 step modes and their
// wire encodings 1, 2, 4, 8, 16).
func ValidSpeedSteps(steps int) bool {
	switch steps {
	case 1, 2, 4, 8, 16:
		return true
	}
	return false
}
