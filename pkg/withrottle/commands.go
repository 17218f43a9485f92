// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Trackside Labs

package withrottle

import "strconv"

// Outbound command builders construct protocol strings for throttle
// actions and hand them to the stream. Each returns whether the command
// was actually sent: preconditions (no stream, no selected locomotive,
// out-of-range parameters) fail softly with false, never with an error.

// SetDeviceName announces the throttle's display name to the server.
func (t *Throttle) SetDeviceName(name string) bool {
	return t.sendCommand("N" + name)
}

// SetDeviceID announces the throttle's unique identifier.
func (t *Throttle) SetDeviceID(id string) bool {
	return t.sendCommand("H" + id)
}

// RequireHeartbeat asks the server to enforce (or stop enforcing) the
// heartbeat on this session.
func (t *Throttle) RequireHeartbeat(needed bool) bool {
	if needed {
		return t.sendCommand("*+")
	}
	return t.sendCommand("*-")
}

// AddLocomotive requests control of a locomotive. The address must
// start with the long ("L") or short ("S") roster-type marker, e.g.
// "L1234". The roster name is currently an identity pass-through.
func (t *Throttle) AddLocomotive(address string) bool {
	if len(address) == 0 || (address[0] != 'S' && address[0] != 'L') {
		return false
	}

	rosterName := address // could be a roster lookup someday
	t.sendCommand("MT+" + address + Separator + rosterName)

	t.currentAddress = address
	t.locomotiveSelected = true
	return true
}

// ReleaseLocomotive gives up control of a locomotive. Always succeeds;
// the selection is cleared even if the server never confirms.
func (t *Throttle) ReleaseLocomotive(address string) bool {
	t.sendCommand("MT-" + address + Separator + "r")

	t.currentAddress = ""
	t.locomotiveSelected = false
	return true
}

// StealLocomotive forcibly acquires a locomotive held elsewhere:
// release followed by add. If the add fails the prior selection is
// already cleared; the caller sees a single failed steal.
func (t *Throttle) StealLocomotive(address string) bool {
	if !t.ReleaseLocomotive(address) {
		return false
	}
	return t.AddLocomotive(address)
}

// SetSpeed sets the selected locomotive's speed (0-126). Out-of-range
// values and calls without a selection are rejected. A speed equal to
// the cached one is accepted without resending.
func (t *Throttle) SetSpeed(speed int) bool {
	if speed < MinSpeed || speed > MaxSpeed {
		return false
	}
	if !t.locomotiveSelected {
		return false
	}

	if speed != t.currentSpeed {
		t.sendCommand("MTA*" + Separator + "V" + strconv.Itoa(speed))
		t.currentSpeed = speed
	}
	return true
}

// SetDirection sets the selected locomotive's travel direction.
func (t *Throttle) SetDirection(dir Direction) bool {
	if !t.locomotiveSelected {
		return false
	}

	cmd := "MTA*" + Separator + "R"
	if dir == Reverse {
		cmd += "0"
	} else {
		cmd += "1"
	}
	t.sendCommand(cmd)

	t.currentDirection = dir
	return true
}

// EmergencyStop halts the selected locomotive immediately, ignoring
// momentum.
func (t *Throttle) EmergencyStop() bool {
	if !t.locomotiveSelected {
		return false
	}

	return t.sendCommand("MTA*" + Separator + "X")
}

// SetFunction presses or releases a function output (0-28) on the
// selected locomotive.
func (t *Throttle) SetFunction(funcNum int, pressed bool) bool {
	if !t.locomotiveSelected {
		return false
	}
	if funcNum < 0 || funcNum > MaxFunction {
		return false
	}

	cmd := "MTA" + t.currentAddress + Separator + "F"
	if pressed {
		cmd += "1"
	} else {
		cmd += "0"
	}
	cmd += strconv.Itoa(funcNum)

	return t.sendCommand(cmd)
}
