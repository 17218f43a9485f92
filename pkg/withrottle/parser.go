// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Trackside Labs

package withrottle

import (
	"strconv"
	"strings"
)

// commandRule maps a fixed command prefix to its handler. The table is
// checked in order, so more specific prefixes (MTS, MT+, MT-, MTA) must
// appear before anything that could shadow them. strip is the number of
// leading bytes removed before the handler runs; MT+ and MT- strip only
// "MT" so the sign stays part of the payload.
type commandRule struct {
	prefix  string
	minLen  int
	strip   int
	handler func(t *Throttle, payload string) bool
}

// commandTable is the closed set of inbound command kinds. Unlisted
// prefixes are logged and ignored.
var commandTable = []commandRule{
	{"PFT", 4, 3, (*Throttle).processFastTime},
	{"PPA", 4, 3, (*Throttle).processTrackPower},
	{"*", 2, 1, (*Throttle).processHeartbeat},
	{"VN", 3, 2, (*Throttle).processProtocolVersion},
	{"PW", 3, 2, (*Throttle).processWebPort},
	{"MTS", 7, 3, (*Throttle).processStealNeeded},
	{"MT+", 7, 2, (*Throttle).processAddRemove},
	{"MT-", 7, 2, (*Throttle).processAddRemove},
	{"MTA", 9, 3, (*Throttle).processLocomotiveAction},
	{"AT+", 4, 3, (*Throttle).processIgnored},
}

// processCommand classifies one complete line and runs its handler.
// Returns whether the command changed observable state. Malformed or
// unknown input is never an error; it is logged and skipped.
func (t *Throttle) processCommand(line string) bool {
	t.consolef("<== %s", line)

	// The Digitrax LnWi interleaves modem echo noise with real
	// traffic. Strip every leading instance before classifying.
	stripped := false
	for strings.HasPrefix(line, echoGarbage) {
		t.consolef("removed one instance of %s", echoGarbage)
		line = line[len(echoGarbage):]
		stripped = true
		t.stats.GarbageStripped++
	}
	if stripped {
		t.consolef("input string is now: '%s'", line)
	}

	for _, rule := range commandTable {
		if len(line) >= rule.minLen && strings.HasPrefix(line, rule.prefix) {
			t.stats.Commands++
			return rule.handler(t, line[rule.strip:])
		}
	}

	t.stats.UnknownCommands++
	t.consolef("unknown command '%s'", line)
	return false
}

// processIgnored swallows bare AT+ modem chatter without logging it as
// unknown.
func (t *Throttle) processIgnored(string) bool {
	return false
}

// processFastTime handles PFT<time>[<;><rate>]. The time is an integer
// epoch value; the optional rate is real seconds per simulated second.
func (t *Throttle) processFastTime(payload string) bool {
	if p := strings.Index(payload, Separator); p > 0 {
		t.setCurrentFastTime(payload[:p])
		rate, _ := strconv.ParseFloat(payload[p+len(Separator):], 64)
		t.fastTimeRate = rate
		t.consolef("set clock rate to %v", rate)
		t.clockChanged = true
		return true
	}
	t.setCurrentFastTime(payload)
	return true
}

func (t *Throttle) setCurrentFastTime(s string) {
	// Non-numeric input deliberately parses as 0.
	v, _ := strconv.Atoi(strings.TrimSpace(s))
	if t.fastTime == 0 {
		t.consolef("set fast time to %d", v)
	} else {
		t.consolef("updating fast time (should be %d is %v)", v, t.fastTime)
	}
	t.fastTime = float64(v)
}

// processHeartbeat handles *<n>: the server's required heartbeat period
// in seconds. Zero disables the heartbeat without reporting a change.
func (t *Throttle) processHeartbeat(payload string) bool {
	period, _ := strconv.Atoi(strings.TrimSpace(payload))
	t.heartbeatPeriod = period
	if period <= 0 {
		return false
	}
	t.heartbeatChanged = true
	if t.delegate != nil {
		t.delegate.HeartbeatConfig(period)
	}
	return true
}

// processProtocolVersion handles VN<version>.
func (t *Throttle) processProtocolVersion(payload string) bool {
	if t.delegate != nil && len(payload) > 0 {
		t.delegate.ReceivedVersion(payload)
	}
	return true
}

// processWebPort handles PW<port>.
func (t *Throttle) processWebPort(payload string) bool {
	if t.delegate != nil && len(payload) > 0 {
		port, _ := strconv.Atoi(strings.TrimSpace(payload))
		t.delegate.ReceivedWebPort(port)
	}
	return true
}

// processTrackPower handles PPA<0|1>. Anything other than 0 or 1 is
// reported as unknown.
func (t *Throttle) processTrackPower(payload string) bool {
	if t.delegate != nil && len(payload) > 0 {
		state := PowerUnknown
		switch payload[0] {
		case '0':
			state = PowerOff
		case '1':
			state = PowerOn
		}
		t.delegate.ReceivedTrackPower(state)
	}
	return true
}

// processAddRemove handles MT+<addr><;><entry> and MT-<addr><;><entry>.
// The sign is still the first byte of payload. A removal entry must be
// the dispatch ("d") or release ("r") marker; anything else is dumped
// character by character as a malformed removal.
func (t *Throttle) processAddRemove(payload string) bool {
	if t.delegate == nil {
		// Nobody listening, skip the parse.
		return true
	}

	add := payload[0] == '+'

	p := strings.Index(payload, Separator)
	if p <= 0 {
		return true
	}

	address := strings.TrimSpace(payload[1:p])
	entry := strings.TrimSpace(payload[p+len(Separator):])

	if add {
		t.delegate.AddressAdded(address, entry)
		return true
	}

	if entry == "d" || entry == "r" {
		t.delegate.AddressRemoved(address, entry)
	} else {
		t.consolef("malformed address removal: command is %s", entry)
		t.consolef("entry length is %d", len(entry))
		for i := 0; i < len(entry); i++ {
			t.consolef("  char at %d is %d", i, entry[i])
		}
	}
	return true
}

// processStealNeeded handles MTS<addr><;><entry>.
func (t *Throttle) processStealNeeded(payload string) bool {
	if t.delegate == nil {
		return true
	}

	t.consolef("processing steal needed command %s", payload)

	if p := strings.Index(payload, Separator); p > 0 {
		address := payload[:p]
		entry := payload[p+len(Separator):]
		t.delegate.AddressStealNeeded(address, entry)
	}
	return true
}

// processLocomotiveAction handles MTA<addr><;><action>. The address
// must be the currently selected one or the wildcard *; other addresses
// are skipped without comment. With no selection at all the command is
// handled but has no effect.
func (t *Throttle) processLocomotiveAction(payload string) bool {
	if t.currentAddress == "" {
		return true
	}

	switch {
	case strings.HasPrefix(payload, t.currentAddress+Separator):
		payload = payload[len(t.currentAddress)+len(Separator):]
	case strings.HasPrefix(payload, "*"+Separator):
		payload = payload[1+len(Separator):]
	default:
		return false
	}

	if len(payload) == 0 {
		t.consolef("insufficient action to process")
		return false
	}

	switch payload[0] {
	case 'F':
		t.processFunctionState(payload)
	case 'V':
		t.processSpeed(payload)
	case 's':
		t.processSpeedSteps(payload)
	case 'R':
		t.processDirection(payload)
	default:
		t.consolef("unrecognized action '%c'", payload[0])
	}
	return true
}

// processFunctionState parses F<0|1><nn>, e.g. F03 (function 3 off) or
// F112 (function 12 on). A parse failure on the function number is
// distinguished from a literal "0" so function 0 is still reported.
func (t *Throttle) processFunctionState(action string) {
	if t.delegate == nil || len(action) < 3 {
		return
	}

	state := action[1] == '1'

	numStr := action[2:]
	funcNum, err := strconv.Atoi(numStr)
	if err != nil || funcNum < 0 {
		// Parse error, not function 0.
		return
	}

	t.delegate.ReceivedFunctionState(funcNum, state)
}

// processSpeed parses V<nnn>. Values outside [0, 126] coerce to 0 as a
// safety default rather than being rejected.
func (t *Throttle) processSpeed(action string) {
	if t.delegate == nil || len(action) < 2 {
		return
	}

	speed, _ := strconv.Atoi(action[1:])
	if speed < MinSpeed || speed > MaxSpeed {
		speed = 0
	}

	t.currentSpeed = speed
	t.delegate.ReceivedSpeed(speed)
}

// processSpeedSteps parses s<n>. Only the known step modes are
// delegated; anything else is dropped.
func (t *Throttle) processSpeedSteps(action string) {
	if t.delegate == nil || len(action) < 2 {
		return
	}

	steps, _ := strconv.Atoi(action[1:])
	if !ValidSpeedSteps(steps) {
		return
	}

	t.speedSteps = steps
	t.delegate.ReceivedSpeedSteps(steps)
}

// processDirection parses R<0|1>: 0 is reverse, anything else forward.
func (t *Throttle) processDirection(action string) {
	if t.delegate == nil || len(action) != 2 {
		return
	}

	if action[1] == '0' {
		t.currentDirection = Reverse
	} else {
		t.currentDirection = Forward
	}

	t.delegate.ReceivedDirection(t.currentDirection)
}
