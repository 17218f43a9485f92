// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Trackside Labs

package withrottle

import "time"

// Throttle is one client session against a WiThrottle command station.
// It is single-threaded and cooperative: the owner calls Check()
// periodically (250ms or faster), and every periodic behavior is
// realized by polling elapsed time inside that call. One Throttle owns
// one stream and one line buffer; a host wanting several sessions
// creates several Throttles.
type Throttle struct {
	// server selects server-side framing: an extra blank line after
	// every outbound command, preserving the double-terminator contract
	// peers expect. Fixed at construction.
	server bool

	stream   Stream
	console  Console
	delegate Delegate

	buf   *lineBuffer
	stats Statistics

	// Fast clock model
	fastTimeTimer *secondsTimer
	fastTime      float64
	fastTimeRate  float64
	clockChanged  bool

	// Heartbeat model
	heartbeatTimer   *secondsTimer
	heartbeatPeriod  int
	heartbeatChanged bool

	// Current locomotive selection
	currentAddress     string
	locomotiveSelected bool
	currentSpeed       int
	speedSteps         int
	currentDirection   Direction

	now func() time.Time
}

// New creates a Throttle. server selects server-role outbound framing;
// clients pass false.
func New(server bool) *Throttle {
	t := &Throttle{
		server:           server,
		now:              time.Now,
		currentDirection: Forward,
	}
	t.init()
	return t
}

// init resets all session state. Run on construction and again on every
// Connect so a rebound stream starts from a clean session.
func (t *Throttle) init() {
	t.stream = nil
	t.buf = newLineBuffer()
	t.stats = newStatistics(t.now())
	t.heartbeatPeriod = 0
	t.fastTime = 0
	t.fastTimeRate = 0
	t.currentAddress = ""
	t.locomotiveSelected = false
	t.fastTimeTimer = newSecondsTimer(t.now)
	t.heartbeatTimer = newSecondsTimer(t.now)
	t.resetChangeFlags()
}

func (t *Throttle) resetChangeFlags() {
	t.clockChanged = false
	t.heartbeatChanged = false
}

// SetConsole attaches the diagnostic sink. Pass nil to silence tracing.
func (t *Throttle) SetConsole(console Console) {
	t.console = console
}

// SetDelegate attaches the inbound event observer. Pass nil to detach;
// state-only updates still happen without one.
func (t *Throttle) SetDelegate(delegate Delegate) {
	t.delegate = delegate
}

// Connect binds the throttle to a stream, resetting all session state
// first. The stream stays owned by the caller.
func (t *Throttle) Connect(stream Stream) {
	t.init()
	t.stream = stream
}

// Disconnect detaches the stream. Every operation degrades to a no-op
// until the next Connect.
func (t *Throttle) Disconnect() {
	t.stream = nil
}

// Connected reports whether a stream is attached.
func (t *Throttle) Connected() bool {
	return t.stream != nil
}

// Check is the drive loop: it advances the fast clock, fires the
// heartbeat if due, drains all available input, and reports whether
// anything observable changed this cycle. Returns false immediately
// when no stream is attached. Call it at least every 250ms.
func (t *Throttle) Check() bool {
	t.resetChangeFlags()

	if t.stream == nil {
		return false
	}

	// Fast clock before heartbeat, input last.
	changed := t.checkFastTime()
	changed = t.checkHeartbeat() || changed
	changed = t.drainInput() || changed

	return changed
}

// checkFastTime advances the simulated clock once per elapsed real
// second. A rate of zero freezes the clock.
func (t *Throttle) checkFastTime() bool {
	if !t.fastTimeTimer.hasPassed(1) {
		return false
	}
	t.fastTimeTimer.restart()

	if t.fastTimeRate == 0 {
		t.clockChanged = false
		return false
	}

	t.fastTime += t.fastTimeRate
	t.clockChanged = true
	return true
}

// checkHeartbeat emits a keep-alive once per half heartbeat period.
// Disabled entirely while the period is zero.
func (t *Throttle) checkHeartbeat() bool {
	if t.heartbeatPeriod > 0 && t.heartbeatTimer.hasPassed(0.5*float64(t.heartbeatPeriod)) {
		t.heartbeatTimer.restart()
		t.sendCommand("*")
		t.stats.HeartbeatsSent++
		return true
	}
	return false
}

// sendCommand writes one command line to the stream, mirroring it to
// the console. In server role an extra blank line follows, preserving
// the double-terminator framing. Reports false when no stream is
// attached; a failed write is traced but not surfaced.
func (t *Throttle) sendCommand(cmd string) bool {
	if t.stream == nil {
		return false
	}

	if err := t.stream.WriteLine(cmd); err != nil {
		t.consolef("write failed: %v", err)
		return false
	}
	if t.server {
		t.stream.WriteLine("")
	}

	t.consolef("==> %s", cmd)
	return true
}

func (t *Throttle) consolef(format string, args ...interface{}) {
	if t.console != nil {
		t.console.Printf(format, args...)
	}
}

// FastTimeHours returns the hour component of the simulated time,
// decomposed with epoch semantics. Callers wanting a 24h clock face get
// exactly that, since the decomposition already reduces modulo a day.
func (t *Throttle) FastTimeHours() int {
	return time.Unix(int64(t.fastTime), 0).UTC().Hour()
}

// FastTimeMinutes returns the minute component of the simulated time.
func (t *Throttle) FastTimeMinutes() int {
	return time.Unix(int64(t.fastTime), 0).UTC().Minute()
}

// FastTimeRate returns the fast clock rate. Zero means frozen.
func (t *Throttle) FastTimeRate() float64 {
	return t.fastTimeRate
}

// ClockChanged reports whether the last Check advanced the fast clock.
func (t *Throttle) ClockChanged() bool {
	return t.clockChanged
}

// HeartbeatChanged reports whether the last Check saw heartbeat
// configuration activity.
func (t *Throttle) HeartbeatChanged() bool {
	return t.heartbeatChanged
}

// HeartbeatPeriod returns the configured heartbeat period in seconds,
// zero when disabled.
func (t *Throttle) HeartbeatPeriod() int {
	return t.heartbeatPeriod
}

// Speed returns the last known speed for the selected locomotive.
func (t *Throttle) Speed() int {
	return t.currentSpeed
}

// CurrentDirection returns the last known direction for the selected
// locomotive.
func (t *Throttle) CurrentDirection() Direction {
	return t.currentDirection
}

// SpeedSteps returns the last reported speed-step mode, zero when the
// server has not announced one.
func (t *Throttle) SpeedSteps() int {
	return t.speedSteps
}

// SelectedAddress returns the selected locomotive address, empty when
// none is selected.
func (t *Throttle) SelectedAddress() string {
	return t.currentAddress
}

// Statistics returns a snapshot of the session counters.
func (t *Throttle) Statistics() Statistics {
	return t.stats
}
