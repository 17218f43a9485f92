// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Trackside Labs

package withrottle

import (
	"fmt"
	"time"
)

// ============================================================
// Test Helpers
// ============================================================

// testStream is a scripted in-memory Stream. Inbound bytes are fed with
// feed(); outbound lines are recorded in sent.
type testStream struct {
	input    []byte
	sent     []string
	writeErr error
}

func (s *testStream) Available() bool {
	return len(s.input) > 0
}

func (s *testStream) ReadByte() (byte, bool) {
	if len(s.input) == 0 {
		return 0, false
	}
	b := s.input[0]
	s.input = s.input[1:]
	return b, true
}

func (s *testStream) WriteLine(line string) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.sent = append(s.sent, line)
	return nil
}

func (s *testStream) feed(data string) {
	s.input = append(s.input, data...)
}

// testConsole records diagnostic lines.
type testConsole struct {
	lines []string
}

func (c *testConsole) Printf(format string, args ...interface{}) {
	c.lines = append(c.lines, fmt.Sprintf(format, args...))
}

// fakeClock provides a steppable time source for the periodic models.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

// functionEvent mirrors one ReceivedFunctionState callback.
type functionEvent struct {
	num   int
	state bool
}

// addressEvent mirrors one address add/remove/steal callback.
type addressEvent struct {
	address string
	entry   string
}

// eventRecorder captures every delegate callback for assertions.
type eventRecorder struct {
	heartbeats  []int
	versions    []string
	webPorts    []int
	trackPower  []TrackPower
	functions   []functionEvent
	speeds      []int
	speedSteps  []int
	directions  []Direction
	added       []addressEvent
	removed     []addressEvent
	stealNeeded []addressEvent
}

func (r *eventRecorder) HeartbeatConfig(seconds int) { r.heartbeats = append(r.heartbeats, seconds) }
func (r *eventRecorder) ReceivedVersion(v string)    { r.versions = append(r.versions, v) }
func (r *eventRecorder) ReceivedWebPort(p int)       { r.webPorts = append(r.webPorts, p) }
func (r *eventRecorder) ReceivedTrackPower(s TrackPower) {
	r.trackPower = append(r.trackPower, s)
}
func (r *eventRecorder) ReceivedFunctionState(n int, state bool) {
	r.functions = append(r.functions, functionEvent{n, state})
}
func (r *eventRecorder) ReceivedSpeed(s int)      { r.speeds = append(r.speeds, s) }
func (r *eventRecorder) ReceivedSpeedSteps(s int) { r.speedSteps = append(r.speedSteps, s) }
func (r *eventRecorder) ReceivedDirection(d Direction) {
	r.directions = append(r.directions, d)
}
func (r *eventRecorder) AddressAdded(a, e string) {
	r.added = append(r.added, addressEvent{a, e})
}
func (r *eventRecorder) AddressRemoved(a, e string) {
	r.removed = append(r.removed, addressEvent{a, e})
}
func (r *eventRecorder) AddressStealNeeded(a, e string) {
	r.stealNeeded = append(r.stealNeeded, addressEvent{a, e})
}

// newTestThrottle builds a connected client-role throttle on a fake
// clock with a recorder delegate attached.
func newTestThrottle() (*Throttle, *testStream, *eventRecorder, *fakeClock) {
	clk := &fakeClock{t: time.Unix(100000, 0)}
	stream := &testStream{}
	rec := &eventRecorder{}

	th := New(false)
	th.now = clk.Now
	th.Connect(stream)
	th.SetDelegate(rec)

	return th, stream, rec, clk
}
