// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Trackside Labs

package withrottle

import "time"

// secondsTimer measures elapsed wall time against a stored start point.
// Both periodic models (fast clock, heartbeat) poll one of these on
// every drive-loop cycle; there is no background ticker. The now
// function is injectable so tests can step time deterministically.
type secondsTimer struct {
	now   func() time.Time
	start time.Time
}

func newSecondsTimer(now func() time.Time) *secondsTimer {
	if now == nil {
		now = time.Now
	}
	return &secondsTimer{now: now, start: now()}
}

// hasPassed reports whether at least secs seconds elapsed since the
// last restart.
func (t *secondsTimer) hasPassed(secs float64) bool {
	return t.now().Sub(t.start).Seconds() >= secs
}

// restart resets the elapsed measurement to zero.
func (t *secondsTimer) restart() {
	t.start = t.now()
}
