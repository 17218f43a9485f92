// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Trackside Labs

package withrottle

import (
	"strings"
	"testing"
)

func TestCheck_NoStream(t *testing.T) {
	th := New(false)
	if th.Check() {
		t.Error("Check() without a stream should report no change")
	}
	if th.Connected() {
		t.Error("Connected() should be false before Connect")
	}
}

func TestFramer_Terminators(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantLines uint64
	}{
		{"newline terminated", "VN2.0\n", 1},
		{"carriage return terminated", "VN2.0\r", 1},
		{"double newline collapses", "VN2.0\n\n", 1},
		{"crlf collapses", "VN2.0\r\n", 1},
		{"two commands double framed", "VN2.0\n\nPW12080\n\n", 2},
		{"unterminated partial not dispatched", "VN2.0", 0},
		{"leading terminators ignored", "\n\n\nVN2.0\n", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th, stream, _, _ := newTestThrottle()
			stream.feed(tt.input)
			th.Check()

			if got := th.Statistics().Lines; got != tt.wantLines {
				t.Errorf("dispatched %d lines, want %d", got, tt.wantLines)
			}
		})
	}
}

func TestFramer_PartialLineAcrossPolls(t *testing.T) {
	th, stream, rec, _ := newTestThrottle()

	stream.feed("VN2.")
	th.Check()
	if len(rec.versions) != 0 {
		t.Fatal("partial line should not dispatch")
	}

	stream.feed("0\n")
	th.Check()
	if len(rec.versions) != 1 || rec.versions[0] != "2.0" {
		t.Errorf("versions = %v, want [2.0]", rec.versions)
	}
}

func TestFramer_OverflowDiscardsLine(t *testing.T) {
	th, stream, rec, _ := newTestThrottle()
	console := &testConsole{}
	th.SetConsole(console)

	// A full buffer of unterminated bytes: one diagnostic, no dispatch.
	stream.feed(strings.Repeat("A", InputBufferSize))
	th.Check()

	if th.Statistics().Overflows != 1 {
		t.Errorf("Overflows = %d, want 1", th.Statistics().Overflows)
	}
	if th.Statistics().Lines != 0 {
		t.Error("overflowed line must not be dispatched")
	}

	var diags int
	for _, line := range console.lines {
		if strings.HasPrefix(line, "ERROR LINE TOO LONG") {
			diags++
		}
	}
	if diags != 1 {
		t.Errorf("diagnostics = %d, want exactly 1", diags)
	}
	if len(rec.versions)+len(rec.webPorts)+len(rec.heartbeats) != 0 {
		t.Error("no delegate callback should fire on overflow")
	}
}

func TestFramer_ResumesAfterOverflow(t *testing.T) {
	th, stream, rec, _ := newTestThrottle()

	stream.feed(strings.Repeat("A", InputBufferSize))
	stream.feed("VN2.0\n")
	th.Check()

	if len(rec.versions) != 1 || rec.versions[0] != "2.0" {
		t.Errorf("versions = %v, want [2.0] after overflow recovery", rec.versions)
	}
}
