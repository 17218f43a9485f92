// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Trackside Labs

package withrottle

import (
	"testing"
	"time"
)

func TestAddLocomotive(t *testing.T) {
	tests := []struct {
		name     string
		address  string
		wantOK   bool
		wantSent []string
	}{
		{
			name:     "long address",
			address:  "L1234",
			wantOK:   true,
			wantSent: []string{"MT+L1234" + Separator + "L1234"},
		},
		{
			name:     "short address",
			address:  "S3",
			wantOK:   true,
			wantSent: []string{"MT+S3" + Separator + "S3"},
		},
		{
			name:     "missing roster marker",
			address:  "1234",
			wantOK:   false,
			wantSent: nil,
		},
		{
			name:     "empty address",
			address:  "",
			wantOK:   false,
			wantSent: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th, stream, _, _ := newTestThrottle()

			ok := th.AddLocomotive(tt.address)
			if ok != tt.wantOK {
				t.Errorf("AddLocomotive(%q) = %v, want %v", tt.address, ok, tt.wantOK)
			}

			if len(stream.sent) != len(tt.wantSent) {
				t.Fatalf("sent = %v, want %v", stream.sent, tt.wantSent)
			}
			for i, want := range tt.wantSent {
				if stream.sent[i] != want {
					t.Errorf("sent[%d] = %q, want %q", i, stream.sent[i], want)
				}
			}

			if tt.wantOK && th.SelectedAddress() != tt.address {
				t.Errorf("SelectedAddress() = %q, want %q", th.SelectedAddress(), tt.address)
			}
		})
	}
}

func TestReleaseLocomotive(t *testing.T) {
	th, stream, _, _ := newTestThrottle()
	th.AddLocomotive("L1234")
	stream.sent = nil

	if !th.ReleaseLocomotive("L1234") {
		t.Error("ReleaseLocomotive should always succeed")
	}

	want := "MT-L1234" + Separator + "r"
	if len(stream.sent) != 1 || stream.sent[0] != want {
		t.Errorf("sent = %v, want [%q]", stream.sent, want)
	}
	if th.SelectedAddress() != "" {
		t.Errorf("SelectedAddress() = %q, want empty after release", th.SelectedAddress())
	}
}

func TestStealLocomotive(t *testing.T) {
	th, stream, _, _ := newTestThrottle()
	th.AddLocomotive("L1234")
	stream.sent = nil

	if !th.StealLocomotive("S5") {
		t.Error("StealLocomotive with a valid address should succeed")
	}

	want := []string{
		"MT-S5" + Separator + "r",
		"MT+S5" + Separator + "S5",
	}
	if len(stream.sent) != 2 || stream.sent[0] != want[0] || stream.sent[1] != want[1] {
		t.Errorf("sent = %v, want %v (release then add)", stream.sent, want)
	}
	if th.SelectedAddress() != "S5" {
		t.Errorf("SelectedAddress() = %q, want S5", th.SelectedAddress())
	}
}

func TestStealLocomotive_InvalidAddressClearsSelection(t *testing.T) {
	th, _, _, _ := newTestThrottle()
	th.AddLocomotive("L1234")

	// Release succeeds, add fails: the prior selection is gone and the
	// steal reports failure.
	if th.StealLocomotive("1234") {
		t.Error("steal of an invalid address should fail")
	}
	if th.SelectedAddress() != "" {
		t.Errorf("SelectedAddress() = %q, want empty after failed steal",
			th.SelectedAddress())
	}
}

func TestSetSpeed(t *testing.T) {
	tests := []struct {
		name     string
		selected bool
		speed    int
		wantOK   bool
		wantSent bool
	}{
		{"normal", true, 50, true, true},
		{"minimum", true, 0, true, false}, // equals cached default, not resent
		{"maximum", true, 126, true, true},
		{"above range", true, 127, false, false},
		{"below range", true, -1, false, false},
		{"no selection", false, 50, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th, stream, _, _ := newTestThrottle()
			if tt.selected {
				th.AddLocomotive("L1234")
			}
			stream.sent = nil

			ok := th.SetSpeed(tt.speed)
			if ok != tt.wantOK {
				t.Errorf("SetSpeed(%d) = %v, want %v", tt.speed, ok, tt.wantOK)
			}
			if sent := len(stream.sent) > 0; sent != tt.wantSent {
				t.Errorf("sent = %v, wantSent %v", stream.sent, tt.wantSent)
			}
			if tt.wantSent {
				want := "MTA*" + Separator + "V50"
				if tt.speed == 126 {
					want = "MTA*" + Separator + "V126"
				}
				if stream.sent[0] != want {
					t.Errorf("sent[0] = %q, want %q", stream.sent[0], want)
				}
			}
		})
	}
}

func TestSetSpeed_SkipsUnchangedSpeed(t *testing.T) {
	th, stream, _, _ := newTestThrottle()
	th.AddLocomotive("L1234")
	stream.sent = nil

	th.SetSpeed(50)
	if !th.SetSpeed(50) {
		t.Error("repeated SetSpeed should still report success")
	}
	if len(stream.sent) != 1 {
		t.Errorf("sent %d commands, want 1 (unchanged speed not resent)", len(stream.sent))
	}
	if th.Speed() != 50 {
		t.Errorf("Speed() = %d, want 50", th.Speed())
	}
}

func TestSetDirection(t *testing.T) {
	tests := []struct {
		name string
		dir  Direction
		want string
	}{
		{"reverse", Reverse, "MTA*" + Separator + "R0"},
		{"forward", Forward, "MTA*" + Separator + "R1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th, stream, _, _ := newTestThrottle()
			th.AddLocomotive("L1234")
			stream.sent = nil

			if !th.SetDirection(tt.dir) {
				t.Errorf("SetDirection(%v) should succeed with a selection", tt.dir)
			}
			if len(stream.sent) != 1 || stream.sent[0] != tt.want {
				t.Errorf("sent = %v, want [%q]", stream.sent, tt.want)
			}
			if th.CurrentDirection() != tt.dir {
				t.Errorf("CurrentDirection() = %v, want %v", th.CurrentDirection(), tt.dir)
			}
		})
	}
}

func TestSetDirection_NoSelection(t *testing.T) {
	th, stream, _, _ := newTestThrottle()

	if th.SetDirection(Reverse) {
		t.Error("SetDirection without a selection should fail")
	}
	if len(stream.sent) != 0 {
		t.Errorf("sent = %v, want nothing", stream.sent)
	}
}

func TestEmergencyStop(t *testing.T) {
	th, stream, _, _ := newTestThrottle()
	th.AddLocomotive("L1234")
	stream.sent = nil

	if !th.EmergencyStop() {
		t.Error("EmergencyStop with a selection should succeed")
	}
	want := "MTA*" + Separator + "X"
	if len(stream.sent) != 1 || stream.sent[0] != want {
		t.Errorf("sent = %v, want [%q]", stream.sent, want)
	}
}

func TestEmergencyStop_NoSelection(t *testing.T) {
	th, stream, _, _ := newTestThrottle()

	if th.EmergencyStop() {
		t.Error("EmergencyStop without a selection should fail")
	}
	if len(stream.sent) != 0 {
		t.Errorf("sent = %v, want nothing", stream.sent)
	}
}

func TestSetFunction(t *testing.T) {
	tests := []struct {
		name     string
		num      int
		pressed  bool
		wantOK   bool
		wantSent string
	}{
		{"headlight on", 0, true, true, "MTAL1234" + Separator + "F10"},
		{"bell off", 1, false, true, "MTAL1234" + Separator + "F01"},
		{"highest function", 28, true, true, "MTAL1234" + Separator + "F128"},
		{"above range", 29, true, false, ""},
		{"negative", -1, true, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th, stream, _, _ := newTestThrottle()
			th.AddLocomotive("L1234")
			stream.sent = nil

			ok := th.SetFunction(tt.num, tt.pressed)
			if ok != tt.wantOK {
				t.Errorf("SetFunction(%d, %v) = %v, want %v", tt.num, tt.pressed, ok, tt.wantOK)
			}
			if tt.wantSent == "" {
				if len(stream.sent) != 0 {
					t.Errorf("sent = %v, want nothing", stream.sent)
				}
				return
			}
			if len(stream.sent) != 1 || stream.sent[0] != tt.wantSent {
				t.Errorf("sent = %v, want [%q]", stream.sent, tt.wantSent)
			}
		})
	}
}

func TestSetFunction_NoSelection(t *testing.T) {
	th, stream, _, _ := newTestThrottle()

	if th.SetFunction(3, true) {
		t.Error("SetFunction without a selection should fail")
	}
	if len(stream.sent) != 0 {
		t.Errorf("sent = %v, want nothing", stream.sent)
	}
}

func TestDeviceIdentity(t *testing.T) {
	th, stream, _, _ := newTestThrottle()

	th.SetDeviceName("wicab")
	th.SetDeviceID("wicab-01")

	want := []string{"Nwicab", "Hwicab-01"}
	if len(stream.sent) != 2 || stream.sent[0] != want[0] || stream.sent[1] != want[1] {
		t.Errorf("sent = %v, want %v", stream.sent, want)
	}
}

func TestRequireHeartbeat(t *testing.T) {
	th, stream, _, _ := newTestThrottle()

	th.RequireHeartbeat(true)
	th.RequireHeartbeat(false)

	want := []string{"*+", "*-"}
	if len(stream.sent) != 2 || stream.sent[0] != want[0] || stream.sent[1] != want[1] {
		t.Errorf("sent = %v, want %v", stream.sent, want)
	}
}

func TestServerRole_DoubleTerminatorFraming(t *testing.T) {
	clk := &fakeClock{t: time.Unix(100000, 0)}
	stream := &testStream{}

	th := New(true)
	th.now = clk.Now
	th.Connect(stream)

	th.SetDeviceName("station")

	// Server role writes the command plus one blank line.
	want := []string{"Nstation", ""}
	if len(stream.sent) != 2 || stream.sent[0] != want[0] || stream.sent[1] != want[1] {
		t.Errorf("sent = %v, want %v", stream.sent, want)
	}
}
