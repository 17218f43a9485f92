// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Trackside Labs

package withrottle

import (
	"fmt"
	"time"
)

// Statistics tracks session traffic counters. The Throttle updates the
// counters as it frames and classifies lines; hosts read a snapshot via
// Throttle.Statistics.
type Statistics struct {
	StartTime time.Time

	// Counters
	Lines           uint64 // complete lines dispatched
	Commands        uint64 // lines matching a known command kind
	UnknownCommands uint64 // lines logged and ignored
	GarbageStripped uint64 // modem echo prefixes removed
	Overflows       uint64 // lines discarded for exceeding the buffer
	HeartbeatsSent  uint64 // keep-alives emitted

	// Rates (calculated)
	LineRate float64 // lines/sec
}

func newStatistics(start time.Time) Statistics {
	return Statistics{StartTime: start}
}

// CalculateRates derives the per-second rates from elapsed session time.
func (s *Statistics) CalculateRates() {
	elapsed := time.Since(s.StartTime).Seconds()
	if elapsed > 0 {
		s.LineRate = float64(s.Lines) / elapsed
	}
}

// String returns a formatted statistics summary.
func (s *Statistics) String() string {
	s.CalculateRates()

	elapsed := time.Since(s.StartTime)

	result := fmt.Sprintf("=== Session (%.0f seconds) ===\n", elapsed.Seconds())
	result += fmt.Sprintf("Lines:           %8d\n", s.Lines)
	result += fmt.Sprintf("Commands:        %8d\n", s.Commands)
	if s.UnknownCommands > 0 {
		result += fmt.Sprintf("Unknown:         %8d\n", s.UnknownCommands)
	}
	if s.GarbageStripped > 0 {
		result += fmt.Sprintf("Echo stripped:   %8d\n", s.GarbageStripped)
	}
	if s.Overflows > 0 {
		result += fmt.Sprintf("Overflows:       %8d\n", s.Overflows)
	}
	result += fmt.Sprintf("Heartbeats sent: %8d\n", s.HeartbeatsSent)
	result += fmt.Sprintf("Line Rate:       %8.1f lines/sec\n", s.LineRate)
	result += "==============================\n"

	return result
}
