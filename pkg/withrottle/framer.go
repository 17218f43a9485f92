// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Trackside Labs

package withrottle

// lineBuffer accumulates raw bytes into one command line. Capacity is
// fixed; a line that fills the buffer without a terminator is discarded
// by the framer. The cursor never exceeds the capacity.
type lineBuffer struct {
	data   []byte
	cursor int
}

func newLineBuffer() *lineBuffer {
	return &lineBuffer{data: make([]byte, InputBufferSize)}
}

// append stores one byte and reports whether the buffer is now full.
func (lb *lineBuffer) append(b byte) (full bool) {
	lb.data[lb.cursor] = b
	lb.cursor++
	return lb.cursor == InputBufferSize
}

// line returns the accumulated bytes.
func (lb *lineBuffer) line() []byte {
	return lb.data[:lb.cursor]
}

// empty reports whether nothing has accumulated since the last reset.
func (lb *lineBuffer) empty() bool {
	return lb.cursor == 0
}

// reset discards the accumulated bytes.
func (lb *lineBuffer) reset() {
	lb.cursor = 0
}

// drainInput reads everything immediately available from the stream and
// dispatches each completed line to the command parser. Carriage return
// and newline both terminate a line; the server sends two terminators
// after each command, and a terminator on an empty buffer is ignored so
// the pair collapses to a single dispatch. Returns whether any
// dispatched command produced an observable state change.
func (t *Throttle) drainInput() bool {
	changed := false

	for t.stream.Available() {
		b, ok := t.stream.ReadByte()
		if !ok {
			break
		}

		if b == '\n' || b == '\r' {
			if !t.buf.empty() {
				t.stats.Lines++
				changed = t.processCommand(string(t.buf.line())) || changed
			}
			t.buf.reset()
			continue
		}

		if t.buf.append(b) {
			t.stats.Overflows++
			t.consolef("ERROR LINE TOO LONG: %s", string(t.buf.line()))
			t.buf.reset()
		}
	}

	return changed
}
