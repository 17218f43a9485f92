// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Trackside Labs

package withrottle

import (
	"io"
	"sync"
)

// Stream is the byte channel between the throttle and the command
// station. Reads must never block: Available reports whether at least
// one byte can be consumed immediately, and ReadByte returns the next
// byte only when one is pending. The throttle holds a non-owning
// reference; opening and closing the underlying link stays with the
// host.
type Stream interface {
	// Available reports whether a byte is immediately readable.
	Available() bool

	// ReadByte returns the next pending byte. ok is false when nothing
	// is pending.
	ReadByte() (b byte, ok bool)

	// WriteLine writes one command line followed by a terminator.
	WriteLine(line string) error
}

// Console is the diagnostic sink. It receives human-readable trace
// lines and is never used for control flow. A nil Console is valid and
// discards everything.
type Console interface {
	Printf(format string, args ...interface{})
}

// IOStream adapts a blocking io.ReadWriter (net.Conn, serial.Port, a
// WebSocket wrapper) into a non-blocking Stream. A reader goroutine
// pumps the underlying reader into a buffered channel; Available and
// ReadByte only ever touch the channel and an internal pending buffer,
// so the throttle's drive loop never blocks on I/O.
type IOStream struct {
	w io.Writer

	incoming chan []byte
	pending  []byte

	mu     sync.Mutex
	closed bool
}

// NewIOStream wraps rw and starts the reader pump. Call Close to stop
// the pump; the underlying ReadWriter is not closed.
func NewIOStream(rw io.ReadWriter) *IOStream {
	s := &IOStream{
		w:        rw,
		incoming: make(chan []byte, 64),
	}
	go s.pump(rw)
	return s
}

func (s *IOStream) pump(r io.Reader) {
	buf := make([]byte, 512)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if closed {
				return
			}
			s.incoming <- chunk
		}
		if err != nil {
			s.mu.Lock()
			s.closed = true
			s.mu.Unlock()
			close(s.incoming)
			return
		}
	}
}

// fill drains any chunks the pump has queued into the pending buffer
// without blocking.
func (s *IOStream) fill() {
	for {
		select {
		case chunk, ok := <-s.incoming:
			if !ok {
				return
			}
			s.pending = append(s.pending, chunk...)
		default:
			return
		}
	}
}

// Available reports whether a byte is immediately readable.
func (s *IOStream) Available() bool {
	s.fill()
	return len(s.pending) > 0
}

// ReadByte returns the next pending byte.
func (s *IOStream) ReadByte() (byte, bool) {
	s.fill()
	if len(s.pending) == 0 {
		return 0, false
	}
	b := s.pending[0]
	s.pending = s.pending[1:]
	return b, true
}

// WriteLine writes line plus a newline terminator to the underlying
// writer.
func (s *IOStream) WriteLine(line string) error {
	_, err := s.w.Write([]byte(line + "\n"))
	return err
}

// Close stops the reader pump. Pending bytes remain readable.
func (s *IOStream) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}
