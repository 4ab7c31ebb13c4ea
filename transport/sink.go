// File: transport/sink.go
//
// Portable vectored sink over io.Writer via net.Buffers.

package transport

import (
	"io"
	"net"

	"github.com/momentics/chunkedbuf/api"
)

// NetSink adapts an io.Writer to the vectored sink contract using
// net.Buffers, so writers backed by a *net.TCPConn get a true scatter
// write in one system call. Other writers receive the slices
// sequentially.
type NetSink struct {
	w       io.Writer
	scratch net.Buffers
}

// NewNetSink wraps w.
func NewNetSink(w io.Writer) *NetSink {
	return &NetSink{w: w}
}

// WriteVectored writes the views in order and returns the byte count
// handed to the writer. net.Buffers consumes its receiver, so the views
// are staged into an internal scratch list first.
func (s *NetSink) WriteVectored(views [][]byte) (int, error) {
	s.scratch = append(s.scratch[:0], views...)
	n, err := s.scratch.WriteTo(s.w)
	return int(n), err
}

var _ api.Sink = (*NetSink)(nil)
