// File: transport/sink_stub.go
//go:build !linux

//
// FDSink stub for platforms without writev support in this library.

package transport

import "github.com/momentics/chunkedbuf/api"

// FDSink is unavailable on this platform.
type FDSink struct {
	fd int
}

// NewFDSink wraps an open file descriptor.
func NewFDSink(fd int) *FDSink {
	return &FDSink{fd: fd}
}

// WriteVectored reports api.ErrNotSupported.
func (s *FDSink) WriteVectored(views [][]byte) (int, error) {
	return 0, api.ErrNotSupported
}

var _ api.Sink = (*FDSink)(nil)
