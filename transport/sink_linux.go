// File: transport/sink_linux.go
//go:build linux

//
// Raw file-descriptor sink using writev(2).

package transport

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/momentics/chunkedbuf/api"
)

// FDSink performs vectored writes straight to a file descriptor.
type FDSink struct {
	fd int
}

// NewFDSink wraps an open file descriptor. The caller retains ownership
// of the descriptor.
func NewFDSink(fd int) *FDSink {
	return &FDSink{fd: fd}
}

// WriteVectored hands the views to writev(2) and returns the number of
// bytes the kernel accepted. A short count is a partial write.
func (s *FDSink) WriteVectored(views [][]byte) (int, error) {
	n, err := unix.Writev(s.fd, views)
	if n < 0 {
		n = 0
	}
	if err != nil {
		return n, fmt.Errorf("writev fd %d: %w", s.fd, err)
	}
	return n, nil
}

var _ api.Sink = (*FDSink)(nil)
