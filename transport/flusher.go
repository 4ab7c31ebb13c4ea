// File: transport/flusher.go
//
// The flush loop: project a bounded slice list, hand it to the sink,
// confirm the written count, repeat until drained.

package transport

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/momentics/chunkedbuf/api"
	"github.com/momentics/chunkedbuf/chunked"
)

// Flusher drains a buffer into a vectored sink.
type Flusher struct {
	buf       *chunked.Buffer
	sink      api.Sink
	log       *zap.Logger
	maxSlices int
}

// FlusherOption customizes flusher initialization.
type FlusherOption func(*Flusher)

// WithLogger attaches a logger for debug-level flush progress. The
// default is a no-op logger.
func WithLogger(l *zap.Logger) FlusherOption {
	return func(f *Flusher) { f.log = l }
}

// WithMaxSlices limits the slice count requested per projection. Zero
// leaves the buffer's own cap in charge.
func WithMaxSlices(n int) FlusherOption {
	return func(f *Flusher) { f.maxSlices = n }
}

// NewFlusher creates a flusher for buf writing to sink.
func NewFlusher(buf *chunked.Buffer, sink api.Sink, opts ...FlusherOption) *Flusher {
	f := &Flusher{buf: buf, sink: sink, log: zap.NewNop()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Flush writes buffered bytes to the sink until the buffer is empty or
// the sink fails. It returns the number of bytes confirmed written.
//
// Partial writes continue the loop. A sink that reports zero progress
// without an error terminates the loop with io.ErrShortWrite to avoid
// spinning.
func (f *Flusher) Flush() (int, error) {
	flushed := 0
	for !f.buf.IsEmpty() {
		views := f.buf.Project(f.maxSlices)
		n, err := f.sink.WriteVectored(views)
		if n > 0 {
			if merr := f.buf.MarkWritten(n); merr != nil {
				return flushed, merr
			}
			flushed += n
		}
		if err != nil {
			return flushed, fmt.Errorf("vectored write: %w", err)
		}
		if n == 0 {
			return flushed, io.ErrShortWrite
		}
		if !f.buf.IsEmpty() {
			f.log.Debug("partial flush",
				zap.Int("written", n),
				zap.Int("remaining", f.buf.Len()))
		}
	}
	return flushed, nil
}
