// Package api defines the small set of interfaces shared across the
// chunkedbuf packages: chunk sizing strategies, vectored write sinks, and
// chunk memory allocators.
//
// All operations are zero-copy unless documented otherwise.

package api

// SizingPolicy decides the capacity of the next mutable chunk.
//
// Implementations must be deterministic given the same inputs; the buffer
// consults the policy once per chunk allocation, never per byte.
type SizingPolicy interface {
	// NextChunkSize returns the capacity for a new mutable chunk, given
	// the number of bytes currently buffered and the size of the write
	// that triggered the allocation. The returned capacity is at least
	// min(write, MaxChunkSize()).
	NextChunkSize(total, write int) int

	// MaxChunkSize returns the upper bound on a single chunk's size, or 0
	// if chunks may grow to fit any single write. Writes larger than a
	// non-zero bound are split across multiple chunks.
	MaxChunkSize() int
}

// Sink consumes one vectored write: an ordered list of contiguous byte
// slices delivered in a single call.
//
// A short count is a partial write, not an error; the caller loops. The
// views are only valid for the duration of the call.
type Sink interface {
	WriteVectored(views [][]byte) (int, error)
}

// Allocator provides backing memory for mutable chunks.
//
// Acquire returns a zero-length slice with capacity of at least n bytes.
// Release gives the slice's backing memory back; the slice must not be
// used afterwards.
type Allocator interface {
	Acquire(n int) []byte
	Release(buf []byte)
}
