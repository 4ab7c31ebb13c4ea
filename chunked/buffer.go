// File: chunked/buffer.go
//
// The buffer engine: append/coalesce policy, vectored projection, and the
// consumption cursor driven by confirmed-written counts.

package chunked

import (
	"io"

	"github.com/momentics/chunkedbuf/api"
	"github.com/momentics/chunkedbuf/handle"
	"github.com/momentics/chunkedbuf/pool"
)

const (
	// DefaultSmallHandleThreshold is the handle length below which
	// AppendHandle copies into spare tail capacity instead of absorbing a
	// reference. Tiny immutable chunks would cost one vectored slice each
	// for negligible payloads.
	DefaultSmallHandleThreshold = 64

	// DefaultMaxVectoredSlices caps projection length. Matches IOV_MAX on
	// Linux.
	DefaultMaxVectoredSlices = 1024
)

// Stats aggregates buffer activity counters. Counters are cumulative over
// the buffer's lifetime.
type Stats struct {
	BytesCopied    int64 // bytes ingested via copy-in
	BytesAbsorbed  int64 // bytes ingested as handle references
	HandlesCopied  int64 // handles routed through copy-in by the threshold
	ChunksAlloc    int64 // mutable chunks allocated
	ChunksAbsorbed int64 // immutable chunks absorbed
	ChunksRetired  int64 // chunks fully consumed and released
}

// Buffer is a non-contiguous FIFO byte stream: append-only at the tail,
// consume-only at the head. See the package documentation for the
// producer/consumer contract.
type Buffer struct {
	cq     chunkQueue
	sizing api.SizingPolicy

	smallHandleThreshold int
	maxVectoredSlices    int

	// exposed is the byte length of the most recent projection, reduced
	// as MarkWritten confirms bytes. It bounds what a caller may confirm.
	exposed int

	// views is scratch reused across projections; its contents are
	// invalidated by any mutation, matching the projection contract.
	views [][]byte

	stats Stats
}

// Option customizes buffer construction.
type Option func(*Buffer)

// WithChunkSize sets a fixed target capacity for mutable chunks.
func WithChunkSize(n int) Option {
	return func(b *Buffer) { b.sizing = FixedSizing{Size: n} }
}

// WithAdaptiveSizing sets doubling chunk growth from min up to cap.
func WithAdaptiveSizing(min, cap int) Option {
	return func(b *Buffer) { b.sizing = AdaptiveSizing{Min: min, Cap: cap} }
}

// WithSizingPolicy installs a custom sizing strategy.
func WithSizingPolicy(p api.SizingPolicy) Option {
	return func(b *Buffer) { b.sizing = p }
}

// WithSmallHandleThreshold sets the handle length below which AppendHandle
// copies instead of absorbing a reference. Zero disables copy routing.
func WithSmallHandleThreshold(n int) Option {
	return func(b *Buffer) { b.smallHandleThreshold = n }
}

// WithMaxVectoredSlices caps the number of slices a projection returns.
func WithMaxVectoredSlices(n int) Option {
	return func(b *Buffer) { b.maxVectoredSlices = n }
}

// WithAllocator sets the backing memory source for mutable chunks.
func WithAllocator(a api.Allocator) Option {
	return func(b *Buffer) { b.cq.alloc = a }
}

// New creates a buffer with fixed-target chunk sizing (DefaultChunkSize
// unless overridden). Chunk sizes are uncapped: a write larger than the
// target gets a single chunk sized to fit.
func New(opts ...Option) *Buffer {
	b := &Buffer{
		cq:                   newChunkQueue(pool.Default()),
		sizing:               FixedSizing{Size: DefaultChunkSize},
		smallHandleThreshold: DefaultSmallHandleThreshold,
		maxVectoredSlices:    DefaultMaxVectoredSlices,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewAdaptive creates a buffer whose chunk capacity doubles with the
// buffered total, from DefaultAdaptiveMin up to DefaultAdaptiveCap.
// Chunk sizes never exceed the cap; oversized writes split.
func NewAdaptive(opts ...Option) *Buffer {
	b := New(WithAdaptiveSizing(DefaultAdaptiveMin, DefaultAdaptiveCap))
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Len returns the total count of unconsumed buffered bytes. O(1).
func (b *Buffer) Len() int { return b.cq.totalLen() }

// IsEmpty reports whether no unconsumed bytes remain.
func (b *Buffer) IsEmpty() bool { return b.cq.isEmpty() }

// Chunks returns the number of chunks currently held.
func (b *Buffer) Chunks() int { return b.cq.chunkCount() }

// Stats returns a snapshot of the buffer's activity counters.
func (b *Buffer) Stats() Stats { return b.stats }

// Append copies data into the buffer.
//
// Data lands in the tail chunk's spare capacity when it fits; otherwise a
// new mutable chunk is allocated per the sizing policy, splitting across
// several chunks only when data exceeds the policy's chunk size bound.
// A zero-length slice is a no-op.
func (b *Buffer) Append(data []byte) {
	if len(data) == 0 {
		return
	}
	b.stats.BytesCopied += int64(len(data))
	if t := b.cq.tailMutable(); t != nil && t.spare() >= len(data) {
		t.fill(data)
		b.cq.grewTail(len(data))
		return
	}
	max := b.sizing.MaxChunkSize()
	for len(data) > 0 {
		n := len(data)
		if max > 0 && n > max {
			n = max
		}
		size := b.sizing.NextChunkSize(b.cq.totalLen(), n)
		if size < n {
			size = n
		}
		c := newMutableChunk(b.cq.alloc, size)
		c.fill(data[:n])
		b.cq.pushTail(c)
		b.stats.ChunksAlloc++
		data = data[n:]
	}
}

// AppendHandle absorbs h as an immutable chunk without copying its bytes.
// The buffer takes ownership of the caller's reference; it is released
// when the chunk retires.
//
// Handles shorter than the small-handle threshold are copied into spare
// tail capacity instead, and the reference is released immediately. A
// zero-length handle is a no-op (the reference is still released).
func (b *Buffer) AppendHandle(h handle.Handle) {
	n := h.Len()
	if n == 0 {
		h.Release()
		return
	}
	if n < b.smallHandleThreshold {
		if t := b.cq.tailMutable(); t != nil && t.spare() >= n {
			t.fill(h.Bytes())
			b.cq.grewTail(n)
			b.stats.BytesCopied += int64(n)
			b.stats.HandlesCopied++
			h.Release()
			return
		}
	}
	b.cq.pushTail(newImmutableChunk(h))
	b.stats.BytesAbsorbed += int64(n)
	b.stats.ChunksAbsorbed++
}

// Project returns up to max contiguous byte-slice views spanning a prefix
// of the buffered stream, starting at the first unconfirmed byte. The cap
// configured via WithMaxVectoredSlices always applies; max <= 0 means no
// further limit.
//
// The views borrow from the buffer: they are a read-only snapshot, valid
// only until the next Append, AppendHandle, Read, Drain or MarkWritten
// call. When the buffer holds more chunks than fit, later chunks become
// visible in subsequent projections as earlier bytes are confirmed.
func (b *Buffer) Project(max int) [][]byte {
	if max <= 0 || max > b.maxVectoredSlices {
		max = b.maxVectoredSlices
	}
	views := b.views[:0]
	exposed := 0
	count := b.cq.chunkCount()
	if count > max {
		count = max
	}
	for i := 0; i < count; i++ {
		v := b.cq.at(i).bytes()
		if i == 0 {
			v = v[b.cq.headOff:]
		}
		views = append(views, v)
		exposed += len(v)
	}
	b.exposed = exposed
	b.views = views
	return views
}

// MarkWritten confirms that the external writer durably handed n bytes,
// counted from the head of the most recent projection, to its sink. Fully
// covered head chunks retire (pooled memory freed, handle references
// released) and any remainder advances the cursor into the new head.
//
// Confirming more than the last projection exposed is a caller contract
// violation, reported as api.ErrMarkExceedsProjection with the buffer
// left untouched. A negative n reports api.ErrNegativeCount.
func (b *Buffer) MarkWritten(n int) error {
	if n < 0 {
		return api.ContractViolation("mark written", api.ErrNegativeCount)
	}
	if n > b.exposed {
		return api.ContractViolation("mark written", api.ErrMarkExceedsProjection)
	}
	before := b.cq.chunkCount()
	b.cq.consume(n)
	b.exposed -= n
	b.stats.ChunksRetired += int64(before - b.cq.chunkCount())
	return nil
}

// Drain removes every buffered chunk and returns the contents as handles
// in stream order. Mutable chunk memory moves into the returned handles
// and returns to the allocator when the last reference is released;
// absorbed handles are passed through. The buffer is left empty.
func (b *Buffer) Drain() []handle.Handle {
	headOff := b.cq.headOff
	alloc := b.cq.alloc
	chunks := b.cq.drain()
	b.exposed = 0
	out := make([]handle.Handle, 0, len(chunks))
	for i, c := range chunks {
		var h handle.Handle
		if c.kind == mutableChunk {
			h = handle.WrapOwned(c.buf, alloc.Release)
		} else {
			h = c.h
		}
		if i == 0 && headOff > 0 {
			trimmed := h.Slice(headOff, h.Len())
			h.Release()
			h = trimmed
			if h.Len() == 0 {
				continue
			}
		}
		out = append(out, h)
	}
	return out
}

// Write implements io.Writer by copying p into the buffer. It never
// returns an error; the count is always len(p).
func (b *Buffer) Write(p []byte) (int, error) {
	b.Append(p)
	return len(p), nil
}

// WriteString copies s into the buffer.
func (b *Buffer) WriteString(s string) (int, error) {
	b.Append([]byte(s))
	return len(s), nil
}

// Read implements io.Reader, copying out and consuming bytes from the
// head of the stream. It returns io.EOF when the buffer is empty.
//
// Read bypasses the projection contract: it consumes directly, and any
// outstanding projection is invalidated.
func (b *Buffer) Read(p []byte) (int, error) {
	if b.cq.isEmpty() {
		return 0, io.EOF
	}
	before := b.cq.chunkCount()
	total := 0
	for total < len(p) && !b.cq.isEmpty() {
		head := b.cq.at(0)
		n := copy(p[total:], head.bytes()[b.cq.headOff:])
		total += n
		b.cq.consume(n)
	}
	b.exposed = 0
	b.stats.ChunksRetired += int64(before - b.cq.chunkCount())
	return total, nil
}
