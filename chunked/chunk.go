// File: chunked/chunk.go
//
// The chunk sum type: a mutable region with spare writable capacity, or
// an absorbed immutable handle.

package chunked

import (
	"github.com/momentics/chunkedbuf/api"
	"github.com/momentics/chunkedbuf/handle"
)

type chunkKind uint8

const (
	mutableChunk chunkKind = iota
	immutableChunk
)

// chunk is one unit of buffer storage. Exactly one representation is
// populated per kind:
//
//   - mutableChunk: buf holds the filled bytes (len) over pooled capacity
//     (cap); the region beyond len(buf) is spare writable space. Only the
//     current tail chunk may be written to; once another chunk is pushed
//     behind it, the chunk is sealed by convention and never mutated.
//   - immutableChunk: h is a fully-filled handle reference, never mutated.
type chunk struct {
	kind chunkKind
	buf  []byte
	h    handle.Handle
}

func newMutableChunk(alloc api.Allocator, capacity int) *chunk {
	return &chunk{kind: mutableChunk, buf: alloc.Acquire(capacity)}
}

func newImmutableChunk(h handle.Handle) *chunk {
	return &chunk{kind: immutableChunk, h: h}
}

// length returns the count of valid bytes in the chunk.
func (c *chunk) length() int {
	if c.kind == mutableChunk {
		return len(c.buf)
	}
	return c.h.Len()
}

// bytes returns the valid bytes as a contiguous view.
func (c *chunk) bytes() []byte {
	if c.kind == mutableChunk {
		return c.buf
	}
	return c.h.Bytes()
}

// spare returns the writable capacity beyond the filled length.
// Immutable chunks have none.
func (c *chunk) spare() int {
	if c.kind == mutableChunk {
		return cap(c.buf) - len(c.buf)
	}
	return 0
}

// fill copies p into the spare region. Caller guarantees spare() >= len(p).
func (c *chunk) fill(p []byte) {
	c.buf = append(c.buf, p...)
}

// release drops the chunk's hold on its storage: pooled memory returns to
// the allocator, handle references are decremented.
func (c *chunk) release(alloc api.Allocator) {
	if c.kind == mutableChunk {
		alloc.Release(c.buf)
		c.buf = nil
		return
	}
	c.h.Release()
	c.h = handle.Handle{}
}
