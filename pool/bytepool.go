// File: pool/bytepool.go
//
// Size-classed []byte allocator backing mutable chunks.

package pool

import (
	"sync"

	"github.com/bytedance/gopkg/lang/mcache"

	"github.com/momentics/chunkedbuf/api"
)

// BytePool hands out reusable byte slices from size-classed caches.
// Slices returned by Acquire have zero length and at least the requested
// capacity; Release returns the backing memory to its size class.
type BytePool struct{}

// NewBytePool returns a pool. All BytePool values share the same
// process-wide size-classed caches.
func NewBytePool() *BytePool { return &BytePool{} }

// Acquire returns a zero-length slice with capacity of at least n bytes.
func (p *BytePool) Acquire(n int) []byte {
	return mcache.Malloc(0, n)
}

// Release returns a buffer to the pool. The buffer must not be used
// afterwards.
func (p *BytePool) Release(buf []byte) {
	mcache.Free(buf)
}

var (
	defaultOnce sync.Once
	defaultPool *BytePool
)

// Default returns a process-wide allocator so all buffers reuse the same
// size-classed caches instead of fragmenting allocations.
func Default() api.Allocator {
	defaultOnce.Do(func() {
		defaultPool = NewBytePool()
	})
	return defaultPool
}
