// File: chunked/queue.go
//
// FIFO of chunks plus the consumption cursor. Head-to-tail order is
// append order; bytes leave in exactly the order they arrived.

package chunked

import (
	"github.com/eapache/queue"

	"github.com/momentics/chunkedbuf/api"
)

// chunkQueue owns every buffered chunk. It maintains the total unconsumed
// byte count as a running tally (updated on append and retire, never
// recomputed) and the cursor offset of confirmed-written bytes within the
// head chunk.
type chunkQueue struct {
	q       *queue.Queue // of *chunk
	headOff int          // consumed bytes of the head chunk, 0 <= headOff < head.length()
	total   int          // unconsumed bytes across all chunks
	alloc   api.Allocator
}

func newChunkQueue(alloc api.Allocator) chunkQueue {
	return chunkQueue{q: queue.New(), alloc: alloc}
}

func (cq *chunkQueue) chunkCount() int { return cq.q.Length() }

func (cq *chunkQueue) totalLen() int { return cq.total }

func (cq *chunkQueue) isEmpty() bool { return cq.total == 0 }

// at returns the i-th chunk from the head.
func (cq *chunkQueue) at(i int) *chunk {
	return cq.q.Get(i).(*chunk)
}

// tailMutable returns the tail chunk if it is mutable, else nil.
func (cq *chunkQueue) tailMutable() *chunk {
	if cq.q.Length() == 0 {
		return nil
	}
	t := cq.q.Get(-1).(*chunk)
	if t.kind != mutableChunk {
		return nil
	}
	return t
}

// pushTail appends a chunk holding n valid bytes.
func (cq *chunkQueue) pushTail(c *chunk) {
	cq.q.Add(c)
	cq.total += c.length()
}

// grewTail records n bytes appended in place to the tail chunk.
func (cq *chunkQueue) grewTail(n int) {
	cq.total += n
}

// consume advances the cursor by n bytes, retiring every head chunk the
// advance fully covers and applying the remainder as a partial offset
// into the new head. Caller guarantees 0 <= n <= totalLen().
func (cq *chunkQueue) consume(n int) {
	cq.total -= n
	for n > 0 {
		head := cq.q.Peek().(*chunk)
		avail := head.length() - cq.headOff
		if n < avail {
			cq.headOff += n
			return
		}
		n -= avail
		cq.q.Remove()
		head.release(cq.alloc)
		cq.headOff = 0
	}
}

// drain removes and returns every chunk, resetting the queue to empty.
// The head chunk is returned as-is; the caller accounts for headOff.
func (cq *chunkQueue) drain() []*chunk {
	out := make([]*chunk, 0, cq.q.Length())
	for cq.q.Length() > 0 {
		out = append(out, cq.q.Remove().(*chunk))
	}
	cq.total = 0
	cq.headOff = 0
	return out
}
