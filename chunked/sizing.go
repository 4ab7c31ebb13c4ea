// File: chunked/sizing.go
//
// Chunk sizing strategies. The two buffer flavors share the whole engine
// and differ only here.

package chunked

import "github.com/momentics/chunkedbuf/api"

// Default sizing parameters.
const (
	// DefaultChunkSize is the fixed policy's target chunk capacity.
	DefaultChunkSize = 4096

	// DefaultAdaptiveMin and DefaultAdaptiveCap bound the adaptive
	// policy's doubling growth.
	DefaultAdaptiveMin = 1024
	DefaultAdaptiveCap = 64 * 1024
)

// FixedSizing allocates chunks of a fixed target capacity. A single write
// larger than the target gets one chunk sized to the write: chunk sizes
// are uncapped, so a burst never splits.
type FixedSizing struct {
	// Size is the target chunk capacity in bytes.
	Size int
}

func (s FixedSizing) NextChunkSize(total, write int) int {
	if write > s.Size {
		return write
	}
	return s.Size
}

// MaxChunkSize reports no upper bound.
func (s FixedSizing) MaxChunkSize() int { return 0 }

// AdaptiveSizing doubles chunk capacity with the buffered total, from Min
// up to Cap. Chunk sizes never exceed Cap: writes larger than Cap split
// across capped chunks, keeping per-chunk sizes bounded for consumers
// that care about slice granularity.
type AdaptiveSizing struct {
	Min int
	Cap int
}

func (s AdaptiveSizing) NextChunkSize(total, write int) int {
	want := total
	if write > want {
		want = write
	}
	if want < s.Min {
		want = s.Min
	}
	size := nextPow2(want)
	if size > s.Cap {
		return s.Cap
	}
	return size
}

// MaxChunkSize reports the growth cap.
func (s AdaptiveSizing) MaxChunkSize() int { return s.Cap }

// nextPow2 rounds n up to a power of two.
func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

var (
	_ api.SizingPolicy = FixedSizing{}
	_ api.SizingPolicy = AdaptiveSizing{}
)
