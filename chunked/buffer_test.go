package chunked_test

import (
	"bytes"
	"errors"
	"io"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/chunkedbuf/api"
	"github.com/momentics/chunkedbuf/chunked"
	"github.com/momentics/chunkedbuf/handle"
)

// consumeAll drains buf through projections, returning the concatenation
// of everything confirmed written.
func consumeAll(t *testing.T, buf *chunked.Buffer) []byte {
	t.Helper()
	var got []byte
	for !buf.IsEmpty() {
		views := buf.Project(0)
		require.NotEmpty(t, views)
		n := 0
		for _, v := range views {
			got = append(got, v...)
			n += len(v)
		}
		require.NoError(t, buf.MarkWritten(n))
	}
	return got
}

func TestEndToEnd(t *testing.T) {
	buf := chunked.New()

	buf.Append([]byte("hello "))
	buf.AppendHandle(handle.Wrap([]byte("world")))
	buf.Append([]byte("!"))

	require.Equal(t, 12, buf.Len())

	views := buf.Project(8)
	var joined []byte
	for _, v := range views {
		joined = append(joined, v...)
	}
	require.Equal(t, "hello world!", string(joined))

	require.NoError(t, buf.MarkWritten(12))
	assert.Equal(t, 0, buf.Len())
	assert.True(t, buf.IsEmpty())
	assert.Equal(t, 0, buf.Chunks())
}

func TestCoalescingSmallAppends(t *testing.T) {
	buf := chunked.New()
	const n = 100
	for i := 0; i < n; i++ {
		buf.Append([]byte("12345678"))
	}
	assert.Equal(t, 800, buf.Len())
	assert.Less(t, buf.Chunks(), n)
	assert.Equal(t, 1, buf.Chunks(), "800 bytes fit one default chunk")
}

func TestZeroCopyAbsorption(t *testing.T) {
	buf := chunked.New()
	payload := bytes.Repeat([]byte("x"), 128) // above the small-handle threshold
	freed := false
	buf.AppendHandle(handle.WrapOwned(payload, func([]byte) { freed = true }))

	views := buf.Project(0)
	require.Len(t, views, 1)
	assert.Same(t, &payload[0], &views[0][0], "absorbed handle must not be copied")

	require.False(t, freed, "reference held while buffered")
	require.NoError(t, buf.MarkWritten(128))
	assert.True(t, freed, "retirement releases the handle reference")
}

func TestSmallHandleCopiedIntoTail(t *testing.T) {
	buf := chunked.New()
	buf.Append([]byte("head"))

	freed := false
	buf.AppendHandle(handle.WrapOwned([]byte("tiny"), func([]byte) { freed = true }))

	assert.Equal(t, 1, buf.Chunks(), "small handle coalesces into the tail chunk")
	assert.True(t, freed, "copied handle is released immediately")
	assert.Equal(t, []byte("headtiny"), consumeAll(t, buf))
}

func TestZeroLengthAppendsAreNoOps(t *testing.T) {
	buf := chunked.New()
	buf.Append(nil)
	buf.Append([]byte{})
	buf.AppendHandle(handle.Wrap(nil))
	assert.Equal(t, 0, buf.Len())
	assert.Equal(t, 0, buf.Chunks())
}

func TestPartialWriteAdvancesCursor(t *testing.T) {
	buf := chunked.New(chunked.WithSmallHandleThreshold(0))
	buf.AppendHandle(handle.Wrap(bytes.Repeat([]byte("a"), 5)))
	buf.AppendHandle(handle.Wrap(bytes.Repeat([]byte("b"), 10)))
	buf.AppendHandle(handle.Wrap(bytes.Repeat([]byte("c"), 7)))
	require.Equal(t, 22, buf.Len())
	require.Equal(t, 3, buf.Chunks())

	views := buf.Project(0)
	require.Len(t, views, 3)
	require.Equal(t, []int{5, 10, 7}, []int{len(views[0]), len(views[1]), len(views[2])})

	require.NoError(t, buf.MarkWritten(8))
	assert.Equal(t, 14, buf.Len(), "total drops by exactly the confirmed count")
	assert.Equal(t, 2, buf.Chunks(), "first chunk fully retired")

	views = buf.Project(0)
	require.Len(t, views, 2)
	assert.Equal(t, bytes.Repeat([]byte("b"), 7), views[0],
		"head view starts at the cursor offset, skipping confirmed bytes")
}

func TestMarkWrittenContractViolations(t *testing.T) {
	buf := chunked.New()
	buf.Append([]byte("0123456789"))

	// No projection yet: nothing is exposed.
	err := buf.MarkWritten(1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, api.ErrMarkExceedsProjection))

	views := buf.Project(0)
	exposed := 0
	for _, v := range views {
		exposed += len(v)
	}

	err = buf.MarkWritten(exposed + 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, api.ErrMarkExceedsProjection))

	var se *api.Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, api.ErrCodeContractViolation, se.Code)

	err = buf.MarkWritten(-1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, api.ErrNegativeCount))

	// The queue is untouched by rejected calls.
	assert.Equal(t, 10, buf.Len())
	assert.Equal(t, []byte("0123456789"), consumeAll(t, buf))
}

func TestProjectionSliceCap(t *testing.T) {
	buf := chunked.New(
		chunked.WithSmallHandleThreshold(0),
		chunked.WithMaxVectoredSlices(2),
	)
	buf.AppendHandle(handle.Wrap([]byte("aa")))
	buf.AppendHandle(handle.Wrap([]byte("bb")))
	buf.AppendHandle(handle.Wrap([]byte("cc")))

	views := buf.Project(0)
	assert.Len(t, views, 2, "projection bounded by configured cap")

	views = buf.Project(1)
	assert.Len(t, views, 1, "tighter per-call max applies")

	// Later chunks become visible as earlier bytes are confirmed.
	assert.Equal(t, []byte("aabbcc"), consumeAll(t, buf))
}

func TestOrderPreservation(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	buf := chunked.New(chunked.WithChunkSize(32))

	var appended, written []byte
	next := byte(0)
	genData := func(n int) []byte {
		p := make([]byte, n)
		for i := range p {
			p[i] = next
			next++
		}
		return p
	}

	for step := 0; step < 2000; step++ {
		switch rng.Intn(3) {
		case 0:
			p := genData(1 + rng.Intn(48))
			appended = append(appended, p...)
			buf.Append(p)
		case 1:
			p := genData(1 + rng.Intn(200))
			appended = append(appended, p...)
			buf.AppendHandle(handle.Wrap(p))
		case 2:
			views := buf.Project(1 + rng.Intn(8))
			exposed := 0
			for _, v := range views {
				exposed += len(v)
			}
			n := rng.Intn(exposed + 1)
			taken := 0
			for _, v := range views {
				if taken == n {
					break
				}
				take := len(v)
				if taken+take > n {
					take = n - taken
				}
				written = append(written, v[:take]...)
				taken += take
			}
			require.NoError(t, buf.MarkWritten(n))
		}
	}
	written = append(written, consumeAll(t, buf)...)

	require.Equal(t, len(appended), len(written))
	assert.True(t, bytes.Equal(appended, written),
		"bytes must be delivered in exact append order")
}

func TestAdaptiveSplitsOversizedAppends(t *testing.T) {
	buf := chunked.NewAdaptive(chunked.WithAdaptiveSizing(16, 64))
	data := make([]byte, 300)
	for i := range data {
		data[i] = byte(i)
	}
	buf.Append(data)

	require.Equal(t, 300, buf.Len())
	views := buf.Project(0)
	require.True(t, len(views) >= 5, "oversized append splits across capped chunks")
	for _, v := range views {
		assert.LessOrEqual(t, len(v), 64)
	}
	assert.Equal(t, data, consumeAll(t, buf))
}

func TestFixedSizingKeepsOversizedAppendWhole(t *testing.T) {
	buf := chunked.New(chunked.WithChunkSize(16))
	data := make([]byte, 300)
	buf.Append(data)
	assert.Equal(t, 1, buf.Chunks(), "fixed policy grows a single chunk to fit")
}

func TestDrain(t *testing.T) {
	buf := chunked.New(chunked.WithSmallHandleThreshold(0))
	buf.Append([]byte("copy-"))
	freed := false
	buf.AppendHandle(handle.WrapOwned([]byte("ref"), func([]byte) { freed = true }))

	handles := buf.Drain()
	assert.True(t, buf.IsEmpty())
	assert.Equal(t, 0, buf.Chunks())

	var joined []byte
	for _, h := range handles {
		joined = append(joined, h.Bytes()...)
	}
	assert.Equal(t, []byte("copy-ref"), joined)

	require.False(t, freed, "drained handles still hold their references")
	for _, h := range handles {
		h.Release()
	}
	assert.True(t, freed)
}

func TestDrainSkipsConsumedPrefix(t *testing.T) {
	buf := chunked.New()
	buf.Append([]byte("0123456789"))
	buf.Project(0)
	require.NoError(t, buf.MarkWritten(4))

	handles := buf.Drain()
	require.Len(t, handles, 1)
	assert.Equal(t, []byte("456789"), handles[0].Bytes())
	for _, h := range handles {
		h.Release()
	}
}

func TestReadWriteRoundTrip(t *testing.T) {
	buf := chunked.New(chunked.WithSmallHandleThreshold(0))
	_, err := buf.WriteString("written ")
	require.NoError(t, err)
	n, err := buf.Write([]byte("bytes"))
	require.NoError(t, err)
	require.Equal(t, 5, n)
	buf.AppendHandle(handle.Wrap([]byte(" and a handle")))

	out, err := io.ReadAll(buf)
	require.NoError(t, err)
	assert.Equal(t, "written bytes and a handle", string(out))
	assert.True(t, buf.IsEmpty())

	_, err = buf.Read(make([]byte, 1))
	assert.Equal(t, io.EOF, err)
}

func TestReadPartialAdvances(t *testing.T) {
	buf := chunked.New()
	buf.Append([]byte("abcdef"))

	p := make([]byte, 4)
	n, err := buf.Read(p)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	assert.Equal(t, "abcd", string(p))
	assert.Equal(t, 2, buf.Len())

	assert.Equal(t, []byte("ef"), consumeAll(t, buf))
}

func TestStatsCounters(t *testing.T) {
	buf := chunked.New()
	buf.Append([]byte("0123456789"))
	buf.AppendHandle(handle.Wrap([]byte("tiny"))) // routed through copy-in
	buf.AppendHandle(handle.Wrap(bytes.Repeat([]byte("h"), 80)))

	st := buf.Stats()
	assert.Equal(t, int64(14), st.BytesCopied)
	assert.Equal(t, int64(80), st.BytesAbsorbed)
	assert.Equal(t, int64(1), st.HandlesCopied)
	assert.Equal(t, int64(1), st.ChunksAlloc)
	assert.Equal(t, int64(1), st.ChunksAbsorbed)
	assert.Equal(t, int64(0), st.ChunksRetired)

	consumeAll(t, buf)
	assert.Equal(t, int64(2), buf.Stats().ChunksRetired)
}
