// Package handle implements an immutable, reference-counted view over a
// byte range. Handles are cheap to clone and slice: both operations share
// the underlying storage and only touch an atomic counter.
//
// A Handle is a value; copying the value does not add a reference. Use
// Retain to create an additional reference and Release to drop one. When
// the last reference is released, the free callback supplied to WrapOwned
// (if any) runs exactly once with the original backing slice.

package handle

import "sync/atomic"

// Handle is an immutable view over a shared byte range.
//
// The zero value is an empty handle with no backing storage; Release on
// it is a no-op.
type Handle struct {
	data []byte
	ctl  *control
}

// control is the shared state behind all views of one backing slice.
type control struct {
	refs int32
	mem  []byte
	free func([]byte)
}

// Wrap creates a Handle borrowing b. The caller must not mutate b while
// any reference to the handle is live. No action is taken when the last
// reference is released.
func Wrap(b []byte) Handle {
	if len(b) == 0 {
		return Handle{}
	}
	return Handle{data: b, ctl: &control{refs: 1, mem: b}}
}

// WrapOwned creates a Handle owning b. When the last reference is
// released, free is called once with the original slice, allowing the
// memory to return to a pool.
func WrapOwned(b []byte, free func([]byte)) Handle {
	if len(b) == 0 {
		if free != nil {
			free(b)
		}
		return Handle{}
	}
	return Handle{data: b, ctl: &control{refs: 1, mem: b, free: free}}
}

// Len returns the length of the viewed range.
func (h Handle) Len() int { return len(h.data) }

// Bytes returns the viewed range without copying. The slice must be
// treated as read-only and not retained past the handle's release.
func (h Handle) Bytes() []byte { return h.data }

// Slice produces a sub-range view [from, to) in O(1) without copying.
// The returned handle holds its own reference.
func (h Handle) Slice(from, to int) Handle {
	sub := h.data[from:to]
	if len(sub) == 0 {
		return Handle{}
	}
	h.retain()
	return Handle{data: sub, ctl: h.ctl}
}

// Retain returns a new reference to the same range.
func (h Handle) Retain() Handle {
	h.retain()
	return h
}

// Release drops this reference. The handle must not be used afterwards.
func (h Handle) Release() {
	if h.ctl == nil {
		return
	}
	if atomic.AddInt32(&h.ctl.refs, -1) == 0 {
		if h.ctl.free != nil {
			h.ctl.free(h.ctl.mem)
			h.ctl.free = nil
		}
	}
}

func (h Handle) retain() {
	if h.ctl != nil {
		atomic.AddInt32(&h.ctl.refs, 1)
	}
}
