// File: fake/sink.go
//
// Test doubles for the vectored sink contract.

package fake

// Sink records every byte written to it and can simulate partial writes
// and failures. Not safe for concurrent use, matching the single-owner
// contract of the buffers it tests.
type Sink struct {
	// Written accumulates all bytes accepted across calls, in order.
	Written []byte

	// MaxPerCall caps the bytes accepted by a single WriteVectored call.
	// Zero means unlimited.
	MaxPerCall int

	// Err, when set, is returned by every call after any partial bytes
	// allowed by MaxPerCall are accepted.
	Err error

	// Calls counts WriteVectored invocations.
	Calls int
}

// WriteVectored accepts bytes from the views in order up to MaxPerCall,
// then reports Err if set.
func (s *Sink) WriteVectored(views [][]byte) (int, error) {
	s.Calls++
	n := 0
	for _, v := range views {
		take := len(v)
		if s.MaxPerCall > 0 && n+take > s.MaxPerCall {
			take = s.MaxPerCall - n
		}
		s.Written = append(s.Written, v[:take]...)
		n += take
		if s.MaxPerCall > 0 && n == s.MaxPerCall {
			break
		}
	}
	return n, s.Err
}
