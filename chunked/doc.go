// Package chunked
//
// Non-contiguous output buffer for accumulating serialized protocol data
// ahead of a bulk write to an I/O sink. Small writes coalesce into the
// spare capacity of the tail chunk; large pre-existing byte ranges are
// absorbed as handle references without copying. Buffered bytes are
// consumed strictly head-first: a consumer requests a bounded vectored
// projection, performs one write, and reports the confirmed count back
// via MarkWritten.
//
// A Buffer is not internally synchronized. It is designed for the
// single-producer/single-consumer shape of a stream-to-socket pipeline;
// share one buffer per connection owner, not across goroutines.
package chunked
