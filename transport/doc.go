// Package transport
//
// Writer-side integration for chunkedbuf: vectored sinks over io.Writer,
// net.Conn and raw file descriptors, and a Flusher that drives the
// project / write / confirm loop until the buffer drains.
//
// The buffer core never sees I/O errors; only confirmed-written counts
// cross the boundary. Retry and backoff policy belongs to callers of
// Flush, not to this package.
package transport
