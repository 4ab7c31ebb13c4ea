// Package pool
//
// Memory layer for chunkedbuf. Provides pooled backing storage for mutable
// chunks so that chunk allocation and retirement recycle memory instead of
// churning the garbage collector. Built on size-classed caches; see
// bytepool.go for implementation details.
package pool
