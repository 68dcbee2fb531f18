// package ids hands out the process-wide monotonic object identifiers used
// by every request that creates a GPU-side object (buffer, texture, sampler,
// pipeline, canvas, ...).
package ids

import "sync/atomic"

// ID identifies a created object for the lifetime of the process. It is
// never reused, even after the object it named is destroyed.
type ID uint64

// None is the sentinel ID naming no object.
const None ID = 0

// Counter hands out sequential IDs starting at 1, so that the k-th create
// request made against a fresh Counter is assigned ID k.
type Counter struct {
	next uint64
}

// NewCounter returns a Counter whose first Next() call returns ID 1.
func NewCounter() *Counter {
	return &Counter{next: 1}
}

// Next returns the next unused ID and advances the counter. Safe for
// concurrent use.
func (c *Counter) Next() ID {
	return ID(atomic.AddUint64(&c.next, 1) - 1)
}
