// Package diag holds the render thread's diagnostic counters: the only
// channel through which it reports trouble, since it may never report
// errors upward at sample granularity. Counters are plain atomics bumped
// from the render thread and read from the control thread via Snapshot.
package diag

import "sync/atomic"

// Counters accumulates render-thread fault counts for the lifetime of a
// Context. The zero value is ready to use.
type Counters struct {
	droppedBlocks  atomic.Uint64
	fatalFallbacks atomic.Uint64
	queueFull      atomic.Uint64
}

// IncDroppedBlock records that a host audio callback missed its deadline
// and silence was substituted for the requested frames.
func (c *Counters) IncDroppedBlock() { c.droppedBlocks.Add(1) }

// IncFatalFallback records that the render graph hit a fatal condition
// (pool underflow, an unbroken cycle) and fell back to silence for a block
// rather than propagating the failure.
func (c *Counters) IncFatalFallback() { c.fatalFallbacks.Add(1) }

// IncQueueFull records a control-to-render message dropped because its
// destination queue was full.
func (c *Counters) IncQueueFull() { c.queueFull.Add(1) }

// Snapshot is a point-in-time copy of the counters, safe to read and log
// from the control thread at any rate.
type Snapshot struct {
	DroppedBlocks  uint64
	FatalFallbacks uint64
	QueueFull      uint64
}

// Snapshot returns the current counter values.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		DroppedBlocks:  c.droppedBlocks.Load(),
		FatalFallbacks: c.fatalFallbacks.Load(),
		QueueFull:      c.queueFull.Load(),
	}
}
