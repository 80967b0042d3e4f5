// Package serialq implements the shared byte queue that carries serial data
// between isolated components: a single-producer/single-consumer ring plus
// two signal-request flags living alongside the cursors.
//
// Cursors are monotonic uint32 values; the capacity is a power of two that
// divides 2^32, so unsigned wrap-around keeps tail-head correct forever.
// Exactly one side advances head (the consumer) and one side advances tail
// (the producer). The flags carry the wake-up protocol: a side that wants to
// be notified arms the flag the opposite side consults after changing queue
// occupancy. A spurious notification costs a wasted wake; a missed one would
// be a bug, so every check is biased toward notifying.
package serialq

import "sync/atomic"

// Queue is the shared metadata block of one ring. Both sides hold a pointer
// to the same Queue; neither side may touch the other side's cursor.
type Queue struct {
	head atomic.Uint32 // consumer cursor, monotonic
	tail atomic.Uint32 // producer cursor, monotonic

	// producerSignal is armed by the consumer ("signal me when data
	// arrives") and consulted by the producer after enqueueing.
	producerSignal atomic.Uint32
	// consumerSignal is armed by the producer ("signal me when space
	// frees") and consulted by the consumer after dequeueing.
	consumerSignal atomic.Uint32
}

// Handle is one side's view over a shared Queue and its data region.
// Each side binds its own Handle; the underlying memory is shared.
type Handle struct {
	q    *Queue
	data []byte
	mask uint32
	size uint32
}

// Bind creates a view over a shared queue. The data region length must be a
// power of two >= 2 (so it divides the uint32 cursor modulus); anything else
// is a wiring bug, not a runtime condition.
func Bind(q *Queue, data []byte) *Handle {
	n := len(data)
	if n < 2 || (n&(n-1)) != 0 {
		panic("serialq: data size must be power of two >= 2")
	}
	return &Handle{q: q, data: data, mask: uint32(n - 1), size: uint32(n)}
}

// Capacity returns the data region size in bytes.
func (h *Handle) Capacity() uint32 { return h.size }

// Length returns the number of bytes currently queued.
func (h *Handle) Length() uint32 {
	return h.q.tail.Load() - h.q.head.Load()
}

// Free returns the number of bytes that can still be enqueued.
func (h *Handle) Free() uint32 { return h.size - h.Length() }

// Empty reports whether the queue holds no bytes.
func (h *Handle) Empty() bool {
	return h.q.tail.Load() == h.q.head.Load()
}

// WriteFrom enqueues as much of src as fits, advancing tail. Producer side
// only. Returns the number of bytes accepted.
func (h *Handle) WriteFrom(src []byte) int {
	if len(src) == 0 {
		return 0
	}
	head := h.q.head.Load()
	tail := h.q.tail.Load()
	space := int(h.size - (tail - head))
	if space <= 0 {
		return 0
	}
	if len(src) < space {
		space = len(src)
	}
	h.q.tail.Store(h.copyIn(tail, src[:space]))
	return space
}

// ReadInto dequeues up to len(dst) bytes, advancing head. Consumer side only.
func (h *Handle) ReadInto(dst []byte) int {
	if len(dst) == 0 {
		return 0
	}
	head := h.q.head.Load()
	tail := h.q.tail.Load()
	avail := int(tail - head)
	if avail <= 0 {
		return 0
	}
	if len(dst) < avail {
		avail = len(dst)
	}
	n := avail
	idx := head & h.mask
	first := int(h.size - idx)
	if first > n {
		first = n
	}
	copy(dst[:first], h.data[idx:idx+uint32(first)])
	if second := n - first; second > 0 {
		copy(dst[first:n], h.data[:second])
	}
	h.q.head.Store(head + uint32(n))
	return n
}

// copyIn writes p at the given tail cursor, wrapping as needed, and returns
// the advanced cursor. It does not publish the new tail.
func (h *Handle) copyIn(tail uint32, p []byte) uint32 {
	for len(p) > 0 {
		idx := tail & h.mask
		c := copy(h.data[idx:], p)
		p = p[c:]
		tail += uint32(c)
	}
	return tail
}

// TransferAll moves every byte currently queued in src into dst, advancing
// src's head and dst's tail. If prefix/suffix are non-empty they are written
// immediately before/after the payload and count against dst's free space.
// The caller must have checked Free(dst) >= Length(src)+len(prefix)+len(suffix);
// violating that is a logic error and panics. Returns the payload byte count.
func TransferAll(dst, src *Handle, prefix, suffix []byte) uint32 {
	n := src.Length()
	need := n + uint32(len(prefix)) + uint32(len(suffix))
	if need > dst.Free() {
		panic("serialq: transfer exceeds destination free space")
	}

	tail := dst.q.tail.Load()
	tail = dst.copyIn(tail, prefix)

	head := src.q.head.Load()
	idx := head & src.mask
	first := src.size - idx
	if first > n {
		first = n
	}
	tail = dst.copyIn(tail, src.data[idx:idx+first])
	tail = dst.copyIn(tail, src.data[:n-first])

	tail = dst.copyIn(tail, suffix)

	src.q.head.Store(head + n)
	dst.q.tail.Store(tail)
	return n
}

// ---- signal-request flags ----
// Flags are named for the side whose notification they solicit, not the
// side that reads them.

// RequestProducerSignal arms "producer: notify me when you enqueue".
// Called by the consumer.
func (h *Handle) RequestProducerSignal() { h.q.producerSignal.Store(1) }

// CancelProducerSignal disarms the producer-signal request.
func (h *Handle) CancelProducerSignal() { h.q.producerSignal.Store(0) }

// ProducerSignalRequired reports whether the consumer wants to be notified
// of new data. Consulted by the producer after enqueueing.
func (h *Handle) ProducerSignalRequired() bool { return h.q.producerSignal.Load() != 0 }

// RequestConsumerSignal arms "consumer: notify me when you free space".
// Called by the producer.
func (h *Handle) RequestConsumerSignal() { h.q.consumerSignal.Store(1) }

// CancelConsumerSignal disarms the consumer-signal request.
func (h *Handle) CancelConsumerSignal() { h.q.consumerSignal.Store(0) }

// ConsumerSignalRequired reports whether the producer wants to be notified
// of freed space. Consulted by the consumer after dequeueing.
func (h *Handle) ConsumerSignalRequired() bool { return h.q.consumerSignal.Load() != 0 }
