// Package notify is the asynchronous wake-up fabric between isolated
// components. Signals are fire-and-forget and coalescible: a burst of
// notifications to the same target may be observed as a single wake. That is
// the whole contract: payloads travel through shared queues, never here.
package notify

import (
	"context"
	"sync/atomic"
)

// Doorbell is a coalescing wake-up for a single receiver.
type Doorbell struct {
	ch chan struct{}
}

func NewDoorbell() *Doorbell {
	return &Doorbell{ch: make(chan struct{}, 1)}
}

// Ring signals the receiver. Non-blocking; rings collapse into one pending
// wake until the receiver observes it.
func (d *Doorbell) Ring() {
	select {
	case d.ch <- struct{}{}:
	default:
	}
}

// Wait returns the channel the receiver selects on.
func (d *Doorbell) Wait() <-chan struct{} { return d.ch }

// Board fans numbered signal channels into one dispatch stream for a
// single-threaded receiver. Each channel coalesces independently: while a
// channel's wake is pending, further notifies to it are absorbed, so the
// stream never holds more than one entry per channel.
type Board struct {
	raised []atomic.Bool
	wake   chan uint32
}

// NewBoard creates a board with the given number of channels (driver plus
// clients, in this system).
func NewBoard(channels int) *Board {
	if channels <= 0 {
		channels = 1
	}
	return &Board{
		raised: make([]atomic.Bool, channels),
		wake:   make(chan uint32, channels),
	}
}

// Channels returns the number of signal channels on the board.
func (b *Board) Channels() int { return len(b.raised) }

// Notify raises channel ch. Non-blocking. Signals to channels the board does
// not carry are dropped; range policy for valid channels belongs to the
// receiver's dispatch, not here.
func (b *Board) Notify(ch uint32) {
	if int(ch) >= len(b.raised) {
		return
	}
	if b.raised[ch].Swap(true) {
		return // already pending, coalesce
	}
	// At most one outstanding entry per channel, so this never blocks.
	b.wake <- ch
}

// Recv blocks until a channel is raised or ctx is cancelled. The pending
// flag is cleared before the channel number is returned, so a notify racing
// with the handler re-raises rather than being lost.
func (b *Board) Recv(ctx context.Context) (uint32, bool) {
	select {
	case <-ctx.Done():
		return 0, false
	case ch := <-b.wake:
		b.raised[ch].Store(false)
		return ch, true
	}
}

// TryRecv is the non-blocking variant of Recv.
func (b *Board) TryRecv() (uint32, bool) {
	select {
	case ch := <-b.wake:
		b.raised[ch].Store(false)
		return ch, true
	default:
		return 0, false
	}
}
