// Package virttx multiplexes the transmit streams of N isolated clients onto
// one shared device driver queue.
//
// Every interaction is a coalescible wake-up plus shared-queue state: a
// client signals after enqueueing, the driver signals after consuming. The
// virtualizer forwards a client's whole backlog when it fits in the driver
// queue, otherwise parks the client in a bounded FIFO backlog and re-arms
// the signal flags so exactly the needed wake-ups happen: a blocked client
// stops waking us (its data cannot move anyway) and the driver starts.
// Handlers run to completion one at a time; there is no internal blocking.
package virttx

import (
	"context"

	"serialmux-go/errcode"
	"serialmux-go/notify"
	"serialmux-go/x/conv"
	"serialmux-go/x/serialq"
)

// Channel numbering on the virtualizer's board: 0 is the driver, clients
// follow. ClientChannel maps a client index to its channel.
const (
	DriverCh     uint32 = 0
	clientOffset uint32 = 1
)

func ClientChannel(client int) uint32 { return uint32(client) + clientOffset }

// Config wires one virtualizer instance. Handles and names are captured at
// New and immutable afterwards.
type Config struct {
	Driver  *serialq.Handle   // producer view of the driver TX queue
	Clients []*serialq.Handle // consumer views of the per-client TX queues
	Names   []string          // display names, optional
	Colour  bool              // frame each payload in the client's colour

	Board      *notify.Board    // signals addressed to this virtualizer
	DriverBell *notify.Doorbell // how we wake the driver
}

type Virtualizer struct {
	drv     *serialq.Handle
	clients []*serialq.Handle
	names   []string
	colour  bool

	pending pendingQueue

	board   *notify.Board
	drvBell *notify.Doorbell

	// Deferred driver notification: latched during a handler, delivered
	// once when the handler returns, never mid-pass.
	notifyDrv bool
}

func New(cfg Config) (*Virtualizer, error) {
	if cfg.Driver == nil || len(cfg.Clients) == 0 {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "virttx.New", Msg: "driver and at least one client queue required"}
	}
	if cfg.Board == nil || cfg.DriverBell == nil {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "virttx.New", Msg: "board and driver bell required"}
	}
	names := cfg.Names
	if len(names) < len(cfg.Clients) {
		names = make([]string, len(cfg.Clients))
		copy(names, cfg.Names)
		for i := len(cfg.Names); i < len(names); i++ {
			names[i] = "client"
		}
	}
	v := &Virtualizer{
		drv:     cfg.Driver,
		clients: cfg.Clients,
		names:   names,
		colour:  cfg.Colour,
		pending: newPending(len(cfg.Clients)),
		board:   cfg.Board,
		drvBell: cfg.DriverBell,
	}
	// Ask every client to wake us on its first data.
	for _, h := range v.clients {
		h.RequestProducerSignal()
	}
	if v.colour {
		v.announceColours()
	}
	return v, nil
}

// announceColours prints each client's name in its assigned colour. Debug
// output only.
func (v *Virtualizer) announceColours() {
	for i := range v.clients {
		line := appendColourStart(nil, uint32(i))
		line = append(line, v.names[i]...)
		line = append(line, " is client "...)
		line = conv.AppendUint(line, uint64(i))
		line = append(line, colourEnd...)
		println("[virt_tx]", string(line))
	}
}

// Run services the board until ctx is cancelled. Single-threaded: each
// dispatched signal is handled to completion before the next is observed.
func (v *Virtualizer) Run(ctx context.Context) {
	for {
		ch, ok := v.board.Recv(ctx)
		if !ok {
			return
		}
		v.Dispatch(ch)
	}
}

// Dispatch decodes one raw channel number and runs the matching handler.
// Channel 0 is the driver's freed-space signal; channels 1..N carry client
// data. Anything else is logged and ignored. The deferred driver wake, if
// latched, is delivered once on the way out.
func (v *Virtualizer) Dispatch(ch uint32) {
	switch {
	case ch == DriverCh:
		v.onDriverSpace()
	case ch <= uint32(len(v.clients)):
		v.onClientData(ch - clientOffset)
	default:
		println("[virt_tx] notification from unknown channel:", ch)
	}
	if v.notifyDrv {
		v.notifyDrv = false
		v.drvBell.Ring()
	}
}

// Pending returns the number of clients currently blocked on driver space.
func (v *Virtualizer) Pending() int { return int(v.pending.length()) }

// drainOne attempts to forward client's entire backlog in one transfer.
// Reports whether bytes moved.
func (v *Virtualizer) drainOne(client uint32) bool {
	h := v.clients[client]

	if h.Empty() {
		// Nothing to do; wake us when the client next produces.
		h.RequestProducerSignal()
		return false
	}

	needed := h.Length()
	if v.colour {
		needed += uint32(colourOverhead)
	}

	if needed > v.drv.Free() {
		// Not enough room downstream. Park the client, wake on driver
		// consumption, and stop waking on this client's new data while
		// it is known to be stalled.
		v.pending.push(client)
		v.drv.RequestConsumerSignal()
		h.CancelProducerSignal()
		return false
	}

	if v.colour {
		var start [colourStartMax]byte
		serialq.TransferAll(v.drv, h, appendColourStart(start[:0], client), []byte(colourEnd))
	} else {
		serialq.TransferAll(v.drv, h, nil, nil)
	}
	h.RequestProducerSignal()
	return true
}

// drainClient runs drainOne until the client's queue is empty or the client
// became pending. Each extra pass first disarms the producer signal so a
// wake armed by the previous pass does not go stale while we loop here.
func (v *Virtualizer) drainClient(client uint32) bool {
	h := v.clients[client]
	transferred := false
	for {
		if v.drainOne(client) {
			transferred = true
		}
		if h.Empty() || v.pending.isMember(client) {
			return transferred
		}
		h.CancelProducerSignal()
	}
}

// onDriverSpace retries blocked clients after the driver consumed data.
// Only the clients pending at entry are retried, strictly in the order they
// blocked; a client that re-blocks during the pass waits for the next
// signal. That bounds the work per signal and keeps the retry order fair.
func (v *Virtualizer) onDriverSpace() {
	n := v.pending.length()
	transferred := false
	for i := uint32(0); i < n; i++ {
		client := v.pending.pop()
		if v.drainClient(client) {
			transferred = true
		}
	}
	if transferred {
		v.deferDriverNotify()
	}
}

// onClientData forwards a client's new data.
func (v *Virtualizer) onClientData(client uint32) {
	if v.drainClient(client) {
		v.deferDriverNotify()
	}
}

// deferDriverNotify latches a driver wake if the driver asked to hear about
// new data. Clearing the flag here coalesces the whole handler's transfers
// into one notification.
func (v *Virtualizer) deferDriverNotify() {
	if v.drv.ProducerSignalRequired() {
		v.drv.CancelProducerSignal()
		v.notifyDrv = true
	}
}
