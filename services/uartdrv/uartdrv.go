// Package uartdrv is the device end of the transmit path: it drains the
// shared driver queue into an output port and signals the virtualizer
// whenever it has freed space the virtualizer asked to hear about.
package uartdrv

import (
	"context"

	"serialmux-go/errcode"
	"serialmux-go/notify"
	"serialmux-go/x/serialq"
)

// Port is the transmit surface of an output device.
type Port interface {
	Write(p []byte) (int, error)
}

const defaultBufSize = 256

type Config struct {
	Queue      *serialq.Handle  // consumer view of the driver TX queue
	Port       Port             // where bytes leave the system
	Bell       *notify.Doorbell // wakes sent to this driver
	NotifyVirt func()           // raises channel 0 on the virtualizer's board
	BufSize    int
}

type Driver struct {
	q          *serialq.Handle
	port       Port
	bell       *notify.Doorbell
	notifyVirt func()
	buf        []byte
}

func New(cfg Config) (*Driver, error) {
	if cfg.Queue == nil || cfg.Port == nil || cfg.Bell == nil || cfg.NotifyVirt == nil {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "uartdrv.New", Msg: "queue, port, bell and notify target required"}
	}
	size := cfg.BufSize
	if size <= 0 {
		size = defaultBufSize
	}
	d := &Driver{
		q:          cfg.Queue,
		port:       cfg.Port,
		bell:       cfg.Bell,
		notifyVirt: cfg.NotifyVirt,
		buf:        make([]byte, size),
	}
	// Wake us as soon as the virtualizer first enqueues.
	d.q.RequestProducerSignal()
	return d, nil
}

// Run drains the queue on every bell until ctx is cancelled.
func (d *Driver) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.bell.Wait():
			d.Service()
		}
	}
}

// Service is one complete drain pass. It re-arms the producer signal before
// the final emptiness check, so a transfer racing with the pass re-signals
// instead of being lost, and it answers an armed consumer-signal request
// once per pass, after space has actually been freed.
func (d *Driver) Service() {
	freed := false
	for {
		for {
			n := d.q.ReadInto(d.buf)
			if n == 0 {
				break
			}
			d.writeOut(d.buf[:n])
			freed = true
		}
		d.q.RequestProducerSignal()
		if d.q.Empty() {
			break
		}
		d.q.CancelProducerSignal()
	}
	if freed && d.q.ConsumerSignalRequired() {
		d.q.CancelConsumerSignal()
		d.notifyVirt()
	}
}

// writeOut pushes a chunk to the port. A port error ends the chunk: the
// bytes are already consumed from the shared queue, and device-boundary
// loss is outside the queue protocol's no-loss contract.
func (d *Driver) writeOut(p []byte) {
	for len(p) > 0 {
		n, err := d.port.Write(p)
		if err != nil {
			println("[uart_drv] port write failed:", err.Error())
			return
		}
		if n <= 0 {
			return
		}
		p = p[n:]
	}
}
