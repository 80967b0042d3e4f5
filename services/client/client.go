// Package client is the producer end of one transmit stream: it enqueues
// bytes into the client's shared queue and signals the virtualizer exactly
// when the virtualizer asked to be signalled.
package client

import (
	"context"
	"time"

	"serialmux-go/errcode"
	"serialmux-go/x/serialq"
)

type Client struct {
	tx     *serialq.Handle // producer view of this client's TX queue
	notify func()          // raises this client's channel on the virtualizer's board
}

func New(tx *serialq.Handle, notifyVirt func()) (*Client, error) {
	if tx == nil || notifyVirt == nil {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "client.New", Msg: "queue and notify target required"}
	}
	return &Client{tx: tx, notify: notifyVirt}, nil
}

// Write enqueues as much of p as fits and returns the accepted count.
// The edge protocol: notify only when bytes actually landed and the
// virtualizer's producer-signal request is armed, clearing it first.
func (c *Client) Write(p []byte) int {
	n := c.tx.WriteFrom(p)
	if n > 0 && c.tx.ProducerSignalRequired() {
		c.tx.CancelProducerSignal()
		c.notify()
	}
	return n
}

// WriteAll enqueues all of p, polling while the queue is full. A saturated
// queue is the expected backpressure state: nobody wakes a blocked producer
// (the virtualizer never signals clients), so waiting here is a poll, not a
// doorbell. Returns early if ctx is cancelled.
func (c *Client) WriteAll(ctx context.Context, p []byte) error {
	for len(p) > 0 {
		n := c.Write(p)
		p = p[n:]
		if len(p) == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Millisecond):
		}
	}
	return nil
}

// Free reports the space currently available in the client's queue.
func (c *Client) Free() uint32 { return c.tx.Free() }
