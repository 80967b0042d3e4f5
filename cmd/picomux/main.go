//go:build rp2040 || rp2350

// picomux runs the transmit mux on a Pico: two on-board tasks share uart0
// through the virtualizer.
package main

import (
	"context"
	"time"

	"serialmux-go/notify"
	"serialmux-go/services/client"
	"serialmux-go/services/config"
	"serialmux-go/services/uartdrv"
	"serialmux-go/services/virttx"
	"serialmux-go/x/conv"
	"serialmux-go/x/serialq"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("[picomux] boot")

	cfg, err := config.Load("pico")
	if err != nil {
		println("[picomux] config:", err.Error())
		return
	}

	ctx := context.Background()
	board := notify.NewBoard(cfg.NumClients() + 1)
	drvBell := notify.NewDoorbell()

	_, drvRegion := serialq.NewRegion(cfg.Driver.QueueSize)
	virtClients := make([]*serialq.Handle, cfg.NumClients())
	names := make([]string, cfg.NumClients())
	clients := make([]*client.Client, cfg.NumClients())
	for i, spec := range cfg.Clients {
		_, region := serialq.NewRegion(spec.QueueSize)
		virtClients[i] = region.Bind()
		names[i] = spec.Name

		ch := virttx.ClientChannel(i)
		c, err := client.New(region.Bind(), func() { board.Notify(ch) })
		if err != nil {
			println("[picomux] client:", err.Error())
			return
		}
		clients[i] = c
	}

	v, err := virttx.New(virttx.Config{
		Driver:     drvRegion.Bind(),
		Clients:    virtClients,
		Names:      names,
		Colour:     cfg.Colour,
		Board:      board,
		DriverBell: drvBell,
	})
	if err != nil {
		println("[picomux] virttx:", err.Error())
		return
	}
	go v.Run(ctx)

	port, err := uartdrv.OpenPort(cfg.Driver)
	if err != nil {
		println("[picomux] port:", err.Error())
		return
	}
	drv, err := uartdrv.New(uartdrv.Config{
		Queue:      drvRegion.Bind(),
		Port:       port,
		Bell:       drvBell,
		NotifyVirt: func() { board.Notify(virttx.DriverCh) },
	})
	if err != nil {
		println("[picomux] driver:", err.Error())
		return
	}
	go drv.Run(ctx)

	// Two paced tasks, so the interleaving is visible on the wire.
	go tick(ctx, clients[0], "hb", time.Second)
	tick(ctx, clients[1], "sensor", 1500*time.Millisecond)
}

func tick(ctx context.Context, c *client.Client, tag string, every time.Duration) {
	line := make([]byte, 0, 32)
	n := uint64(0)
	for {
		line = append(line[:0], tag...)
		line = append(line, ' ')
		line = conv.AppendUint(line, n)
		line = append(line, '\n')
		if err := c.WriteAll(ctx, line); err != nil {
			return
		}
		n++
		time.Sleep(every)
	}
}
