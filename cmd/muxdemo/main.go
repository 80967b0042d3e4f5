// muxdemo composes a whole transmit path on the host: three clients share
// one console "device" through the TX virtualizer, with colour framing per
// client. Output interleaves as the queues drain, never mid-payload.
package main

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/shlex"

	"serialmux-go/notify"
	"serialmux-go/services/client"
	"serialmux-go/services/config"
	"serialmux-go/services/uartdrv"
	"serialmux-go/services/virttx"
	"serialmux-go/x/serialq"
)

func main() {
	cfg, err := config.Load("demo")
	if err != nil {
		println("[muxdemo] config:", err.Error())
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	board := notify.NewBoard(cfg.NumClients() + 1)
	drvBell := notify.NewDoorbell()

	// Shared queue regions, allocated the way a system composition step
	// would hand them out.
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
			println("[muxdemo] client:", err.Error())
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
		println("[muxdemo] virttx:", err.Error())
		return
	}
	go v.Run(ctx)

	port, err := uartdrv.OpenPort(cfg.Driver)
	if err != nil {
		println("[muxdemo] port:", err.Error())
		return
	}
	drv, err := uartdrv.New(uartdrv.Config{
		Queue:      drvRegion.Bind(),
		Port:       port,
		Bell:       drvBell,
		NotifyVirt: func() { board.Notify(virttx.DriverCh) },
	})
	if err != nil {
		println("[muxdemo] driver:", err.Error())
		return
	}
	go drv.Run(ctx)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		feed(ctx, clients[0], []string{"alpha one", "alpha two", "alpha three"}, 30*time.Millisecond)
	}()
	go func() {
		defer wg.Done()
		feed(ctx, clients[1], []string{"bravo one", "bravo two", "bravo three"}, 45*time.Millisecond)
	}()
	go func() {
		defer wg.Done()
		runConsole(ctx, clients[2], []string{
			`send hello from the console client`,
			`burst 5 tick`,
			`send "quoted arguments survive tokenizing"`,
			`quit`,
		})
	}()

	wg.Wait()
	// Let the driver finish draining before tearing down.
	time.Sleep(200 * time.Millisecond)
}

// feed writes one line at a time, paced like a chatty firmware task.
func feed(ctx context.Context, c *client.Client, lines []string, every time.Duration) {
	for _, line := range lines {
		if err := c.WriteAll(ctx, []byte(line+"\n")); err != nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(every):
		}
	}
}

// runConsole executes a small command script against one client, with
// shell-style tokenizing.
func runConsole(ctx context.Context, c *client.Client, script []string) {
	for _, line := range script {
		args, err := shlex.Split(line)
		if err != nil {
			println("[console] parse error:", err.Error())
			continue
		}
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "send":
			_ = c.WriteAll(ctx, []byte(strings.Join(args[1:], " ")+"\n"))
		case "burst":
			if len(args) < 2 {
				println("[console] burst needs a count")
				continue
			}
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 0 {
				println("[console] bad burst count:", args[1])
				continue
			}
			word := "ping"
			if len(args) > 2 {
				word = args[2]
			}
			for i := 0; i < n; i++ {
				_ = c.WriteAll(ctx, []byte(word+"\n"))
			}
		case "quit":
			return
		default:
			println("[console] unknown command:", args[0])
		}
	}
}
