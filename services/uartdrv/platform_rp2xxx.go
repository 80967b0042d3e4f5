//go:build rp2040 || rp2350

package uartdrv

import (
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"serialmux-go/errcode"
	"serialmux-go/types"
)

// OpenPort maps a driver spec onto a hardware UART on RP2 boards.
// Pin and baud defaults inside uartx apply when the config leaves them zero.
func OpenPort(spec types.DriverSpec) (Port, error) {
	var hw *uartx.UART
	switch spec.Port {
	case "uart0":
		hw = uartx.UART0
	case "uart1":
		hw = uartx.UART1
	default:
		return nil, &errcode.E{C: errcode.UnknownPort, Op: "uartdrv.OpenPort", Msg: spec.Port}
	}
	_ = hw.Configure(uartx.UARTConfig{
		BaudRate: spec.Baud,
		TX:       machine.Pin(spec.TXPin),
		RX:       machine.Pin(spec.RXPin),
	})
	p := &rp2Port{u: hw}
	if spec.DataBits != 0 || spec.StopBits != 0 || spec.Parity != types.ParityNone {
		databits := spec.DataBits
		if databits == 0 {
			databits = 8
		}
		stopbits := spec.StopBits
		if stopbits == 0 {
			stopbits = 1
		}
		_ = p.setFormat(databits, stopbits, spec.Parity) // best-effort
	}
	return p, nil
}

// rp2Port adapts uartx to Port.
type rp2Port struct{ u *uartx.UART }

func (p *rp2Port) Write(b []byte) (int, error) { return p.u.Write(b) }

func (p *rp2Port) setFormat(databits, stopbits uint8, parity types.Parity) error {
	var par uartx.UARTParity
	switch parity {
	case types.ParityEven:
		par = uartx.ParityEven
	case types.ParityOdd:
		par = uartx.ParityOdd
	default:
		par = uartx.ParityNone
	}
	return p.u.SetFormat(databits, stopbits, par)
}
