//go:build !(rp2040 || rp2350)

package uartdrv

import (
	"io"
	"os"

	"serialmux-go/errcode"
	"serialmux-go/types"
)

// OpenPort resolves a driver spec on host builds. Only the console port
// exists here; hardware UARTs are an MCU concern.
func OpenPort(spec types.DriverSpec) (Port, error) {
	switch spec.Port {
	case "console", "":
		return WriterPort(os.Stdout), nil
	}
	return nil, &errcode.E{C: errcode.UnknownPort, Op: "uartdrv.OpenPort", Msg: spec.Port}
}

// WriterPort adapts any io.Writer (console, test buffer) to Port.
func WriterPort(w io.Writer) Port { return writerPort{w} }

type writerPort struct{ w io.Writer }

func (p writerPort) Write(b []byte) (int, error) { return p.w.Write(b) }
