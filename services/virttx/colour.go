package virttx

import "serialmux-go/x/conv"

// ANSI 256-colour framing around each transferred payload. The space check
// reserves the worst-case start sequence (three colour digits) plus the
// reset sequence; the actual prefix may be shorter.
const (
	colourStartHead = "\x1b[38;5;"
	colourStartTail = "m"
	colourEnd       = "\x1b[0m"

	maxColours      = 256
	colourDigitsMax = 3

	colourStartMax = len(colourStartHead) + colourDigitsMax + len(colourStartTail)
	colourOverhead = colourStartMax + len(colourEnd)
)

// appendColourStart writes the colour-start escape for a client into buf.
func appendColourStart(buf []byte, client uint32) []byte {
	buf = append(buf, colourStartHead...)
	buf = conv.AppendUint(buf, uint64(client%maxColours))
	return append(buf, colourStartTail...)
}
