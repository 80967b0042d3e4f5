package types

// ------------------------
// Serial mux configuration
// ------------------------

type Parity uint8

const (
	ParityNone Parity = iota
	ParityEven
	ParityOdd
)

func (p Parity) String() string {
	switch p {
	case ParityEven:
		return "even"
	case ParityOdd:
		return "odd"
	default:
		return "none"
	}
}

func ParityFromString(s string) Parity {
	switch s {
	case "even":
		return ParityEven
	case "odd":
		return ParityOdd
	default:
		return ParityNone
	}
}

// ClientSpec names one transmit client and sizes its queue's data region.
type ClientSpec struct {
	Name      string `json:"name"`
	QueueSize int    `json:"queue_size"` // power-of-two bytes
}

// DriverSpec describes the output device end of the mux.
type DriverSpec struct {
	Port      string `json:"port"` // "console" | "uart0" | "uart1"
	Baud      uint32 `json:"baud,omitempty"`
	TXPin     int    `json:"tx_pin,omitempty"`
	RXPin     int    `json:"rx_pin,omitempty"`
	DataBits  uint8  `json:"databits,omitempty"`
	StopBits  uint8  `json:"stopbits,omitempty"`
	Parity    Parity `json:"-"`
	QueueSize int    `json:"queue_size"` // power-of-two bytes
}

// MuxConfig is the boot-time wiring document for one system: which clients
// exist, how big each shared queue is, and whether client output is
// colour-framed. Populated once at start-up, immutable afterwards.
type MuxConfig struct {
	Driver  DriverSpec   `json:"driver"`
	Clients []ClientSpec `json:"clients"`
	Colour  bool         `json:"colour,omitempty"`
}

// NumClients returns the number of configured clients.
func (c *MuxConfig) NumClients() int { return len(c.Clients) }
