// Package config resolves the boot-time wiring document for one system:
// which clients share the transmit device, how large each shared queue is,
// and whether output is colour-framed. Configs are embedded JSON keyed by
// system name; composition code loads once at start-up.
package config

import (
	"github.com/andreyvit/tinyjson"

	"serialmux-go/errcode"
	"serialmux-go/types"
)

// EmbeddedConfigLookup allows overriding how configs are resolved (tests,
// generated config tables).
var EmbeddedConfigLookup = func(system string) ([]byte, bool) {
	b, ok := embeddedConfigs[system]
	return b, ok
}

// Load parses and validates the embedded config for a system.
func Load(system string) (types.MuxConfig, error) {
	raw, ok := EmbeddedConfigLookup(system)
	if !ok || len(raw) == 0 {
		return types.MuxConfig{}, &errcode.E{C: errcode.UnknownSystem, Op: "config.Load", Msg: system}
	}

	r := tinyjson.Raw(raw)
	val := r.Value()
	r.EnsureEOF()

	m, ok := val.(map[string]any)
	if !ok {
		return types.MuxConfig{}, &errcode.E{C: errcode.InvalidConfig, Op: "config.Load", Msg: "config is not a JSON object"}
	}

	cfg := types.MuxConfig{Colour: asBool(m["colour"])}

	if d, ok := m["driver"].(map[string]any); ok {
		cfg.Driver = types.DriverSpec{
			Port:      asString(d["port"]),
			Baud:      uint32(asInt(d["baud"])),
			TXPin:     asInt(d["tx_pin"]),
			RXPin:     asInt(d["rx_pin"]),
			DataBits:  uint8(asInt(d["databits"])),
			StopBits:  uint8(asInt(d["stopbits"])),
			Parity:    types.ParityFromString(asString(d["parity"])),
			QueueSize: asInt(d["queue_size"]),
		}
	}
	if cs, ok := m["clients"].([]any); ok {
		for _, v := range cs {
			c, ok := v.(map[string]any)
			if !ok {
				return types.MuxConfig{}, &errcode.E{C: errcode.InvalidConfig, Op: "config.Load", Msg: "client entry is not an object"}
			}
			cfg.Clients = append(cfg.Clients, types.ClientSpec{
				Name:      asString(c["name"]),
				QueueSize: asInt(c["queue_size"]),
			})
		}
	}

	if err := Validate(&cfg); err != nil {
		return types.MuxConfig{}, err
	}
	return cfg, nil
}

// Validate enforces the wiring constraints the queue layer relies on:
// at least one client, and every data region a power of two so queue
// capacities divide the uint32 cursor modulus.
func Validate(cfg *types.MuxConfig) error {
	if len(cfg.Clients) == 0 {
		return &errcode.E{C: errcode.InvalidConfig, Op: "config.Validate", Msg: "no clients configured"}
	}
	if !validQueueSize(cfg.Driver.QueueSize) {
		return &errcode.E{C: errcode.InvalidConfig, Op: "config.Validate", Msg: "driver queue_size must be a power of two >= 2"}
	}
	for _, c := range cfg.Clients {
		if c.Name == "" {
			return &errcode.E{C: errcode.InvalidConfig, Op: "config.Validate", Msg: "client without a name"}
		}
		if !validQueueSize(c.QueueSize) {
			return &errcode.E{C: errcode.InvalidConfig, Op: "config.Validate", Msg: "client queue_size must be a power of two >= 2: " + c.Name}
		}
	}
	return nil
}

func validQueueSize(n int) bool {
	return n >= 2 && n&(n-1) == 0 && int64(n) < int64(1)<<32
}

// ---- tolerant JSON value helpers ----

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	case uint64:
		return int(n)
	}
	return 0
}
