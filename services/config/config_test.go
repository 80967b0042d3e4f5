// config/config_test.go
package config

import (
	"testing"

	"serialmux-go/errcode"
)

func withLookup(t *testing.T, system, raw string) {
	t.Helper()
	oldLookup := EmbeddedConfigLookup
	EmbeddedConfigLookup = func(s string) ([]byte, bool) {
		if s != system {
			return nil, false
		}
		return []byte(raw), true
	}
	t.Cleanup(func() { EmbeddedConfigLookup = oldLookup })
}

func TestLoadEmbeddedDemo(t *testing.T) {
	cfg, err := Load("demo")
	if err != nil {
		t.Fatalf("Load(demo): %v", err)
	}
	if !cfg.Colour {
		t.Fatal("demo config should enable colour")
	}
	if cfg.Driver.Port != "console" || cfg.Driver.QueueSize != 4096 {
		t.Fatalf("driver spec %+v", cfg.Driver)
	}
	if cfg.NumClients() != 3 || cfg.Clients[0].Name != "client0" {
		t.Fatalf("clients %+v", cfg.Clients)
	}
}

func TestLoadUnknownSystem(t *testing.T) {
	_, err := Load("no-such-system")
	if errcode.Of(err) != errcode.UnknownSystem {
		t.Fatalf("err = %v, want unknown_system", err)
	}
}

func TestLoadRejectsNonPowerOfTwoQueue(t *testing.T) {
	withLookup(t, "bad", `{
		"driver": {"port": "console", "queue_size": 4096},
		"clients": [{"name": "c0", "queue_size": 1000}]
	}`)
	_, err := Load("bad")
	if errcode.Of(err) != errcode.InvalidConfig {
		t.Fatalf("err = %v, want invalid_config", err)
	}
}

func TestLoadRejectsEmptyClients(t *testing.T) {
	withLookup(t, "empty", `{
		"driver": {"port": "console", "queue_size": 64},
		"clients": []
	}`)
	_, err := Load("empty")
	if errcode.Of(err) != errcode.InvalidConfig {
		t.Fatalf("err = %v, want invalid_config", err)
	}
}

func TestLoadParsesUARTDriver(t *testing.T) {
	withLookup(t, "uart", `{
		"driver": {"port": "uart1", "baud": 9600, "tx_pin": 4, "rx_pin": 5,
		           "databits": 8, "stopbits": 1, "parity": "even", "queue_size": 256},
		"clients": [{"name": "c0", "queue_size": 128}]
	}`)
	cfg, err := Load("uart")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	d := cfg.Driver
	if d.Port != "uart1" || d.Baud != 9600 || d.TXPin != 4 || d.RXPin != 5 {
		t.Fatalf("driver spec %+v", d)
	}
	if d.Parity.String() != "even" {
		t.Fatalf("parity %v", d.Parity)
	}
}
