package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Populate embeddedConfigs at build time (e.g. via code generation) or
// manually during development.
// Key: system name passed to Load
// Val: raw JSON bytes for that system
// -----------------------------------------------------------------------------

const cfgDemo = `{
  "colour": true,
  "driver": {
      "port": "console",
      "baud": 115200,
      "queue_size": 4096
  },
  "clients": [
      {"name": "client0", "queue_size": 4096},
      {"name": "client1", "queue_size": 4096},
      {"name": "console", "queue_size": 4096}
  ]
}`

const cfgPico = `{
  "colour": false,
  "driver": {
      "port": "uart0",
      "baud": 115200,
      "tx_pin": 0,
      "rx_pin": 1,
      "queue_size": 4096
  },
  "clients": [
      {"name": "client0", "queue_size": 4096},
      {"name": "client1", "queue_size": 4096}
  ]
}`

var embeddedConfigs = map[string][]byte{
	"demo": []byte(cfgDemo),
	"pico": []byte(cfgPico),
}
