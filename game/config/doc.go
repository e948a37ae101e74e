// Package config provides server configuration for the guessing game.
//
// The config package handles:
//   - Built-in defaults
//   - Loading overrides from a YAML file
//   - Validation of ports, timeouts and source selections
//
// Configuration Format:
//
//	host: 0.0.0.0
//	port: 8080
//	debug: false
//	secret_source: time     # time | random
//	read_timeout: 0s        # 0 disables the idle deadline
//	write_timeout: 10s
//	telemetry:
//	  source: proc          # none | static | proc
//	  interface: wlan0
//	  path: /proc/net/wireless
//	ngrok:
//	  enabled: false
//	  authtoken: ""
//	  domain: ""
//
// Command line flags and environment variables take precedence over the file;
// that merge happens in the server entrypoint.
//
// Usage:
//
//	cfg, err := config.Load("guessgame.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(cfg.Addr())
package config
