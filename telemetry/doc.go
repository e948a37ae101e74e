// Package telemetry reports the signal strength of the connected station and
// turns it into an estimated distance.
//
// Three sources are available:
//   - NoStation always reports that nobody is connected
//   - Static reports a fixed RSSI, handy for demos and tests
//   - ProcWireless reads the signal level of an interface from /proc/net/wireless
//
// Distances use a log-distance path-loss model with exponent 3.5 and -35 dBm
// measured at one meter, clamped to [0.1, 200] meters.
package telemetry
