package telemetry

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

var ErrInterfaceNotFound = errors.New("wireless interface not found")

// Source reports the RSSI of the connected station, if any
type Source interface {
	StationRSSI() (int, bool)
}

// NoStation never has a station
type NoStation struct{}

func (NoStation) StationRSSI() (int, bool) { return 0, false }

// Static always reports the same RSSI
type Static int

func (s Static) StationRSSI() (int, bool) { return int(s), true }

// ProcWireless reads the signal level of Interface from a
// /proc/net/wireless formatted file. An empty Interface picks the first one listed.
type ProcWireless struct {
	Path      string
	Interface string
}

func (p ProcWireless) StationRSSI() (int, bool) {
	f, err := os.Open(p.Path)
	if err != nil {
		return 0, false
	}
	defer f.Close()

	level, err := ParseWireless(f, p.Interface)
	if err != nil {
		return 0, false
	}
	return level, true
}

// ParseWireless extracts the signal level in dBm for iface from the
// contents of /proc/net/wireless.
//
//	Inter-| sta-|   Quality        |   Discarded packets               | Missed | WE
//	 face | tus | link level noise |  nwid  crypt   frag  retry   misc | beacon | 22
//	 wlan0: 0000   70.  -40.  -256        0      0      0      0      0        0
func ParseWireless(r io.Reader, iface string) (int, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		name, rest, found := strings.Cut(scanner.Text(), ":")
		if !found {
			continue
		}
		name = strings.TrimSpace(name)
		if iface != "" && name != iface {
			continue
		}

		fields := strings.Fields(rest)
		if len(fields) < 3 {
			return 0, fmt.Errorf("malformed entry for %s", name)
		}

		level, err := strconv.ParseFloat(strings.TrimSuffix(fields[2], "."), 64)
		if err != nil {
			return 0, fmt.Errorf("parse signal level for %s: %w", name, err)
		}
		return int(math.Round(level)), nil
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}

	if iface == "" {
		return 0, ErrInterfaceNotFound
	}
	return 0, fmt.Errorf("%w: %s", ErrInterfaceNotFound, iface)
}
