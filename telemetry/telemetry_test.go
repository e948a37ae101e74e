package telemetry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const wirelessSample = `Inter-| sta-|   Quality        |   Discarded packets               | Missed | WE
 face | tus | link level noise |  nwid  crypt   frag  retry   misc | beacon | 22
 wlan0: 0000   70.  -40.  -256        0      0      0      0      0        0
 wlan1: 0000   45.  -65.  -256        0      0      0      0      0        0
`

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		rssi int
		want float64
	}{
		{"reference point", -35, 1.0},
		{"ten times farther", -70, 10.0},
		{"clamped low", 0, MinDistance},
		{"clamped high", -120, MaxDistance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Distance(tt.rssi), 1e-9)
		})
	}
}

func TestRead_Station(t *testing.T) {
	reading := Read(Static(-70), nil)

	require.NotNil(t, reading.RSSI)
	assert.Equal(t, -70, *reading.RSSI)
	assert.Equal(t, 10.0, *reading.Distance)
	assert.Equal(t, 10.0, *reading.RawDistance)
	assert.Equal(t, "meters", reading.Unit)
	assert.Empty(t, reading.Error)

	data, err := json.Marshal(reading)
	require.NoError(t, err)
	assert.JSONEq(t, `{"rssi":-70,"distance":10,"unit":"meters","raw_distance":10}`, string(data))
}

func TestRead_Rounding(t *testing.T) {
	reading := Read(Static(-50), nil)

	// 10^(15/35) = 2.6826957...
	assert.Equal(t, 2.68, *reading.Distance)
	assert.Equal(t, 2.6827, *reading.RawDistance)
}

func TestRead_NoStation(t *testing.T) {
	reading := Read(NoStation{}, nil)

	data, err := json.Marshal(reading)
	require.NoError(t, err)
	assert.JSONEq(t, `{"rssi":null,"distance":null,"error":"No connected station"}`, string(data))
}

func TestRead_LogsClamp(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	reading := Read(Static(-120), zap.New(core))

	assert.Equal(t, MaxDistance, *reading.Distance)
	assert.Equal(t, 1, logs.FilterMessage("distance clamped, signal very weak").Len())
}

func TestParseWireless(t *testing.T) {
	t.Run("named interface", func(t *testing.T) {
		level, err := ParseWireless(strings.NewReader(wirelessSample), "wlan1")
		require.NoError(t, err)
		assert.Equal(t, -65, level)
	})

	t.Run("first interface", func(t *testing.T) {
		level, err := ParseWireless(strings.NewReader(wirelessSample), "")
		require.NoError(t, err)
		assert.Equal(t, -40, level)
	})

	t.Run("missing interface", func(t *testing.T) {
		_, err := ParseWireless(strings.NewReader(wirelessSample), "eth0")
		assert.ErrorIs(t, err, ErrInterfaceNotFound)
	})

	t.Run("header only", func(t *testing.T) {
		header := strings.Join(strings.Split(wirelessSample, "\n")[:2], "\n")
		_, err := ParseWireless(strings.NewReader(header), "")
		assert.ErrorIs(t, err, ErrInterfaceNotFound)
	})

	t.Run("malformed level", func(t *testing.T) {
		_, err := ParseWireless(strings.NewReader(" wlan0: 0000 70. abc. -256\n"), "wlan0")
		assert.Error(t, err)
	})
}

func TestProcWireless(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wireless")
	require.NoError(t, os.WriteFile(path, []byte(wirelessSample), 0644))

	rssi, ok := ProcWireless{Path: path, Interface: "wlan0"}.StationRSSI()
	assert.True(t, ok)
	assert.Equal(t, -40, rssi)

	_, ok = ProcWireless{Path: filepath.Join(t.TempDir(), "missing")}.StationRSSI()
	assert.False(t, ok)
}
