package telemetry

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	l0 "github.com/robotalks/uartmsg/pkg/l0/comm"
)

func TestPolicy(t *testing.T) {
	payload := []byte{0xff, 0x01}
	testCases := []struct {
		checksum string
		poly     uint
		expect   byte
		fail     bool
	}{
		{checksum: "", expect: 0xfe},
		{checksum: "xor", expect: 0xfe},
		{checksum: "sum", expect: 0x00},
		{checksum: "crc8", poly: 0x07, expect: 0x07},
		{checksum: "crc8-and", poly: 0x07, expect: 0x04},
		{checksum: "CRC8-Stream", poly: 0x07, expect: l0.CRC8Stream{Poly: 0x07}.Sum(payload)},
		{checksum: "crc8", poly: 0, fail: true},
		{checksum: "crc8", poly: 0x107, fail: true},
		{checksum: "md5", fail: true},
	}
	for _, tc := range testCases {
		t.Run(tc.checksum, func(t *testing.T) {
			conf := Config{Checksum: tc.checksum, Poly: tc.poly}
			policy, err := conf.Policy()
			if tc.fail {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expect, policy.Sum(payload))
		})
	}
}

func TestSyncHeaderConfig(t *testing.T) {
	testCases := []struct {
		header  string
		pattern string
		expect  []byte
		fail    bool
	}{
		{header: "", expect: []byte{0xaa, 0x55}},
		{header: "medium", expect: []byte{0xaa, 0x55, 0xaa, 0x55}},
		{header: "long", expect: []byte{0xaa, 0x55, 0xaa, 0x55, 0xaa, 0x55, 0xaa, 0x55}},
		{header: "short", pattern: "ffff", expect: []byte{0xff, 0xff}},
		{header: "medium", pattern: "deadbeef", expect: []byte{0xde, 0xad, 0xbe, 0xef}},
		{header: "short", pattern: "deadbeef", fail: true},
		{header: "short", pattern: "zz", fail: true},
		{header: "tiny", fail: true},
	}
	for _, tc := range testCases {
		t.Run(tc.header+"/"+tc.pattern, func(t *testing.T) {
			conf := Config{Header: tc.header, SyncPattern: tc.pattern}
			h, err := conf.SyncHeader()
			if tc.fail {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expect, h.Bytes())
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "imutx.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
sink = "socket://bridge:2000"
header = "long"
checksum = "crc8"
poly = 0x31
interval = "250ms"
relay = "mqtt://localhost:1883/robo/"
`), 0644))

	conf := *Default()
	require.NoError(t, conf.LoadFile(path))
	require.Equal(t, "socket://bridge:2000", conf.Sink)
	require.Equal(t, "long", conf.Header)
	require.Equal(t, "crc8", conf.Checksum)
	require.Equal(t, uint(0x31), conf.Poly)
	require.Equal(t, 250*time.Millisecond, conf.Interval)
	require.Equal(t, "binary", conf.Encoding, "keeps defaults")

	require.NoError(t, os.WriteFile(path, []byte("baudrate = 9600\n"), 0644))
	require.Error(t, conf.LoadFile(path))
	require.Error(t, conf.LoadFile(filepath.Join(dir, "missing.toml")))
}
