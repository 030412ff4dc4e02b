package comm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFoldXOR(t *testing.T) {
	testCases := []struct {
		name    string
		payload []byte
		expect  byte
	}{
		{"single", []byte{0x5a}, 0x5a},
		{"cancel out", []byte{1, 1, 1, 1}, 0},
		{"ff 01", []byte{0xff, 0x01}, 0xfe},
		{"mixed", []byte{0x12, 0x34, 0x56}, 0x12 ^ 0x34 ^ 0x56},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, FoldFunc(nil).Sum(tc.payload))
			require.Equal(t, tc.expect, FoldFunc(XOR).Sum(tc.payload))
		})
	}
}

func TestFoldXORPermutation(t *testing.T) {
	payload := []byte{0x01, 0x80, 0x3c, 0xa5, 0x7e}
	expect := FoldFunc(nil).Sum(payload)
	perms := [][]byte{
		{0x80, 0x01, 0x3c, 0xa5, 0x7e},
		{0x7e, 0xa5, 0x3c, 0x80, 0x01},
		{0x3c, 0x7e, 0x01, 0xa5, 0x80},
	}
	for _, p := range perms {
		require.Equal(t, expect, FoldFunc(nil).Sum(p))
	}
}

func TestFoldCustom(t *testing.T) {
	require.Equal(t, byte(0x06), FoldFunc(Add).Sum([]byte{1, 2, 3}))
	require.Equal(t, byte(0x00), FoldFunc(Add).Sum([]byte{0xff, 0x01}))

	var calls []byte
	last := FoldFunc(func(acc, b byte) byte {
		calls = append(calls, acc)
		return b
	})
	require.Equal(t, byte(3), last.Sum([]byte{1, 2, 3}))
	require.Equal(t, []byte{0, 1, 2}, calls, "fold starts from 0 and goes in order")
}

func TestDivideCRC8(t *testing.T) {
	testCases := []struct {
		name    string
		data    byte
		poly    byte
		extract Extraction
		expect  byte
	}{
		{"zero data or", 0x00, 0x07, ExtractOr, 0x07},
		{"zero data and", 0x00, 0x07, ExtractAnd, 0x00},
		{"one or", 0x01, 0x07, ExtractOr, 0x07},
		{"one and", 0x01, 0x07, ExtractAnd, 0x06},
		{"ff and", 0xff, 0x07, ExtractAnd, 0x04},
		{"wide poly or", 0x00, 0x31, ExtractOr, 0x3f},
		{"full width poly or", 0x42, 0x9b, ExtractOr, 0xff},
		{"zero poly", 0x42, 0x00, ExtractOr, 0x00},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, DivideCRC8(tc.data, tc.poly, tc.extract))
		})
	}
}

func TestCRC8FirstByteOnly(t *testing.T) {
	c := CRC8{Poly: 0x07, Extract: ExtractAnd}
	require.Equal(t, c.Sum([]byte{0xff}), c.Sum([]byte{0xff, 0x01, 0x02}))
	require.Equal(t, byte(0), c.Sum(nil))
}

func TestCRC8Stream(t *testing.T) {
	c := CRC8Stream{Poly: 0x07}
	require.Equal(t, byte(0xf4), c.Sum([]byte("123456789")))
	require.Equal(t, byte(0x07), c.Sum([]byte{0x01}))
	require.NotEqual(t, c.Sum([]byte{1, 2}), c.Sum([]byte{2, 1}))
	require.Equal(t, byte(0), c.Sum(nil))

	dvb := CRC8Stream{Poly: 0xd5}
	require.Equal(t, byte(0xbc), dvb.Sum([]byte("123456789")))
}
