package comm

import (
	"math/bits"

	"github.com/sigurn/crc8"
)

// Checksum computes the integrity byte of a payload.
type Checksum interface {
	Sum(payload []byte) byte
}

// FoldFunc reduces the payload into a byte, starting from 0.
// A nil FoldFunc folds with XOR.
type FoldFunc func(acc, b byte) byte

// XOR is the default fold.
func XOR(acc, b byte) byte { return acc ^ b }

// Add folds by modulo-256 addition.
func Add(acc, b byte) byte { return acc + b }

// Sum implements Checksum.
func (f FoldFunc) Sum(payload []byte) byte {
	fn := f
	if fn == nil {
		fn = XOR
	}
	var acc byte
	for _, b := range payload {
		acc = fn(acc, b)
	}
	return acc
}

// Extraction selects how CRC8 turns the division result into a byte.
type Extraction int

const (
	// ExtractOr ORs the remainder with the remainder mask.
	// This is what deployed receivers expect.
	ExtractOr Extraction = iota
	// ExtractAnd keeps only the remainder bits.
	ExtractAnd
)

// CRC8 computes a CRC by polynomial division over the first payload byte.
// The polynomial width is taken from its highest set bit.
type CRC8 struct {
	Poly    byte
	Extract Extraction
}

// Sum implements Checksum.
func (c CRC8) Sum(payload []byte) byte {
	if len(payload) == 0 {
		return 0
	}
	return DivideCRC8(payload[0], c.Poly, c.Extract)
}

// DivideCRC8 divides data by poly and extracts the CRC.
func DivideCRC8(data, poly byte, extract Extraction) byte {
	if poly == 0 {
		return 0
	}
	degree := uint(8 - bits.LeadingZeros8(poly))
	dividend := uint16(data) << degree
	divisor := uint16(poly) << 8
	probe := uint16(1) << (degree + 7)
	// the leading bit of divisor always sits on probe.
	for i := 0; i < 8; i++ {
		if dividend&probe != 0 {
			dividend ^= divisor
		}
		probe >>= 1
		divisor >>= 1
	}
	mask := uint16(0xffff) >> (16 - degree)
	if extract == ExtractAnd {
		return byte(dividend & mask)
	}
	return byte(dividend | mask)
}

// CRC8Stream is the conventional MSB-first CRC-8 carried across all
// payload bytes, with the x^8 term of Poly implicit and zero init.
type CRC8Stream struct {
	Poly byte
}

// Sum implements Checksum.
func (c CRC8Stream) Sum(payload []byte) byte {
	return crc8.Checksum(payload, crc8.MakeTable(crc8.Params{Poly: c.Poly}))
}
