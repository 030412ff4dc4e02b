package comm

import (
	"fmt"
	"strings"
)

// SyncKind selects the width of a SyncHeader.
type SyncKind byte

const (
	// SyncShort is a 2-byte header.
	SyncShort SyncKind = iota
	// SyncMedium is a 4-byte header.
	SyncMedium
	// SyncLong is an 8-byte header.
	SyncLong
)

var syncKindNames = [...]string{"short", "medium", "long"}

// Len returns the wire width of the kind.
func (k SyncKind) Len() int {
	switch k {
	case SyncMedium:
		return 4
	case SyncLong:
		return 8
	default:
		return 2
	}
}

// String implements fmt.Stringer.
func (k SyncKind) String() string {
	if int(k) < len(syncKindNames) {
		return syncKindNames[k]
	}
	return fmt.Sprintf("SyncKind(%d)", byte(k))
}

// SyncHeader marks the start of a frame.
// The zero value is a short header of two zero bytes.
type SyncHeader struct {
	kind    SyncKind
	pattern [8]byte
}

// ShortSync creates a 2-byte header.
func ShortSync(p [2]byte) SyncHeader {
	h := SyncHeader{kind: SyncShort}
	copy(h.pattern[:], p[:])
	return h
}

// MediumSync creates a 4-byte header.
func MediumSync(p [4]byte) SyncHeader {
	h := SyncHeader{kind: SyncMedium}
	copy(h.pattern[:], p[:])
	return h
}

// LongSync creates an 8-byte header.
func LongSync(p [8]byte) SyncHeader {
	return SyncHeader{kind: SyncLong, pattern: p}
}

// ParseSyncKind parses short, medium or long. Empty means short.
func ParseSyncKind(name string) (SyncKind, error) {
	switch strings.ToLower(name) {
	case "", "short":
		return SyncShort, nil
	case "medium":
		return SyncMedium, nil
	case "long":
		return SyncLong, nil
	default:
		return SyncShort, fmt.Errorf("unknown sync header %q", name)
	}
}

// ParseSyncHeader creates a header from a kind name and its pattern.
// The pattern must be exactly as wide as the kind.
func ParseSyncHeader(kind string, pattern []byte) (SyncHeader, error) {
	var h SyncHeader
	k, err := ParseSyncKind(kind)
	if err != nil {
		return h, err
	}
	if len(pattern) != k.Len() {
		return h, fmt.Errorf("%s sync header expects %d bytes, got %d", k, k.Len(), len(pattern))
	}
	h.kind = k
	copy(h.pattern[:], pattern)
	return h, nil
}

// Kind returns the header kind.
func (h SyncHeader) Kind() SyncKind {
	return h.kind
}

// Len returns the wire width, one of 2, 4 or 8.
func (h SyncHeader) Len() int {
	return h.kind.Len()
}

// Bytes returns the header pattern.
func (h SyncHeader) Bytes() []byte {
	b := make([]byte, h.Len())
	copy(b, h.pattern[:])
	return b
}
