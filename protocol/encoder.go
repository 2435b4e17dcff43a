package protocol

import (
	"encoding/binary"
)

// the bus is local-only, endianness is fixed to the host
var Encoding = binary.LittleEndian

// PacketEncoder writes fixed-width fields into a preallocated buffer.
type PacketEncoder struct {
	b   []byte
	off int
}

func NewEncoder(b []byte) *PacketEncoder {
	return &PacketEncoder{b: b}
}

func (e *PacketEncoder) PutUint16(v uint16) {
	Encoding.PutUint16(e.b[e.off:], v)
	e.off += 2
}

func (e *PacketEncoder) PutUint32(v uint32) {
	Encoding.PutUint32(e.b[e.off:], v)
	e.off += 4
}

func (e *PacketEncoder) PutUint64(v uint64) {
	Encoding.PutUint64(e.b[e.off:], v)
	e.off += 8
}

func (e *PacketEncoder) PutRawBytes(p []byte) {
	copy(e.b[e.off:], p)
	e.off += len(p)
}

func (e *PacketEncoder) Offset() int {
	return e.off
}
