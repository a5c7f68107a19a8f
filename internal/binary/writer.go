package binary

import (
	"encoding/binary"
	"fmt"
	"math"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Writer appends replay primitives to a growable buffer.
//
// It mirrors Reader and exists to build byte-exact fixtures; the decoder
// never writes.
type Writer struct {
	buf   []byte
	order binary.ByteOrder
}

// NewWriter creates an empty writer with the given configuration.
func NewWriter(cfg Config) *Writer {
	order := cfg.ByteOrder
	if order == nil {
		order = binary.LittleEndian
	}
	return &Writer{order: order}
}

// Pos returns the current write position, which is also the buffer length.
func (w *Writer) Pos() int64 {
	return int64(len(w.buf))
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// WriteBytes appends raw bytes.
func (w *Writer) WriteBytes(data []byte) {
	w.buf = append(w.buf, data...)
}

// WriteUint8 writes an unsigned 8-bit integer.
func (w *Writer) WriteUint8(v uint8) {
	w.buf = append(w.buf, v)
}

// WriteInt8 writes a signed 8-bit integer.
func (w *Writer) WriteInt8(v int8) {
	w.WriteUint8(uint8(v))
}

// WriteUint16 writes an unsigned 16-bit integer.
func (w *Writer) WriteUint16(v uint16) {
	var b [2]byte
	w.order.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// WriteInt16 writes a signed 16-bit integer.
func (w *Writer) WriteInt16(v int16) {
	w.WriteUint16(uint16(v))
}

// WriteUint32 writes an unsigned 32-bit integer.
func (w *Writer) WriteUint32(v uint32) {
	var b [4]byte
	w.order.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// WriteInt32 writes a signed 32-bit integer.
func (w *Writer) WriteInt32(v int32) {
	w.WriteUint32(uint32(v))
}

// WriteUint64 writes an unsigned 64-bit integer.
func (w *Writer) WriteUint64(v uint64) {
	var b [8]byte
	w.order.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// WriteInt64 writes a signed 64-bit integer.
func (w *Writer) WriteInt64(v int64) {
	w.WriteUint64(uint64(v))
}

// WriteFloat32 writes an IEEE 754 single precision float.
func (w *Writer) WriteFloat32(v float32) {
	w.WriteUint32(math.Float32bits(v))
}

// WriteFloat64 writes an IEEE 754 double precision float.
func (w *Writer) WriteFloat64(v float64) {
	w.WriteUint64(math.Float64bits(v))
}

// WriteUint24 writes the low 24 bits of v, most significant byte first.
func (w *Writer) WriteUint24(v uint32) {
	w.buf = append(w.buf, byte(v>>16), byte(v>>8), byte(v))
}

// WriteInt24 writes v in 24-bit sign-magnitude form.
func (w *Writer) WriteInt24(v int32) {
	var sign byte
	if v < 0 {
		sign = 0x80
		v = -v
	}
	w.buf = append(w.buf, sign|byte(v>>16)&0x7f, byte(v>>8), byte(v))
}

// WriteUvarint writes v as 7-bit groups, most significant group first.
func (w *Writer) WriteUvarint(v uint64) {
	var groups [MaxVarintLen]byte
	n := 0
	for {
		groups[n] = byte(v & 0x7f)
		n++
		v >>= 7
		if v == 0 {
			break
		}
	}
	for i := n - 1; i > 0; i-- {
		w.buf = append(w.buf, groups[i]|0x80)
	}
	w.buf = append(w.buf, groups[0])
}

// WriteCaASCII writes a uint16 count followed by the Latin-1 bytes of s.
func (w *Writer) WriteCaASCII(s string) error {
	raw, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return fmt.Errorf("encoding ascii string %q: %w", s, err)
	}
	if len(raw) > math.MaxUint16 {
		return fmt.Errorf("ascii string too long: %d bytes", len(raw))
	}
	w.WriteUint16(uint16(len(raw)))
	w.WriteBytes(raw)
	return nil
}

// WriteCaUnicode writes a uint16 code unit count followed by s as UTF-16.
func (w *Writer) WriteCaUnicode(s string) error {
	endian := unicode.LittleEndian
	if w.order == binary.BigEndian {
		endian = unicode.BigEndian
	}
	raw, err := unicode.UTF16(endian, unicode.IgnoreBOM).NewEncoder().Bytes([]byte(s))
	if err != nil {
		return fmt.Errorf("encoding unicode string %q: %w", s, err)
	}
	if len(raw)/2 > math.MaxUint16 {
		return fmt.Errorf("unicode string too long: %d code units", len(raw)/2)
	}
	w.WriteUint16(uint16(len(raw) / 2))
	w.WriteBytes(raw)
	return nil
}

// PutUint32At overwrites four bytes at offset, used to back-patch end offsets.
func (w *Writer) PutUint32At(offset int64, v uint32) {
	w.order.PutUint32(w.buf[offset:offset+4], v)
}

// ByteOrder returns the configured byte order.
func (w *Writer) ByteOrder() binary.ByteOrder {
	return w.order
}
