// Package binary provides the positioned byte cursor used to decode replay files.
package binary

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrOutOfRange is returned when a read or seek goes past the end of the buffer.
var ErrOutOfRange = errors.New("read out of range")

// Reader is a positioned cursor over an immutable byte buffer.
//
// All multi-byte reads use the configured byte order unless an explicit order
// is passed to one of the *Order methods.
type Reader struct {
	buf   []byte
	order binary.ByteOrder
	pos   int64
}

// Config holds reader configuration.
type Config struct {
	ByteOrder binary.ByteOrder
}

// DefaultConfig returns a little-endian configuration, the byte order of every
// known replay variant.
func DefaultConfig() Config {
	return Config{ByteOrder: binary.LittleEndian}
}

// NewReader creates a reader over buf positioned at offset 0.
func NewReader(buf []byte, cfg Config) *Reader {
	order := cfg.ByteOrder
	if order == nil {
		order = binary.LittleEndian
	}
	return &Reader{buf: buf, order: order}
}

// At returns a new reader positioned at the given offset.
// The new reader shares the underlying buffer but has independent position.
func (r *Reader) At(offset int64) *Reader {
	return &Reader{buf: r.buf, order: r.order, pos: offset}
}

// WithByteOrder returns a new reader at the same position using order.
func (r *Reader) WithByteOrder(order binary.ByteOrder) *Reader {
	return &Reader{buf: r.buf, order: order, pos: r.pos}
}

// Pos returns the current read position.
func (r *Reader) Pos() int64 {
	return r.pos
}

// Len returns the total length of the underlying buffer.
func (r *Reader) Len() int64 {
	return int64(len(r.buf))
}

// Remaining returns the number of bytes between the position and the end.
func (r *Reader) Remaining() int64 {
	if r.pos >= int64(len(r.buf)) {
		return 0
	}
	return int64(len(r.buf)) - r.pos
}

// Seek moves the cursor to an absolute offset. Seeking to Len() is allowed.
func (r *Reader) Seek(offset int64) error {
	if offset < 0 || offset > int64(len(r.buf)) {
		return fmt.Errorf("%w: seek to %d (len %d)", ErrOutOfRange, offset, len(r.buf))
	}
	r.pos = offset
	return nil
}

// Skip advances the position by n bytes.
func (r *Reader) Skip(n int64) error {
	return r.Seek(r.pos + n)
}

// ReadBytes reads exactly n bytes from the current position.
// The returned slice aliases the underlying buffer and must not be modified.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	b, err := r.Peek(n)
	if err != nil {
		return nil, err
	}
	r.pos += int64(n)
	return b, nil
}

// Peek returns the next n bytes without advancing the position.
func (r *Reader) Peek(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	if r.pos < 0 || r.pos+int64(n) > int64(len(r.buf)) {
		return nil, fmt.Errorf("%w: read %d bytes at offset %d (len %d)", ErrOutOfRange, n, r.pos, len(r.buf))
	}
	return r.buf[r.pos : r.pos+int64(n)], nil
}

// ReadUint8 reads an unsigned 8-bit integer.
func (r *Reader) ReadUint8() (uint8, error) {
	buf, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadInt8 reads a signed 8-bit integer.
func (r *Reader) ReadInt8() (int8, error) {
	v, err := r.ReadUint8()
	return int8(v), err
}

// ReadUint16 reads an unsigned 16-bit integer.
func (r *Reader) ReadUint16() (uint16, error) {
	return r.ReadUint16Order(r.order)
}

// ReadUint16Order reads an unsigned 16-bit integer in the given byte order.
func (r *Reader) ReadUint16Order(order binary.ByteOrder) (uint16, error) {
	buf, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return order.Uint16(buf), nil
}

// ReadInt16 reads a signed 16-bit integer.
func (r *Reader) ReadInt16() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err
}

// ReadUint32 reads an unsigned 32-bit integer.
func (r *Reader) ReadUint32() (uint32, error) {
	return r.ReadUint32Order(r.order)
}

// ReadUint32Order reads an unsigned 32-bit integer in the given byte order.
func (r *Reader) ReadUint32Order(order binary.ByteOrder) (uint32, error) {
	buf, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return order.Uint32(buf), nil
}

// ReadInt32 reads a signed 32-bit integer.
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

// ReadUint64 reads an unsigned 64-bit integer.
func (r *Reader) ReadUint64() (uint64, error) {
	return r.ReadUint64Order(r.order)
}

// ReadUint64Order reads an unsigned 64-bit integer in the given byte order.
func (r *Reader) ReadUint64Order(order binary.ByteOrder) (uint64, error) {
	buf, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return order.Uint64(buf), nil
}

// ReadInt64 reads a signed 64-bit integer.
func (r *Reader) ReadInt64() (int64, error) {
	v, err := r.ReadUint64()
	return int64(v), err
}

// ReadFloat32 reads an IEEE 754 single precision float.
func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadFloat64 reads an IEEE 754 double precision float.
func (r *Reader) ReadFloat64() (float64, error) {
	v, err := r.ReadUint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// ByteOrder returns the configured byte order.
func (r *Reader) ByteOrder() binary.ByteOrder {
	return r.order
}
