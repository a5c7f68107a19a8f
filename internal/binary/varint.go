package binary

import (
	"errors"
	"fmt"
)

// ErrVarintOverflow is returned when a variable-length integer does not
// terminate within MaxVarintLen bytes.
var ErrVarintOverflow = errors.New("variable-length integer overflows 64 bits")

// MaxVarintLen is the longest encoding ReadUvarint accepts.
const MaxVarintLen = 10

// ReadUvarint reads a variable-length unsigned integer.
//
// Each byte contributes its low 7 bits, most significant group first. A set
// high bit means another byte follows.
func (r *Reader) ReadUvarint() (uint64, error) {
	start := r.pos
	var v uint64
	for i := 0; i < MaxVarintLen; i++ {
		b, err := r.ReadUint8()
		if err != nil {
			return 0, err
		}
		v = v<<7 | uint64(b&0x7f)
		if b&0x80 == 0 {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: at offset %d", ErrVarintOverflow, start)
}

// ReadUint24 reads a 3-byte unsigned integer, most significant byte first.
func (r *Reader) ReadUint24() (uint32, error) {
	buf, err := r.ReadBytes(3)
	if err != nil {
		return 0, err
	}
	return uint32(buf[0])<<16 | uint32(buf[1])<<8 | uint32(buf[2]), nil
}

// ReadInt24 reads a 3-byte sign-magnitude integer. The high bit of the first
// byte is the sign; the remaining 23 bits are the magnitude.
func (r *Reader) ReadInt24() (int32, error) {
	buf, err := r.ReadBytes(3)
	if err != nil {
		return 0, err
	}
	v := int32(buf[0]&0x7f)<<16 | int32(buf[1])<<8 | int32(buf[2])
	if buf[0]&0x80 != 0 {
		v = -v
	}
	return v, nil
}
