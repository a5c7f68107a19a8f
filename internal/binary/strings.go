package binary

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// ReadCaASCII reads a length-prefixed 8-bit string: a uint16 count followed
// by count bytes, each byte being one character (Latin-1).
func (r *Reader) ReadCaASCII() (string, error) {
	start := r.pos
	n, err := r.ReadUint16()
	if err != nil {
		return "", err
	}
	raw, err := r.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decoding ascii string at offset %d: %w", start, err)
	}
	return string(out), nil
}

// ReadCaUnicode reads a length-prefixed 16-bit string: a uint16 count followed
// by count UTF-16 code units in the reader's byte order.
func (r *Reader) ReadCaUnicode() (string, error) {
	start := r.pos
	n, err := r.ReadUint16()
	if err != nil {
		return "", err
	}
	raw, err := r.ReadBytes(int(n) * 2)
	if err != nil {
		return "", err
	}
	endian := unicode.LittleEndian
	if r.order == binary.BigEndian {
		endian = unicode.BigEndian
	}
	out, err := unicode.UTF16(endian, unicode.IgnoreBOM).NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decoding unicode string at offset %d: %w", start, err)
	}
	return string(out), nil
}
