package header

import (
	"errors"
	"fmt"
	"time"

	"github.com/robert-malhotra/go-twreplay/internal/binary"
)

// Size is the length of the header in bytes.
const Size = 16

// Errors
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrCorruptHeader     = errors.New("corrupt header")
)

// Magic identifies a replay wire variant.
type Magic uint32

// Known magic numbers.
const (
	MagicABCD Magic = 0xABCD
	MagicABCE Magic = 0xABCE
	MagicABCF Magic = 0xABCF
	MagicABCA Magic = 0xABCA
)

// Known reports whether m is one of the supported magic numbers.
func (m Magic) Known() bool {
	switch m {
	case MagicABCD, MagicABCE, MagicABCF, MagicABCA:
		return true
	}
	return false
}

func (m Magic) String() string {
	if m.Known() {
		return fmt.Sprintf("%X", uint32(m))
	}
	return fmt.Sprintf("0x%08x", uint32(m))
}

// Header is the parsed replay header.
type Header struct {
	Magic Magic

	// Reserved is the second header word. It is zero in every known file and
	// is kept only for diagnostics.
	Reserved uint32

	// RawTimestamp is the creation time as stored, in Unix seconds.
	RawTimestamp uint32

	// Timestamp is RawTimestamp as a UTC time.
	Timestamp time.Time

	// FooterOffset is the absolute offset of the footer, which is also the
	// end of the node region.
	FooterOffset uint32

	// NodesStart is the absolute offset of the first node.
	NodesStart int64
}

// NodesEnd returns the exclusive end of the node region.
func (h *Header) NodesEnd() int64 {
	return int64(h.FooterOffset)
}

// Read parses the header at offset 0 of r and leaves r positioned at the
// start of the node region.
func Read(r *binary.Reader) (*Header, error) {
	if err := r.Seek(0); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptHeader, err)
	}

	magic, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("%w: reading magic: %w", ErrCorruptHeader, err)
	}
	h := &Header{Magic: Magic(magic)}
	if !h.Magic.Known() {
		return nil, fmt.Errorf("%w: magic %s", ErrUnsupportedFormat, h.Magic)
	}

	if h.Reserved, err = r.ReadUint32(); err != nil {
		return nil, fmt.Errorf("%w: reading reserved field: %w", ErrCorruptHeader, err)
	}
	if h.RawTimestamp, err = r.ReadUint32(); err != nil {
		return nil, fmt.Errorf("%w: reading timestamp: %w", ErrCorruptHeader, err)
	}
	if h.FooterOffset, err = r.ReadUint32(); err != nil {
		return nil, fmt.Errorf("%w: reading footer offset: %w", ErrCorruptHeader, err)
	}

	h.Timestamp = time.Unix(int64(h.RawTimestamp), 0).UTC()
	h.NodesStart = r.Pos()

	if h.NodesEnd() < h.NodesStart || h.NodesEnd() > r.Len() {
		return nil, fmt.Errorf("%w: footer offset %d outside [%d, %d]",
			ErrCorruptHeader, h.FooterOffset, h.NodesStart, r.Len())
	}
	return h, nil
}
