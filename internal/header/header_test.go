package header

import (
	"errors"
	"testing"
	"time"

	"github.com/robert-malhotra/go-twreplay/internal/binary"
)

func newReader(data []byte) *binary.Reader {
	return binary.NewReader(data, binary.DefaultConfig())
}

func TestReadABCEHeader(t *testing.T) {
	data := make([]byte, 32)
	copy(data, []byte{
		0xCE, 0xAB, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x78, 0x56, 0x34, 0x12,
		0x20, 0x00, 0x00, 0x00,
	})

	r := newReader(data)
	h, err := Read(r)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if h.Magic != MagicABCE {
		t.Errorf("expected magic ABCE, got %s", h.Magic)
	}
	if h.RawTimestamp != 0x12345678 {
		t.Errorf("expected timestamp 0x12345678, got 0x%x", h.RawTimestamp)
	}
	if !h.Timestamp.Equal(time.Unix(0x12345678, 0)) {
		t.Errorf("unexpected time %v", h.Timestamp)
	}
	if h.NodesStart != 16 || h.NodesEnd() != 32 {
		t.Errorf("expected nodes range [16,32), got [%d,%d)", h.NodesStart, h.NodesEnd())
	}
	if r.Pos() != 16 {
		t.Errorf("expected reader at 16, got %d", r.Pos())
	}
}

func TestReadKnownMagics(t *testing.T) {
	for _, m := range []Magic{MagicABCD, MagicABCE, MagicABCF, MagicABCA} {
		t.Run(m.String(), func(t *testing.T) {
			w := binary.NewWriter(binary.DefaultConfig())
			w.WriteUint32(uint32(m))
			w.WriteUint32(0)
			w.WriteUint32(0)
			w.WriteUint32(Size)

			h, err := Read(newReader(w.Bytes()))
			if err != nil {
				t.Fatalf("Read failed: %v", err)
			}
			if h.Magic != m {
				t.Errorf("expected %s, got %s", m, h.Magic)
			}
			if h.NodesStart != h.NodesEnd() {
				t.Errorf("expected empty node region, got [%d,%d)", h.NodesStart, h.NodesEnd())
			}
		})
	}
}

func TestReadUnsupportedMagic(t *testing.T) {
	for _, magic := range []uint32{0, 0xABCB, 0x0906, 0x0704, 0xCEAB0000} {
		w := binary.NewWriter(binary.DefaultConfig())
		w.WriteUint32(magic)
		w.WriteUint32(0)
		w.WriteUint32(0)
		w.WriteUint32(Size)

		_, err := Read(newReader(w.Bytes()))
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("magic 0x%x: expected ErrUnsupportedFormat, got %v", magic, err)
		}
	}
}

func TestReadCorruptHeader(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short magic", []byte{0xCE, 0xAB}},
		{"truncated", []byte{0xCE, 0xAB, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}},
		{"footer before nodes", []byte{
			0xCE, 0xAB, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			0x00, 0x00, 0x00, 0x00, 0x08, 0x00, 0x00, 0x00,
		}},
		{"footer past end", []byte{
			0xCE, 0xAB, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			0x00, 0x00, 0x00, 0x00, 0xFF, 0x00, 0x00, 0x00,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(newReader(tt.data))
			if !errors.Is(err, ErrCorruptHeader) {
				t.Fatalf("expected ErrCorruptHeader, got %v", err)
			}
		})
	}
}

func TestMagicString(t *testing.T) {
	if MagicABCF.String() != "ABCF" {
		t.Errorf("unexpected %q", MagicABCF.String())
	}
	if Magic(0x1234).String() != "0x00001234" {
		t.Errorf("unexpected %q", Magic(0x1234).String())
	}
}
