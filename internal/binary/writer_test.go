package binary

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestNewWriter(t *testing.T) {
	w := NewWriter(DefaultConfig())

	if w.Pos() != 0 {
		t.Errorf("expected initial position 0, got %d", w.Pos())
	}
	if w.ByteOrder() != binary.LittleEndian {
		t.Errorf("expected little-endian default, got %v", w.ByteOrder())
	}
}

func TestWriterIntegers(t *testing.T) {
	w := NewWriter(DefaultConfig())
	w.WriteUint8(0x42)
	w.WriteUint16(0x0102)
	w.WriteUint32(0x12345678)
	w.WriteUint64(0x123456789ABCDEF0)

	expected := []byte{
		0x42,
		0x02, 0x01,
		0x78, 0x56, 0x34, 0x12,
		0xF0, 0xDE, 0xBC, 0x9A, 0x78, 0x56, 0x34, 0x12,
	}
	if !bytes.Equal(w.Bytes(), expected) {
		t.Errorf("expected % x, got % x", expected, w.Bytes())
	}
}

func TestWriterBigEndian(t *testing.T) {
	w := NewWriter(Config{ByteOrder: binary.BigEndian})
	w.WriteUint16(0x0102)
	w.WriteUint32(0x12345678)

	expected := []byte{0x01, 0x02, 0x12, 0x34, 0x56, 0x78}
	if !bytes.Equal(w.Bytes(), expected) {
		t.Errorf("expected % x, got % x", expected, w.Bytes())
	}
}

func TestWriterPutUint32At(t *testing.T) {
	w := NewWriter(DefaultConfig())
	w.WriteUint8(0x80)
	at := w.Pos()
	w.WriteUint32(0)
	w.WriteUint16(0xAAAA)
	w.PutUint32At(at, uint32(w.Pos()))

	r := NewReader(w.Bytes(), DefaultConfig())
	r.Skip(1)
	end, err := r.ReadUint32()
	if err != nil {
		t.Fatalf("ReadUint32 failed: %v", err)
	}
	if end != 7 {
		t.Errorf("expected patched end offset 7, got %d", end)
	}
}

// TestWriterReaderRoundTrip checks that every primitive the reader understands
// can be produced by the writer.
func TestWriterReaderRoundTrip(t *testing.T) {
	w := NewWriter(DefaultConfig())
	w.WriteInt8(-7)
	w.WriteInt16(-1234)
	w.WriteInt32(-123456)
	w.WriteInt64(-1 << 50)
	w.WriteFloat32(3.5)
	w.WriteFloat64(-0.125)
	w.WriteUint24(0xABCDEF)
	w.WriteInt24(-0x123456)
	w.WriteUvarint(300)
	if err := w.WriteCaASCII("BATTLE_REPLAY"); err != nil {
		t.Fatalf("WriteCaASCII failed: %v", err)
	}
	if err := w.WriteCaUnicode("将軍 2"); err != nil {
		t.Fatalf("WriteCaUnicode failed: %v", err)
	}

	r := NewReader(w.Bytes(), DefaultConfig())
	i8, _ := r.ReadInt8()
	i16, _ := r.ReadInt16()
	i32, _ := r.ReadInt32()
	i64, _ := r.ReadInt64()
	f32, _ := r.ReadFloat32()
	f64, _ := r.ReadFloat64()
	u24, _ := r.ReadUint24()
	s24, _ := r.ReadInt24()
	uv, _ := r.ReadUvarint()
	ascii, _ := r.ReadCaASCII()
	uni, err := r.ReadCaUnicode()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if i8 != -7 || i16 != -1234 || i32 != -123456 || i64 != -1<<50 {
		t.Errorf("signed mismatch: %d %d %d %d", i8, i16, i32, i64)
	}
	if f32 != 3.5 || f64 != -0.125 {
		t.Errorf("float mismatch: %v %v", f32, f64)
	}
	if u24 != 0xABCDEF || s24 != -0x123456 {
		t.Errorf("24-bit mismatch: 0x%x %d", u24, s24)
	}
	if uv != 300 {
		t.Errorf("uvarint mismatch: %d", uv)
	}
	if ascii != "BATTLE_REPLAY" || uni != "将軍 2" {
		t.Errorf("string mismatch: %q %q", ascii, uni)
	}
	if r.Remaining() != 0 {
		t.Errorf("expected all bytes consumed, %d left", r.Remaining())
	}
}

func TestWriteCaASCIIRejectsNonLatin1(t *testing.T) {
	w := NewWriter(DefaultConfig())
	if err := w.WriteCaASCII("将"); err == nil {
		t.Error("expected an error for a rune outside Latin-1")
	}
}
