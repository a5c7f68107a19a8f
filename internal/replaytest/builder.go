// Package replaytest builds replay files in memory for tests.
//
// A Builder writes the node region in order. Composite nodes are opened with
// a Begin call and closed with the matching End call, which back-patches the
// end offset. Bytes assembles the header, node region and footer.
//
//	b := replaytest.New(header.MagicABCF)
//	b.BeginRecord("root", 0)
//	b.UTF16("Shogun2")
//	b.End()
//	data := b.Bytes()
package replaytest

import (
	"fmt"

	"github.com/robert-malhotra/go-twreplay/internal/binary"
	"github.com/robert-malhotra/go-twreplay/internal/header"
	"github.com/robert-malhotra/go-twreplay/internal/typecode"
)

// Builder assembles a replay file.
type Builder struct {
	Magic     header.Magic
	Timestamp uint32

	w        *binary.Writer
	open     []int64 // positions of unpatched end offsets
	tags     []string
	tagIndex map[string]uint16

	strs     []tableEntry
	strIndex map[string]uint32

	// Trailer is appended after the footer.
	Trailer []byte
}

type tableEntry struct {
	index uint32
	value string
}

// New returns a builder for the given variant. The header is reserved at
// offset 0 and filled in by Bytes.
func New(magic header.Magic) *Builder {
	w := binary.NewWriter(binary.DefaultConfig())
	w.WriteBytes(make([]byte, header.Size))
	return &Builder{
		Magic:    magic,
		w:        w,
		tagIndex: make(map[string]uint16),
		strIndex: make(map[string]uint32),
	}
}

// W exposes the underlying writer for hand-built payloads.
func (b *Builder) W() *binary.Writer { return b.w }

// Pos returns the absolute offset of the next byte written.
func (b *Builder) Pos() int64 { return b.w.Pos() }

// Tag returns the footer index of name, registering it on first use.
func (b *Builder) Tag(name string) uint16 {
	if id, ok := b.tagIndex[name]; ok {
		return id
	}
	id := uint16(len(b.tags))
	b.tags = append(b.tags, name)
	b.tagIndex[name] = id
	return id
}

// StringIndex returns the string table index of s, adding it on first use.
// It is only meaningful for ABCF and ABCA.
func (b *Builder) StringIndex(s string) uint32 {
	if idx, ok := b.strIndex[s]; ok {
		return idx
	}
	idx := uint32(len(b.strs))
	b.AddString(idx, s)
	return idx
}

// AddString adds an explicit string table entry.
func (b *Builder) AddString(index uint32, s string) {
	b.strs = append(b.strs, tableEntry{index: index, value: s})
	if _, ok := b.strIndex[s]; !ok {
		b.strIndex[s] = index
	}
}

func (b *Builder) hasTable() bool {
	return b.Magic == header.MagicABCF || b.Magic == header.MagicABCA
}

// Code writes a raw type code byte.
func (b *Builder) Code(c typecode.Code) *Builder {
	b.w.WriteUint8(uint8(c))
	return b
}

// Begin writes a placeholder end offset to be patched by End.
func (b *Builder) Begin() {
	b.open = append(b.open, b.w.Pos())
	b.w.WriteUint32(0)
}

// End patches the most recent open end offset with the current position.
func (b *Builder) End() {
	if len(b.open) == 0 {
		panic("replaytest: End without Begin")
	}
	at := b.open[len(b.open)-1]
	b.open = b.open[:len(b.open)-1]
	b.w.PutUint32At(at, uint32(b.w.Pos()))
}

// BeginRecord opens a record node.
func (b *Builder) BeginRecord(tag string, version uint8) {
	b.Code(typecode.Record)
	b.w.WriteUint16(b.Tag(tag))
	b.w.WriteUint8(version)
	b.Begin()
}

// BeginRecordArray opens a record array node with count elements. Each
// element is opened with Begin and closed with End, then the array itself is
// closed with End.
func (b *Builder) BeginRecordArray(tag string, version uint8, count uint32) {
	b.Code(typecode.RecordArray)
	b.w.WriteUint16(b.Tag(tag))
	b.w.WriteUint8(version)
	b.Begin()
	b.w.WriteUint32(count)
}

// BeginArray opens an array of elem. Write the elements with W or the
// Elem helpers, then call End.
func (b *Builder) BeginArray(elem typecode.Code) {
	b.Code(elem | typecode.ArrayBit)
	b.Begin()
}

// Bool writes a BOOL node.
func (b *Builder) Bool(v bool) {
	b.Code(typecode.Bool)
	if v {
		b.w.WriteUint8(1)
	} else {
		b.w.WriteUint8(0)
	}
}

// Int32 writes an INT32 node.
func (b *Builder) Int32(v int32) {
	b.Code(typecode.Int32)
	b.w.WriteInt32(v)
}

// Uint32 writes a UINT32 node.
func (b *Builder) Uint32(v uint32) {
	b.Code(typecode.Uint32)
	b.w.WriteUint32(v)
}

// Uint16 writes a UINT16 node.
func (b *Builder) Uint16(v uint16) {
	b.Code(typecode.Uint16)
	b.w.WriteUint16(v)
}

// Float32 writes a FLOAT32 node.
func (b *Builder) Float32(v float32) {
	b.Code(typecode.Float32)
	b.w.WriteFloat32(v)
}

// UTF16 writes a UTF16 string node in the variant's string encoding.
func (b *Builder) UTF16(s string) {
	b.Code(typecode.UTF16)
	b.ElemString(typecode.UTF16, s)
}

// ASCII writes an ASCII string node in the variant's string encoding.
func (b *Builder) ASCII(s string) {
	b.Code(typecode.ASCII)
	b.ElemString(typecode.ASCII, s)
}

// ElemString writes a string payload without a type code, as used inside
// arrays. Table variants write the table index of s.
func (b *Builder) ElemString(elem typecode.Code, s string) {
	if b.hasTable() {
		b.w.WriteUint32(b.StringIndex(s))
		return
	}
	var err error
	if elem == typecode.ASCII {
		err = b.w.WriteCaASCII(s)
	} else {
		err = b.w.WriteCaUnicode(s)
	}
	if err != nil {
		panic(fmt.Sprintf("replaytest: %v", err))
	}
}

// Bytes finishes the file: it writes the footer, patches the header and
// returns the complete replay. It panics if a Begin was left unclosed.
func (b *Builder) Bytes() []byte {
	if len(b.open) > 0 {
		panic(fmt.Sprintf("replaytest: %d unclosed nodes", len(b.open)))
	}

	footerOffset := b.w.Pos()
	out := binary.NewWriter(binary.DefaultConfig())
	out.WriteBytes(b.w.Bytes())

	out.WriteUint16(uint16(len(b.tags)))
	for _, t := range b.tags {
		if err := out.WriteCaASCII(t); err != nil {
			panic(fmt.Sprintf("replaytest: tag %q: %v", t, err))
		}
	}
	if b.hasTable() {
		out.WriteUint16(uint16(len(b.strs)))
		out.WriteUint16(0)
		for _, e := range b.strs {
			if err := out.WriteCaUnicode(e.value); err != nil {
				panic(fmt.Sprintf("replaytest: string %q: %v", e.value, err))
			}
			out.WriteUint32(e.index)
		}
	}
	out.WriteBytes(b.Trailer)

	out.PutUint32At(0, uint32(b.Magic))
	out.PutUint32At(4, 0)
	out.PutUint32At(8, b.Timestamp)
	out.PutUint32At(12, uint32(footerOffset))
	return out.Bytes()
}
