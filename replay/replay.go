package replay

import (
	"fmt"
	"io"

	"github.com/robert-malhotra/go-twreplay/internal/binary"
	"github.com/robert-malhotra/go-twreplay/internal/header"
	"github.com/robert-malhotra/go-twreplay/internal/source"
	"github.com/robert-malhotra/go-twreplay/internal/variant"
)

// Header is the fixed 16-byte replay header.
type Header = header.Header

// Footer holds the tag table and, for ABCF and ABCA, the string table.
type Footer = variant.Footer

// Magic identifies the wire variant of a replay.
type Magic = header.Magic

// Known variants.
const (
	MagicABCD = header.MagicABCD
	MagicABCE = header.MagicABCE
	MagicABCF = header.MagicABCF
	MagicABCA = header.MagicABCA
)

// Replay is a fully decoded replay file.
type Replay struct {
	Header *Header
	Footer *Footer

	// Nodes are the top-level nodes of the node region in file order.
	Nodes Nodes

	// Variant is the four letter variant name, e.g. "ABCF".
	Variant string

	// Compression names the filter the input was unwrapped with, or "" if
	// it was not compressed. Decode never sets it.
	Compression string
}

// Decode parses a complete replay held in buf. buf is not retained.
//
// Decoding is all or nothing: on failure the returned error is a
// *DecodeError wrapping one of the package sentinels and no partial tree is
// returned.
func Decode(buf []byte, opts ...Option) (*Replay, error) {
	o := defaultDecodeOptions()
	for _, opt := range opts {
		opt(o)
	}

	r := binary.NewReader(buf, binary.DefaultConfig())

	h, err := header.Read(r)
	if err != nil {
		return nil, asDecodeError(PhaseHeader, r.Pos(), err)
	}

	codec, err := variant.Lookup(h.Magic)
	if err != nil {
		return nil, asDecodeError(PhaseHeader, 0, err)
	}

	footerReader := r.At(h.NodesEnd())
	footer, err := codec.ReadFooter(footerReader)
	if err != nil {
		return nil, asDecodeError(PhaseFooter, footerReader.Pos(), err)
	}

	if err := r.Seek(h.NodesStart); err != nil {
		return nil, asDecodeError(PhaseNodes, h.NodesStart, err)
	}
	d := &decoder{r: r, codec: codec, footer: footer, opts: o}
	nodes, err := d.decodeNodes(h.NodesEnd())
	if err != nil {
		return nil, err
	}

	return &Replay{
		Header:  h,
		Footer:  footer,
		Nodes:   nodes,
		Variant: codec.Name(),
	}, nil
}

// Open reads and decodes the replay at path. Gzip, zstd and zlib compressed
// files are unwrapped first.
func Open(path string, opts ...Option) (*Replay, error) {
	data, compression, err := source.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	rep, err := Decode(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	rep.Compression = compression
	return rep, nil
}

// Read decodes a replay from r, which is read to EOF.
func Read(r io.Reader, opts ...Option) (*Replay, error) {
	data, compression, err := source.ReadAll(r)
	if err != nil {
		return nil, err
	}
	rep, err := Decode(data, opts...)
	if err != nil {
		return nil, err
	}
	rep.Compression = compression
	return rep, nil
}

// Root returns the first top-level record, which is the replay's root record
// in every known file, or nil.
func (r *Replay) Root() *Record {
	for _, n := range r.Nodes {
		if rec, ok := n.(*Record); ok {
			return rec
		}
	}
	return nil
}
