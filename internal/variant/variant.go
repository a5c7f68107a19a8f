package variant

import (
	"errors"
	"fmt"

	"github.com/robert-malhotra/go-twreplay/internal/binary"
	"github.com/robert-malhotra/go-twreplay/internal/header"
	"github.com/robert-malhotra/go-twreplay/internal/typecode"
)

// Errors
var (
	ErrCorruptFooter         = errors.New("corrupt footer")
	ErrUnresolvedStringIndex = errors.New("unresolved string index")
	ErrUnknownTag            = errors.New("unknown tag id")
)

// Codec is the variant-specific part of replay decoding.
type Codec interface {
	// Name is the four letter variant name, e.g. "ABCE".
	Name() string

	Magic() header.Magic

	// HasStringTable reports whether the footer carries a string table and
	// string nodes are indices into it.
	HasStringTable() bool

	// ReadFooter decodes the footer starting at the reader's position.
	ReadFooter(r *binary.Reader) (*Footer, error)

	// ReadString decodes one string element of the given element code
	// (typecode.UTF16 or typecode.ASCII).
	ReadString(r *binary.Reader, elem typecode.Code, f *Footer) (string, error)
}

// Footer is the decoded footer.
type Footer struct {
	// Tags holds record names; a record's tag id is an index into Tags.
	Tags []string

	// Strings maps string indices to values. It is nil for inline variants.
	Strings map[uint32]string

	// Trailing is the number of bytes left after the footer.
	Trailing int64
}

// Tag resolves a record tag id.
func (f *Footer) Tag(id uint16) (string, error) {
	if int(id) >= len(f.Tags) {
		return "", fmt.Errorf("%w: %d (footer has %d tags)", ErrUnknownTag, id, len(f.Tags))
	}
	return f.Tags[id], nil
}

// String resolves an indirect string.
func (f *Footer) String(index uint32) (string, error) {
	s, ok := f.Strings[index]
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnresolvedStringIndex, index)
	}
	return s, nil
}

var (
	ABCD Codec = inlineCodec{name: "ABCD", magic: header.MagicABCD}
	ABCE Codec = inlineCodec{name: "ABCE", magic: header.MagicABCE}
	ABCF Codec = tableCodec{name: "ABCF", magic: header.MagicABCF}
	ABCA Codec = tableCodec{name: "ABCA", magic: header.MagicABCA}
)

var codecs = map[header.Magic]Codec{
	header.MagicABCD: ABCD,
	header.MagicABCE: ABCE,
	header.MagicABCF: ABCF,
	header.MagicABCA: ABCA,
}

// Lookup returns the codec for a magic number.
func Lookup(m header.Magic) (Codec, error) {
	c, ok := codecs[m]
	if !ok {
		return nil, fmt.Errorf("%w: magic %s", header.ErrUnsupportedFormat, m)
	}
	return c, nil
}

// All returns every known codec in magic number order.
func All() []Codec {
	return []Codec{ABCA, ABCD, ABCE, ABCF}
}

// readTags reads the tag block shared by all variants.
func readTags(r *binary.Reader) ([]string, error) {
	count, err := r.ReadUint16()
	if err != nil {
		return nil, fmt.Errorf("%w: reading tag count: %w", ErrCorruptFooter, err)
	}
	tags := make([]string, 0, count)
	for i := 0; i < int(count); i++ {
		tag, err := r.ReadCaASCII()
		if err != nil {
			return nil, fmt.Errorf("%w: reading tag %d of %d: %w", ErrCorruptFooter, i, count, err)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
