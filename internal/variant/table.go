package variant

import (
	"fmt"

	"github.com/robert-malhotra/go-twreplay/internal/binary"
	"github.com/robert-malhotra/go-twreplay/internal/header"
	"github.com/robert-malhotra/go-twreplay/internal/typecode"
)

// tableCodec covers ABCF and ABCA: string nodes hold a uint32 index into the
// footer string table.
type tableCodec struct {
	name  string
	magic header.Magic
}

func (c tableCodec) Name() string         { return c.name }
func (c tableCodec) Magic() header.Magic  { return c.magic }
func (c tableCodec) HasStringTable() bool { return true }

func (c tableCodec) ReadFooter(r *binary.Reader) (*Footer, error) {
	tags, err := readTags(r)
	if err != nil {
		return nil, err
	}

	count, err := r.ReadUint16()
	if err != nil {
		return nil, fmt.Errorf("%w: reading string table size: %w", ErrCorruptFooter, err)
	}
	// Second word has no known meaning.
	if _, err := r.ReadUint16(); err != nil {
		return nil, fmt.Errorf("%w: reading string table header: %w", ErrCorruptFooter, err)
	}

	strs := make(map[uint32]string, count)
	for i := 0; i < int(count); i++ {
		s, err := r.ReadCaUnicode()
		if err != nil {
			return nil, fmt.Errorf("%w: reading string %d of %d: %w", ErrCorruptFooter, i, count, err)
		}
		index, err := r.ReadUint32()
		if err != nil {
			return nil, fmt.Errorf("%w: reading index of string %d: %w", ErrCorruptFooter, i, err)
		}
		strs[index] = s
	}

	return &Footer{Tags: tags, Strings: strs, Trailing: r.Remaining()}, nil
}

func (c tableCodec) ReadString(r *binary.Reader, elem typecode.Code, f *Footer) (string, error) {
	if elem != typecode.UTF16 && elem != typecode.ASCII {
		return "", fmt.Errorf("%s: %v is not a string code", c.name, elem)
	}
	index, err := r.ReadUint32()
	if err != nil {
		return "", err
	}
	if f == nil {
		return "", fmt.Errorf("%w: %d (no footer)", ErrUnresolvedStringIndex, index)
	}
	return f.String(index)
}
