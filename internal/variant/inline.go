package variant

import (
	"fmt"

	"github.com/robert-malhotra/go-twreplay/internal/binary"
	"github.com/robert-malhotra/go-twreplay/internal/header"
	"github.com/robert-malhotra/go-twreplay/internal/typecode"
)

// inlineCodec covers ABCD and ABCE: strings are stored in place.
type inlineCodec struct {
	name  string
	magic header.Magic
}

func (c inlineCodec) Name() string         { return c.name }
func (c inlineCodec) Magic() header.Magic  { return c.magic }
func (c inlineCodec) HasStringTable() bool { return false }

func (c inlineCodec) ReadFooter(r *binary.Reader) (*Footer, error) {
	tags, err := readTags(r)
	if err != nil {
		return nil, err
	}
	return &Footer{Tags: tags, Trailing: r.Remaining()}, nil
}

func (c inlineCodec) ReadString(r *binary.Reader, elem typecode.Code, _ *Footer) (string, error) {
	switch elem {
	case typecode.UTF16:
		return r.ReadCaUnicode()
	case typecode.ASCII:
		return r.ReadCaASCII()
	default:
		return "", fmt.Errorf("%s: %v is not a string code", c.name, elem)
	}
}
