package replay

import (
	"errors"
	"fmt"

	"github.com/robert-malhotra/go-twreplay/internal/binary"
	"github.com/robert-malhotra/go-twreplay/internal/header"
	"github.com/robert-malhotra/go-twreplay/internal/typecode"
	"github.com/robert-malhotra/go-twreplay/internal/variant"
)

// Decode errors. Every error returned by Decode wraps exactly one of these and
// can be tested with errors.Is.
var (
	ErrUnsupportedFileFormat = header.ErrUnsupportedFormat
	ErrCorruptHeader         = header.ErrCorruptHeader
	ErrCorruptFooter         = variant.ErrCorruptFooter
	ErrUnsupportedTypeCode   = typecode.ErrUnsupportedTypeCode
	ErrUnresolvedStringIndex = variant.ErrUnresolvedStringIndex
	ErrOutOfRange            = binary.ErrOutOfRange
	ErrTruncatedStream       = errors.New("truncated stream")
	ErrCorruptNode           = errors.New("corrupt node")
)

// Phase names the decode step an error occurred in.
type Phase string

const (
	PhaseHeader Phase = "header"
	PhaseFooter Phase = "footer"
	PhaseNodes  Phase = "nodes"
)

// NoCode marks a DecodeError that is not tied to a type code.
const NoCode = -1

// DecodeError describes where a decode failed.
type DecodeError struct {
	Phase  Phase
	Offset int64 // absolute byte offset of the failing element
	Code   int   // offending type code, or NoCode
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Code == NoCode {
		return fmt.Sprintf("replay: %s at offset %d: %v", e.Phase, e.Offset, e.Err)
	}
	return fmt.Sprintf("replay: %s at offset %d (code 0x%02x): %v", e.Phase, e.Offset, e.Code, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsDecodeError reports whether err is or wraps a *DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}
