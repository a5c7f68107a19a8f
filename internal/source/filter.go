package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// MaxSize is the largest decompressed replay accepted.
const MaxSize = 1 << 30

// ErrTooLarge is returned when decompressed data exceeds MaxSize.
var ErrTooLarge = errors.New("decompressed replay too large")

// Filter unwraps one compression format.
type Filter interface {
	// Name returns a short identifier, e.g. "gzip".
	Name() string

	// Match reports whether data starts with this filter's magic number.
	Match(data []byte) bool

	// Decode returns the decompressed form of input.
	Decode(input []byte) ([]byte, error)
}

// Registry lists the filters tried by Detect, in order.
var Registry = []Filter{Gzip{}, Zstd{}, Zlib{}}

// Detect returns the filter matching data, or nil for uncompressed input.
func Detect(data []byte) Filter {
	for _, f := range Registry {
		if f.Match(data) {
			return f
		}
	}
	return nil
}

// Decode unwraps data if it is compressed. The returned name is the filter
// used, or "" for raw input.
func Decode(data []byte) ([]byte, string, error) {
	f := Detect(data)
	if f == nil {
		return data, "", nil
	}
	out, err := f.Decode(data)
	if err != nil {
		return nil, f.Name(), fmt.Errorf("%s: %w", f.Name(), err)
	}
	return out, f.Name(), nil
}

// ReadFile reads the replay at path and unwraps it.
func ReadFile(path string) ([]byte, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading replay: %w", err)
	}
	return Decode(data)
}

// ReadAll reads r to EOF and unwraps the result.
func ReadAll(r io.Reader) ([]byte, string, error) {
	data, err := readLimited(r)
	if err != nil {
		return nil, "", fmt.Errorf("reading replay: %w", err)
	}
	return Decode(data)
}

// readLimited reads at most MaxSize bytes and fails if more are available.
func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxSize {
		return nil, ErrTooLarge
	}
	return data, nil
}

// Gzip implements the gzip filter.
type Gzip struct{}

func (Gzip) Name() string { return "gzip" }

func (Gzip) Match(data []byte) bool {
	return len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b
}

func (Gzip) Decode(input []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("gzip reader: %w", err)
	}
	defer r.Close()
	return readLimited(r)
}

// Zstd implements the Zstandard filter.
type Zstd struct{}

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

func (Zstd) Name() string { return "zstd" }

func (Zstd) Match(data []byte) bool {
	return bytes.HasPrefix(data, zstdMagic)
}

func (Zstd) Decode(input []byte) ([]byte, error) {
	d, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MaxSize), zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer d.Close()
	out, err := d.DecodeAll(input, nil)
	if err != nil {
		return nil, err
	}
	if len(out) > MaxSize {
		return nil, ErrTooLarge
	}
	return out, nil
}

// Zlib implements the zlib filter.
type Zlib struct{}

func (Zlib) Name() string { return "zlib" }

// Match checks for deflate with a 32K window and a valid FCHECK.
func (Zlib) Match(data []byte) bool {
	if len(data) < 2 || data[0] != 0x78 {
		return false
	}
	return (uint16(data[0])<<8|uint16(data[1]))%31 == 0
}

func (Zlib) Decode(input []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("zlib reader: %w", err)
	}
	defer r.Close()
	return readLimited(r)
}

// Encode compresses data with the named filter. It exists for tooling that
// writes fixtures and for round-trip tests.
func Encode(name string, data []byte) ([]byte, error) {
	var buf bytes.Buffer
	switch name {
	case "gzip":
		w := gzip.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
	case "zlib":
		w := zlib.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
	case "zstd":
		w, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, err
		}
		defer w.Close()
		return w.EncodeAll(data, nil), nil
	default:
		return nil, fmt.Errorf("unsupported filter: %q", name)
	}
	return buf.Bytes(), nil
}
