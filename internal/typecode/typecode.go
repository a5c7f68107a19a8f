package typecode

import (
	"errors"
	"fmt"
)

// ErrUnsupportedTypeCode is returned for bytes that are not a known type code.
var ErrUnsupportedTypeCode = errors.New("unsupported type code")

// ErrInvalidBool is returned for a BOOL payload that is not a known sentinel.
var ErrInvalidBool = errors.New("invalid boolean sentinel")

// Code is the raw type byte that precedes every node.
type Code uint8

// Scalar codes.
const (
	Invalid Code = 0x00
	Bool    Code = 0x01
	Int8    Code = 0x02
	Int16   Code = 0x03
	Int32   Code = 0x04
	Int64   Code = 0x05
	Uint8   Code = 0x06
	Uint16  Code = 0x07
	Uint32  Code = 0x08
	Uint64  Code = 0x09
	Float32 Code = 0x0a
	Float64 Code = 0x0b
	Vec2    Code = 0x0c
	Vec3    Code = 0x0d
	UTF16   Code = 0x0e
	ASCII   Code = 0x0f
	Angle   Code = 0x10
)

// Compact aliases.
const (
	BoolTrue     Code = 0x12
	BoolFalse    Code = 0x13
	Uint32Zero   Code = 0x14
	Uint32One    Code = 0x15
	Uint32Byte   Code = 0x16
	Uint32Short  Code = 0x17
	Uint32Bits24 Code = 0x18
	Int32Zero    Code = 0x19
	Int32Byte    Code = 0x1a
	Int32Short   Code = 0x1b
	Int32Bits24  Code = 0x1c
	Float32Zero  Code = 0x1d
)

// Composite codes.
const (
	Record      Code = 0x80
	RecordArray Code = 0x81
)

// ArrayBit turns a scalar code into the code of an array of that scalar.
const ArrayBit Code = 0x40

// Kind is the decode path a code selects.
type Kind uint8

const (
	KindScalar Kind = iota + 1
	KindArray
	KindRecord
	KindRecordArray
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindArray:
		return "array"
	case KindRecord:
		return "record"
	case KindRecordArray:
		return "record array"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Info describes how a type code is decoded.
type Info struct {
	Code Code
	Kind Kind

	// Elem is the element code for arrays and the code itself for scalars.
	Elem Code

	// Canonical is the full-width code the element decodes as. For example
	// Uint32Short canonicalises to Uint32.
	Canonical Code

	// Width is the payload size of one element in bytes, or -1 when the
	// payload is variable length (strings).
	Width int

	Name string
}

// IsString reports whether elements of this code are UTF16 or ASCII strings,
// the only codes whose decoding depends on the replay variant.
func (i Info) IsString() bool {
	return i.Elem == UTF16 || i.Elem == ASCII
}

type scalarDef struct {
	code      Code
	canonical Code
	width     int
	name      string
}

var scalars = []scalarDef{
	{Bool, Bool, 1, "bool"},
	{Int8, Int8, 1, "int8"},
	{Int16, Int16, 2, "int16"},
	{Int32, Int32, 4, "int32"},
	{Int64, Int64, 8, "int64"},
	{Uint8, Uint8, 1, "uint8"},
	{Uint16, Uint16, 2, "uint16"},
	{Uint32, Uint32, 4, "uint32"},
	{Uint64, Uint64, 8, "uint64"},
	{Float32, Float32, 4, "float32"},
	{Float64, Float64, 8, "float64"},
	{Vec2, Vec2, 8, "vec2"},
	{Vec3, Vec3, 12, "vec3"},
	{UTF16, UTF16, -1, "utf16"},
	{ASCII, ASCII, -1, "ascii"},
	{Angle, Angle, 2, "angle"},

	{BoolTrue, Bool, 0, "bool_true"},
	{BoolFalse, Bool, 0, "bool_false"},
	{Uint32Zero, Uint32, 0, "uint32_zero"},
	{Uint32One, Uint32, 0, "uint32_one"},
	{Uint32Byte, Uint32, 1, "uint32_byte"},
	{Uint32Short, Uint32, 2, "uint32_short"},
	{Uint32Bits24, Uint32, 3, "uint32_24bit"},
	{Int32Zero, Int32, 0, "int32_zero"},
	{Int32Byte, Int32, 1, "int32_byte"},
	{Int32Short, Int32, 2, "int32_short"},
	{Int32Bits24, Int32, 3, "int32_24bit"},
	{Float32Zero, Float32, 0, "float32_zero"},
}

// registry is filled once by init and read-only afterwards.
var registry [256]*Info

func init() {
	for _, s := range scalars {
		registry[s.code] = &Info{
			Code:      s.code,
			Kind:      KindScalar,
			Elem:      s.code,
			Canonical: s.canonical,
			Width:     s.width,
			Name:      s.name,
		}
		arr := s.code | ArrayBit
		registry[arr] = &Info{
			Code:      arr,
			Kind:      KindArray,
			Elem:      s.code,
			Canonical: s.canonical,
			Width:     s.width,
			Name:      s.name + "[]",
		}
	}
	registry[Record] = &Info{Code: Record, Kind: KindRecord, Elem: Record, Canonical: Record, Width: -1, Name: "record"}
	registry[RecordArray] = &Info{Code: RecordArray, Kind: KindRecordArray, Elem: RecordArray, Canonical: RecordArray, Width: -1, Name: "record[]"}
}

// Lookup classifies a raw type byte.
func Lookup(b uint8) (Info, error) {
	info := registry[b]
	if info == nil {
		return Info{}, fmt.Errorf("%w: 0x%02x", ErrUnsupportedTypeCode, b)
	}
	return *info, nil
}

// String returns the registry name of c, or its hex value if unknown.
func (c Code) String() string {
	if info := registry[c]; info != nil {
		return info.Name
	}
	return fmt.Sprintf("0x%02x", uint8(c))
}

// BoolSentinel resolves a BOOL payload byte.
func BoolSentinel(b uint8) (bool, error) {
	switch Code(b) {
	case 0x01, BoolTrue:
		return true, nil
	case 0x00, BoolFalse:
		return false, nil
	default:
		return false, fmt.Errorf("%w: 0x%02x", ErrInvalidBool, b)
	}
}
