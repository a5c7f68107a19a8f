package replay

import (
	"fmt"
	"math"
)

// ValueKind identifies the Go type held by a Value.
type ValueKind uint8

const (
	// KindNull is produced only for 64-bit integers decoded with
	// WithInt64Placeholder.
	KindNull ValueKind = iota
	KindBool
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindVec2
	KindVec3
	KindString
	KindAngle
)

var kindNames = [...]string{
	KindNull:    "null",
	KindBool:    "bool",
	KindInt8:    "int8",
	KindInt16:   "int16",
	KindInt32:   "int32",
	KindInt64:   "int64",
	KindUint8:   "uint8",
	KindUint16:  "uint16",
	KindUint32:  "uint32",
	KindUint64:  "uint64",
	KindFloat32: "float32",
	KindFloat64: "float64",
	KindVec2:    "vec2",
	KindVec3:    "vec3",
	KindString:  "string",
	KindAngle:   "angle",
}

func (k ValueKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("ValueKind(%d)", uint8(k))
}

// Value is one decoded scalar.
//
// Compact wire encodings are normalised: a UINT32_SHORT payload decodes to a
// KindUint32 value equal to the one a full uint32 read would produce.
type Value struct {
	kind ValueKind
	bits uint64
	vec  [3]float32
	str  string
}

// Kind returns the kind of the value.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether v is the 64-bit placeholder.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Bool returns the value of a KindBool value.
func (v Value) Bool() bool { return v.kind == KindBool && v.bits != 0 }

// Int returns integer, bool and angle kinds as int64, and 0 otherwise.
// Large uint64 values wrap.
func (v Value) Int() int64 {
	return int64(v.Uint())
}

// Uint returns integer kinds as uint64, and 0 otherwise.
func (v Value) Uint() uint64 {
	switch v.kind {
	case KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint8, KindUint16, KindUint32, KindUint64, KindAngle, KindBool:
		return v.bits
	}
	return 0
}

// Float returns float kinds as float64, and 0 otherwise.
func (v Value) Float() float64 {
	switch v.kind {
	case KindFloat32:
		return float64(math.Float32frombits(uint32(v.bits)))
	case KindFloat64:
		return math.Float64frombits(v.bits)
	}
	return 0
}

// Vec2 returns the coordinates of a KindVec2 value.
func (v Value) Vec2() [2]float32 { return [2]float32{v.vec[0], v.vec[1]} }

// Vec3 returns the coordinates of a KindVec3 value.
func (v Value) Vec3() [3]float32 { return v.vec }

// Text returns the payload of a KindString value.
func (v Value) Text() string { return v.str }

// Angle returns the raw angle of a KindAngle value.
func (v Value) Angle() uint16 { return uint16(v.bits) }

// Interface returns the value as its natural Go type: bool, int8..int64,
// uint8..uint64, float32, float64, [2]float32, [3]float32, string, uint16
// for angles and nil for KindNull.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.bits != 0
	case KindInt8:
		return int8(v.bits)
	case KindInt16:
		return int16(v.bits)
	case KindInt32:
		return int32(v.bits)
	case KindInt64:
		return int64(v.bits)
	case KindUint8:
		return uint8(v.bits)
	case KindUint16:
		return uint16(v.bits)
	case KindUint32:
		return uint32(v.bits)
	case KindUint64:
		return v.bits
	case KindFloat32:
		return math.Float32frombits(uint32(v.bits))
	case KindFloat64:
		return math.Float64frombits(v.bits)
	case KindVec2:
		return v.Vec2()
	case KindVec3:
		return v.vec
	case KindString:
		return v.str
	case KindAngle:
		return uint16(v.bits)
	}
	return nil
}

func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindString:
		return fmt.Sprintf("%q", v.str)
	case KindAngle:
		return fmt.Sprintf("angle(%d)", uint16(v.bits))
	}
	return fmt.Sprint(v.Interface())
}

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	return v.kind == o.kind && v.bits == o.bits && v.vec == o.vec && v.str == o.str
}

// Constructors. Signed integers are stored sign-extended so Int is a plain
// conversion.

func NullValue() Value           { return Value{kind: KindNull} }
func StringValue(s string) Value { return Value{kind: KindString, str: s} }
func AngleValue(a uint16) Value  { return Value{kind: KindAngle, bits: uint64(a)} }
func Int8Value(i int8) Value     { return Value{kind: KindInt8, bits: uint64(int64(i))} }
func Int16Value(i int16) Value   { return Value{kind: KindInt16, bits: uint64(int64(i))} }
func Int32Value(i int32) Value   { return Value{kind: KindInt32, bits: uint64(int64(i))} }
func Int64Value(i int64) Value   { return Value{kind: KindInt64, bits: uint64(i)} }
func Uint8Value(u uint8) Value   { return Value{kind: KindUint8, bits: uint64(u)} }
func Uint16Value(u uint16) Value { return Value{kind: KindUint16, bits: uint64(u)} }
func Uint32Value(u uint32) Value { return Value{kind: KindUint32, bits: uint64(u)} }
func Uint64Value(u uint64) Value { return Value{kind: KindUint64, bits: u} }

func BoolValue(b bool) Value {
	if b {
		return Value{kind: KindBool, bits: 1}
	}
	return Value{kind: KindBool}
}

func Float32Value(f float32) Value {
	return Value{kind: KindFloat32, bits: uint64(math.Float32bits(f))}
}

func Float64Value(f float64) Value {
	return Value{kind: KindFloat64, bits: math.Float64bits(f)}
}

func Vec2Value(x, y float32) Value {
	return Value{kind: KindVec2, vec: [3]float32{x, y, 0}}
}

func Vec3Value(x, y, z float32) Value {
	return Value{kind: KindVec3, vec: [3]float32{x, y, z}}
}
