package replay

import (
	"math"
	"testing"
)

func TestValueAccessors(t *testing.T) {
	tests := []struct {
		name  string
		v     Value
		kind  ValueKind
		iface any
		str   string
	}{
		{"null", NullValue(), KindNull, nil, "null"},
		{"bool", BoolValue(true), KindBool, true, "true"},
		{"int8", Int8Value(-3), KindInt8, int8(-3), "-3"},
		{"int32", Int32Value(-70000), KindInt32, int32(-70000), "-70000"},
		{"int64", Int64Value(math.MinInt64), KindInt64, int64(math.MinInt64), "-9223372036854775808"},
		{"uint16", Uint16Value(65535), KindUint16, uint16(65535), "65535"},
		{"uint64", Uint64Value(math.MaxUint64), KindUint64, uint64(math.MaxUint64), "18446744073709551615"},
		{"float32", Float32Value(1.5), KindFloat32, float32(1.5), "1.5"},
		{"vec2", Vec2Value(1, 2), KindVec2, [2]float32{1, 2}, "[1 2]"},
		{"vec3", Vec3Value(1, 2, 3), KindVec3, [3]float32{1, 2, 3}, "[1 2 3]"},
		{"string", StringValue("Oda"), KindString, "Oda", `"Oda"`},
		{"angle", AngleValue(90), KindAngle, uint16(90), "angle(90)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.v.Kind() != tt.kind {
				t.Errorf("Kind = %s, want %s", tt.v.Kind(), tt.kind)
			}
			if got := tt.v.Interface(); got != tt.iface {
				t.Errorf("Interface = %#v, want %#v", got, tt.iface)
			}
			if got := tt.v.String(); got != tt.str {
				t.Errorf("String = %q, want %q", got, tt.str)
			}
			if !tt.v.Equal(tt.v) {
				t.Error("value not equal to itself")
			}
		})
	}
}

func TestValueConversions(t *testing.T) {
	if got := Int16Value(-2).Int(); got != -2 {
		t.Errorf("Int16Value(-2).Int() = %d", got)
	}
	if got := Uint32Value(7).Int(); got != 7 {
		t.Errorf("Uint32Value(7).Int() = %d", got)
	}
	if got := Float64Value(0.25).Float(); got != 0.25 {
		t.Errorf("Float = %v", got)
	}
	if got := Float32Value(0.5).Float(); got != 0.5 {
		t.Errorf("Float32 Float = %v", got)
	}
	if Int32Value(0).Equal(Uint32Value(0)) {
		t.Error("values of different kinds compare equal")
	}
	if BoolValue(false).Bool() {
		t.Error("BoolValue(false).Bool() = true")
	}
}
