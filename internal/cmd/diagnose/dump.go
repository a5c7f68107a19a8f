package diagnose

import (
	"encoding/json"
	"io"
	"math"
	"strconv"

	"github.com/robert-malhotra/go-twreplay/internal/typecode"
	"github.com/robert-malhotra/go-twreplay/replay"
)

// jsonNode is the JSON form of one node. Exactly one of Value, Values,
// Children and Elements is set.
type jsonNode struct {
	Type     string       `json:"type"`
	Tag      string       `json:"tag,omitempty"`
	Version  *uint8       `json:"version,omitempty"`
	Offset   int64        `json:"offset"`
	Value    any          `json:"value,omitempty"`
	Values   []any        `json:"values,omitempty"`
	Children []jsonNode   `json:"children,omitempty"`
	Elements [][]jsonNode `json:"elements,omitempty"`
}

func codeName(c uint8) string {
	return typecode.Code(c).String()
}

func toJSON(ns replay.Nodes) []jsonNode {
	out := make([]jsonNode, 0, len(ns))
	for _, n := range ns {
		out = append(out, nodeJSON(n))
	}
	return out
}

func nodeJSON(n replay.Node) jsonNode {
	j := jsonNode{Offset: n.Offset()}
	switch n := n.(type) {
	case *replay.Scalar:
		j.Type = codeName(n.Code)
		j.Value = valueJSON(n.Value)
	case *replay.Array:
		j.Type = codeName(n.Code)
		j.Values = make([]any, 0, len(n.Values))
		for _, v := range n.Values {
			j.Values = append(j.Values, valueJSON(v))
		}
	case *replay.Record:
		j.Type = "record"
		j.Tag = n.Tag
		j.Version = &n.Version
		j.Children = toJSON(n.Children)
	case *replay.RecordArray:
		j.Type = "record[]"
		j.Tag = n.Tag
		j.Version = &n.Version
		j.Elements = make([][]jsonNode, 0, len(n.Elements))
		for _, e := range n.Elements {
			j.Elements = append(j.Elements, toJSON(e.Children))
		}
	}
	return j
}

// valueJSON returns v in a form encoding/json accepts. Non-finite floats
// become strings.
func valueJSON(v replay.Value) any {
	switch v.Kind() {
	case replay.KindFloat32, replay.KindFloat64:
		return finite(v.Float())
	case replay.KindVec2:
		xy := v.Vec2()
		return []any{finite(float64(xy[0])), finite(float64(xy[1]))}
	case replay.KindVec3:
		xyz := v.Vec3()
		return []any{finite(float64(xyz[0])), finite(float64(xyz[1])), finite(float64(xyz[2]))}
	}
	return v.Interface()
}

func finite(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return f
}

func writeJSON(w io.Writer, ns replay.Nodes) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSON(ns))
}
