package replay

import "fmt"

// Node is one element of the decoded tree: *Scalar, *Array, *Record or
// *RecordArray.
type Node interface {
	// Offset is the absolute position of the node's type code byte.
	Offset() int64
	isNode()
}

// Scalar is a single value node.
type Scalar struct {
	Pos   int64
	Code  uint8 // raw type code, e.g. 0x17 for a UINT32_SHORT
	Value Value
}

// Array is a homogeneous sequence of scalar values.
type Array struct {
	Pos    int64
	Code   uint8
	End    int64 // declared end offset
	Values []Value
}

// Record is a tagged group of child nodes in source order.
type Record struct {
	Pos      int64
	TagID    uint16
	Tag      string
	Version  uint8
	End      int64
	Children Nodes
}

// RecordArray is a tagged sequence of record-shaped elements sharing one tag.
type RecordArray struct {
	Pos      int64
	TagID    uint16
	Tag      string
	Version  uint8
	End      int64
	Elements []Element
}

// Element is one entry of a RecordArray.
type Element struct {
	Pos      int64 // offset of the element's end-offset field
	End      int64
	Children Nodes
}

func (n *Scalar) Offset() int64      { return n.Pos }
func (n *Array) Offset() int64       { return n.Pos }
func (n *Record) Offset() int64      { return n.Pos }
func (n *RecordArray) Offset() int64 { return n.Pos }

func (*Scalar) isNode()      {}
func (*Array) isNode()       {}
func (*Record) isNode()      {}
func (*RecordArray) isNode() {}

func (n *Scalar) String() string { return n.Value.String() }

func (n *Array) String() string {
	return fmt.Sprintf("array[%d]", len(n.Values))
}

func (n *Record) String() string {
	return fmt.Sprintf("%s{%d}", n.Tag, len(n.Children))
}

func (n *RecordArray) String() string {
	return fmt.Sprintf("%s[%d]", n.Tag, len(n.Elements))
}

// Nodes is an ordered list of sibling nodes.
//
// Positional access mirrors how projections address fields: siblings keep
// their source order and repeated tags stay separate records.
type Nodes []Node

// At returns the i-th node, or nil if i is out of range.
func (ns Nodes) At(i int) Node {
	if i < 0 || i >= len(ns) {
		return nil
	}
	return ns[i]
}

// Value returns the value of the i-th node if it is a scalar.
func (ns Nodes) Value(i int) (Value, bool) {
	s, ok := ns.At(i).(*Scalar)
	if !ok {
		return Value{}, false
	}
	return s.Value, true
}

// Text returns the i-th node as a string, or "" if it is not a string scalar.
func (ns Nodes) Text(i int) string {
	v, ok := ns.Value(i)
	if !ok || v.Kind() != KindString {
		return ""
	}
	return v.Text()
}

// Record returns the i-th node if it is a record with the given tag.
func (ns Nodes) Record(i int, tag string) (*Record, bool) {
	r, ok := ns.At(i).(*Record)
	if !ok || r.Tag != tag {
		return nil, false
	}
	return r, true
}

// RecordArray returns the i-th node if it is a record array with the given tag.
func (ns Nodes) RecordArray(i int, tag string) (*RecordArray, bool) {
	ra, ok := ns.At(i).(*RecordArray)
	if !ok || ra.Tag != tag {
		return nil, false
	}
	return ra, true
}

// Records returns every direct child record with the given tag, in order.
func (ns Nodes) Records(tag string) []*Record {
	var out []*Record
	for _, n := range ns {
		if r, ok := n.(*Record); ok && r.Tag == tag {
			out = append(out, r)
		}
	}
	return out
}

// First returns the first direct child record or record array with the given
// tag.
func (ns Nodes) First(tag string) Node {
	for _, n := range ns {
		switch n := n.(type) {
		case *Record:
			if n.Tag == tag {
				return n
			}
		case *RecordArray:
			if n.Tag == tag {
				return n
			}
		}
	}
	return nil
}

// Child returns the i-th child, or nil.
func (n *Record) Child(i int) Node { return n.Children.At(i) }

// Field returns the value of the i-th child if it is a scalar.
func (n *Record) Field(i int) (Value, bool) { return n.Children.Value(i) }

// Records returns the direct child records tagged tag.
func (n *Record) Records(tag string) []*Record { return n.Children.Records(tag) }

// Flatten returns the children of all elements concatenated in order.
func (n *RecordArray) Flatten() Nodes {
	var out Nodes
	for _, e := range n.Elements {
		out = append(out, e.Children...)
	}
	return out
}

// Children returns the children of a record, the flattened element children of
// a record array, and nil for scalars and arrays.
func Children(n Node) Nodes {
	switch n := n.(type) {
	case *Record:
		return n.Children
	case *RecordArray:
		return n.Flatten()
	}
	return nil
}

// TagOf returns the tag of a record or record array, or "" otherwise.
func TagOf(n Node) string {
	switch n := n.(type) {
	case *Record:
		return n.Tag
	case *RecordArray:
		return n.Tag
	}
	return ""
}
