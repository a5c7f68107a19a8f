package replay

import (
	"errors"
	"fmt"

	"github.com/robert-malhotra/go-twreplay/internal/binary"
	"github.com/robert-malhotra/go-twreplay/internal/typecode"
	"github.com/robert-malhotra/go-twreplay/internal/variant"
)

// decoder holds the state of one node-region decode. It is never shared.
type decoder struct {
	r      *binary.Reader
	codec  variant.Codec
	footer *variant.Footer
	opts   *decodeOptions
	depth  int
}

// fail wraps err in a DecodeError unless it already is one.
func (d *decoder) fail(offset int64, code int, err error) error {
	if IsDecodeError(err) {
		return err
	}
	return &DecodeError{Phase: PhaseNodes, Offset: offset, Code: code, Err: err}
}

// decodeNodes decodes sibling nodes until the cursor reaches end exactly.
func (d *decoder) decodeNodes(end int64) (Nodes, error) {
	var nodes Nodes
	for d.r.Pos() < end {
		n, err := d.decodeNode(end)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	if pos := d.r.Pos(); pos != end {
		return nil, d.fail(pos, NoCode, fmt.Errorf("%w: overran end offset %d by %d bytes",
			ErrTruncatedStream, end, pos-end))
	}
	return nodes, nil
}

// decodeNode reads one type code and the node it introduces. limit is the end
// offset of the enclosing composite; no nested end offset may exceed it.
func (d *decoder) decodeNode(limit int64) (Node, error) {
	start := d.r.Pos()
	b, err := d.r.ReadUint8()
	if err != nil {
		return nil, d.fail(start, NoCode, err)
	}
	info, err := typecode.Lookup(b)
	if err != nil {
		return nil, d.fail(start, int(b), err)
	}

	switch info.Kind {
	case typecode.KindScalar:
		v, err := d.readValue(info)
		if err != nil {
			return nil, d.fail(start, int(b), err)
		}
		return &Scalar{Pos: start, Code: b, Value: v}, nil
	case typecode.KindArray:
		return d.readArray(start, info, limit)
	case typecode.KindRecord:
		return d.readRecord(start, limit)
	case typecode.KindRecordArray:
		return d.readRecordArray(start, limit)
	}
	return nil, d.fail(start, int(b), fmt.Errorf("%w: 0x%02x", ErrUnsupportedTypeCode, b))
}

// readEnd reads a uint32 end offset and checks that it lies between the
// cursor and limit.
func (d *decoder) readEnd(limit int64) (int64, error) {
	at := d.r.Pos()
	v, err := d.r.ReadUint32()
	if err != nil {
		return 0, err
	}
	end := int64(v)
	if end < d.r.Pos() {
		return 0, fmt.Errorf("%w: end offset %d at %d points backwards", ErrTruncatedStream, end, at)
	}
	if end > limit {
		return 0, fmt.Errorf("%w: end offset %d at %d exceeds enclosing end %d", ErrTruncatedStream, end, at, limit)
	}
	return end, nil
}

func (d *decoder) enter() error {
	d.depth++
	if d.depth > d.opts.maxDepth {
		return fmt.Errorf("%w: nesting deeper than %d", ErrCorruptNode, d.opts.maxDepth)
	}
	return nil
}

func (d *decoder) leave() { d.depth-- }

// readValue decodes one element of the given scalar kind.
func (d *decoder) readValue(info typecode.Info) (Value, error) {
	r := d.r
	switch info.Elem {
	case typecode.Bool:
		b, err := r.ReadUint8()
		if err != nil {
			return Value{}, err
		}
		v, err := typecode.BoolSentinel(b)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %w", ErrCorruptNode, err)
		}
		return BoolValue(v), nil
	case typecode.BoolTrue:
		return BoolValue(true), nil
	case typecode.BoolFalse:
		return BoolValue(false), nil

	case typecode.Int8:
		v, err := r.ReadInt8()
		return Int8Value(v), err
	case typecode.Int16:
		v, err := r.ReadInt16()
		return Int16Value(v), err
	case typecode.Int32:
		v, err := r.ReadInt32()
		return Int32Value(v), err
	case typecode.Int64:
		if d.opts.int64Placeholder {
			return NullValue(), r.Skip(8)
		}
		v, err := r.ReadInt64()
		return Int64Value(v), err

	case typecode.Uint8:
		v, err := r.ReadUint8()
		return Uint8Value(v), err
	case typecode.Uint16:
		v, err := r.ReadUint16()
		return Uint16Value(v), err
	case typecode.Uint32:
		v, err := r.ReadUint32()
		return Uint32Value(v), err
	case typecode.Uint64:
		if d.opts.int64Placeholder {
			return NullValue(), r.Skip(8)
		}
		v, err := r.ReadUint64()
		return Uint64Value(v), err

	case typecode.Float32:
		v, err := r.ReadFloat32()
		return Float32Value(v), err
	case typecode.Float64:
		v, err := r.ReadFloat64()
		return Float64Value(v), err
	case typecode.Vec2:
		x, err := r.ReadFloat32()
		if err != nil {
			return Value{}, err
		}
		y, err := r.ReadFloat32()
		return Vec2Value(x, y), err
	case typecode.Vec3:
		x, err := r.ReadFloat32()
		if err != nil {
			return Value{}, err
		}
		y, err := r.ReadFloat32()
		if err != nil {
			return Value{}, err
		}
		z, err := r.ReadFloat32()
		return Vec3Value(x, y, z), err

	case typecode.UTF16, typecode.ASCII:
		s, err := d.codec.ReadString(r, info.Elem, d.footer)
		return StringValue(s), err
	case typecode.Angle:
		v, err := r.ReadUint16()
		return AngleValue(v), err

	case typecode.Uint32Zero:
		return Uint32Value(0), nil
	case typecode.Uint32One:
		return Uint32Value(1), nil
	case typecode.Uint32Byte:
		v, err := r.ReadUint8()
		return Uint32Value(uint32(v)), err
	case typecode.Uint32Short:
		v, err := r.ReadUint16()
		return Uint32Value(uint32(v)), err
	case typecode.Uint32Bits24:
		v, err := r.ReadUint24()
		return Uint32Value(v), err

	case typecode.Int32Zero:
		return Int32Value(0), nil
	case typecode.Int32Byte:
		v, err := r.ReadInt8()
		return Int32Value(int32(v)), err
	case typecode.Int32Short:
		v, err := r.ReadInt16()
		return Int32Value(int32(v)), err
	case typecode.Int32Bits24:
		v, err := r.ReadInt24()
		return Int32Value(v), err

	case typecode.Float32Zero:
		return Float32Value(0), nil
	}
	return Value{}, fmt.Errorf("%w: 0x%02x", ErrUnsupportedTypeCode, uint8(info.Code))
}

// readArray decodes elements until the declared end offset.
func (d *decoder) readArray(start int64, info typecode.Info, limit int64) (Node, error) {
	code := int(info.Code)
	end, err := d.readEnd(limit)
	if err != nil {
		return nil, d.fail(start, code, err)
	}
	arr := &Array{Pos: start, Code: uint8(info.Code), End: end}

	if info.Width == 0 {
		// Elements without payload cannot be counted from the byte range.
		if d.r.Pos() != end {
			return nil, d.fail(start, code, fmt.Errorf("%w: %d bytes in array of zero-width %s",
				ErrTruncatedStream, end-d.r.Pos(), info.Name))
		}
		return arr, nil
	}
	if info.Width > 0 {
		arr.Values = make([]Value, 0, (end-d.r.Pos())/int64(info.Width))
	}

	for d.r.Pos() < end {
		elemAt := d.r.Pos()
		v, err := d.readValue(info)
		if err != nil {
			return nil, d.fail(elemAt, code, err)
		}
		arr.Values = append(arr.Values, v)
	}
	if pos := d.r.Pos(); pos != end {
		return nil, d.fail(start, code, fmt.Errorf("%w: array overran end offset %d by %d bytes",
			ErrTruncatedStream, end, pos-end))
	}
	return arr, nil
}

// readTagged reads the tag id, version and end offset shared by records and
// record arrays.
func (d *decoder) readTagged(limit int64) (id uint16, tag string, version uint8, end int64, err error) {
	if id, err = d.r.ReadUint16(); err != nil {
		return
	}
	if version, err = d.r.ReadUint8(); err != nil {
		return
	}
	if end, err = d.readEnd(limit); err != nil {
		return
	}
	if tag, err = d.footer.Tag(id); err != nil {
		err = fmt.Errorf("%w: %w", ErrCorruptNode, err)
	}
	return
}

func (d *decoder) readRecord(start int64, limit int64) (Node, error) {
	code := int(typecode.Record)
	id, tag, version, end, err := d.readTagged(limit)
	if err != nil {
		return nil, d.fail(start, code, err)
	}
	if err := d.enter(); err != nil {
		return nil, d.fail(start, code, err)
	}
	defer d.leave()

	children, err := d.decodeNodes(end)
	if err != nil {
		return nil, err
	}
	return &Record{Pos: start, TagID: id, Tag: tag, Version: version, End: end, Children: children}, nil
}

func (d *decoder) readRecordArray(start int64, limit int64) (Node, error) {
	code := int(typecode.RecordArray)
	id, tag, version, end, err := d.readTagged(limit)
	if err != nil {
		return nil, d.fail(start, code, err)
	}
	count, err := d.r.ReadUint32()
	if err != nil {
		return nil, d.fail(start, code, err)
	}
	// Every element needs at least its own 4-byte end offset.
	if avail := end - d.r.Pos(); avail < 0 || int64(count) > avail/4 {
		return nil, d.fail(start, code, fmt.Errorf("%w: %d elements do not fit in %d bytes",
			ErrTruncatedStream, count, end-d.r.Pos()))
	}
	if err := d.enter(); err != nil {
		return nil, d.fail(start, code, err)
	}
	defer d.leave()

	ra := &RecordArray{Pos: start, TagID: id, Tag: tag, Version: version, End: end,
		Elements: make([]Element, 0, count)}
	for i := uint32(0); i < count; i++ {
		elemAt := d.r.Pos()
		elemEnd, err := d.readEnd(end)
		if err != nil {
			return nil, d.fail(elemAt, code, fmt.Errorf("element %d of %s: %w", i, tag, err))
		}
		children, err := d.decodeNodes(elemEnd)
		if err != nil {
			return nil, err
		}
		ra.Elements = append(ra.Elements, Element{Pos: elemAt, End: elemEnd, Children: children})
	}
	if pos := d.r.Pos(); pos != end {
		return nil, d.fail(pos, code, fmt.Errorf("%w: %s has %d unread bytes after %d elements",
			ErrTruncatedStream, tag, end-pos, count))
	}
	return ra, nil
}

// asDecodeError wraps header and footer errors so every failure carries an
// offset.
func asDecodeError(phase Phase, offset int64, err error) error {
	var de *DecodeError
	if errors.As(err, &de) {
		return err
	}
	return &DecodeError{Phase: phase, Offset: offset, Code: NoCode, Err: err}
}
