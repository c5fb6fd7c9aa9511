// Package codec implements the deterministic binary encoding for node,
// edge, and vector bodies and for property maps (spec.md §4.2). Bodies
// exclude the id — the id is always the key, recovered by the decoder
// from the KV key rather than the value. Every body starts with a
// version byte (model.CurrentVersion) so the storage core can run stored
// items through the migration chain before surfacing them.
//
// Grounded on pkg/storage/badger.go's encodeNode/decodeNode (teacher),
// generalized from JSON to a length-prefixed binary tag+value scheme as
// spec.md §4.2 specifies, and from string ids to model.ID.
package codec

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/helixdb/helixdb/pkg/model"
)

// value tags
const (
	tagEmpty byte = iota
	tagString
	tagInteger
	tagFloat
	tagBoolean
	tagArray
	tagObject
	tagDate
)

// ErrCorruption signals a decode-time structural inconsistency (e.g. a
// truncated buffer or an unknown tag byte). The storage core maps this to
// herrors.KindConversion.
type ErrCorruption struct{ Reason string }

func (e *ErrCorruption) Error() string { return "codec: corrupt data: " + e.Reason }

func corrupt(reason string) error { return &ErrCorruption{Reason: reason} }

// ---------------------------------------------------------------------
// Value
// ---------------------------------------------------------------------

// EncodeValue appends the binary encoding of v to buf and returns it.
func EncodeValue(buf []byte, v model.Value) []byte {
	switch v.Kind {
	case model.ValueEmpty:
		return append(buf, tagEmpty)
	case model.ValueString:
		buf = append(buf, tagString)
		return appendString(buf, v.Str)
	case model.ValueInteger:
		buf = append(buf, tagInteger)
		return appendUint64(buf, uint64(v.Int))
	case model.ValueFloat:
		buf = append(buf, tagFloat)
		return appendUint64(buf, math.Float64bits(v.Float))
	case model.ValueBoolean:
		b := byte(0)
		if v.Bool {
			b = 1
		}
		return append(buf, tagBoolean, b)
	case model.ValueArray:
		buf = append(buf, tagArray)
		buf = appendVarint(buf, uint64(len(v.Arr)))
		for _, e := range v.Arr {
			buf = EncodeValue(buf, e)
		}
		return buf
	case model.ValueObject:
		buf = append(buf, tagObject)
		buf = appendVarint(buf, uint64(len(v.Obj)))
		keys := make([]string, 0, len(v.Obj))
		for k := range v.Obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			buf = appendString(buf, k)
			buf = EncodeValue(buf, v.Obj[k])
		}
		return buf
	case model.ValueDate:
		buf = append(buf, tagDate)
		return appendUint64(buf, uint64(v.Date.UnixNano()))
	default:
		return append(buf, tagEmpty)
	}
}

// DecodeValue reads one Value from buf, returning the value and the
// number of bytes consumed.
func DecodeValue(buf []byte) (model.Value, int, error) {
	if len(buf) < 1 {
		return model.Value{}, 0, corrupt("empty value buffer")
	}
	tag := buf[0]
	rest := buf[1:]
	switch tag {
	case tagEmpty:
		return model.Empty, 1, nil
	case tagString:
		s, n, err := readString(rest)
		if err != nil {
			return model.Value{}, 0, err
		}
		return model.String(s), 1 + n, nil
	case tagInteger:
		u, n, err := readUint64(rest)
		if err != nil {
			return model.Value{}, 0, err
		}
		return model.Integer(int64(u)), 1 + n, nil
	case tagFloat:
		u, n, err := readUint64(rest)
		if err != nil {
			return model.Value{}, 0, err
		}
		return model.Float(math.Float64frombits(u)), 1 + n, nil
	case tagBoolean:
		if len(rest) < 1 {
			return model.Value{}, 0, corrupt("truncated boolean")
		}
		return model.Boolean(rest[0] != 0), 2, nil
	case tagArray:
		count, n, err := readVarint(rest)
		if err != nil {
			return model.Value{}, 0, err
		}
		off := n
		arr := make([]model.Value, 0, count)
		for i := uint64(0); i < count; i++ {
			v, m, err := DecodeValue(rest[off:])
			if err != nil {
				return model.Value{}, 0, err
			}
			arr = append(arr, v)
			off += m
		}
		return model.Array(arr), 1 + off, nil
	case tagObject:
		count, n, err := readVarint(rest)
		if err != nil {
			return model.Value{}, 0, err
		}
		off := n
		obj := make(map[string]model.Value, count)
		for i := uint64(0); i < count; i++ {
			k, m, err := readString(rest[off:])
			if err != nil {
				return model.Value{}, 0, err
			}
			off += m
			v, m2, err := DecodeValue(rest[off:])
			if err != nil {
				return model.Value{}, 0, err
			}
			off += m2
			obj[k] = v
		}
		return model.Object(obj), 1 + off, nil
	case tagDate:
		u, n, err := readUint64(rest)
		if err != nil {
			return model.Value{}, 0, err
		}
		return model.Date(time.Unix(0, int64(u)).UTC()), 1 + n, nil
	default:
		return model.Value{}, 0, corrupt(fmt.Sprintf("unknown value tag %d", tag))
	}
}

// ---------------------------------------------------------------------
// Properties
// ---------------------------------------------------------------------

// EncodeProperties appends a length-prefixed sequence of (key, Value)
// pairs to buf in ascending key order, per spec.md §4.2.
func EncodeProperties(buf []byte, props model.Properties) []byte {
	buf = appendVarint(buf, uint64(len(props)))
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		buf = appendString(buf, k)
		buf = EncodeValue(buf, props[k])
	}
	return buf
}

// DecodeProperties reads a property map from buf, returning the map and
// bytes consumed.
func DecodeProperties(buf []byte) (model.Properties, int, error) {
	count, n, err := readVarint(buf)
	if err != nil {
		return nil, 0, err
	}
	off := n
	if count == 0 {
		return nil, off, nil
	}
	props := make(model.Properties, count)
	for i := uint64(0); i < count; i++ {
		k, m, err := readString(buf[off:])
		if err != nil {
			return nil, 0, err
		}
		off += m
		v, m2, err := DecodeValue(buf[off:])
		if err != nil {
			return nil, 0, err
		}
		off += m2
		props[k] = v
	}
	return props, off, nil
}

// ---------------------------------------------------------------------
// Node / Edge / Vector bodies (id excluded — it is always the KV key)
// ---------------------------------------------------------------------

// EncodeNodeBody serializes everything about n except n.ID.
func EncodeNodeBody(n *model.Node) []byte {
	buf := make([]byte, 0, 64)
	buf = append(buf, n.Version)
	buf = appendString(buf, n.Label)
	buf = EncodeProperties(buf, n.Properties)
	return buf
}

// DecodeNodeBody parses a node body (written by EncodeNodeBody). The
// caller supplies id since bodies never carry it.
func DecodeNodeBody(id model.ID, buf []byte) (*model.Node, error) {
	if len(buf) < 1 {
		return nil, corrupt("empty node body")
	}
	version := buf[0]
	off := 1
	label, n, err := readString(buf[off:])
	if err != nil {
		return nil, err
	}
	off += n
	props, m, err := DecodeProperties(buf[off:])
	if err != nil {
		return nil, err
	}
	_ = m
	return &model.Node{ID: id, Label: label, Properties: props, Version: version}, nil
}

// EncodeEdgeBody serializes everything about e except e.ID.
func EncodeEdgeBody(e *model.Edge) []byte {
	buf := make([]byte, 0, 96)
	buf = append(buf, e.Version)
	buf = appendString(buf, e.Label)
	buf = append(buf, e.From.Bytes()...)
	buf = append(buf, e.To.Bytes()...)
	buf = EncodeProperties(buf, e.Properties)
	return buf
}

// DecodeEdgeBody parses an edge body.
func DecodeEdgeBody(id model.ID, buf []byte) (*model.Edge, error) {
	if len(buf) < 1+16+16 {
		return nil, corrupt("truncated edge body")
	}
	version := buf[0]
	off := 1
	label, n, err := readString(buf[off:])
	if err != nil {
		return nil, err
	}
	off += n
	if len(buf) < off+32 {
		return nil, corrupt("truncated edge endpoints")
	}
	from, err := model.IDFromBytes(buf[off : off+16])
	if err != nil {
		return nil, corrupt(err.Error())
	}
	off += 16
	to, err := model.IDFromBytes(buf[off : off+16])
	if err != nil {
		return nil, corrupt(err.Error())
	}
	off += 16
	props, _, err := DecodeProperties(buf[off:])
	if err != nil {
		return nil, err
	}
	return &model.Edge{ID: id, Label: label, From: from, To: to, Properties: props, Version: version}, nil
}

// EncodeVectorCore serializes the `vectors` table body: version, raw
// float64 data, and the reserved label/is_deleted flags. The general
// property map is deliberately excluded — it lives in the separate
// `vector_data` table so HNSW graph traversal never has to pay for
// property decode (spec.md §3: "split to keep HNSW traversal cheap").
func EncodeVectorCore(v *model.Vector) []byte {
	buf := make([]byte, 0, 16+len(v.Data)*8)
	buf = append(buf, v.Version)
	buf = appendVarint(buf, uint64(len(v.Data)))
	for _, f := range v.Data {
		buf = appendUint64(buf, math.Float64bits(f))
	}
	buf = appendString(buf, v.Label)
	deleted := byte(0)
	if v.IsDeleted {
		deleted = 1
	}
	buf = append(buf, deleted)
	return buf
}

// DecodeVectorCore parses a `vectors` table body. The returned Vector has
// a nil Properties field; callers join in the `vector_data` table
// separately via DecodeVectorData when properties are actually needed.
func DecodeVectorCore(id model.ID, buf []byte) (*model.Vector, error) {
	if len(buf) < 1 {
		return nil, corrupt("empty vector core")
	}
	version := buf[0]
	off := 1
	dim, n, err := readVarint(buf[off:])
	if err != nil {
		return nil, err
	}
	off += n
	data := make([]float64, dim)
	for i := uint64(0); i < dim; i++ {
		u, m, err := readUint64(buf[off:])
		if err != nil {
			return nil, err
		}
		data[i] = math.Float64frombits(u)
		off += m
	}
	label, n, err := readString(buf[off:])
	if err != nil {
		return nil, err
	}
	off += n
	if off >= len(buf) {
		return nil, corrupt("vector core missing is_deleted flag")
	}
	deleted := buf[off] != 0
	return &model.Vector{
		ID:        id,
		Data:      data,
		Label:     label,
		IsDeleted: deleted,
		Version:   version,
	}, nil
}

// EncodeVectorData serializes the `vector_data` table body: just the
// user-supplied property map, keyed by the same id as the matching
// `vectors` entry.
func EncodeVectorData(props model.Properties) []byte {
	return EncodeProperties(nil, props)
}

// DecodeVectorData parses a `vector_data` table body.
func DecodeVectorData(buf []byte) (model.Properties, error) {
	props, _, err := DecodeProperties(buf)
	return props, err
}

// EncodeIDList serializes a `sequence<u128>` — used for HNSW neighbor
// lists (spec.md §4.6: `hnsw_neighbors(level ∥ id → sequence<u128>)`) and
// for path results.
func EncodeIDList(ids []model.ID) []byte {
	buf := make([]byte, 0, 1+len(ids)*16)
	buf = appendVarint(buf, uint64(len(ids)))
	for _, id := range ids {
		buf = append(buf, id.Bytes()...)
	}
	return buf
}

// DecodeIDList parses a sequence<u128>.
func DecodeIDList(buf []byte) ([]model.ID, error) {
	n, off, err := readVarint(buf)
	if err != nil {
		return nil, err
	}
	ids := make([]model.ID, n)
	for i := uint64(0); i < n; i++ {
		if off+16 > len(buf) {
			return nil, corrupt("truncated id list")
		}
		id, err := model.IDFromBytes(buf[off : off+16])
		if err != nil {
			return nil, err
		}
		ids[i] = id
		off += 16
	}
	return ids, nil
}

// ---------------------------------------------------------------------
// primitive helpers
// ---------------------------------------------------------------------

func appendString(buf []byte, s string) []byte {
	buf = appendVarint(buf, uint64(len(s)))
	return append(buf, s...)
}

func readString(buf []byte) (string, int, error) {
	l, n, err := readVarint(buf)
	if err != nil {
		return "", 0, err
	}
	if uint64(len(buf)-n) < l {
		return "", 0, corrupt("truncated string")
	}
	s := string(buf[n : n+int(l)])
	return s, n + int(l), nil
}

func appendVarint(buf []byte, v uint64) []byte {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	return append(buf, tmp[:n]...)
}

func readVarint(buf []byte) (uint64, int, error) {
	v, n := binary.Uvarint(buf)
	if n <= 0 {
		return 0, 0, corrupt("bad varint")
	}
	return v, n, nil
}

func appendUint64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}

func readUint64(buf []byte) (uint64, int, error) {
	if len(buf) < 8 {
		return 0, 0, corrupt("truncated uint64")
	}
	return binary.BigEndian.Uint64(buf[:8]), 8, nil
}

