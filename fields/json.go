package fields

import (
	"encoding/binary"
	"io"
	"math"

	dberrors "github.com/dropbox/godropbox/errors"
)

// Binary JSON value-type tags, per MySQL's internal JSONB format
// (WL#8132). A JSON column's cell is one top-level value encoded this
// way, not UTF-8 text.
const (
	jsonSmallObj byte = iota
	jsonLargeObj
	jsonSmallArr
	jsonLargeArr
	jsonLiteral
	jsonInt16
	jsonUInt16
	jsonInt32
	jsonUInt32
	jsonInt64
	jsonUInt64
	jsonDouble
	jsonString
	jsonCustom = 0x0f
)

// DecodeJSON decodes a cell's raw binary JSON representation into plain
// Go values: map[string]interface{} for objects, []interface{} for
// arrays, and the obvious scalar types otherwise. MySQL's "opaque"
// wrapper around NEWDECIMAL/TIME/DATE/DATETIME/TIMESTAMP sub-values
// inside JSON is not decoded further: it is returned as raw bytes (see
// decodeJSONOpaque) — JSON's sub-schema for those types
// is a separate, smaller wire format from the row-image one, so it does
// not reuse the Decimal/Time2 helpers above.
func DecodeJSON(data []byte) (interface{}, error) {
	if len(data) < 1 {
		return nil, io.ErrUnexpectedEOF
	}
	return decodeJSONValue(data[0], data[1:])
}

func decodeJSONValue(typ byte, data []byte) (interface{}, error) {
	switch typ {
	case jsonSmallObj:
		return decodeJSONComposite(data, true, true)
	case jsonLargeObj:
		return decodeJSONComposite(data, false, true)
	case jsonSmallArr:
		return decodeJSONComposite(data, true, false)
	case jsonLargeArr:
		return decodeJSONComposite(data, false, false)
	case jsonLiteral:
		return decodeJSONLiteral(data)
	case jsonInt16:
		v, err := jsonUInt16At(data)
		return int16(v), err
	case jsonUInt16:
		return jsonUInt16At(data)
	case jsonInt32:
		v, err := jsonUInt32At(data)
		return int32(v), err
	case jsonUInt32:
		return jsonUInt32At(data)
	case jsonInt64:
		v, err := jsonUInt64At(data)
		return int64(v), err
	case jsonUInt64:
		return jsonUInt64At(data)
	case jsonDouble:
		v, err := jsonUInt64At(data)
		return math.Float64frombits(v), err
	case jsonString:
		return decodeJSONString(data)
	case jsonCustom:
		return decodeJSONOpaque(data)
	}
	return nil, dberrors.Newf("fields: invalid json value type 0x%02x", typ)
}

// jsonEntryWidth is the byte width of an offset/count field within an
// object or array header: 2 bytes for the "small" storage class MySQL
// picks when the whole container fits under 64KB, 4 otherwise.
func jsonEntryWidth(small bool) int {
	if small {
		return 2
	}
	return 4
}

// decodeJSONComposite walks one object or array container: a count, a
// total size (recorded by MySQL but not needed to decode), then either
// a key-offset table (objects only) followed by a type+offset entry per
// element, or just the type+offset entries (arrays).
func decodeJSONComposite(data []byte, small, obj bool) (interface{}, error) {
	cursor := jsonCursor{data: data, width: jsonEntryWidth(small)}

	count, err := cursor.readCount()
	if err != nil {
		return nil, err
	}
	if _, err := cursor.readCount(); err != nil { // total byte size, unused by this decoder
		return nil, err
	}

	var keyNames []string
	if obj {
		keyNames, err = cursor.readKeys(count)
		if err != nil {
			return nil, err
		}
	}

	entries := make([]interface{}, count)
	for i := uint32(0); i < count; i++ {
		v, err := cursor.readEntry(small)
		if err != nil {
			return nil, err
		}
		entries[i] = v
	}

	if !obj {
		return entries, nil
	}
	result := make(map[string]interface{}, count)
	for i, name := range keyNames {
		result[name] = entries[i]
	}
	return result, nil
}

// jsonCursor tracks a read position into a composite container's byte
// range while its entries are walked in order.
type jsonCursor struct {
	data []byte
	pos  int
	// width is 2 for small containers' offset/count fields, 4 for large.
	width int
}

func (c *jsonCursor) readCount() (uint32, error) {
	if c.width == 2 {
		v, err := jsonUInt16At(c.data[c.pos:])
		c.pos += 2
		return uint32(v), err
	}
	v, err := jsonUInt32At(c.data[c.pos:])
	c.pos += 4
	return v, err
}

func (c *jsonCursor) readKeys(count uint32) ([]string, error) {
	names := make([]string, count)
	for i := uint32(0); i < count; i++ {
		keyOff, err := c.readCount()
		if err != nil {
			return nil, err
		}
		keyLen, err := jsonUInt16At(c.data[c.pos:])
		if err != nil {
			return nil, err
		}
		c.pos += 2
		if uint32(len(c.data)) < keyOff+uint32(keyLen) {
			return nil, io.ErrUnexpectedEOF
		}
		names[i] = string(c.data[keyOff : keyOff+uint32(keyLen)])
	}
	return names, nil
}

// readEntry consumes one element's type byte plus its inline value or
// offset to an out-of-line value, per MySQL's rule that a literal or a
// value narrow enough to fit in the offset field is stored inline
// rather than pointed to.
func (c *jsonCursor) readEntry(small bool) (interface{}, error) {
	if c.pos >= len(c.data) {
		return nil, io.ErrUnexpectedEOF
	}
	typ := c.data[c.pos]
	c.pos++

	if jsonStoredInline(typ, small) {
		v, err := decodeJSONValue(typ, c.data[c.pos:])
		c.pos += c.width
		return v, err
	}

	valueOff, err := c.readCount()
	if err != nil {
		return nil, err
	}
	if valueOff >= uint32(len(c.data)) {
		return nil, io.ErrUnexpectedEOF
	}
	return decodeJSONValue(typ, c.data[valueOff:])
}

func jsonStoredInline(typ byte, small bool) bool {
	switch typ {
	case jsonLiteral, jsonInt16, jsonUInt16:
		return true
	case jsonInt32, jsonUInt32:
		return !small
	}
	return false
}

func decodeJSONLiteral(data []byte) (interface{}, error) {
	if len(data) < 1 {
		return nil, io.ErrUnexpectedEOF
	}
	switch data[0] {
	case 0x00:
		return nil, nil
	case 0x01:
		return true, nil
	case 0x02:
		return false, nil
	}
	return nil, dberrors.Newf("fields: invalid json literal tag 0x%02x", data[0])
}

func jsonUInt16At(data []byte) (uint16, error) {
	if len(data) < 2 {
		return 0, io.ErrUnexpectedEOF
	}
	return binary.LittleEndian.Uint16(data), nil
}

func jsonUInt32At(data []byte) (uint32, error) {
	if len(data) < 4 {
		return 0, io.ErrUnexpectedEOF
	}
	return binary.LittleEndian.Uint32(data), nil
}

func jsonUInt64At(data []byte) (uint64, error) {
	if len(data) < 8 {
		return 0, io.ErrUnexpectedEOF
	}
	return binary.LittleEndian.Uint64(data), nil
}

// jsonVarLen reads MySQL's JSON-internal variable length encoding: a
// base-128 varint, 7 bits per byte, continuation in the high bit, at
// most 5 bytes wide.
func jsonVarLen(data []byte) (uint64, []byte, error) {
	const maxBytes = 5
	var size uint64
	for i := 0; i < maxBytes; i++ {
		if len(data) == 0 {
			return 0, nil, io.ErrUnexpectedEOF
		}
		b := data[0]
		data = data[1:]
		size |= uint64(b&0x7f) << uint(7*i)
		if b&0x80 == 0 {
			return size, data, nil
		}
	}
	return 0, nil, dberrors.New("fields: invalid json variable-length size")
}

func decodeJSONString(data []byte) (string, error) {
	size, rest, err := jsonVarLen(data)
	if err != nil {
		return "", err
	}
	if uint64(len(rest)) < size {
		return "", io.ErrUnexpectedEOF
	}
	return string(rest[:size]), nil
}

// decodeJSONOpaque decodes a jsonCustom value: a 1-byte MySQL column
// type tag, a variable-length size, then that many bytes holding the
// sub-value in that type's own wire shape. Every such value, NEWDECIMAL
// included, is returned as raw bytes (the type tag followed by the
// payload) — reconstructing a time.Time or Decimal here would duplicate the row-image decoders above for a path
// the non-goal "semantic query interpretation" never requires.
func decodeJSONOpaque(data []byte) (interface{}, error) {
	if len(data) < 1 {
		return nil, io.ErrUnexpectedEOF
	}
	typ := data[0]
	size, rest, err := jsonVarLen(data[1:])
	if err != nil {
		return nil, err
	}
	if uint64(len(rest)) < size {
		return nil, io.ErrUnexpectedEOF
	}
	return append([]byte{typ}, rest[:size]...), nil
}
