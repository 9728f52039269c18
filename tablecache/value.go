package tablecache

import (
	"math"

	dberrors "github.com/dropbox/godropbox/errors"
	"github.com/shopspring/decimal"

	"github.com/relayforge/binlogevent/catalog"
	"github.com/relayforge/binlogevent/fields"
	"github.com/relayforge/binlogevent/reader"
)

// Enum is the decoded value of an ENUM cell: the 1-based ordinal MySQL
// stored, with no attempt to resolve it against the column's value list
// (table_map_event never carries the enum's string values, only the
// storage width — spec.md's Non-goals exclude SQL/DDL reconstruction,
// so resolving the ordinal to its label is out of scope here).
type Enum struct{ Ordinal uint64 }

// SetValue is the decoded value of a SET cell: the raw bitmap MySQL
// stored, one bit per possible set member, again unresolved against the
// column's member list for the same reason as Enum.
type SetValue struct{ Bits uint64 }

// Bits is the decoded value of a BIT(M) cell.
type Bits struct {
	Value   uint64
	Width   int // M, the declared number of bits
}

// DecodeValue reads one non-NULL cell for column col, whose final type
// and metadata have already been resolved by DecodeColumnMetadata
// (including the enum/set remap). It is grounded on the legacy
// decoder's parseValue switch, extended to cover every type that switch
// left as "not implemented" per spec.md's full type table.
func DecodeValue(r *reader.Reader, col Column) (interface{}, error) {
	switch col.Type {
	case catalog.TypeTiny:
		b, err := fields.U8(r)
		if err != nil {
			return nil, err
		}
		if col.Unsigned {
			return uint64(b), nil
		}
		return int64(int8(b)), nil

	case catalog.TypeShort:
		v, err := fields.U16(r)
		if err != nil {
			return nil, err
		}
		if col.Unsigned {
			return uint64(v), nil
		}
		return int64(int16(v)), nil

	case catalog.TypeInt24:
		v, err := fields.U24(r)
		if err != nil {
			return nil, err
		}
		if col.Unsigned {
			return uint64(v), nil
		}
		if v&0x00800000 != 0 {
			v |= 0xff000000
		}
		return int64(int32(v)), nil

	case catalog.TypeLong:
		v, err := fields.U32(r)
		if err != nil {
			return nil, err
		}
		if col.Unsigned {
			return uint64(v), nil
		}
		return int64(int32(v)), nil

	case catalog.TypeLongLong:
		v, err := fields.U64(r)
		if err != nil {
			return nil, err
		}
		if col.Unsigned {
			return v, nil
		}
		return int64(v), nil

	case catalog.TypeFloat:
		v, err := fields.U32(r)
		if err != nil {
			return nil, err
		}
		return math.Float32frombits(v), nil

	case catalog.TypeDouble:
		v, err := fields.U64(r)
		if err != nil {
			return nil, err
		}
		return math.Float64frombits(v), nil

	case catalog.TypeYear:
		return fields.Year(r)

	case catalog.TypeDate:
		return fields.Date(r)

	case catalog.TypeTime:
		return fields.LegacyTime(r)

	case catalog.TypeDatetime:
		return fields.LegacyDatetime(r)

	case catalog.TypeTimestamp:
		return fields.Timestamp(r)

	case catalog.TypeTime2:
		return fields.Time2(r, col.Meta.Size)

	case catalog.TypeDatetime2:
		return fields.Datetime2(r, col.Meta.Size)

	case catalog.TypeTimestamp2:
		return fields.Timestamp2(r, col.Meta.Size)

	case catalog.TypeNewDecimal:
		return fields.NewDecimal(r, col.Meta.Precision, col.Meta.Decimals)

	case catalog.TypeDecimal:
		return decimal.Decimal{}, dberrors.New("tablecache: legacy DECIMAL (pre-5.0 storage) is not supported")

	case catalog.TypeVarchar:
		n, err := lengthFor(r, col.Meta.MaxLength)
		if err != nil {
			return nil, err
		}
		return fields.ByteArray(r, n)

	case catalog.TypeString, catalog.TypeVarString:
		n, err := lengthFor(r, col.Meta.MaxLength)
		if err != nil {
			return nil, err
		}
		return fields.ByteArray(r, n)

	case catalog.TypeEnum:
		ordinal, err := readEnumSetOrdinal(r, col.Meta.EnumSetSize)
		if err != nil {
			return nil, err
		}
		return Enum{Ordinal: ordinal}, nil

	case catalog.TypeSet:
		bits, err := readEnumSetOrdinal(r, col.Meta.EnumSetSize)
		if err != nil {
			return nil, err
		}
		return SetValue{Bits: bits}, nil

	case catalog.TypeBit:
		raw, err := fields.ByteArray(r, col.Meta.Bytes+boolToInt(col.Meta.Bits > 0))
		if err != nil {
			return nil, err
		}
		var v uint64
		for _, b := range raw {
			v = v<<8 | uint64(b)
		}
		return Bits{Value: v, Width: col.Meta.BitsTotal}, nil

	case catalog.TypeBlob, catalog.TypeTinyBlob, catalog.TypeMediumBlob, catalog.TypeLongBlob, catalog.TypeGeometry:
		n, err := lengthForBlob(r, col.Meta.LengthSize)
		if err != nil {
			return nil, err
		}
		return fields.ByteArray(r, n)

	case catalog.TypeJSON:
		n, err := lengthForBlob(r, col.Meta.LengthSize)
		if err != nil {
			return nil, err
		}
		raw, err := fields.ByteArray(r, n)
		if err != nil {
			return nil, err
		}
		return fields.DecodeJSON(raw)

	case catalog.TypeNull:
		return nil, nil

	default:
		return nil, dberrors.Newf("tablecache: decode of column type %s is not implemented", col.Type)
	}
}

// lengthFor reads a VARCHAR/VAR_STRING/STRING value's own length
// prefix, whose width depends on the column's declared max length (one
// byte if it fits in 255, two otherwise).
func lengthFor(r *reader.Reader, maxLength int) (int, error) {
	if maxLength > 255 {
		v, err := fields.U16(r)
		return int(v), err
	}
	b, err := fields.U8(r)
	return int(b), err
}

// lengthForBlob reads a BLOB-family value's own length prefix, whose
// width is exactly the column's length_size metadata byte.
func lengthForBlob(r *reader.Reader, lengthSize int) (int, error) {
	switch lengthSize {
	case 1:
		b, err := fields.U8(r)
		return int(b), err
	case 2:
		v, err := fields.U16(r)
		return int(v), err
	case 3:
		v, err := fields.U24(r)
		return int(v), err
	case 4:
		v, err := fields.U32(r)
		return int(v), err
	default:
		return 0, dberrors.Newf("tablecache: invalid blob length_size %d", lengthSize)
	}
}

// readEnumSetOrdinal reads an ENUM/SET value's storage, whose width
// (1 or 2 bytes) is the column's enum_set_size metadata byte.
func readEnumSetOrdinal(r *reader.Reader, size int) (uint64, error) {
	switch size {
	case 1:
		b, err := fields.U8(r)
		return uint64(b), err
	case 2:
		v, err := fields.U16(r)
		return uint64(v), err
	default:
		return 0, dberrors.Newf("tablecache: invalid enum/set storage size %d", size)
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
