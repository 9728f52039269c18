package tablecache

import (
	dberrors "github.com/dropbox/godropbox/errors"

	"github.com/relayforge/binlogevent/catalog"
	"github.com/relayforge/binlogevent/fields"
	"github.com/relayforge/binlogevent/reader"
)

// MetaKind tags which shape of per-column metadata a ColumnMeta holds
// (spec.md §4.7's metadata table, modeled per the "ColumnMetadata" sum
// type design note in spec.md §9).
type MetaKind int

const (
	MetaNone MetaKind = iota
	MetaFloatLike
	MetaVarchar
	MetaBit
	MetaNewDecimal
	MetaBlobLike
	MetaStringLike
)

// ColumnMeta is a small tagged union over every metadata shape
// table_map_event produces. Exactly the fields relevant to Kind are
// populated; the rest are zero.
type ColumnMeta struct {
	Kind MetaKind

	Size int // MetaFloatLike: byte width of the float/double

	MaxLength int // MetaVarchar, MetaStringLike ("else" branch): declared max length

	Bits      int // MetaBit
	BitsTotal int // MetaBit: bytes*8 + bits, the usable total
	Bytes     int

	Precision int // MetaNewDecimal
	Decimals  int

	LengthSize int // MetaBlobLike: width of the value's own length prefix

	EnumSetSize int // MetaStringLike, when RealType is enum/set: the ordinal/bitset storage width
}

// decodeColumnMeta reads the metadata for one column of the given wire
// type, per spec.md §4.7's table. For string/var_string columns whose
// real_type metadata byte names enum or set, it returns the remapped
// ColumnType directly alongside the metadata — the type-remap pass
// (spec.md §4.7's last paragraph) happens here, in the reader itself,
// rather than as a later mutation pass, per the design note in spec.md
// §9 ("prefer returning the final (type, metadata) tuple ... rather
// than mutating after the fact").
func decodeColumnMeta(r *reader.Reader, wireType catalog.ColumnType) (catalog.ColumnType, ColumnMeta, error) {
	switch wireType {
	case catalog.TypeFloat, catalog.TypeDouble:
		size, err := fields.U8(r)
		if err != nil {
			return wireType, ColumnMeta{}, err
		}
		return wireType, ColumnMeta{Kind: MetaFloatLike, Size: int(size)}, nil

	case catalog.TypeVarchar:
		max, err := fields.U16(r)
		if err != nil {
			return wireType, ColumnMeta{}, err
		}
		return wireType, ColumnMeta{Kind: MetaVarchar, MaxLength: int(max)}, nil

	case catalog.TypeBit:
		bits, err := fields.U8(r)
		if err != nil {
			return wireType, ColumnMeta{}, err
		}
		nbytes, err := fields.U8(r)
		if err != nil {
			return wireType, ColumnMeta{}, err
		}
		return wireType, ColumnMeta{
			Kind:      MetaBit,
			Bits:      int(bits),
			Bytes:     int(nbytes),
			BitsTotal: int(nbytes)*8 + int(bits),
		}, nil

	case catalog.TypeNewDecimal:
		precision, err := fields.U8(r)
		if err != nil {
			return wireType, ColumnMeta{}, err
		}
		decimals, err := fields.U8(r)
		if err != nil {
			return wireType, ColumnMeta{}, err
		}
		return wireType, ColumnMeta{Kind: MetaNewDecimal, Precision: int(precision), Decimals: int(decimals)}, nil

	case catalog.TypeBlob, catalog.TypeGeometry, catalog.TypeJSON,
		catalog.TypeTinyBlob, catalog.TypeMediumBlob, catalog.TypeLongBlob:
		lengthSize, err := fields.U8(r)
		if err != nil {
			return wireType, ColumnMeta{}, err
		}
		return wireType, ColumnMeta{Kind: MetaBlobLike, LengthSize: int(lengthSize)}, nil

	case catalog.TypeString, catalog.TypeVarString:
		realType, err := fields.U8(r)
		if err != nil {
			return wireType, ColumnMeta{}, err
		}
		size, err := fields.U8(r)
		if err != nil {
			return wireType, ColumnMeta{}, err
		}
		switch catalog.ColumnType(realType) {
		case catalog.TypeEnum, catalog.TypeSet:
			return catalog.ColumnType(realType), ColumnMeta{Kind: MetaStringLike, EnumSetSize: int(size)}, nil
		default:
			// Not a remap: the "real_type" byte for a plain string/
			// var_string column just re-states a MySQL internal length
			// class; size is the declared max length.
			return wireType, ColumnMeta{Kind: MetaStringLike, MaxLength: int(size)}, nil
		}

	case catalog.TypeTime2, catalog.TypeDatetime2, catalog.TypeTimestamp2:
		size, err := fields.U8(r)
		if err != nil {
			return wireType, ColumnMeta{}, err
		}
		return wireType, ColumnMeta{Kind: MetaFloatLike, Size: int(size)}, nil

	default:
		return wireType, ColumnMeta{Kind: MetaNone}, nil
	}
}

// DecodeColumnMetadata reads the metadata region for numCols columns,
// given their wire types (already read from the column_types array),
// bounding the read to metadataLen bytes per spec.md §9's resolution of
// the "metadata_length is read but ignored" open question: this
// implementation uses it to bound the read and fails loudly on
// mismatch, rather than silently trusting per-type consumption to land
// exactly on the boundary.
//
// ErrMetadataLengthMismatch is returned if decoding the declared column
// types does not consume exactly metadataLen bytes.
var ErrMetadataLengthMismatch = dberrors.New("tablecache: metadata_length mismatch")

func DecodeColumnMetadata(r *reader.Reader, wireTypes []catalog.ColumnType, metadataLen uint64) ([]catalog.ColumnType, []ColumnMeta, error) {
	bounded := r.Limited(metadataLen)
	defer bounded.Unlimit()

	finalTypes := make([]catalog.ColumnType, len(wireTypes))
	metas := make([]ColumnMeta, len(wireTypes))
	for i, wt := range wireTypes {
		finalType, meta, err := decodeColumnMeta(bounded, wt)
		if err != nil {
			return nil, nil, dberrors.Wrapf(err, "tablecache: column %d metadata", i)
		}
		finalTypes[i] = finalType
		metas[i] = meta
	}
	if bounded.Remaining() != 0 {
		return nil, nil, dberrors.Wrapf(ErrMetadataLengthMismatch, "declared %d, %d bytes unconsumed", metadataLen, bounded.Remaining())
	}
	return finalTypes, metas, nil
}
