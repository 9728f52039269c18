package binlogevent

import (
	dberrors "github.com/dropbox/godropbox/errors"

	"github.com/relayforge/binlogevent/catalog"
	"github.com/relayforge/binlogevent/fields"
	"github.com/relayforge/binlogevent/reader"
	"github.com/relayforge/binlogevent/tablecache"
)

// decodeTableMap reads a table_map_event body (spec.md §4.6), grounded
// on the legacy decoder's tableMapEvent.parse (rbr.go): table_id,
// flags, schema/table names, the column-types array, a bounded
// metadata region, a nullability bitmap, then zero or more optional
// status blocks (signedness, charsets, column names).
func decodeTableMap(r *reader.Reader) (TableMapEvent, error) {
	var e TableMapEvent

	tableID, err := fields.U48(r)
	if err != nil {
		return e, err
	}
	e.TableID = tableID

	flags, err := fields.U16(r)
	if err != nil {
		return e, err
	}
	e.Flags = flags

	schema, err := fields.PrefixedNullTerminatedString(r)
	if err != nil {
		return e, err
	}
	table, err := fields.PrefixedNullTerminatedString(r)
	if err != nil {
		return e, err
	}

	numCols, err := fields.LengthEncodedInt(r)
	if err != nil {
		return e, err
	}

	wireTypes := make([]catalog.ColumnType, numCols)
	for i := range wireTypes {
		b, err := fields.U8(r)
		if err != nil {
			return e, err
		}
		wireTypes[i] = catalog.ColumnType(b)
	}

	metaLen, err := fields.LengthEncodedInt(r)
	if err != nil {
		return e, err
	}

	finalTypes, metas, err := tablecache.DecodeColumnMetadata(r, wireTypes, metaLen)
	if err != nil {
		return e, dberrors.Wrap(err, "binlogevent: table_map metadata")
	}

	nullable, err := fields.BitArray(r, int(numCols))
	if err != nil {
		return e, err
	}

	def := &tablecache.TableDef{
		Schema:  schema,
		Table:   table,
		Columns: make([]tablecache.Column, numCols),
	}
	for i := range def.Columns {
		def.Columns[i] = tablecache.Column{
			Type:     finalTypes[i],
			Nullable: nullable[i],
			Meta:     metas[i],
		}
	}

	if err := decodeTableMapOptionalBlocks(r, def); err != nil {
		return e, err
	}

	e.Def = def
	return e, nil
}

// Optional status-block type codes for table_map_event's metadata
// extension area, past the fixed nullability bitmap.
const (
	tableMapSignedness    = 1
	tableMapDefaultCharset = 2
	tableMapColumnCharset  = 3
	tableMapColumnName     = 4
)

// decodeTableMapOptionalBlocks reads table_map_event's trailing
// optional blocks (spec.md §9's additive fields), grounded on rbr.go's
// `for r.more()` loop: each block is a 1-byte type code, a
// length-encoded size, then that many bytes — so an unrecognized code
// can always be skipped safely, unlike a query_event status var.
func decodeTableMapOptionalBlocks(r *reader.Reader, def *tablecache.TableDef) error {
	for r.More() {
		typ, err := fields.U8(r)
		if err != nil {
			return err
		}
		size, err := fields.LengthEncodedInt(r)
		if err != nil {
			return err
		}
		block := r.Limited(size)

		switch typ {
		case tableMapSignedness:
			intCols := intFamilyIndices(def)
			signedness, err := fields.BitArray(block, len(intCols))
			if err != nil {
				block.Unlimit()
				return err
			}
			for i, colIdx := range intCols {
				def.Columns[colIdx].Unsigned = signedness[i]
			}

		case tableMapDefaultCharset:
			b, err := fields.RemainingBytes(block)
			if err != nil {
				block.Unlimit()
				return err
			}
			def.DefaultCharset = b

		case tableMapColumnCharset:
			b, err := fields.RemainingBytes(block)
			if err != nil {
				block.Unlimit()
				return err
			}
			def.ColumnCharsets = b

		case tableMapColumnName:
			for i := range def.Columns {
				name, err := fields.PrefixedString(block)
				if err != nil {
					block.Unlimit()
					return err
				}
				def.Columns[i].Name = name
			}

		default:
			if err := block.Drain(); err != nil {
				block.Unlimit()
				return err
			}
		}

		block.Unlimit()
	}
	return nil
}

// intFamilyIndices returns the column indices the signedness status
// block's bitmap applies to: the subset of columns whose type carries
// a MySQL sign bit (spec.md §4.6's "signedness only applies to numeric
// columns" note).
func intFamilyIndices(def *tablecache.TableDef) []int {
	var idx []int
	for i, col := range def.Columns {
		if col.Type.IsIntegerFamily() {
			idx = append(idx, i)
		}
	}
	return idx
}
