package binlogevent

import (
	dberrors "github.com/dropbox/godropbox/errors"

	"github.com/relayforge/binlogevent/catalog"
	"github.com/relayforge/binlogevent/fields"
	"github.com/relayforge/binlogevent/reader"
	"github.com/relayforge/binlogevent/tablecache"
)

// dummyTableID marks a row-mutation event with no actual rows — a
// housekeeping event some MySQL versions emit instead of omitting the
// event entirely (spec.md §4.7's "dummy rows event" edge case),
// grounded on the legacy decoder's 0x00ffffff sentinel check (rbr.go).
const dummyTableID = 0x00ffffff

// decodeRows reads a write/update/delete rows event body (spec.md
// §4.7), grounded on the legacy decoder's RowsEvent.parse and nextRow
// (rbr.go). cache resolves TableID to the column definitions needed to
// decode each cell; a lookup miss is ErrUnknownTableID (spec.md §7),
// since no row image can be decoded without knowing its column types.
func decodeRows(r *reader.Reader, eventType catalog.EventType, cache *tablecache.Cache) (RowsEvent, error) {
	var e RowsEvent
	e.IsWrite = eventType.IsWriteRows()
	e.IsUpdate = eventType.IsUpdateRows()
	e.IsDelete = eventType.IsDeleteRows()

	tableID, err := fields.U48(r)
	if err != nil {
		return e, err
	}
	e.TableID = tableID

	var table *tablecache.TableDef
	if tableID != dummyTableID {
		table, err = cache.Lookup(tableID)
		if err != nil {
			return e, err
		}
	}
	e.Table = table

	flags, err := fields.U16(r)
	if err != nil {
		return e, err
	}
	e.Flags = catalog.DecodeRowsEventFlags(flags)

	if eventType == catalog.WriteRowsEventV2 || eventType == catalog.UpdateRowsEventV2 || eventType == catalog.DeleteRowsEventV2 {
		extraLen, err := fields.U16(r)
		if err != nil {
			return e, err
		}
		if extraLen < 2 {
			return e, dberrors.Newf("binlogevent: rows event extra_data_length %d < 2", extraLen)
		}
		if err := r.Skip(int(extraLen) - 2); err != nil {
			return e, dberrors.Wrap(ErrOverReadRowImage, err.Error())
		}
	}

	numCols, err := fields.LengthEncodedInt(r)
	if err != nil {
		return e, err
	}

	if tableID == dummyTableID || numCols == 0 {
		return e, nil
	}

	// UPDATE events carry two columns-present bitmaps, before image
	// first then after image; WRITE and DELETE events carry exactly one,
	// which this package treats as the after- or before-image bitmap
	// respectively.
	firstBitmap, err := fields.BitArray(r, int(numCols))
	if err != nil {
		return e, err
	}

	presentBefore, presentAfter := firstBitmap, firstBitmap
	if e.IsUpdate {
		presentAfter, err = fields.BitArray(r, int(numCols))
		if err != nil {
			return e, err
		}
	}

	for r.More() {
		var before, after *RowImage
		if e.IsUpdate {
			img, err := decodeRowImage(r, table, presentBefore)
			if err != nil {
				return e, err
			}
			before = img
		}
		if e.IsWrite || e.IsUpdate {
			img, err := decodeRowImage(r, table, presentAfter)
			if err != nil {
				return e, err
			}
			after = img
		} else { // delete
			img, err := decodeRowImage(r, table, presentAfter)
			if err != nil {
				return e, err
			}
			before = img
		}
		e.Rows = append(e.Rows, RowMutation{Before: before, After: after})
	}

	return e, nil
}

// decodeRowImage reads one row image: a null-value bitmap sized to the
// table's total column count (not the columns-used count — spec.md
// §4.8's explicit invariant, matching real MySQL wire format, which
// reserves one null bit per column regardless of presence), followed by
// one cell per present, non-null column.
func decodeRowImage(r *reader.Reader, table *tablecache.TableDef, present []bool) (*RowImage, error) {
	nullBitmap, err := fields.BitArray(r, len(present))
	if err != nil {
		return nil, dberrors.Wrap(ErrOverReadRowImage, err.Error())
	}

	img := &RowImage{Cells: make([]Cell, len(present))}
	for i, p := range present {
		if !p {
			img.Cells[i] = Cell{Kind: CellAbsent}
			continue
		}
		if nullBitmap[i] {
			img.Cells[i] = Cell{Kind: CellNull}
			continue
		}
		v, err := tablecache.DecodeValue(r, table.Columns[i])
		if err != nil {
			return nil, dberrors.Wrapf(ErrOverReadRowImage, "column %d: %s", i, err.Error())
		}
		img.Cells[i] = Cell{Kind: CellValue, Value: v}
	}
	return img, nil
}
