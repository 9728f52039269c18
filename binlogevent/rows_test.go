package binlogevent

import (
	"bytes"
	"testing"

	"github.com/relayforge/binlogevent/catalog"
	"github.com/relayforge/binlogevent/reader"
	"github.com/relayforge/binlogevent/tablecache"
)

func twoColTable() *tablecache.TableDef {
	return &tablecache.TableDef{
		Schema: "s",
		Table:  "t",
		Columns: []tablecache.Column{
			{Type: catalog.TypeLong},
			{Type: catalog.TypeLong, Nullable: true},
		},
	}
}

func TestDecodeRows_Write(t *testing.T) {
	cache := tablecache.New()
	cache.Put(7, twoColTable())

	raw := []byte{
		7, 0, 0, 0, 0, 0, // table_id
		0, 0, // flags
		2, 0, // extra_data_length (v2): no extra data
		2,    // num columns
		0x03, // columns-present bitmap: both columns present
		0x00, // null bitmap: neither null
		1, 0, 0, 0, // column 0 = 1
		2, 0, 0, 0, // column 1 = 2
	}
	r := reader.New(bytes.NewReader(raw), 0)
	e, err := decodeRows(r, catalog.WriteRowsEventV2, cache)
	if err != nil {
		t.Fatal(err)
	}
	if !e.IsWrite || len(e.Rows) != 1 {
		t.Fatalf("rows = %+v", e)
	}
	row := e.Rows[0]
	if row.Before != nil || row.After == nil {
		t.Fatalf("expected only After for a write: %+v", row)
	}
	if row.After.Cells[0].Value.(int64) != 1 || row.After.Cells[1].Value.(int64) != 2 {
		t.Fatalf("cells = %+v", row.After.Cells)
	}
}

func TestDecodeRows_DeleteWithNullCell(t *testing.T) {
	cache := tablecache.New()
	cache.Put(7, twoColTable())

	raw := []byte{
		7, 0, 0, 0, 0, 0,
		0, 0,
		2, 0, // extra_data_length (v2)
		2,
		0x03, // present bitmap
		0x02, // null bitmap: column 1 is null
		5, 0, 0, 0,
	}
	r := reader.New(bytes.NewReader(raw), 0)
	e, err := decodeRows(r, catalog.DeleteRowsEventV2, cache)
	if err != nil {
		t.Fatal(err)
	}
	row := e.Rows[0]
	if row.Before == nil || row.After != nil {
		t.Fatalf("expected only Before for a delete: %+v", row)
	}
	if row.Before.Cells[0].Kind != CellValue || row.Before.Cells[1].Kind != CellNull {
		t.Fatalf("cells = %+v", row.Before.Cells)
	}
}

func threeColTable() *tablecache.TableDef {
	return &tablecache.TableDef{
		Schema: "s",
		Table:  "t",
		Columns: []tablecache.Column{
			{Type: catalog.TypeLong},
			{Type: catalog.TypeLong, Nullable: true},
			{Type: catalog.TypeLong, Nullable: true},
		},
	}
}

// TestDecodeRows_PartialColumnsPresent exercises a row image whose
// columns-used bitmap omits a column: the null bitmap must still be
// sized to the table's total column count, not the present count
// (spec.md §4.8), so a 3-column table with only columns 0 and 2 present
// needs a 3-bit null bitmap, not a 2-bit one.
func TestDecodeRows_PartialColumnsPresent(t *testing.T) {
	cache := tablecache.New()
	cache.Put(7, threeColTable())

	raw := []byte{
		7, 0, 0, 0, 0, 0,
		0, 0,
		2, 0, // extra_data_length (v2)
		3,    // num columns
		0x05, // columns-present bitmap: columns 0 and 2 present, column 1 absent
		0x00, // null bitmap, 3 bits: none null
		42, 0, 0, 0, // column 0
		99, 0, 0, 0, // column 2
	}
	r := reader.New(bytes.NewReader(raw), 0)
	e, err := decodeRows(r, catalog.WriteRowsEventV2, cache)
	if err != nil {
		t.Fatal(err)
	}
	row := e.Rows[0]
	cells := row.After.Cells
	if cells[0].Kind != CellValue || cells[0].Value.(int64) != 42 {
		t.Fatalf("column 0 = %+v", cells[0])
	}
	if cells[1].Kind != CellAbsent {
		t.Fatalf("column 1 = %+v, expected absent", cells[1])
	}
	if cells[2].Kind != CellValue || cells[2].Value.(int64) != 99 {
		t.Fatalf("column 2 = %+v", cells[2])
	}
}

func TestDecodeRows_UnknownTableID(t *testing.T) {
	cache := tablecache.New()
	raw := []byte{9, 0, 0, 0, 0, 0, 0, 0, 1, 0x01, 0x00, 1, 0, 0, 0}
	r := reader.New(bytes.NewReader(raw), 0)
	if _, err := decodeRows(r, catalog.WriteRowsEventV2, cache); err == nil {
		t.Fatal("expected an unknown table_id error")
	}
}

func TestDecodeRows_Update(t *testing.T) {
	cache := tablecache.New()
	cache.Put(7, twoColTable())

	raw := []byte{
		7, 0, 0, 0, 0, 0,
		0, 0,
		2, 0, // extra_data_length (v2)
		2,
		0x03, // columns-present bitmap for the before image
		0x03, // columns-present bitmap for the after image
		0x00, // before: null bitmap
		1, 0, 0, 0,
		2, 0, 0, 0,
		0x00, // after: null bitmap
		10, 0, 0, 0,
		20, 0, 0, 0,
	}
	r := reader.New(bytes.NewReader(raw), 0)
	e, err := decodeRows(r, catalog.UpdateRowsEventV2, cache)
	if err != nil {
		t.Fatal(err)
	}
	row := e.Rows[0]
	if row.Before == nil || row.After == nil {
		t.Fatalf("expected both images for an update: %+v", row)
	}
	if row.Before.Cells[0].Value.(int64) != 1 || row.After.Cells[0].Value.(int64) != 10 {
		t.Fatalf("cells = before %+v after %+v", row.Before.Cells, row.After.Cells)
	}
}
