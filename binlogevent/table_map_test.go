package binlogevent

import (
	"bytes"
	"testing"

	"github.com/relayforge/binlogevent/catalog"
	"github.com/relayforge/binlogevent/reader"
)

func TestDecodeTableMap_Basic(t *testing.T) {
	// metadata region holds only the varchar's 2-byte max_length (long
	// carries no metadata at all), so metadata_length = 2.
	raw := []byte{
		0x2a, 0, 0, 0, 0, 0,
		0x01, 0x00,
		4, 't', 'e', 's', 't', 0,
		2, 'u', 's', 0,
		2,
		byte(catalog.TypeLong), byte(catalog.TypeVarchar),
		2,          // metadata_length
		0xc8, 0x00, // varchar max_length = 200
		0x02, // nullability bitmap: bit 1 set -> second column nullable
	}
	r := reader.New(bytes.NewReader(raw), 0)
	e, err := decodeTableMap(r)
	if err != nil {
		t.Fatal(err)
	}
	if e.TableID != 42 || e.Def.Schema != "test" || e.Def.Table != "us" {
		t.Fatalf("table_map = %+v", e)
	}
	if len(e.Def.Columns) != 2 {
		t.Fatalf("columns = %+v", e.Def.Columns)
	}
	if e.Def.Columns[0].Type != catalog.TypeLong || e.Def.Columns[0].Nullable {
		t.Fatalf("col0 = %+v", e.Def.Columns[0])
	}
	if e.Def.Columns[1].Type != catalog.TypeVarchar || !e.Def.Columns[1].Nullable {
		t.Fatalf("col1 = %+v", e.Def.Columns[1])
	}
	if e.Def.Columns[1].Meta.MaxLength != 200 {
		t.Fatalf("col1 meta = %+v", e.Def.Columns[1].Meta)
	}
}

func TestDecodeTableMap_SignednessBlock(t *testing.T) {
	raw := []byte{
		0x01, 0, 0, 0, 0, 0,
		0, 0,
		1, 'a', 0,
		1, 'b', 0,
		1,                  // num columns
		byte(catalog.TypeLong),
		0,    // metadata_length = 0 (long has none)
		0x00, // nullability bitmap
		// optional block: signedness, length 1, bitmap byte 0x01 (column 0 unsigned)
		1, 1, 0x01,
	}
	r := reader.New(bytes.NewReader(raw), 0)
	e, err := decodeTableMap(r)
	if err != nil {
		t.Fatal(err)
	}
	if !e.Def.Columns[0].Unsigned {
		t.Fatalf("expected column 0 marked unsigned: %+v", e.Def.Columns[0])
	}
}
