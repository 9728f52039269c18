package tablecache

import (
	"bytes"
	"testing"

	"github.com/relayforge/binlogevent/catalog"
	"github.com/relayforge/binlogevent/reader"
)

func TestDecodeColumnMetadata_Mixed(t *testing.T) {
	// varchar(max=300) -> u16 le; newdecimal(10,2); blob length_size=2
	raw := []byte{
		0x2c, 0x01, // varchar max_length = 300
		10, 2, // newdecimal precision, decimals
		2, // blob length_size
	}
	r := reader.New(bytes.NewReader(raw), 0)

	types := []catalog.ColumnType{catalog.TypeVarchar, catalog.TypeNewDecimal, catalog.TypeBlob}
	finalTypes, metas, err := DecodeColumnMetadata(r, types, uint64(len(raw)))
	if err != nil {
		t.Fatal(err)
	}

	if finalTypes[0] != catalog.TypeVarchar || metas[0].Kind != MetaVarchar || metas[0].MaxLength != 300 {
		t.Fatalf("varchar meta = %+v", metas[0])
	}
	if metas[1].Kind != MetaNewDecimal || metas[1].Precision != 10 || metas[1].Decimals != 2 {
		t.Fatalf("decimal meta = %+v", metas[1])
	}
	if metas[2].Kind != MetaBlobLike || metas[2].LengthSize != 2 {
		t.Fatalf("blob meta = %+v", metas[2])
	}
}

func TestDecodeColumnMetadata_EnumRemap(t *testing.T) {
	raw := []byte{byte(catalog.TypeEnum), 1}
	r := reader.New(bytes.NewReader(raw), 0)

	finalTypes, metas, err := DecodeColumnMetadata(r, []catalog.ColumnType{catalog.TypeString}, uint64(len(raw)))
	if err != nil {
		t.Fatal(err)
	}
	if finalTypes[0] != catalog.TypeEnum {
		t.Fatalf("type = %v, want enum remap", finalTypes[0])
	}
	if metas[0].Kind != MetaStringLike || metas[0].EnumSetSize != 1 {
		t.Fatalf("meta = %+v", metas[0])
	}
}

func TestDecodeColumnMetadata_PlainStringNoRemap(t *testing.T) {
	raw := []byte{byte(catalog.TypeString), 10}
	r := reader.New(bytes.NewReader(raw), 0)

	finalTypes, metas, err := DecodeColumnMetadata(r, []catalog.ColumnType{catalog.TypeString}, uint64(len(raw)))
	if err != nil {
		t.Fatal(err)
	}
	if finalTypes[0] != catalog.TypeString {
		t.Fatalf("type = %v, want no remap", finalTypes[0])
	}
	if metas[0].MaxLength != 10 {
		t.Fatalf("meta = %+v", metas[0])
	}
}

func TestDecodeColumnMetadata_NoMetaType(t *testing.T) {
	r := reader.New(bytes.NewReader(nil), 0)
	finalTypes, metas, err := DecodeColumnMetadata(r, []catalog.ColumnType{catalog.TypeLong}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if finalTypes[0] != catalog.TypeLong || metas[0].Kind != MetaNone {
		t.Fatalf("meta = %+v", metas[0])
	}
}

func TestDecodeColumnMetadata_LengthMismatch(t *testing.T) {
	raw := []byte{4, 0xff} // float size byte, plus one stray extra byte
	r := reader.New(bytes.NewReader(raw), 0)
	_, _, err := DecodeColumnMetadata(r, []catalog.ColumnType{catalog.TypeFloat}, uint64(len(raw)))
	if err == nil {
		t.Fatal("want error on metadata_length mismatch")
	}
}
