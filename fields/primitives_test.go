package fields

import (
	"bytes"
	"testing"

	"github.com/relayforge/binlogevent/reader"
)

func rd(b ...byte) *reader.Reader {
	return reader.New(bytes.NewReader(b), 0)
}

func TestU16U32U48U64(t *testing.T) {
	if v, err := U16(rd(0x01, 0x02)); err != nil || v != 0x0201 {
		t.Fatalf("U16 = %v, %v", v, err)
	}
	if v, err := U32(rd(0x01, 0x00, 0x00, 0x00)); err != nil || v != 1 {
		t.Fatalf("U32 = %v, %v", v, err)
	}
	if v, err := U48(rd(0xff, 0, 0, 0, 0, 0)); err != nil || v != 0xff {
		t.Fatalf("U48 = %v, %v", v, err)
	}
	if v, err := U64(rd(1, 0, 0, 0, 0, 0, 0, 0)); err != nil || v != 1 {
		t.Fatalf("U64 = %v, %v", v, err)
	}
}

func TestLengthEncodedInt(t *testing.T) {
	if v, err := LengthEncodedInt(rd(5)); err != nil || v != 5 {
		t.Fatalf("literal = %v, %v", v, err)
	}
	if v, err := LengthEncodedInt(rd(0xfc, 0x10, 0x00)); err != nil || v != 0x10 {
		t.Fatalf("u16 form = %v, %v", v, err)
	}
	if v, err := LengthEncodedInt(rd(0xfd, 0x01, 0x00, 0x00)); err != nil || v != 1 {
		t.Fatalf("u24 form = %v, %v", v, err)
	}
	if v, err := LengthEncodedInt(rd(0xfe, 2, 0, 0, 0, 0, 0, 0, 0)); err != nil || v != 2 {
		t.Fatalf("u64 form = %v, %v", v, err)
	}
}

func TestNullTerminatedString(t *testing.T) {
	s, err := NullTerminatedString(rd('a', 'b', 0), 3)
	if err != nil || s != "ab" {
		t.Fatalf("got %q, %v", s, err)
	}
	if _, err := NullTerminatedString(rd('a', 'b', 'c'), 3); err == nil {
		t.Fatal("want error for missing NUL")
	}
}

func TestPrefixedNullTerminatedString(t *testing.T) {
	s, err := PrefixedNullTerminatedString(rd(2, 'h', 'i', 0))
	if err != nil || s != "hi" {
		t.Fatalf("got %q, %v", s, err)
	}
}

func TestBitArray(t *testing.T) {
	bits, err := BitArray(rd(0x05), 4) // 0b0101
	if err != nil {
		t.Fatal(err)
	}
	want := []bool{true, false, true, false}
	for i, w := range want {
		if bits[i] != w {
			t.Fatalf("bit %d = %v, want %v", i, bits[i], w)
		}
	}
}

func TestBitmapSubsetByName(t *testing.T) {
	spec := []BitmapSpec{{Name: "a", Mask: 0x01}, {Name: "b", Mask: 0x02}, {Name: "c", Mask: 0x04}}
	names, err := BitmapSubsetByName(rd(0x05), 1, spec) // a|c
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "a" || names[1] != "c" {
		t.Fatalf("got %v", names)
	}
}
