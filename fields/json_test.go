package fields

import (
	"reflect"
	"testing"
)

func TestDecodeJSON_Literal(t *testing.T) {
	got, err := DecodeJSON([]byte{jsonLiteral, 0x01})
	if err != nil {
		t.Fatal(err)
	}
	if got != true {
		t.Fatalf("got %v", got)
	}
}

func TestDecodeJSON_Int16(t *testing.T) {
	got, err := DecodeJSON([]byte{jsonInt16, 0x2a, 0x00})
	if err != nil {
		t.Fatal(err)
	}
	if got != int16(42) {
		t.Fatalf("got %v", got)
	}
}

func TestDecodeJSON_String(t *testing.T) {
	// "hi" -> varlen(2) then bytes
	got, err := DecodeJSON([]byte{jsonString, 2, 'h', 'i'})
	if err != nil {
		t.Fatal(err)
	}
	if got != "hi" {
		t.Fatalf("got %v", got)
	}
}

func TestDecodeJSON_SmallArray(t *testing.T) {
	// small array of one inline int16 value: 42
	data := []byte{
		jsonSmallArr,
		1, 0, // element count = 1
		0, 0, // byte size field (unused by decoder)
		jsonInt16, 42, 0, // inline element
	}
	got, err := DecodeJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	want := []interface{}{int16(42)}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}
