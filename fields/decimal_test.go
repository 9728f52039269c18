package fields

import "testing"

func TestNewDecimal_Positive(t *testing.T) {
	got, err := NewDecimal(rd(0x8C, 0x22), 4, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got.String() != "12.34" {
		t.Fatalf("got %s, want 12.34", got.String())
	}
}

func TestNewDecimal_Negative(t *testing.T) {
	got, err := NewDecimal(rd(0x73, 0xDD), 4, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got.String() != "-12.34" {
		t.Fatalf("got %s, want -12.34", got.String())
	}
}

func TestNewDecimal_WholeNumber(t *testing.T) {
	got, err := NewDecimal(rd(0x80, 0x7B), 3, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got.String() != "123" {
		t.Fatalf("got %s, want 123", got.String())
	}
}
