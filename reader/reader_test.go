package reader

import (
	"bytes"
	"testing"
)

func TestReader_ReadN(t *testing.T) {
	r := New(bytes.NewReader([]byte{1, 2, 3, 4, 5}), 0)
	got, err := r.ReadN(3)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte{1, 2, 3}) {
		t.Fatalf("got %v", got)
	}
	if r.Pos() != 3 {
		t.Fatalf("pos = %d, want 3", r.Pos())
	}
	got, err = r.ReadN(2)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte{4, 5}) {
		t.Fatalf("got %v", got)
	}
}

func TestReader_ShortRead(t *testing.T) {
	r := New(bytes.NewReader([]byte{1, 2}), 0)
	if _, err := r.ReadN(5); err == nil {
		t.Fatal("want error")
	}
}

func TestReader_Limited(t *testing.T) {
	r := New(bytes.NewReader([]byte{1, 2, 3, 4, 5}), 0)
	lr := r.Limited(3)
	if lr.Remaining() != 3 {
		t.Fatalf("remaining = %d, want 3", lr.Remaining())
	}
	if _, err := lr.ReadN(3); err != nil {
		t.Fatal(err)
	}
	if lr.Remaining() != 0 {
		t.Fatalf("remaining = %d, want 0", lr.Remaining())
	}
	if _, err := lr.ReadN(1); err == nil {
		t.Fatal("want over-read error past the bound")
	}
	lr.Unlimit()
	got, err := r.ReadN(2)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte{4, 5}) {
		t.Fatalf("got %v", got)
	}
}

func TestReader_NestedLimited(t *testing.T) {
	r := New(bytes.NewReader([]byte{1, 2, 3, 4, 5, 6, 7, 8}), 0)
	outer := r.Limited(6)
	if _, err := outer.ReadN(1); err != nil {
		t.Fatal(err)
	}
	inner := outer.Limited(2)
	if inner.Remaining() != 2 {
		t.Fatalf("inner remaining = %d, want 2", inner.Remaining())
	}
	if _, err := inner.ReadN(2); err != nil {
		t.Fatal(err)
	}
	if _, err := inner.ReadN(1); err == nil {
		t.Fatal("want over-read error past the inner bound")
	}
	inner.Unlimit()
	// Outer bound must reflect the 3 bytes already consumed (1 before the
	// inner bound, 2 during it), not reset to its original 6.
	if outer.Remaining() != 3 {
		t.Fatalf("outer remaining after inner Unlimit = %d, want 3", outer.Remaining())
	}
	if _, err := outer.ReadN(3); err != nil {
		t.Fatal(err)
	}
	if outer.Remaining() != 0 {
		t.Fatalf("outer remaining = %d, want 0", outer.Remaining())
	}
	if _, err := outer.ReadN(1); err == nil {
		t.Fatal("want over-read error past the outer bound")
	}
	outer.Unlimit()
	rest, err := r.ReadN(2)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(rest, []byte{7, 8}) {
		t.Fatalf("got %v", rest)
	}
}

func TestReader_Drain(t *testing.T) {
	r := New(bytes.NewReader([]byte{1, 2, 3, 4, 5, 6}), 0)
	lr := r.Limited(4)
	if err := lr.Drain(); err != nil {
		t.Fatal(err)
	}
	if lr.Remaining() != 0 {
		t.Fatalf("remaining = %d, want 0", lr.Remaining())
	}
	lr.Unlimit()
	rest, err := r.ReadN(2)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(rest, []byte{5, 6}) {
		t.Fatalf("got %v", rest)
	}
}

func TestReader_PeekMore(t *testing.T) {
	r := New(bytes.NewReader([]byte{9}), 0)
	if !r.More() {
		t.Fatal("want More() true")
	}
	b, err := r.Peek()
	if err != nil {
		t.Fatal(err)
	}
	if b != 9 {
		t.Fatalf("peek = %d, want 9", b)
	}
	if _, err := r.ReadN(1); err != nil {
		t.Fatal(err)
	}
	if r.More() {
		t.Fatal("want More() false at EOF")
	}
}
