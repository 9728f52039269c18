package tablecache

import "testing"

func TestCache_PutLookup(t *testing.T) {
	c := New()
	def := &TableDef{Schema: "s", Table: "t"}
	c.Put(7, def)

	got, err := c.Lookup(7)
	if err != nil {
		t.Fatal(err)
	}
	if got != def {
		t.Fatalf("got %v, want %v", got, def)
	}
}

func TestCache_LookupUnknown(t *testing.T) {
	c := New()
	if _, err := c.Lookup(1); err == nil {
		t.Fatal("want error for unknown table_id")
	}
}

func TestCache_Reset(t *testing.T) {
	c := New()
	c.Put(1, &TableDef{})
	c.Put(2, &TableDef{})
	c.Reset()
	if _, err := c.Lookup(1); err == nil {
		t.Fatal("want error after Reset")
	}
	if _, err := c.Lookup(2); err == nil {
		t.Fatal("want error after Reset")
	}
}

func TestCache_PutOverwrites(t *testing.T) {
	c := New()
	c.Put(1, &TableDef{Table: "old"})
	c.Put(1, &TableDef{Table: "new"})
	got, err := c.Lookup(1)
	if err != nil {
		t.Fatal(err)
	}
	if got.Table != "new" {
		t.Fatalf("got %q, want %q", got.Table, "new")
	}
}
