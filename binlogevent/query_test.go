package binlogevent

import (
	"bytes"
	"testing"

	"github.com/relayforge/binlogevent/catalog"
	"github.com/relayforge/binlogevent/reader"
)

func TestDecodeQuery_Basic(t *testing.T) {
	raw := []byte{
		1, 0, 0, 0, // slave_proxy_id
		2, 0, 0, 0, // execution_time
		4,    // schema_length
		0, 0, // error_code
		5, 0, // status_vars_length
		byte(catalog.StatusFlags2), 1, 0, 0, 0, // a single status var
		't', 'e', 's', 't', 0, // schema + NUL
	}
	raw = append(raw, []byte("SELECT 1")...)

	r := reader.New(bytes.NewReader(raw), 0)
	e, err := decodeQuery(r, 0)
	if err != nil {
		t.Fatal(err)
	}
	if e.Schema != "test" || e.Query != "SELECT 1" {
		t.Fatalf("query = %+v", e)
	}
	if len(e.StatusVars) != 1 || e.StatusVars[0].Code != catalog.StatusFlags2 {
		t.Fatalf("status vars = %+v", e.StatusVars)
	}
	if e.StatusVars[0].Value.(uint32) != 1 {
		t.Fatalf("flags2 value = %+v", e.StatusVars[0].Value)
	}
}

func TestDecodeQuery_MaxQueryLengthTruncates(t *testing.T) {
	raw := []byte{
		1, 0, 0, 0,
		2, 0, 0, 0,
		4,
		0, 0,
		0, 0, // status_vars_length: none
		't', 'e', 's', 't', 0,
	}
	raw = append(raw, []byte("SELECT 1")...)

	r := reader.New(bytes.NewReader(raw), 0)
	e, err := decodeQuery(r, 6)
	if err != nil {
		t.Fatal(err)
	}
	if e.Query != "SELECT" {
		t.Fatalf("truncated query = %q", e.Query)
	}
}

func TestDecodeStatusVars_UnrecognizedCodeFails(t *testing.T) {
	raw := []byte{0xfe} // code 254 is not a known status var code
	r := reader.New(bytes.NewReader(raw), 0)
	if _, err := decodeStatusVars(r, uint64(len(raw))); err == nil {
		t.Fatal("expected an error for an unrecognized status var code")
	}
}

func TestDecodeStatusVars_AutoIncrementAndCharset(t *testing.T) {
	raw := []byte{
		byte(catalog.StatusAutoIncrement), 3, 0, 5, 0,
		byte(catalog.StatusCharset), 1, 0, 2, 0, 3, 0,
	}
	r := reader.New(bytes.NewReader(raw), 0)
	vars, err := decodeStatusVars(r, uint64(len(raw)))
	if err != nil {
		t.Fatal(err)
	}
	if vars[0].Value.([2]uint16) != [2]uint16{3, 5} {
		t.Fatalf("autoincrement = %+v", vars[0].Value)
	}
	cs := vars[1].Value.(ChangedCharset)
	if cs.Client != 1 || cs.Conn != 2 || cs.Server != 3 {
		t.Fatalf("charset = %+v", cs)
	}
}
