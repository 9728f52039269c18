package binlogevent

import (
	"bytes"
	"testing"

	"github.com/relayforge/binlogevent/catalog"
	"github.com/relayforge/binlogevent/reader"
)

func TestDecodeHeader_V4(t *testing.T) {
	raw := []byte{
		0x01, 0x00, 0x00, 0x00, // timestamp
		0x02,                   // event_type = query
		0x07, 0x00, 0x00, 0x00, // server_id
		0x20, 0x00, 0x00, 0x00, // event_size = 32
		0x99, 0x00, 0x00, 0x00, // log_pos
		0x00, 0x00, // flags
	}
	r := reader.New(bytes.NewReader(raw), 0)
	h, err := decodeHeader(r, 4)
	if err != nil {
		t.Fatal(err)
	}
	if h.EventType != catalog.QueryEvent || h.ServerID != 7 || h.EventSize != 32 || h.LogPos != 0x99 {
		t.Fatalf("header = %+v", h)
	}
	if got := h.bodySize(headerSizeV4); got != 13 {
		t.Fatalf("bodySize = %d", got)
	}
}

func TestDecodeHeader_V1_NoLogPosOrFlags(t *testing.T) {
	raw := []byte{
		0x01, 0x00, 0x00, 0x00,
		0x04, // rotate
		0x07, 0x00, 0x00, 0x00,
		0x15, 0x00, 0x00, 0x00, // event_size = 21
	}
	r := reader.New(bytes.NewReader(raw), 0)
	h, err := decodeHeader(r, 1)
	if err != nil {
		t.Fatal(err)
	}
	if h.LogPos != 0 || h.Flags.Raw() != 0 {
		t.Fatalf("v1 header should carry no log_pos/flags: %+v", h)
	}
	if got := h.bodySize(headerSizeV1); got != 8 {
		t.Fatalf("bodySize = %d", got)
	}
}

func TestDecodeHeader_EventSizeTooSmall(t *testing.T) {
	raw := []byte{
		0x01, 0x00, 0x00, 0x00,
		0x02,
		0x07, 0x00, 0x00, 0x00,
		0x05, 0x00, 0x00, 0x00, // event_size = 5, smaller than the v4 header itself
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00,
	}
	r := reader.New(bytes.NewReader(raw), 0)
	if _, err := decodeHeader(r, 4); err == nil {
		t.Fatal("expected an error for event_size smaller than header size")
	}
}
