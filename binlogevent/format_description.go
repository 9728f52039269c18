package binlogevent

import (
	"github.com/relayforge/binlogevent/fields"
	"github.com/relayforge/binlogevent/reader"
)

// decodeFormatDescription reads a format_description_event body
// (spec.md §4.1), grounded on the legacy decoder's
// FormatDescriptionEvent.decode (events.go): a fixed header followed by
// one post-header-length byte per known event type, then — if the
// server has binlog checksums enabled — a trailing checksum-algorithm
// byte this decoder treats as part of the body rather than skipping
// blindly.
func decodeFormatDescription(r *reader.Reader) (FormatDescriptionEvent, error) {
	var e FormatDescriptionEvent

	v, err := fields.U16(r)
	if err != nil {
		return e, err
	}
	e.BinlogVersion = v

	serverVersion, err := fields.FixedString(r, 50)
	if err != nil {
		return e, err
	}
	e.ServerVersion = fields.TrimTrailingNUL(serverVersion)

	ts, err := fields.U32(r)
	if err != nil {
		return e, err
	}
	e.CreateTimestamp = ts

	headerLen, err := fields.U8(r)
	if err != nil {
		return e, err
	}
	e.EventHeaderLength = headerLen

	rest, err := fields.RemainingBytes(r)
	if err != nil {
		return e, err
	}
	if len(rest) > 0 {
		// The final byte, when present, is the checksum algorithm id
		// (0 = none, 1 = CRC32) introduced in MySQL 5.6.1; every byte
		// before it is one post-header length, indexed by event type.
		e.ChecksumAlgorithm = rest[len(rest)-1]
		e.EventTypeHeaderLengths = rest[:len(rest)-1]
	}

	return e, nil
}
