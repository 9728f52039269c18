// Package binlogevent decodes a MySQL binary log event stream: the
// 19-byte common header every event shares, and the per-event-type
// body that follows it (spec.md §§2-5). It is built on top of the
// reader, fields, catalog, and tablecache packages, none of which know
// anything about the event stream itself.
package binlogevent

import (
	dberrors "github.com/dropbox/godropbox/errors"

	"github.com/relayforge/binlogevent/catalog"
	"github.com/relayforge/binlogevent/fields"
	"github.com/relayforge/binlogevent/reader"
)

// headerSizeV1 and headerSizeV4 are the two header widths a
// format_description_event's binlog_version can declare. MySQL has
// shipped binlog_version 4 since 5.0; version 1 survives only as a
// historical curiosity this decoder still honors, grounded on the
// legacy decoder's own r.fde.BinlogVersion branch in events.go.
const (
	headerSizeV1 = 13
	headerSizeV4 = 19
)

// Header is the common event header every binlog event begins with
// (spec.md §2).
type Header struct {
	Timestamp uint32
	EventType catalog.EventType
	ServerID  uint32
	EventSize uint32
	LogPos    uint32 // absolute position of this event's end, binlog_version > 1 only
	Flags     catalog.HeaderFlags
}

// decodeHeader reads the common header, sizing it according to
// binlogVersion (spec.md §2's "the header's own width depends on the
// format_description_event that precedes it in the same file").
func decodeHeader(r *reader.Reader, binlogVersion uint16) (Header, error) {
	var h Header
	ts, err := fields.U32(r)
	if err != nil {
		// Left as reader.ErrShortRead: at a clean event boundary this is
		// how the end of the stream surfaces to Next's caller.
		return h, err
	}
	h.Timestamp = ts

	typ, err := fields.U8(r)
	if err != nil {
		return h, dberrors.Wrap(ErrMalformedHeader, err.Error())
	}
	h.EventType = catalog.EventType(typ)

	serverID, err := fields.U32(r)
	if err != nil {
		return h, dberrors.Wrap(ErrMalformedHeader, err.Error())
	}
	h.ServerID = serverID

	eventSize, err := fields.U32(r)
	if err != nil {
		return h, dberrors.Wrap(ErrMalformedHeader, err.Error())
	}
	h.EventSize = eventSize

	headerSize := uint32(headerSizeV1)
	if binlogVersion > 1 {
		headerSize = headerSizeV4
		logPos, err := fields.U32(r)
		if err != nil {
			return h, dberrors.Wrap(ErrMalformedHeader, err.Error())
		}
		h.LogPos = logPos

		flags, err := fields.U16(r)
		if err != nil {
			return h, dberrors.Wrap(ErrMalformedHeader, err.Error())
		}
		h.Flags = catalog.DecodeHeaderFlags(flags)
	}

	if h.EventSize < headerSize {
		return h, dberrors.Wrapf(ErrMalformedHeader, "event_size %d smaller than header size %d", h.EventSize, headerSize)
	}

	return h, nil
}

// bodySize returns how many bytes of body (including the trailing
// checksum, if any) follow the header, given the header width just
// decoded.
func (h Header) bodySize(headerSize uint32) uint64 {
	return uint64(h.EventSize - headerSize)
}
