package binlogevent

import (
	dberrors "github.com/dropbox/godropbox/errors"

	"github.com/relayforge/binlogevent/reader"
	"github.com/relayforge/binlogevent/tablecache"
)

// Sentinel errors a Decoder can return from Next, grounded on the
// legacy decoder's bare fmt.Errorf calls (binlog.go, rbr.go) but typed
// here so callers can distinguish them with the Is* helpers below or
// dberrors.IsError rather than string-matching.
var (
	// ErrMalformedHeader is returned when a common event header is cut
	// short after its leading timestamp field, or declares an event_size
	// too small to contain the header it's attached to. A stream that
	// ends before the timestamp is complete yields reader.ErrShortRead
	// instead.
	ErrMalformedHeader = dberrors.New("binlogevent: malformed event header")

	// ErrOverReadStatus is returned when a query_event's status-variable
	// block would need to read past its declared status_vars_length to
	// finish decoding a variable it recognizes.
	ErrOverReadStatus = dberrors.New("binlogevent: status variable block over-read")

	// ErrOverReadRowImage is returned when a row image would need to
	// read past the row-mutation event's body boundary to finish
	// decoding a cell.
	ErrOverReadRowImage = dberrors.New("binlogevent: row image over-read")

	// ErrUnsupportedEvent is returned by Decoder.Next when asked to decode
	// a body for an event type this package does not implement a body
	// decoder for, and the caller's UnknownEventPolicy is RejectUnknown.
	ErrUnsupportedEvent = dberrors.New("binlogevent: unsupported event type")

	// ErrTrailingBodyBytes is returned when a body decoder finishes
	// before consuming its entire declared event body — a sign either
	// of a decoder bug or of a body shape this package misunderstood.
	ErrTrailingBodyBytes = dberrors.New("binlogevent: trailing bytes in event body")
)

// IsShortRead reports whether err is or wraps reader.ErrShortRead.
func IsShortRead(err error) bool { return dberrors.IsError(err, reader.ErrShortRead) }

// IsUnknownTableID reports whether err is or wraps
// tablecache.ErrUnknownTableID.
func IsUnknownTableID(err error) bool { return dberrors.IsError(err, tablecache.ErrUnknownTableID) }

// IsUnsupportedEvent reports whether err is or wraps ErrUnsupportedEvent.
func IsUnsupportedEvent(err error) bool { return dberrors.IsError(err, ErrUnsupportedEvent) }
