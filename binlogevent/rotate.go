package binlogevent

import (
	"github.com/relayforge/binlogevent/fields"
	"github.com/relayforge/binlogevent/reader"
)

// decodeRotate reads a rotate_event body (spec.md §4.2), grounded on
// the legacy decoder's RotateEvent.decode (events.go). binlogVersion 1
// never carries a position field, since the original file-switching
// protocol it predates had no notion of position.
func decodeRotate(r *reader.Reader, binlogVersion uint16) (RotateEvent, error) {
	var e RotateEvent
	if binlogVersion > 1 {
		pos, err := fields.U64(r)
		if err != nil {
			return e, err
		}
		e.Position = pos
	}
	name, err := fields.RemainingString(r)
	if err != nil {
		return e, err
	}
	e.NextBinlog = name
	return e, nil
}
