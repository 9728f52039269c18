package binlogevent

import (
	"github.com/relayforge/binlogevent/fields"
	"github.com/relayforge/binlogevent/reader"
)

// decodeOpaque reads whatever bytes remain in the body as-is, used for
// event types this package recognizes by name but chooses not to
// decode (legacy pre-GA and load-file events, spec.md's Non-goals)
// and, under SkipUnknown, for types it doesn't recognize at all.
func decodeOpaque(r *reader.Reader) (OpaqueEvent, error) {
	raw, err := fields.RemainingBytes(r)
	if err != nil {
		return OpaqueEvent{}, err
	}
	return OpaqueEvent{Raw: raw}, nil
}
