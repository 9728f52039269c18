package binlogevent

import (
	"github.com/relayforge/binlogevent/fields"
	"github.com/relayforge/binlogevent/reader"
)

// Intvar kinds (spec.md §4.4): which session variable an intvar_event
// is restoring for the statement that follows it.
const (
	IntVarLastInsertID   = 1
	IntVarInsertIDSeed   = 2
)

// decodeIntVar reads an intvar_event body, grounded on the legacy
// decoder's IntVarEvent.decode (events.go).
func decodeIntVar(r *reader.Reader) (IntVarEvent, error) {
	var e IntVarEvent
	kind, err := fields.U8(r)
	if err != nil {
		return e, err
	}
	e.Kind = kind
	v, err := fields.U64(r)
	if err != nil {
		return e, err
	}
	e.Value = v
	return e, nil
}

// decodeXID reads an xid_event body, grounded on the legacy decoder's
// XIDEvent.decode (events.go): a single 8-byte transaction id.
func decodeXID(r *reader.Reader) (XIDEvent, error) {
	var e XIDEvent
	v, err := fields.U64(r)
	if err != nil {
		return e, err
	}
	e.XID = v
	return e, nil
}

// decodeRand reads a rand_event body, grounded on the legacy decoder's
// RandEvent.decode (events.go): the two seeds backing RAND()'s
// statement-based replication replay.
func decodeRand(r *reader.Reader) (RandEvent, error) {
	var e RandEvent
	s1, err := fields.U64(r)
	if err != nil {
		return e, err
	}
	s2, err := fields.U64(r)
	if err != nil {
		return e, err
	}
	e.Seed1, e.Seed2 = s1, s2
	return e, nil
}

// decodeUserVar reads a user_var_event body, grounded on the legacy
// decoder's UserVarEvent.decode (events.go). A NULL user variable
// carries no type/charset/value/flags at all past the name.
func decodeUserVar(r *reader.Reader) (UserVarEvent, error) {
	var e UserVarEvent

	name, err := fields.PrefixedString(r)
	if err != nil {
		return e, err
	}
	e.Name = name

	isNull, err := fields.U8(r)
	if err != nil {
		return e, err
	}
	if isNull != 0 {
		e.IsNull = true
		return e, nil
	}

	typ, err := fields.U8(r)
	if err != nil {
		return e, err
	}
	e.Type = typ

	charset, err := fields.U32(r)
	if err != nil {
		return e, err
	}
	e.Charset = charset

	valueLen, err := fields.U32(r)
	if err != nil {
		return e, err
	}
	value, err := fields.ByteArray(r, int(valueLen))
	if err != nil {
		return e, err
	}
	e.Value = value

	if r.More() {
		flags, err := fields.U8(r)
		if err != nil {
			return e, err
		}
		e.Unsigned = flags&0x01 != 0
	}

	return e, nil
}

// decodeIncident reads an incident_event body, grounded on the legacy
// decoder's IncidentEvent.decode (events.go): a replication-incident
// code the source injects when it can no longer guarantee the stream
// is complete (e.g. a statement too large to log safely).
func decodeIncident(r *reader.Reader) (IncidentEvent, error) {
	var e IncidentEvent
	typ, err := fields.U16(r)
	if err != nil {
		return e, err
	}
	e.Type = typ
	msg, err := fields.PrefixedString(r)
	if err != nil {
		return e, err
	}
	e.Message = msg
	return e, nil
}

// decodeRowsQuery reads a rows_query_event body: the original SQL
// statement responsible for a following group of row events, carried
// purely for diagnostics (binlog_rows_query_log_events). Supplemented
// beyond the distilled event list, grounded on vitess's
// binlog_event.go RowsQuery() accessor.
func decodeRowsQuery(r *reader.Reader) (RowsQueryEvent, error) {
	var e RowsQueryEvent
	if err := r.Skip(1); err != nil { // unused length byte, ignored like vitess does
		return e, err
	}
	q, err := fields.RemainingString(r)
	if err != nil {
		return e, err
	}
	e.Query = q
	return e, nil
}

// decodeStop and decodeHeartbeat carry no body at all.
func decodeStop() StopEvent           { return StopEvent{} }
func decodeHeartbeat() HeartbeatEvent { return HeartbeatEvent{} }
