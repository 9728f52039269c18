// Package catalog holds the static lookup tables the binlog format is
// built from: event-type codes, header flag bits, query-event status
// variable codes, and MySQL column type codes. None of it depends on a
// byte stream; it exists so the rest of the module can talk about the
// wire format symbolically instead of in raw integers.
package catalog

import "fmt"

// EventType is the single byte that selects a body parser in the event
// header. The numeric assignments are MySQL's own and must not be
// renumbered.
//
// https://dev.mysql.com/doc/internals/en/binlog-event-type.html
type EventType uint8

const (
	UnknownEvent            EventType = 0x00
	StartEventV3             EventType = 0x01
	QueryEvent               EventType = 0x02
	StopEvent                EventType = 0x03
	RotateEvent              EventType = 0x04
	IntvarEvent              EventType = 0x05
	LoadEvent                EventType = 0x06
	SlaveEvent               EventType = 0x07
	CreateFileEvent          EventType = 0x08
	AppendBlockEvent         EventType = 0x09
	ExecLoadEvent            EventType = 0x0a
	DeleteFileEvent          EventType = 0x0b
	NewLoadEvent             EventType = 0x0c
	RandEvent                EventType = 0x0d
	UserVarEvent             EventType = 0x0e
	FormatDescriptionEvent   EventType = 0x0f
	XIDEvent                 EventType = 0x10
	BeginLoadQueryEvent      EventType = 0x11
	ExecuteLoadQueryEvent    EventType = 0x12
	TableMapEvent            EventType = 0x13
	WriteRowsEventV0         EventType = 0x14
	UpdateRowsEventV0        EventType = 0x15
	DeleteRowsEventV0        EventType = 0x16
	WriteRowsEventV1         EventType = 0x17
	UpdateRowsEventV1        EventType = 0x18
	DeleteRowsEventV1        EventType = 0x19
	IncidentEvent            EventType = 0x1a
	HeartbeatEvent           EventType = 0x1b
	IgnorableEvent           EventType = 0x1c
	RowsQueryEvent           EventType = 0x1d
	WriteRowsEventV2         EventType = 0x1e
	UpdateRowsEventV2        EventType = 0x1f
	DeleteRowsEventV2        EventType = 0x20
	GTIDEvent                EventType = 0x21
	AnonymousGTIDEvent       EventType = 0x22
	PreviousGTIDsEvent       EventType = 0x23
)

var eventTypeNames = map[EventType]string{
	UnknownEvent:           "unknown",
	StartEventV3:           "start_v3",
	QueryEvent:             "query",
	StopEvent:              "stop",
	RotateEvent:            "rotate",
	IntvarEvent:            "intvar",
	LoadEvent:              "load",
	SlaveEvent:             "slave",
	CreateFileEvent:        "create_file",
	AppendBlockEvent:       "append_block",
	ExecLoadEvent:          "exec_load",
	DeleteFileEvent:        "delete_file",
	NewLoadEvent:           "new_load",
	RandEvent:              "rand",
	UserVarEvent:           "user_var",
	FormatDescriptionEvent: "format_description",
	XIDEvent:               "xid",
	BeginLoadQueryEvent:    "begin_load_query",
	ExecuteLoadQueryEvent:  "execute_load_query",
	TableMapEvent:          "table_map",
	WriteRowsEventV0:       "pre_ga_write_rows",
	UpdateRowsEventV0:      "pre_ga_update_rows",
	DeleteRowsEventV0:      "pre_ga_delete_rows",
	WriteRowsEventV1:       "write_rows",
	UpdateRowsEventV1:      "update_rows",
	DeleteRowsEventV1:      "delete_rows",
	IncidentEvent:          "incident",
	HeartbeatEvent:         "heartbeat",
	IgnorableEvent:         "ignorable",
	RowsQueryEvent:         "rows_query",
	WriteRowsEventV2:       "write_rows",
	UpdateRowsEventV2:      "update_rows",
	DeleteRowsEventV2:      "delete_rows",
	GTIDEvent:              "gtid",
	AnonymousGTIDEvent:     "anonymous_gtid",
	PreviousGTIDsEvent:     "previous_gtids",
}

// String renders the symbolic name for t, or its hex code if t falls
// outside the closed enumeration (spec.md treats an out-of-range code as
// the unknown variant, never a fatal error).
func (t EventType) String() string {
	if s, ok := eventTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("event(0x%02x)", uint8(t))
}

// Known reports whether t is one of the 36 codes (0x00-0x23) this
// catalog names.
func (t EventType) Known() bool {
	_, ok := eventTypeNames[t]
	return ok
}

func (t EventType) IsWriteRows() bool {
	return t == WriteRowsEventV0 || t == WriteRowsEventV1 || t == WriteRowsEventV2
}

func (t EventType) IsUpdateRows() bool {
	return t == UpdateRowsEventV0 || t == UpdateRowsEventV1 || t == UpdateRowsEventV2
}

func (t EventType) IsDeleteRows() bool {
	return t == DeleteRowsEventV0 || t == DeleteRowsEventV1 || t == DeleteRowsEventV2
}

func (t EventType) IsRowsEvent() bool {
	return t.IsWriteRows() || t.IsUpdateRows() || t.IsDeleteRows()
}
