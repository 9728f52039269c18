package binlogevent

import (
	"github.com/relayforge/binlogevent/catalog"
	"github.com/relayforge/binlogevent/tablecache"
)

// Event is one decoded binlog event: its common header plus whatever
// concrete body type Body holds (spec.md §2's top-level Event shape).
type Event struct {
	Header Header
	Body   interface{}
}

// FormatDescriptionEvent describes the binlog stream's own format
// (spec.md §4.1) and is always the first event of a binlog file.
type FormatDescriptionEvent struct {
	BinlogVersion          uint16
	ServerVersion          string
	CreateTimestamp        uint32
	EventHeaderLength      uint8
	EventTypeHeaderLengths []byte
	ChecksumAlgorithm      uint8 // 0 = none, 1 = CRC32; present only when the body carries a trailing byte for it
}

// RotateEvent announces a switch to a new binlog file (spec.md §4.2).
type RotateEvent struct {
	Position   uint64
	NextBinlog string
}

// QueryEvent carries a non-row-based SQL statement plus its session
// status variables (spec.md §4.3/§4.5).
type QueryEvent struct {
	SlaveProxyID  uint32
	ExecutionTime uint32
	ErrorCode     uint16
	StatusVars    []StatusVar
	Schema        string
	Query         string
}

// StatusVar is one decoded entry of a query_event's status-variable
// block (spec.md §4.5). Value holds the concrete decoded payload (see
// query.go). Raw is never populated by this package: every code it
// recognizes is decoded into Value, and any other code fails the
// query_event decode.
type StatusVar struct {
	Code  catalog.StatusVarCode
	Value interface{}
	Raw   []byte
}

// IntVarEvent records an AUTO_INCREMENT or LAST_INSERT_ID() value used
// by the statement that follows it (spec.md §4.4).
type IntVarEvent struct {
	Kind  uint8
	Value uint64
}

// XIDEvent marks the commit of an InnoDB transaction (spec.md §4.4).
type XIDEvent struct {
	XID uint64
}

// RandEvent records the RAND() seed pair for the statement that follows
// it (spec.md §4.4).
type RandEvent struct {
	Seed1 uint64
	Seed2 uint64
}

// UserVarEvent records a user variable's value for the statement that
// follows it (spec.md §4.4).
type UserVarEvent struct {
	Name     string
	IsNull   bool
	Type     uint8
	Charset  uint32
	Value    []byte
	Unsigned bool
}

// StopEvent marks the end of binlog writing for the server instance
// that wrote it (spec.md §4.4).
type StopEvent struct{}

// HeartbeatEvent is a keepalive sent by a master to a connected replica;
// it is never written to a binlog file (spec.md §4.4).
type HeartbeatEvent struct{}

// IncidentEvent notifies a replica that something exceptional happened
// on the source that may have left it in an inconsistent state (spec.md
// §4.4).
type IncidentEvent struct {
	Type    uint16
	Message string
}

// RowsQueryEvent carries the original SQL text behind a row-based
// mutation, present only when binlog_rows_query_log_events is enabled
// (supplemented beyond spec.md's distilled event list; see SPEC_FULL.md
// §9).
type RowsQueryEvent struct {
	Query string
}

// TableMapEvent announces a table definition that subsequent row
// events in the same transaction will reference by TableID (spec.md
// §4.6). Def is also installed into the decoder's table-map cache as a
// side effect of decoding this event.
type TableMapEvent struct {
	TableID uint64
	Flags   uint16
	Def     *tablecache.TableDef
}

// Cell is one decoded column value of a row image (spec.md §4.7). Its
// Kind discriminates between a value present in the row image, an
// explicit SQL NULL, and a column absent from the image entirely (an
// UPDATE/partial-image column the statement didn't touch).
type Cell struct {
	Kind  CellKind
	Value interface{}
}

// CellKind tags a Cell's state.
type CellKind int

const (
	// CellAbsent marks a column not present in this row image at all
	// (excluded by the columns-used bitmap).
	CellAbsent CellKind = iota
	// CellNull marks a column present but SQL NULL.
	CellNull
	// CellValue marks a column present with a decoded value.
	CellValue
)

// RowImage is one row's worth of decoded cells, aligned to the
// table_map_event's column order (spec.md §4.7).
type RowImage struct {
	Cells []Cell
}

// RowsEvent is a write/update/delete row-based mutation (spec.md §4.7).
// For update events, Rows holds one entry per updated row with both its
// before- and after-images; for write/delete events only After (or
// Before, respectively) is populated.
type RowsEvent struct {
	TableID   uint64
	Table     *tablecache.TableDef
	Flags     catalog.RowsEventFlags
	IsWrite   bool
	IsUpdate  bool
	IsDelete  bool
	Rows      []RowMutation
}

// RowMutation is one row's before/after image within a RowsEvent.
// Exactly one of Before/After is set for write and delete events; both
// are set for update events.
type RowMutation struct {
	Before *RowImage
	After  *RowImage
}

// OpaqueEvent wraps the raw, undecoded body of an event this package
// chose not to parse under SkipUnknown: a type it has no decoder for,
// or a recognized-but-out-of-scope type (legacy pre-GA rows events,
// load-file events). Raw never includes the trailing checksum.
type OpaqueEvent struct {
	Raw []byte
}

// UnknownEventPolicy controls how a Decoder handles an event type it
// has no dedicated body decoder for (spec.md §9's "policy is a decoder
// construction parameter, not a hardcoded choice" design note).
type UnknownEventPolicy int

const (
	// SkipUnknown returns an OpaqueEvent carrying the unparsed body
	// bytes. This is the default.
	SkipUnknown UnknownEventPolicy = iota
	// RejectUnknown returns ErrUnsupportedEvent instead of an event.
	RejectUnknown
)

// String renders p for logging.
func (p UnknownEventPolicy) String() string {
	if p == RejectUnknown {
		return "reject"
	}
	return "skip"
}
