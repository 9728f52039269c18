// Package tablecache holds the cross-event table-definition cache
// described in spec.md §3/§4.7/§5: a process-local, single-goroutine-
// owned mapping from table_id to the most recently decoded
// table_map_event for that id. Row-mutation events look up their
// table_id here to learn column types and metadata before they can
// decode a single cell.
package tablecache

import (
	dberrors "github.com/dropbox/godropbox/errors"

	"github.com/relayforge/binlogevent/catalog"
)

// Column describes one column of a cached table definition (spec.md
// §3's "Column descriptor").
type Column struct {
	Type     catalog.ColumnType
	Nullable bool
	Unsigned bool // additive: carried by table_map's optional signedness status block (§9 of SPEC_FULL.md)
	Name     string
	Meta     ColumnMeta
}

// TableDef is the cached definition installed by a table_map_event
// (spec.md §3's "Table definition").
type TableDef struct {
	Schema  string
	Table   string
	Columns []Column

	// Additive fields the legacy decoder this module was adapted from
	// also exposes (SPEC_FULL.md §9); spec.md's data model does not name
	// them, so consumers that only care about spec.md's shape can ignore
	// them entirely.
	DefaultCharset []byte
	ColumnCharsets []byte
}

// ErrUnknownTableID is returned by Lookup when no table_map_event has
// ever been installed for a table_id (spec.md §7 unknown_table_id).
var ErrUnknownTableID = dberrors.New("tablecache: unknown table_id")

// Cache is the table-map cache. It is owned by exactly one decoder
// instance and must not be shared across concurrently-decoding streams
// (spec.md §5); the zero value is not ready for use, call New.
type Cache struct {
	defs map[uint64]*TableDef
}

// New returns an empty Cache.
func New() *Cache {
	return &Cache{defs: make(map[uint64]*TableDef)}
}

// Put installs def under tableID, overwriting any prior definition for
// that id (spec.md's "monotonic in content per id" invariant — later
// table_map_events always win). Put is only ever called after a
// table_map_event body has been decoded in full, so a decode failure
// never leaves a partial definition installed (spec.md §7).
func (c *Cache) Put(tableID uint64, def *TableDef) {
	c.defs[tableID] = def
}

// Lookup returns the cached definition for tableID, or
// ErrUnknownTableID if none has been installed.
func (c *Cache) Lookup(tableID uint64) (*TableDef, error) {
	def, ok := c.defs[tableID]
	if !ok {
		return nil, dberrors.Wrapf(ErrUnknownTableID, "table_id=%d", tableID)
	}
	return def, nil
}

// Reset clears every cached definition. A rotate_event starts a fresh
// binlog file whose table_ids are not guaranteed to refer to the same
// tables, so a decoder resets its Cache on rotation (grounded on the
// legacy decoder's own dirReader, which clears its tmeCache the same
// way on file rotation).
func (c *Cache) Reset() {
	for k := range c.defs {
		delete(c.defs, k)
	}
}
