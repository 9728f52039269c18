package catalog

// StatusVarCode indexes the 1-byte code prefixing each typed variable in
// a query_event's status block (spec.md §4.5).
type StatusVarCode byte

const (
	StatusFlags2              StatusVarCode = 0
	StatusSQLMode              StatusVarCode = 1
	StatusCatalogDeprecated    StatusVarCode = 2
	StatusAutoIncrement        StatusVarCode = 3
	StatusCharset              StatusVarCode = 4
	StatusTimeZone             StatusVarCode = 5
	StatusCatalog              StatusVarCode = 6
	StatusLcTimeNames          StatusVarCode = 7
	StatusCharsetDatabase      StatusVarCode = 8
	StatusTableMapForUpdate    StatusVarCode = 9
	StatusMasterDataWritten    StatusVarCode = 10
	StatusInvoker              StatusVarCode = 11
)

var statusVarNames = map[StatusVarCode]string{
	StatusFlags2:            "flags2",
	StatusSQLMode:           "sql_mode",
	StatusCatalogDeprecated: "catalog_deprecated",
	StatusAutoIncrement:     "auto_increment",
	StatusCharset:           "charset",
	StatusTimeZone:          "time_zone",
	StatusCatalog:           "catalog",
	StatusLcTimeNames:       "lc_time_names",
	StatusCharsetDatabase:   "charset_database",
	StatusTableMapForUpdate: "table_map_for_update",
	StatusMasterDataWritten: "master_data_written",
	StatusInvoker:           "invoker",
}

func (c StatusVarCode) String() string {
	if s, ok := statusVarNames[c]; ok {
		return s
	}
	return "status_var(" + itoa(uint16(c)) + ")"
}

// HasPayloadParser reports whether this implementation knows how to
// decode the payload for c. spec.md §9 flags master_data_written (10)
// and invoker (11) as having no payload parser in the legacy source this
// spec was distilled from; this implementation extends coverage to both
// (their wire formats are small and well documented: a 4-byte counter
// and a pair of length-prefixed strings respectively) since leaving
// them unparsed would mean guessing how many bytes to skip — a bigger
// risk than simply decoding them. See DESIGN.md.
func (c StatusVarCode) HasPayloadParser() bool {
	_, ok := statusVarNames[c]
	return ok
}
