// Package fields implements the primitive decoders the binlog event
// parser is built from (spec.md §6.2): little-endian integers,
// length-prefixed and null-terminated strings, MySQL's variable-length
// integer encoding, bit arrays, and bitmap-to-name-set decoding. Every
// function here reads from a *reader.Reader and returns either a value
// or an error — none of them know what event type they're being called
// from.
package fields

import (
	"bytes"

	dberrors "github.com/dropbox/godropbox/errors"

	"github.com/relayforge/binlogevent/reader"
)

// U8 reads one byte.
func U8(r *reader.Reader) (byte, error) {
	b, err := r.ReadN(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// U16 reads a little-endian uint16.
func U16(r *reader.Reader) (uint16, error) {
	b, err := r.ReadN(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0]) | uint16(b[1])<<8, nil
}

// U24 reads a little-endian 3-byte unsigned integer.
func U24(r *reader.Reader) (uint32, error) {
	b, err := r.ReadN(3)
	if err != nil {
		return 0, err
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16, nil
}

// U32 reads a little-endian uint32.
func U32(r *reader.Reader) (uint32, error) {
	b, err := r.ReadN(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}

// U48 reads a little-endian 48-bit unsigned integer — the width MySQL
// uses for table_id.
func U48(r *reader.Reader) (uint64, error) {
	b, err := r.ReadN(6)
	if err != nil {
		return 0, err
	}
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 |
		uint64(b[3])<<24 | uint64(b[4])<<32 | uint64(b[5])<<40, nil
}

// U64 reads a little-endian uint64.
func U64(r *reader.Reader) (uint64, error) {
	b, err := r.ReadN(8)
	if err != nil {
		return 0, err
	}
	var v uint64
	for i, c := range b {
		v |= uint64(c) << (uint(i) * 8)
	}
	return v, nil
}

// LengthEncodedInt reads a MySQL length-encoded integer ("varint" in
// spec.md terms): a 1-byte prefix that is either the value itself
// (<0xfb), or a marker selecting a 2-, 3-, or 8-byte little-endian
// integer that follows.
func LengthEncodedInt(r *reader.Reader) (uint64, error) {
	b, err := U8(r)
	if err != nil {
		return 0, err
	}
	switch b {
	case 0xfb:
		return 0, nil // NULL marker in the SQL wire protocol; binlog varints never emit it
	case 0xfc:
		v, err := U16(r)
		return uint64(v), err
	case 0xfd:
		v, err := U24(r)
		return uint64(v), err
	case 0xfe:
		return U64(r)
	default:
		return uint64(b), nil
	}
}

// FixedString reads exactly n bytes and returns them as a string.
func FixedString(r *reader.Reader, n int) (string, error) {
	b, err := r.ReadN(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ByteArray reads exactly n bytes verbatim.
func ByteArray(r *reader.Reader, n int) ([]byte, error) {
	return r.ReadN(n)
}

// NullTerminatedString reads exactly n bytes then verifies the final
// byte is a NUL terminator, returning the string without it (spec.md's
// nstringz).
func NullTerminatedString(r *reader.Reader, n int) (string, error) {
	b, err := r.ReadN(n)
	if err != nil {
		return "", err
	}
	if n == 0 || b[n-1] != 0 {
		return "", dberrors.New("fields: nstringz missing NUL terminator")
	}
	return string(b[:n-1]), nil
}

// PrefixedString reads a 1-byte length prefix followed by that many
// bytes (spec.md's lpstring).
func PrefixedString(r *reader.Reader) (string, error) {
	n, err := U8(r)
	if err != nil {
		return "", err
	}
	return FixedString(r, int(n))
}

// PrefixedNullTerminatedString reads a 1-byte length prefix, that many
// bytes, then a NUL terminator (spec.md's lpstringz) — the shape
// table_map_event uses for its db/table names.
func PrefixedNullTerminatedString(r *reader.Reader) (string, error) {
	n, err := U8(r)
	if err != nil {
		return "", err
	}
	return NullTerminatedString(r, int(n)+1)
}

// StringUntilNUL scans forward for a NUL byte without a declared length
// (used where the source reads a C string one byte-scan at a time
// rather than via a length prefix).
func StringUntilNUL(r *reader.Reader) (string, error) {
	var buf []byte
	for {
		b, err := U8(r)
		if err != nil {
			return "", err
		}
		if b == 0 {
			return string(buf), nil
		}
		buf = append(buf, b)
	}
}

// RemainingString consumes every byte left in r's current bound (or up
// to EOF if r is unbounded) and returns it as a string (spec.md's several "whose length is `remaining`
// at read time" fields: rotate_event's file name, query_event's query
// text).
func RemainingString(r *reader.Reader) (string, error) {
	b, err := RemainingBytes(r)
	return string(b), err
}

// RemainingBytes consumes every byte left in r's current bound, or every
// byte up to the source's EOF if r is unbounded.
func RemainingBytes(r *reader.Reader) ([]byte, error) {
	if n := r.Remaining(); n > 0 {
		return r.ReadN(int(n))
	}
	var out []byte
	for r.More() {
		b, err := r.ReadN(1)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

// BitArray reads ⌈n/8⌉ bytes and returns n booleans, bit i taken from
// byte i/8, bit i%8 (LSB-first — the packed layout MySQL uses for
// nullability and columns-used bitmaps).
func BitArray(r *reader.Reader, n int) ([]bool, error) {
	nbytes := (n + 7) / 8
	raw, err := r.ReadN(nbytes)
	if err != nil {
		return nil, err
	}
	bits := make([]bool, n)
	for i := 0; i < n; i++ {
		bits[i] = raw[i/8]&(1<<uint(i%8)) != 0
	}
	return bits, nil
}

// BitmapSpec names one bit of a size-byte bitmap for
// BitmapSubsetByName.
type BitmapSpec struct {
	Name string
	Mask uint64
}

// BitmapSubsetByName reads `size` bytes as a little-endian bitmap and
// returns the subset of spec's named bits that are set — spec.md's
// uint_bitmap_by_size_and_name.
func BitmapSubsetByName(r *reader.Reader, size int, spec []BitmapSpec) ([]string, error) {
	raw, err := r.ReadN(size)
	if err != nil {
		return nil, err
	}
	var v uint64
	for i := 0; i < size && i < 8; i++ {
		v |= uint64(raw[i]) << (uint(i) * 8)
	}
	var names []string
	for _, s := range spec {
		if v&s.Mask != 0 {
			names = append(names, s.Name)
		}
	}
	return names, nil
}

// TrimTrailingNUL cuts s at its first NUL byte, if any, dropping that
// byte and everything after it; used when a fixed-width field
// (format_description_event's server_version) is null-padded rather
// than null-terminated.
func TrimTrailingNUL(s string) string {
	if i := bytes.IndexByte([]byte(s), 0); i != -1 {
		return s[:i]
	}
	return s
}
