package fields

import (
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/relayforge/binlogevent/reader"
)

// digitsPerInteger and compressedBytes implement MySQL's "binary decimal"
// encoding: a NEWDECIMAL value is stored as an integral part and a
// fractional part, each split into 9-digit groups stored as big-endian
// uint32s, with any leftover digits narrower than 9 stored in the
// smallest byte width that holds them.
const digitsPerInteger = 9

var compressedBytes = [10]int{0, 1, 1, 2, 2, 3, 3, 4, 4, 4}

func decompressedValue(compIdx int, data []byte, mask byte) (size int, value uint32) {
	size = compressedBytes[compIdx]
	switch size {
	case 1:
		value = uint32(data[0] ^ mask)
	case 2:
		value = uint32(data[1]^mask) | uint32(data[0]^mask)<<8
	case 3:
		value = uint32(data[2]^mask) | uint32(data[1]^mask)<<8 | uint32(data[0]^mask)<<16
	case 4:
		value = uint32(data[3]^mask) | uint32(data[2]^mask)<<8 | uint32(data[1]^mask)<<16 | uint32(data[0]^mask)<<24
	}
	return size, value
}

// NewDecimal decodes a NEWDECIMAL cell given its column's precision and
// decimals (from table_map_event metadata), grounded on the binary
// decimal layout MySQL's strings/decimal.c produces and that several
// binlog decoders in the wild (python-mysql-replication and its many Go
// ports) reimplement the same way.
func NewDecimal(r *reader.Reader, precision, decimals int) (decimal.Decimal, error) {
	integral := precision - decimals
	uncompIntegral := integral / digitsPerInteger
	uncompFractional := decimals / digitsPerInteger
	compIntegral := integral - uncompIntegral*digitsPerInteger
	compFractional := decimals - uncompFractional*digitsPerInteger

	size := uncompIntegral*4 + compressedBytes[compIntegral] +
		uncompFractional*4 + compressedBytes[compFractional]

	data, err := r.ReadN(size)
	if err != nil {
		return decimal.Decimal{}, err
	}

	var mask byte
	var sb strings.Builder
	if data[0]&0x80 == 0 {
		mask = 0xff
		sb.WriteByte('-')
	}
	data[0] ^= 0x80

	pos := 0
	zeroLeading := true

	writeGroup := func(v uint32, pad bool) {
		s := strconv.FormatUint(uint64(v), 10)
		if pad {
			for i := len(s); i < digitsPerInteger; i++ {
				sb.WriteByte('0')
			}
		}
		sb.WriteString(s)
	}

	if n, v := decompressedValue(compIntegral, data, mask); n > 0 {
		pos += n
		if v != 0 {
			zeroLeading = false
			writeGroup(v, false)
		}
	}
	for i := 0; i < uncompIntegral; i++ {
		v := binary.BigEndian.Uint32(data[pos:]) ^ uint32(mask)*0x01010101
		pos += 4
		if zeroLeading && v == 0 {
			continue
		}
		writeGroup(v, !zeroLeading)
		zeroLeading = false
	}
	if zeroLeading {
		sb.WriteByte('0')
	}

	if decimals > 0 {
		sb.WriteByte('.')
		for i := 0; i < uncompFractional; i++ {
			v := binary.BigEndian.Uint32(data[pos:]) ^ uint32(mask)*0x01010101
			pos += 4
			writeGroup(v, true)
		}
		if compFractional > 0 {
			n, v := decompressedValue(compFractional, data[pos:], mask)
			s := strconv.FormatUint(uint64(v), 10)
			for i := len(s); i < compFractional; i++ {
				sb.WriteByte('0')
			}
			sb.WriteString(s)
			pos += n
		}
	}

	return decimal.NewFromString(sb.String())
}
