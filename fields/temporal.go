package fields

import (
	"encoding/binary"
	"time"

	"github.com/relayforge/binlogevent/reader"
)

// TimeOfDay is a wall-clock duration since midnight, the Go
// representation of a decoded TIME/TIME2 cell (which MySQL stores
// detached from any particular date, unlike DATETIME/TIMESTAMP).
type TimeOfDay struct {
	Negative bool
	Hour     int
	Minute   int
	Second   int
	Micro    int
}

const (
	timeIntOffset     int64 = 0x800000
	timeOffset        int64 = 0x800000000000
	datetimeIntOffset int64 = 0x8000000000
)

func readBigEndian(b []byte) int64 {
	var v int64
	for _, c := range b {
		v = v<<8 | int64(c)
	}
	return v
}

// Year decodes a 1-byte YEAR cell, stored as an offset from 1900.
func Year(r *reader.Reader) (int, error) {
	b, err := U8(r)
	if err != nil {
		return 0, err
	}
	if b == 0 {
		return 0, nil
	}
	return 1900 + int(b), nil
}

// Date decodes a legacy 3-byte DATE cell: a packed (year<<9)|(month<<5)|day.
func Date(r *reader.Reader) (time.Time, error) {
	raw, err := U24(r)
	if err != nil {
		return time.Time{}, err
	}
	day := int(raw & 0x1f)
	month := int((raw >> 5) & 0xf)
	year := int(raw >> 9)
	if year == 0 && month == 0 && day == 0 {
		return time.Time{}, nil
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// LegacyTime decodes a legacy 3-byte TIME cell: HHMMSS packed as a plain
// base-100 integer (hour*10000 + minute*100 + second), pre-5.6.4 format.
func LegacyTime(r *reader.Reader) (TimeOfDay, error) {
	raw, err := U24(r)
	if err != nil {
		return TimeOfDay{}, err
	}
	v := int(raw)
	neg := v < 0
	if neg {
		v = -v
	}
	return TimeOfDay{Negative: neg, Hour: v / 10000, Minute: (v / 100) % 100, Second: v % 100}, nil
}

// LegacyDatetime decodes a legacy 8-byte DATETIME/TIMESTAMP cell: a
// base-100 packed YYYYMMDDHHMMSS integer, pre-5.6.4 format.
func LegacyDatetime(r *reader.Reader) (time.Time, error) {
	raw, err := U64(r)
	if err != nil {
		return time.Time{}, err
	}
	date := raw / 1000000
	t := raw % 1000000
	year := int(date / 10000)
	month := int((date / 100) % 100)
	day := int(date % 100)
	hour := int(t / 10000)
	minute := int((t / 100) % 100)
	second := int(t % 100)
	if year == 0 && month == 0 && day == 0 {
		return time.Time{}, nil
	}
	return time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC), nil
}

// Timestamp decodes a legacy 4-byte TIMESTAMP cell: seconds since the
// Unix epoch.
func Timestamp(r *reader.Reader) (time.Time, error) {
	sec, err := U32(r)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(int64(sec), 0).UTC(), nil
}

// fractionalMicros reads the fractional-seconds tail TIME2/DATETIME2/
// TIMESTAMP2 append after their whole-value part, whose width is a
// function of the column's declared decimals (0-6).
func fractionalMicros(r *reader.Reader, decimals int) (int, error) {
	switch {
	case decimals <= 0:
		return 0, nil
	case decimals <= 2:
		b, err := U8(r)
		if err != nil {
			return 0, err
		}
		return int(b) * 10000, nil
	case decimals <= 4:
		b, err := r.ReadN(2)
		if err != nil {
			return 0, err
		}
		return int(binary.BigEndian.Uint16(b)) * 100, nil
	default:
		b, err := r.ReadN(3)
		if err != nil {
			return 0, err
		}
		return int(readBigEndian(b)), nil
	}
}

// Timestamp2 decodes a TIMESTAMP2 cell: a big-endian 4-byte Unix second
// count plus decimals-wide fractional microseconds.
func Timestamp2(r *reader.Reader, decimals int) (time.Time, error) {
	b, err := r.ReadN(4)
	if err != nil {
		return time.Time{}, err
	}
	sec := int64(binary.BigEndian.Uint32(b))
	usec, err := fractionalMicros(r, decimals)
	if err != nil {
		return time.Time{}, err
	}
	if sec == 0 && usec == 0 {
		return time.Time{}, nil
	}
	return time.Unix(sec, int64(usec)*1000).UTC(), nil
}

// Datetime2 decodes a DATETIME2 cell: a big-endian 5-byte packed
// (sign, year*13+month, day, hour, minute, second) integer, offset so
// it sorts as an unsigned value on disk, plus decimals-wide fractional
// microseconds.
func Datetime2(r *reader.Reader, decimals int) (time.Time, error) {
	b, err := r.ReadN(5)
	if err != nil {
		return time.Time{}, err
	}
	intPart := readBigEndian(b) - datetimeIntOffset
	usec, err := fractionalMicros(r, decimals)
	if err != nil {
		return time.Time{}, err
	}
	if intPart == 0 {
		return time.Time{}, nil
	}

	ymdhms := intPart
	ymd := ymdhms >> 17
	ym := ymd >> 5
	hms := ymdhms % (1 << 17)

	day := int(ymd % (1 << 5))
	month := int(ym % 13)
	year := int(ym / 13)
	second := int(hms % (1 << 6))
	minute := int((hms >> 6) % (1 << 6))
	hour := int(hms >> 12)

	return time.Date(year, time.Month(month), day, hour, minute, second, usec*1000, time.UTC), nil
}

// Time2 decodes a TIME2 cell: a big-endian 3-byte packed (sign,
// hour, minute, second) integer, offset so it sorts as an unsigned
// value on disk, plus decimals-wide fractional microseconds whose sign
// convention is reversed for negative values (MySQL stores the
// fractional part pre-negated so the whole disk value still compares
// correctly byte-for-byte).
func Time2(r *reader.Reader, decimals int) (TimeOfDay, error) {
	b, err := r.ReadN(3)
	if err != nil {
		return TimeOfDay{}, err
	}
	intPart := readBigEndian(b) - timeIntOffset

	var usec int
	switch {
	case decimals <= 0:
	case decimals <= 2:
		frac, err := U8(r)
		if err != nil {
			return TimeOfDay{}, err
		}
		f := int64(frac)
		if intPart < 0 && f != 0 {
			intPart++
			f -= 0x100
		}
		usec = int(f) * 10000
	case decimals <= 4:
		raw, err := r.ReadN(2)
		if err != nil {
			return TimeOfDay{}, err
		}
		f := int64(binary.BigEndian.Uint16(raw))
		if intPart < 0 && f != 0 {
			intPart++
			f -= 0x10000
		}
		usec = int(f) * 100
	default:
		raw, err := r.ReadN(6)
		if err != nil {
			return TimeOfDay{}, err
		}
		full := readBigEndian(raw) - timeOffset
		return splitTimeOfDay(full), nil
	}

	return splitTimeOfDay(intPart<<24 + int64(usec)), nil
}

func splitTimeOfDay(tmp int64) TimeOfDay {
	neg := tmp < 0
	if neg {
		tmp = -tmp
	}
	hms := tmp >> 24
	return TimeOfDay{
		Negative: neg,
		Hour:     int((hms >> 12) % (1 << 10)),
		Minute:   int((hms >> 6) % (1 << 6)),
		Second:   int(hms % (1 << 6)),
		Micro:    int(tmp % (1 << 24)),
	}
}
