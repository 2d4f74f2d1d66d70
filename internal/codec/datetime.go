package codec

import (
	"fmt"
	"time"
)

// BCD datetime encoding/decoding
// The wire carries 6 packed-BCD bytes: YY MM DD hh mm ss, interpreted as UTC.

// DecodeBCDTime decodes 6 BCD bytes to time.Time (UTC)
// Two-digit years below 80 map to 2000+YY; 80 and above map to 1900+YY,
// so old stock with unset clocks still produces a valid instant.
func DecodeBCDTime(data []byte) (time.Time, error) {
	if len(data) < 6 {
		return time.Time{}, fmt.Errorf("bcd time requires 6 bytes, got %d", len(data))
	}

	fields := make([]int, 6)
	for i := 0; i < 6; i++ {
		high := int(data[i] >> 4)
		low := int(data[i] & 0x0F)
		if high > 9 || low > 9 {
			return time.Time{}, fmt.Errorf("invalid BCD byte at position %d: 0x%02X", i, data[i])
		}
		fields[i] = high*10 + low
	}

	year := fields[0]
	if year < 80 {
		year += 2000
	} else {
		year += 1900
	}
	month, day := fields[1], fields[2]
	hour, minute, second := fields[3], fields[4], fields[5]

	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("invalid month: %d", month)
	}
	if day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("invalid day: %d", day)
	}
	if hour > 23 {
		return time.Time{}, fmt.Errorf("invalid hour: %d", hour)
	}
	if minute > 59 {
		return time.Time{}, fmt.Errorf("invalid minute: %d", minute)
	}
	if second > 59 {
		return time.Time{}, fmt.Errorf("invalid second: %d", second)
	}

	return time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC), nil
}

// EncodeBCDTime encodes a time.Time to 6 packed-BCD bytes (UTC)
func EncodeBCDTime(t time.Time) []byte {
	t = t.UTC()

	fields := []int{
		t.Year() % 100,
		int(t.Month()),
		t.Day(),
		t.Hour(),
		t.Minute(),
		t.Second(),
	}

	out := make([]byte, 6)
	for i, v := range fields {
		out[i] = byte(v/10)<<4 | byte(v%10)
	}
	return out
}

// DateFromCivil builds a UTC instant from the split date/time fields the
// ASCII legacy variant carries (DDMMYY + HHMMSS), applying the same
// century rule as DecodeBCDTime.
func DateFromCivil(day, month, year, hour, minute, second int) (time.Time, error) {
	if year < 80 {
		year += 2000
	} else if year < 100 {
		year += 1900
	}

	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("invalid month: %d", month)
	}
	if day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("invalid day: %d", day)
	}
	if hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, fmt.Errorf("invalid time: %02d:%02d:%02d", hour, minute, second)
	}

	return time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC), nil
}
