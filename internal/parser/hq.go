package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/intelcon-group/mv77g-jt808/internal/codec"
)

// HQ legacy ASCII variant
//
// Older HQ-family firmware reports positions as comma-delimited lines:
//
//	*HQ,<terminal>,<cmd>,HHMMSS,A|V,DDMM.mmmm,N|S,DDDMM.mmmm,E|W,<speed>,<course>,DDMMYY,<state>,...#
//
// The frame delimiters are stripped by the splitter; this parser
// tokenises the interior and converts the NMEA-style fields into the
// same record shape the binary path produces. The variant is read-only:
// no acknowledgement is ever sent.

// HQRecord is a decoded legacy ASCII report
type HQRecord struct {
	Terminal  string
	Command   string  // command tag, e.g. "V1" or "LK"
	Valid     bool    // 'A' = valid fix, 'V' = invalid
	Latitude  float64 // signed decimal degrees
	Longitude float64
	SpeedKmh  float64
	Heading   string // course field, passed through as received
	State     string // opaque state word
	Time      time.Time

	// AlarmType is the label derived from a numeric command byte's low
	// nibble; empty for ordinary reports. This namespace belongs to the
	// HQ firmware family only and is distinct from the binary path's
	// alarm bitfield.
	AlarmType string
}

// hqAlarmLabels maps the low nibble of a numeric HQ command byte to its
// alarm meaning. Only this firmware family uses the table.
var hqAlarmLabels = map[byte]string{
	0x1: "SOS",
	0x2: "low battery",
	0x3: "vibration",
	0x4: "movement",
	0x5: "geo-fence",
}

// ParseHQ decodes the interior of a '*'...'#' frame.
// speedIsKmh selects the speed unit: some fleets ship km/h in the speed
// field, but the wire default is knots (converted here via *1.852).
func ParseHQ(frame []byte, speedIsKmh bool) (*HQRecord, error) {
	fields := strings.Split(string(frame), ",")
	if len(fields) < 12 {
		return nil, fmt.Errorf("hq: expected at least 12 fields, got %d", len(fields))
	}

	rec := &HQRecord{
		Terminal: fields[1],
		Command:  fields[2],
	}
	if rec.Terminal == "" {
		return nil, fmt.Errorf("hq: empty terminal id")
	}

	switch fields[4] {
	case "A":
		rec.Valid = true
	case "V":
		rec.Valid = false
	default:
		return nil, fmt.Errorf("hq: invalid validity flag %q", fields[4])
	}

	lat, err := parseDegreesMinutes(fields[5], fields[6], "N", "S")
	if err != nil {
		return nil, fmt.Errorf("hq: latitude: %w", err)
	}
	rec.Latitude = lat

	lon, err := parseDegreesMinutes(fields[7], fields[8], "E", "W")
	if err != nil {
		return nil, fmt.Errorf("hq: longitude: %w", err)
	}
	rec.Longitude = lon

	speed, err := strconv.ParseFloat(fields[9], 64)
	if err != nil {
		return nil, fmt.Errorf("hq: speed: %w", err)
	}
	if !speedIsKmh {
		speed *= 1.852
	}
	rec.SpeedKmh = math.Round(speed*10) / 10

	rec.Heading = fields[10]

	ts, err := parseHQTimestamp(fields[11], fields[3])
	if err != nil {
		return nil, fmt.Errorf("hq: timestamp: %w", err)
	}
	rec.Time = ts

	if len(fields) > 12 {
		rec.State = fields[12]
	}

	rec.AlarmType = hqAlarmLabel(rec.Command)

	return rec, nil
}

// parseDegreesMinutes converts a DDMM.mmmm (or DDDMM.mmmm) field plus
// hemisphere letter to signed decimal degrees, rounded to six fractional
// digits. The degrees are everything before the last two digits ahead of
// the decimal point; the remainder is minutes.
func parseDegreesMinutes(value, hemisphere, positive, negative string) (float64, error) {
	raw, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid coordinate %q: %w", value, err)
	}

	degrees := math.Floor(raw / 100)
	minutes := raw - degrees*100
	if minutes >= 60 {
		return 0, fmt.Errorf("invalid minutes in %q", value)
	}

	decimal := degrees + minutes/60
	decimal = math.Round(decimal*1e6) / 1e6

	switch hemisphere {
	case positive:
		return decimal, nil
	case negative:
		return -decimal, nil
	default:
		return 0, fmt.Errorf("invalid hemisphere %q", hemisphere)
	}
}

// parseHQTimestamp reconstructs a UTC instant from DDMMYY and HHMMSS
func parseHQTimestamp(date, clock string) (time.Time, error) {
	if len(date) != 6 || len(clock) != 6 {
		return time.Time{}, fmt.Errorf("want DDMMYY and HHMMSS, got %q and %q", date, clock)
	}

	parts := make([]int, 6)
	for i, s := range []string{date[0:2], date[2:4], date[4:6], clock[0:2], clock[2:4], clock[4:6]} {
		v, err := strconv.Atoi(s)
		if err != nil {
			return time.Time{}, fmt.Errorf("non-numeric field %q", s)
		}
		parts[i] = v
	}

	return codec.DateFromCivil(parts[0], parts[1], parts[2], parts[3], parts[4], parts[5])
}

// hqAlarmLabel derives an alarm label from a numeric command byte.
// Plain command tags such as "V1" or "LK" carry no alarm and map to "".
func hqAlarmLabel(cmd string) string {
	v, err := strconv.ParseUint(cmd, 16, 8)
	if err != nil {
		return ""
	}
	return hqAlarmLabels[byte(v)&0x0F]
}
