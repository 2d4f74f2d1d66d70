package parser

import (
	"testing"
	"time"

	"github.com/intelcon-group/mv77g-jt808/pkg/jt808/message"
	"github.com/intelcon-group/mv77g-jt808/pkg/jt808/protocol"
)

// prefix is the 28-byte mandatory body used across these tests:
// alarm 0, status 0x02, lat 31.258960, lon 12.826744, alt 100 m,
// speed 20.0 km/h, heading 90, 2024-03-15T12:30:45Z
const locationPrefix = "000000000000000201dcf95000c3b878006400c8005a240315123045"

func locationHead() message.Header {
	return message.Header{
		MsgID:      protocol.MsgLocationReport,
		TerminalID: "13800138000",
		Sequence:   3,
	}
}

func TestParseLocationPrefix(t *testing.T) {
	loc, err := ParseLocation(locationHead(), mustHex(t, locationPrefix))
	if err != nil {
		t.Fatalf("ParseLocation: %v", err)
	}

	if loc.Alarm != 0 {
		t.Errorf("Alarm = 0x%08X, want 0", loc.Alarm)
	}
	if loc.Status != 0x02 {
		t.Errorf("Status = 0x%08X, want 0x02", loc.Status)
	}
	if loc.Latitude != 31.258960 {
		t.Errorf("Latitude = %.6f, want 31.258960", loc.Latitude)
	}
	if loc.Longitude != 12.826744 {
		t.Errorf("Longitude = %.6f, want 12.826744", loc.Longitude)
	}
	if loc.Altitude != 100 {
		t.Errorf("Altitude = %d, want 100", loc.Altitude)
	}
	if loc.SpeedKmh != 20.0 {
		t.Errorf("SpeedKmh = %.1f, want 20.0", loc.SpeedKmh)
	}
	if loc.Heading != 90 {
		t.Errorf("Heading = %d, want 90", loc.Heading)
	}
	want := time.Date(2024, 3, 15, 12, 30, 45, 0, time.UTC)
	if !loc.Time.Equal(want) {
		t.Errorf("Time = %v, want %v", loc.Time, want)
	}
	if len(loc.Extras) != 0 {
		t.Errorf("Extras = %v, want none", loc.Extras)
	}
	if loc.ExtrasTruncated {
		t.Error("ExtrasTruncated should be false")
	}
	if !loc.Positioned() {
		t.Error("status bit 1 set: Positioned should be true")
	}
}

func TestParseLocationHemisphere(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		wantLat float64
		wantLon float64
	}{
		{"north east", "00000002", 31.258960, 12.826744},
		{"south", "00000006", -31.258960, 12.826744},
		{"west", "0000000a", 31.258960, -12.826744},
		{"south west", "0000000e", -31.258960, -12.826744},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := mustHex(t, "00000000"+tt.status+"01dcf95000c3b878006400c8005a240315123045")
			loc, err := ParseLocation(locationHead(), body)
			if err != nil {
				t.Fatal(err)
			}
			if loc.Latitude != tt.wantLat {
				t.Errorf("Latitude = %.6f, want %.6f", loc.Latitude, tt.wantLat)
			}
			if loc.Longitude != tt.wantLon {
				t.Errorf("Longitude = %.6f, want %.6f", loc.Longitude, tt.wantLon)
			}
			// Magnitudes survive for sinks with their own conventions
			if loc.RawLatitude != 31258960 || loc.RawLongitude != 12826744 {
				t.Errorf("raw magnitudes = (%d, %d)", loc.RawLatitude, loc.RawLongitude)
			}
		})
	}
}

func TestParseLocationExtras(t *testing.T) {
	body := mustHex(t, locationPrefix+
		"0104000000e7"+ // odometer 23.1 km
		"300115"+ // gsm signal 21
		"310109"+ // gnss signal 9
		"320102"+ // hdop 2
		"330108"+ // satellites 8
		"340101"+ // ignition on
		"57080102030405060708"+ // io word
		"8202007b"+ // supply voltage 12.3 V
		"99021234") // unknown tag 0x99

	loc, err := ParseLocation(locationHead(), body)
	if err != nil {
		t.Fatal(err)
	}

	want := map[string]string{
		"odometer_km":      "23.1",
		"gsm_signal":       "21",
		"gnss_signal":      "9",
		"hdop":             "2",
		"satellites":       "8",
		"ignition":         "ON",
		"io_word":          "0102030405060708",
		"supply_voltage_v": "12.3",
		"tlv_0x99":         "1234",
	}

	if len(loc.Extras) != len(want) {
		t.Fatalf("Extras = %v", loc.Extras)
	}
	for k, v := range want {
		if loc.Extras[k] != v {
			t.Errorf("Extras[%q] = %q, want %q", k, loc.Extras[k], v)
		}
	}
}

func TestParseLocationIgnitionOff(t *testing.T) {
	loc, err := ParseLocation(locationHead(), mustHex(t, locationPrefix+"340100"))
	if err != nil {
		t.Fatal(err)
	}
	if loc.Extras["ignition"] != "OFF" {
		t.Errorf("ignition = %q, want OFF", loc.Extras["ignition"])
	}
}

// A TLV overrunning the body halts extras parsing without failing the
// record; the fixed prefix still decodes.
func TestParseLocationTLVOverrun(t *testing.T) {
	body := mustHex(t, locationPrefix+
		"330108"+ // satellites 8: parsed
		"01ff0000") // declares 255 bytes, only 2 remain

	loc, err := ParseLocation(locationHead(), body)
	if err != nil {
		t.Fatalf("overrun must not fail the record: %v", err)
	}

	if !loc.ExtrasTruncated {
		t.Error("ExtrasTruncated should be true")
	}
	if loc.Extras["satellites"] != "8" {
		t.Errorf("satellites = %q, want 8", loc.Extras["satellites"])
	}
	if loc.Latitude != 31.258960 {
		t.Errorf("prefix must still decode, Latitude = %.6f", loc.Latitude)
	}
}

func TestParseLocationErrors(t *testing.T) {
	if _, err := ParseLocation(locationHead(), mustHex(t, "0000000000000002")); err == nil {
		t.Error("body shorter than 28 bytes should fail")
	}

	// Invalid BCD timestamp
	bad := mustHex(t, "000000000000000201dcf95000c3b878006400c8005a2a0315123045")
	if _, err := ParseLocation(locationHead(), bad); err == nil {
		t.Error("invalid timestamp should fail")
	}
}
