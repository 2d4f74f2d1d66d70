package parser

import (
	"fmt"

	"github.com/intelcon-group/mv77g-jt808/internal/codec"
	"github.com/intelcon-group/mv77g-jt808/pkg/jt808/message"
	"github.com/intelcon-group/mv77g-jt808/pkg/jt808/protocol"
)

// ParseLocation decodes a 0x0200 location report body.
//
// Mandatory 28-byte prefix: alarm(4) + status(4) + latitude(4, 1e-6
// degree magnitude) + longitude(4) + altitude(2, metres) + speed(2,
// 0.1 km/h) + heading(2, degrees) + time(6, packed BCD, UTC).
//
// The wire carries latitude/longitude as magnitudes; the hemisphere is
// applied from the common status convention (bit 2 south, bit 3 west)
// and the raw magnitudes stay on the record for sinks that know a
// firmware-specific layout.
//
// Zero or more TLVs follow the prefix. A TLV whose declared length
// overruns the body stops TLV parsing and marks the record truncated;
// the record itself still decodes.
func ParseLocation(head message.Header, body []byte) (*message.Location, error) {
	if len(body) < protocol.LocationPrefixSize {
		return nil, fmt.Errorf("location body too short: %d bytes (need %d)",
			len(body), protocol.LocationPrefixSize)
	}

	loc := &message.Location{
		BaseMessage: message.BaseMessage{Head: head, RawBody: body},
	}

	loc.Alarm = codec.ReadUint32BE(body[0:4])
	loc.Status = codec.ReadUint32BE(body[4:8])
	loc.RawLatitude = codec.ReadUint32BE(body[8:12])
	loc.RawLongitude = codec.ReadUint32BE(body[12:16])
	loc.Altitude = codec.ReadUint16BE(body[16:18])
	loc.SpeedKmh = float64(codec.ReadUint16BE(body[18:20])) / 10.0
	loc.Heading = codec.ReadUint16BE(body[20:22])

	ts, err := codec.DecodeBCDTime(body[22:28])
	if err != nil {
		return nil, fmt.Errorf("location timestamp: %w", err)
	}
	loc.Time = ts

	loc.Latitude = float64(loc.RawLatitude) / 1e6
	if loc.Status&protocol.StatusSouth != 0 {
		loc.Latitude = -loc.Latitude
	}
	loc.Longitude = float64(loc.RawLongitude) / 1e6
	if loc.Status&protocol.StatusWest != 0 {
		loc.Longitude = -loc.Longitude
	}

	loc.Extras, loc.ExtrasTruncated = parseExtras(body[protocol.LocationPrefixSize:])

	return loc, nil
}

// parseExtras walks the TLV list after the fixed prefix.
// Layout per entry: tag(1) + length(1) + value(length).
func parseExtras(data []byte) (extras map[string]string, truncated bool) {
	for len(data) > 0 {
		if len(data) < 2 {
			return extras, true
		}

		tag := data[0]
		length := int(data[1])
		if len(data) < 2+length {
			return extras, true
		}
		value := data[2 : 2+length]
		data = data[2+length:]

		if extras == nil {
			extras = make(map[string]string)
		}

		switch {
		case tag == protocol.TLVOdometer && length == 4:
			extras["odometer_km"] = fmt.Sprintf("%.1f", float64(codec.ReadUint32BE(value))/10.0)
		case tag == protocol.TLVGSMSignal && length == 1:
			extras["gsm_signal"] = fmt.Sprintf("%d", value[0])
		case tag == protocol.TLVGNSSSignal && length == 1:
			extras["gnss_signal"] = fmt.Sprintf("%d", value[0])
		case tag == protocol.TLVHDOP && length == 1:
			extras["hdop"] = fmt.Sprintf("%d", value[0])
		case tag == protocol.TLVSatellites && length == 1:
			extras["satellites"] = fmt.Sprintf("%d", value[0])
		case tag == protocol.TLVIgnition && length == 1:
			if value[0]&0x01 != 0 {
				extras["ignition"] = "ON"
			} else {
				extras["ignition"] = "OFF"
			}
		case tag == protocol.TLVIOWord && length == 8:
			extras["io_word"] = codec.HexString(value)
		case tag == protocol.TLVSupplyVoltage && length == 2:
			extras["supply_voltage_v"] = fmt.Sprintf("%.1f", float64(codec.ReadUint16BE(value))/10.0)
		default:
			extras[fmt.Sprintf("tlv_0x%02x", tag)] = codec.HexString(value)
		}
	}

	return extras, false
}
