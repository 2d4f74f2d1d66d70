// Package packets holds shared wire-format test frames as hex strings.
// Every checksum below is the XOR of the frame interior minus its
// trailing byte, so the frames decode cleanly end to end.
package packets

// Terminal used by all binary test frames: BCD 01 38 00 13 80 00,
// rendered with leading zeros stripped.
const Terminal = "13800138000"

// Binary frames, hex encoded, delimiters included
const (
	// Heartbeat 0x0002, empty body, seq 1
	Heartbeat = "7e000200000138001380000001a97e"

	// HeartbeatCorrupt is Heartbeat with its checksum byte flipped
	HeartbeatCorrupt = "7e000200000138001380000001a87e"

	// HeartbeatEscaped is a heartbeat whose sequence is 0x007E, forcing
	// a transparent-byte escape on the wire (00 7E -> 00 7D 02)
	HeartbeatEscaped = "7e00020000013800138000007d02d67e"

	// Register 0x0100, 9-byte opaque body, seq 7
	Register = "7e010000090138001380000007001f00634d56373747857e"

	// Authenticate 0x0102, body "OK", seq 2
	Authenticate = "7e0102000201380013800000024f4bad7e"

	// Location 0x0200, seq 3: alarm 0, status 0x02 (fix valid, N/E),
	// lat 31.258960, lon 12.826744, alt 100 m, speed 20.0 km/h,
	// heading 90, time 2024-03-15T12:30:45Z, no TLVs
	Location = "7e0200001c0138001380000003000000000000000201dcf95000c3b878006400c8005a240315123045617e"

	// LocationTLV is Location with seq 4 and three TLVs appended:
	// odometer 10.0 km, satellites 8, ignition ON
	LocationTLV = "7e020000280138001380000004000000000000000201dcf95000c3b878006400c8005a2403151230450104000000643301083401013d7e"

	// Unregister 0x0003, empty body, seq 5: valid frame, no dispatch rule
	Unregister = "7e000300000138001380000005ac7e"
)

// ASCII legacy frames, delimiters included
const (
	// HQLine is an ordinary valid report: 10 knots -> 18.5 km/h,
	// 2024-03-15T12:30:45Z, lat 32.257575, lon 34.853872
	HQLine = "*HQ,1234567890,V1,123045,A,3215.4545,N,03451.2323,E,10.0,90,150324,FFFFFFFF#"
)
