// Package message defines the decoded forms of terminal messages.
//
// Every inbound frame decodes to a type implementing Message. The
// location report gets a fully typed struct; registration,
// authentication, heartbeat and anything unrecognised surface as Raw
// with the body left opaque for the sink to interpret.
package message

import (
	"time"

	"github.com/intelcon-group/mv77g-jt808/pkg/jt808/protocol"
)

// Header is the decoded binary frame header
type Header struct {
	MsgID      uint16 // message id (e.g. 0x0200)
	Properties uint16 // raw properties word
	BodyLength int    // declared body length (low 10 bits of properties)
	TerminalID string // BCD terminal id, leading zeros stripped
	Sequence   uint16 // message sequence chosen by the terminal

	// Subpackage indices, populated only when Subpackaged is set.
	// Fragments are surfaced, never reassembled.
	Subpackaged bool
	SubTotal    uint16
	SubIndex    uint16
}

// Message is the interface all decoded messages implement
type Message interface {
	// MessageID returns the wire message id
	MessageID() uint16

	// Terminal returns the terminal id string
	Terminal() string

	// Sequence returns the terminal's message sequence
	Sequence() uint16

	// Body returns the raw body bytes after unescape and checksum removal
	Body() []byte

	// Type returns a human-readable message type name
	Type() string
}

// BaseMessage carries the fields common to all decoded messages
type BaseMessage struct {
	Head    Header
	RawBody []byte
}

// MessageID implements Message
func (m *BaseMessage) MessageID() uint16 {
	return m.Head.MsgID
}

// Terminal implements Message
func (m *BaseMessage) Terminal() string {
	return m.Head.TerminalID
}

// Sequence implements Message
func (m *BaseMessage) Sequence() uint16 {
	return m.Head.Sequence
}

// Body implements Message
func (m *BaseMessage) Body() []byte {
	return m.RawBody
}

// Type implements Message
func (m *BaseMessage) Type() string {
	switch m.Head.MsgID {
	case protocol.MsgTerminalResponse:
		return "Terminal Response"
	case protocol.MsgHeartbeat:
		return "Heartbeat"
	case protocol.MsgUnregister:
		return "Unregister"
	case protocol.MsgRegister:
		return "Register"
	case protocol.MsgAuthenticate:
		return "Authenticate"
	case protocol.MsgLocationReport:
		return "Location Report"
	default:
		return "Unknown"
	}
}

// Raw is a message whose body the core does not interpret
type Raw struct {
	BaseMessage
}

// Location is a decoded 0x0200 location report
type Location struct {
	BaseMessage

	Alarm  uint32 // 32-bit alarm bitfield
	Status uint32 // 32-bit status bitfield

	// Latitude and Longitude are signed decimal degrees; the sign is
	// applied from the status hemisphere bits. The raw magnitudes stay
	// available for sinks that decode firmware-specific status layouts.
	Latitude     float64
	Longitude    float64
	RawLatitude  uint32 // magnitude in 1e-6 degree units
	RawLongitude uint32

	Altitude uint16  // metres
	SpeedKmh float64 // km/h, one fractional digit of precision on the wire
	Heading  uint16  // integer degrees, 0-359
	Time     time.Time

	// Extras holds decoded TLV fields keyed by name; unrecognised tags
	// are preserved as "tlv_0xNN" -> hex. ExtrasTruncated marks that a
	// TLV overran the body and parsing stopped early.
	Extras          map[string]string
	ExtrasTruncated bool
}

// Type implements Message
func (l *Location) Type() string {
	return "Location Report"
}

// Positioned reports whether the status word marks the fix as valid
func (l *Location) Positioned() bool {
	return l.Status&protocol.StatusFixValid != 0
}

// IgnitionOn reports whether the status word marks ACC as on
func (l *Location) IgnitionOn() bool {
	return l.Status&protocol.StatusACCOn != 0
}
