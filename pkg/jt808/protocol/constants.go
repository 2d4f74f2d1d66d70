package protocol

// Message IDs defined by the JT/T 808 framing spoken by MV77G-class terminals
const (
	// Terminal to platform
	MsgTerminalResponse = 0x0001 // Terminal general response
	MsgHeartbeat        = 0x0002 // Heartbeat - empty body keep-alive
	MsgUnregister       = 0x0003 // Terminal unregistration
	MsgRegister         = 0x0100 // Terminal registration
	MsgAuthenticate     = 0x0102 // Terminal authentication (token echo)
	MsgLocationReport   = 0x0200 // Location report with optional TLV extras

	// Platform to terminal
	MsgPlatformResponse = 0x8001 // Platform general response
	MsgRegisterResponse = 0x8100 // Terminal registration response
)

// Frame delimiter and transparent-byte escape values
const (
	// FrameDelimiter brackets every binary frame
	FrameDelimiter = 0x7E

	// EscapeByte introduces a two-byte escape sequence inside a frame
	EscapeByte = 0x7D

	// EscapedEscape follows EscapeByte to encode a literal 0x7D
	EscapedEscape = 0x01

	// EscapedDelimiter follows EscapeByte to encode a literal 0x7E
	EscapedDelimiter = 0x02
)

// ASCII legacy variant delimiters ('*HQ,...#' framing)
const (
	ASCIIStart = '*'
	ASCIIEnd   = '#'
)

// Header properties word bit layout
const (
	// BodyLengthMask covers the low 10 bits of the properties word
	BodyLengthMask = 0x03FF

	// SubpackageFlag is bit 13 of the properties word
	SubpackageFlag = 0x2000

	// EncryptionMask covers bits 10-12; observed but never interpreted
	EncryptionMask = 0x1C00
)

// Header field sizes (in bytes)
const (
	MsgIDSize      = 2
	PropertiesSize = 2
	TerminalIDSize = 6 // BCD-packed phone number / IMEI fragment
	SequenceSize   = 2
	SubpackageSize = 4 // total(2) + index(2), present only when flagged

	// HeaderSize is the header length without the subpackage pair
	HeaderSize = MsgIDSize + PropertiesSize + TerminalIDSize + SequenceSize

	// HeaderSizeSubpackaged is the header length with the subpackage pair
	HeaderSizeSubpackaged = HeaderSize + SubpackageSize

	ChecksumSize = 1

	// MinPayloadSize is the smallest unescaped payload: header + checksum
	MinPayloadSize = HeaderSize + ChecksumSize
)

// Location report (0x0200) mandatory body layout
const (
	// LocationPrefixSize is the fixed prefix before any TLV extras:
	// alarm(4) + status(4) + lat(4) + lon(4) + altitude(2) + speed(2) +
	// heading(2) + BCD time(6)
	LocationPrefixSize = 28
)

// Status bitfield conventions for the 0x0200 report.
// The hemisphere bits vary by firmware; these are the common convention.
const (
	StatusACCOn    = 1 << 0 // ignition on
	StatusFixValid = 1 << 1 // GNSS fix valid
	StatusSouth    = 1 << 2 // latitude is southern hemisphere
	StatusWest     = 1 << 3 // longitude is western hemisphere
)

// TLV tags recognised in the 0x0200 optional field list
const (
	TLVOdometer      = 0x01 // 4 bytes, 0.1 km units
	TLVGSMSignal     = 0x30 // 1 byte
	TLVGNSSSignal    = 0x31 // 1 byte
	TLVHDOP          = 0x32 // 1 byte
	TLVSatellites    = 0x33 // 1 byte
	TLVIgnition      = 0x34 // 1 byte, bit 0
	TLVIOWord        = 0x57 // 8 bytes, opaque
	TLVSupplyVoltage = 0x82 // 2 bytes, 0.1 V units
)

// Result codes carried by 0x8001 and 0x8100 responses
const (
	ResultSuccess = 0x00
)

// Accumulator bounds for the stream reframer (back-pressure safety)
const (
	// BinaryAccumulatorMax triggers truncation of a frameless accumulator
	BinaryAccumulatorMax = 65536

	// BinaryAccumulatorKeep is the tail preserved after truncation
	BinaryAccumulatorKeep = 4096

	// ASCIIAccumulatorMax is the tighter bound for the short ASCII frames
	ASCIIAccumulatorMax = 10000

	// ASCIIAccumulatorKeep is the ASCII tail preserved after truncation
	ASCIIAccumulatorKeep = 1000
)

// DefaultRegisterToken is the authentication token echoed in 0x8100
// responses unless the deployment overrides it.
const DefaultRegisterToken = "OK"
