package codec

import "encoding/binary"

// Binary encoding/decoding helpers for the MV77G wire format

// ReadUint16BE reads a big-endian uint16 from 2 bytes
func ReadUint16BE(data []byte) uint16 {
	if len(data) < 2 {
		return 0
	}
	return binary.BigEndian.Uint16(data)
}

// ReadUint32BE reads a big-endian uint32 from 4 bytes
func ReadUint32BE(data []byte) uint32 {
	if len(data) < 4 {
		return 0
	}
	return binary.BigEndian.Uint32(data)
}

// ReadUint64BE reads a big-endian uint64 from 8 bytes
func ReadUint64BE(data []byte) uint64 {
	if len(data) < 8 {
		return 0
	}
	return binary.BigEndian.Uint64(data)
}

// WriteUint16BE writes a uint16 as big-endian to 2 bytes
func WriteUint16BE(value uint16) []byte {
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, value)
	return buf
}

// WriteUint32BE writes a uint32 as big-endian to 4 bytes
func WriteUint32BE(value uint32) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, value)
	return buf
}

// HexDump renders bytes as lowercase hex pairs separated by spaces,
// the form used in parse-error events and hex traces.
// Example: []byte{0x7E, 0x02} -> "7e 02"
func HexDump(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	const hexDigits = "0123456789abcdef"
	out := make([]byte, 0, len(data)*3-1)
	for i, b := range data {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, hexDigits[b>>4], hexDigits[b&0x0F])
	}
	return string(out)
}

// HexString renders bytes as contiguous lowercase hex pairs,
// used for opaque TLV values and unhandled bodies.
func HexString(data []byte) string {
	const hexDigits = "0123456789abcdef"
	out := make([]byte, len(data)*2)
	for i, b := range data {
		out[i*2] = hexDigits[b>>4]
		out[i*2+1] = hexDigits[b&0x0F]
	}
	return string(out)
}
