package codec

// BCD (Binary-Coded Decimal) encoding/decoding
// Used for the terminal identifier and timestamps in the MV77G wire format

// DecodeBCD converts BCD-encoded bytes to a decimal string
// Each byte contributes its high nibble digit then its low nibble digit.
// Nibbles above 9 are padding and are skipped, matching the convention
// devices use to fill short phone numbers.
// Example: 0x12 0x34 -> "1234"
func DecodeBCD(data []byte) string {
	result := make([]byte, 0, len(data)*2)

	for _, b := range data {
		high := (b >> 4) & 0x0F
		low := b & 0x0F

		if high <= 9 {
			result = append(result, '0'+high)
		}
		if low <= 9 {
			result = append(result, '0'+low)
		}
	}

	return string(result)
}

// StripLeadingZeros removes leading '0' characters from a decoded BCD
// string. An all-zero input collapses to "0" so terminal keys are never
// empty.
func StripLeadingZeros(s string) string {
	if s == "" {
		return "0"
	}
	i := 0
	for i < len(s)-1 && s[i] == '0' {
		i++
	}
	return s[i:]
}

// DecodeTerminalID decodes the 6 BCD bytes of the header terminal
// identifier to its display form (leading zeros stripped).
func DecodeTerminalID(data []byte) string {
	return StripLeadingZeros(DecodeBCD(data))
}

// EncodeTerminalID packs a terminal id string into exactly 6 BCD bytes.
// The string is left-padded with '0' to 12 digits; if longer, the
// rightmost 12 digits are used. Non-digit characters map to zero.
func EncodeTerminalID(id string) []byte {
	const digits = 12

	padded := make([]byte, digits)
	for i := range padded {
		padded[i] = '0'
	}

	src := id
	if len(src) > digits {
		src = src[len(src)-digits:]
	}
	copy(padded[digits-len(src):], src)

	result := make([]byte, digits/2)
	for i := 0; i < digits; i += 2 {
		high := digitValue(padded[i])
		low := digitValue(padded[i+1])
		result[i/2] = (high << 4) | low
	}

	return result
}

func digitValue(c byte) byte {
	if c < '0' || c > '9' {
		return 0
	}
	return c - '0'
}
