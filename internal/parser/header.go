package parser

import (
	"fmt"

	"github.com/intelcon-group/mv77g-jt808/internal/codec"
	"github.com/intelcon-group/mv77g-jt808/pkg/jt808/message"
	"github.com/intelcon-group/mv77g-jt808/pkg/jt808/protocol"
)

// DecodeHeader decodes the binary frame header from an unescaped payload
// with the trailing checksum byte already removed.
//
// Header layout: msg id(2) + properties(2) + BCD terminal id(6) +
// sequence(2), followed by a 4-byte subpackage pair when bit 13 of the
// properties word is set. The body begins at offset 12, or 16 for
// subpackaged frames; fragments are surfaced with their indices attached,
// never reassembled here.
//
// Returns the decoded header and the body slice. The declared body
// length (low 10 bits of properties) must equal the actual body length.
func DecodeHeader(payload []byte) (message.Header, []byte, error) {
	var head message.Header

	if len(payload) < protocol.HeaderSize {
		return head, nil, fmt.Errorf("payload too short for header: %d bytes (need %d)",
			len(payload), protocol.HeaderSize)
	}

	head.MsgID = codec.ReadUint16BE(payload[0:2])
	head.Properties = codec.ReadUint16BE(payload[2:4])
	head.BodyLength = int(head.Properties & protocol.BodyLengthMask)
	head.Subpackaged = head.Properties&protocol.SubpackageFlag != 0
	head.TerminalID = codec.DecodeTerminalID(payload[4:10])
	head.Sequence = codec.ReadUint16BE(payload[10:12])

	bodyOffset := protocol.HeaderSize
	if head.Subpackaged {
		if len(payload) < protocol.HeaderSizeSubpackaged {
			return head, nil, fmt.Errorf("payload too short for subpackaged header: %d bytes (need %d)",
				len(payload), protocol.HeaderSizeSubpackaged)
		}
		head.SubTotal = codec.ReadUint16BE(payload[12:14])
		head.SubIndex = codec.ReadUint16BE(payload[14:16])
		bodyOffset = protocol.HeaderSizeSubpackaged
	}

	body := payload[bodyOffset:]
	if len(body) != head.BodyLength {
		return head, nil, fmt.Errorf("declared body length %d does not match actual %d",
			head.BodyLength, len(body))
	}

	return head, body, nil
}

// TerminalBCD re-encodes a header's terminal id to the 6 BCD bytes a
// response frame must be addressed with.
func TerminalBCD(head message.Header) []byte {
	return codec.EncodeTerminalID(head.TerminalID)
}
