// Package encoder builds the platform response frames that keep a
// terminal session alive.
//
// Two response shapes exist: the platform general response (0x8001)
// acknowledging heartbeats and location reports, and the terminal
// registration response (0x8100) answering register/authenticate with a
// result code and the deployment's token.
//
// Example:
//
//	enc := encoder.New("OK")
//	frame := enc.GeneralResponse("13800138000", seq, origSeq, origMsgID)
//	conn.Write(frame)
package encoder

import (
	"github.com/intelcon-group/mv77g-jt808/internal/codec"
	"github.com/intelcon-group/mv77g-jt808/internal/validator"
	"github.com/intelcon-group/mv77g-jt808/pkg/jt808/protocol"
)

// Encoder creates response frames addressed back at a terminal
type Encoder struct {
	// Token is the authentication token carried by 0x8100 responses
	Token string
}

// New creates an Encoder. An empty token falls back to the default.
func New(token string) *Encoder {
	if token == "" {
		token = protocol.DefaultRegisterToken
	}
	return &Encoder{Token: token}
}

// GeneralResponse builds a platform general response (0x8001).
// Body: original sequence(2) + original message id(2) + result(1).
func (e *Encoder) GeneralResponse(terminal string, seq, origSeq, origMsgID uint16) []byte {
	body := make([]byte, 0, 5)
	body = append(body, codec.WriteUint16BE(origSeq)...)
	body = append(body, codec.WriteUint16BE(origMsgID)...)
	body = append(body, protocol.ResultSuccess)

	return BuildFrame(protocol.MsgPlatformResponse, terminal, seq, body)
}

// RegisterResponse builds a terminal registration response (0x8100),
// answering both 0x0100 register and 0x0102 authenticate.
// Body: original sequence(2) + result(1) + token bytes.
func (e *Encoder) RegisterResponse(terminal string, seq, origSeq uint16) []byte {
	body := make([]byte, 0, 3+len(e.Token))
	body = append(body, codec.WriteUint16BE(origSeq)...)
	body = append(body, protocol.ResultSuccess)
	body = append(body, e.Token...)

	return BuildFrame(protocol.MsgRegisterResponse, terminal, seq, body)
}

// BuildFrame seals a complete outbound frame: header + body, XOR
// checksum appended, transparent bytes escaped, 0x7E delimiters
// bracketing the result.
//
// The properties word carries only the body length; responses are never
// encrypted or subpackaged.
func BuildFrame(msgID uint16, terminal string, seq uint16, body []byte) []byte {
	payload := make([]byte, 0, protocol.HeaderSize+len(body)+protocol.ChecksumSize)
	payload = append(payload, codec.WriteUint16BE(msgID)...)
	payload = append(payload, codec.WriteUint16BE(uint16(len(body))&protocol.BodyLengthMask)...)
	payload = append(payload, codec.EncodeTerminalID(terminal)...)
	payload = append(payload, codec.WriteUint16BE(seq)...)
	payload = append(payload, body...)
	payload = append(payload, validator.Calculate(payload))

	escaped := codec.Escape(payload)

	frame := make([]byte, 0, len(escaped)+2)
	frame = append(frame, protocol.FrameDelimiter)
	frame = append(frame, escaped...)
	frame = append(frame, protocol.FrameDelimiter)

	return frame
}
