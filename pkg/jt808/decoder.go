package jt808

import (
	"github.com/intelcon-group/mv77g-jt808/internal/codec"
	"github.com/intelcon-group/mv77g-jt808/internal/parser"
	"github.com/intelcon-group/mv77g-jt808/internal/validator"
	"github.com/intelcon-group/mv77g-jt808/pkg/jt808/message"
	"github.com/intelcon-group/mv77g-jt808/pkg/jt808/protocol"
)

// Decoder decodes single binary frames into typed messages
type Decoder struct {
	opts Options
}

// NewDecoder creates a decoder with optional configuration
//
// Example:
//
//	decoder := jt808.NewDecoder()
//	msg, err := decoder.DecodeFrame(interior)
//	if loc, ok := msg.(*message.Location); ok {
//	    fmt.Printf("position %.6f, %.6f\n", loc.Latitude, loc.Longitude)
//	}
func NewDecoder(opts ...Option) *Decoder {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return &Decoder{opts: options}
}

// DecodeFrame decodes one frame interior (the bytes between the two
// 0x7E delimiters, delimiters excluded).
//
// The pipeline is: transparent-byte unescape, XOR checksum verification,
// header decode, then a body parse fan-out on the message id. Only the
// location report (0x0200) gets a typed body; registration,
// authentication, heartbeat and unknown ids surface as *message.Raw
// with the body opaque.
//
// Errors are typed: *FramingError for escape violations, *ChecksumError
// for a bad trailing byte, *LengthError for header/body length problems.
func (d *Decoder) DecodeFrame(interior []byte) (message.Message, error) {
	if len(interior) == 0 {
		return nil, ErrEmptyFrame
	}

	payload, err := codec.Unescape(interior)
	if err != nil {
		return nil, NewFramingError("transparent byte unescape", err)
	}

	if len(payload) < protocol.MinPayloadSize {
		return nil, NewLengthError("", "payload shorter than header and checksum", ErrPayloadTooSmall)
	}

	if !validator.Verify(payload) {
		content, received := validator.Split(payload)
		return nil, NewChecksumError(validator.Calculate(content), received, len(payload))
	}

	content, _ := validator.Split(payload)

	head, body, err := parser.DecodeHeader(content)
	if err != nil {
		return nil, NewLengthError(head.TerminalID, "header decode", err)
	}

	switch head.MsgID {
	case protocol.MsgLocationReport:
		loc, err := parser.ParseLocation(head, body)
		if err != nil {
			return nil, NewLengthError(head.TerminalID, "location body", err)
		}
		return loc, nil

	default:
		// Registration, authentication, heartbeat and anything else
		// travel opaquely; dispatch only needs the message id.
		return &message.Raw{
			BaseMessage: message.BaseMessage{Head: head, RawBody: body},
		}, nil
	}
}
