package jt808

import (
	"log"

	"github.com/intelcon-group/mv77g-jt808/pkg/jt808/protocol"
)

// Options contains configuration shared by the decoder and session
type Options struct {
	// RegisterToken is the authentication token echoed in 0x8100
	// responses to register and authenticate messages
	RegisterToken string

	// HQSpeedInKmh treats the legacy ASCII speed field as km/h instead
	// of knots. Some fleets ship already-converted values; the wire
	// default is knots.
	HQSpeedInKmh bool

	// LogHex attaches a hex dump of the offending frame to parse-error
	// events and traces inbound frames to the Logger
	LogHex bool

	// Logger receives hex traces and sink-error reports. Nil disables
	// session logging entirely.
	Logger *log.Logger

	// Accumulator bounds for the stream reframer. When the accumulator
	// exceeds Max without producing a frame, only the last Keep bytes
	// survive. The ASCII bounds are tighter to match its short frames.
	BinaryAccumulatorMax  int
	BinaryAccumulatorKeep int
	ASCIIAccumulatorMax   int
	ASCIIAccumulatorKeep  int
}

// Option is a functional option for configuring a Decoder or Session
type Option func(*Options)

// DefaultOptions returns the default options
func DefaultOptions() Options {
	return Options{
		RegisterToken:         protocol.DefaultRegisterToken,
		HQSpeedInKmh:          false,
		LogHex:                false,
		Logger:                nil,
		BinaryAccumulatorMax:  protocol.BinaryAccumulatorMax,
		BinaryAccumulatorKeep: protocol.BinaryAccumulatorKeep,
		ASCIIAccumulatorMax:   protocol.ASCIIAccumulatorMax,
		ASCIIAccumulatorKeep:  protocol.ASCIIAccumulatorKeep,
	}
}

// WithRegisterToken sets the token carried by registration responses
func WithRegisterToken(token string) Option {
	return func(o *Options) {
		if token != "" {
			o.RegisterToken = token
		}
	}
}

// WithHQSpeedInKmh treats the ASCII speed field as km/h instead of knots
func WithHQSpeedInKmh() Option {
	return func(o *Options) {
		o.HQSpeedInKmh = true
	}
}

// WithHexTrace enables hex dumps on parse-error events and frame traces
func WithHexTrace() Option {
	return func(o *Options) {
		o.LogHex = true
	}
}

// WithLogger sets the logger used for traces and sink-error reports
func WithLogger(logger *log.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithAccumulatorBounds overrides the binary reframer bounds
func WithAccumulatorBounds(max, keep int) Option {
	return func(o *Options) {
		if max > 0 && keep > 0 && keep <= max {
			o.BinaryAccumulatorMax = max
			o.BinaryAccumulatorKeep = keep
		}
	}
}

// Validate checks if the options are valid
func (o *Options) Validate() error {
	if o.BinaryAccumulatorKeep > o.BinaryAccumulatorMax {
		return NewLengthError("", "binary accumulator keep exceeds max", nil)
	}
	if o.ASCIIAccumulatorKeep > o.ASCIIAccumulatorMax {
		return NewLengthError("", "ascii accumulator keep exceeds max", nil)
	}
	return nil
}
