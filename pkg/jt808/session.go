package jt808

import (
	"fmt"
	"io"
	"strconv"

	"github.com/intelcon-group/mv77g-jt808/internal/codec"
	"github.com/intelcon-group/mv77g-jt808/internal/parser"
	"github.com/intelcon-group/mv77g-jt808/internal/splitter"
	"github.com/intelcon-group/mv77g-jt808/pkg/jt808/encoder"
	"github.com/intelcon-group/mv77g-jt808/pkg/jt808/event"
	"github.com/intelcon-group/mv77g-jt808/pkg/jt808/message"
	"github.com/intelcon-group/mv77g-jt808/pkg/jt808/protocol"
)

// Session is the per-connection protocol engine.
//
// One Session exists per accepted socket and is owned by exactly one
// connection task: it is not safe for concurrent use. It owns the
// reframer accumulator, the outbound sequence counter, and the remote
// endpoint label. Feed it raw chunks as they arrive; it cuts frames,
// decodes them, writes the mandated acknowledgements to the supplied
// writer, and emits decoded records to the sink in wire order.
//
// Example:
//
//	session := jt808.NewSession(conn, sink, conn.RemoteAddr().String())
//	buf := make([]byte, 1024)
//	for {
//	    n, err := conn.Read(buf)
//	    if err != nil {
//	        return
//	    }
//	    if err := session.Feed(buf[:n]); err != nil {
//	        return // write failure: the socket is gone
//	    }
//	}
type Session struct {
	opts Options
	dec  *Decoder
	enc  *encoder.Encoder
	w    io.Writer
	sink event.Sink

	remote   string
	terminal string // last terminal id seen on this connection

	acc []byte
	seq uint16 // outbound sequence; wraps at 2^16, never zero
}

// NewSession creates a session writing responses to w and emitting
// decoded records to sink. remote is the peer label used in
// diagnostics. A nil sink discards every record.
func NewSession(w io.Writer, sink event.Sink, remote string, opts ...Option) *Session {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	if sink == nil {
		sink = event.Discard{}
	}

	return &Session{
		opts:   options,
		dec:    &Decoder{opts: options},
		enc:    encoder.New(options.RegisterToken),
		w:      w,
		sink:   sink,
		remote: remote,
	}
}

// Feed appends a chunk from the socket and processes every complete
// frame it completes. The returned error is a write failure on the
// response path; decode failures never surface here, they are emitted
// to the sink as parse-error records and the session keeps going.
func (s *Session) Feed(chunk []byte) error {
	s.acc = append(s.acc, chunk...)

	frames, residue := splitter.Split(s.acc)

	for _, f := range frames {
		switch f.Kind {
		case splitter.KindBinary:
			if err := s.handleBinary(f.Data); err != nil {
				return err
			}
		case splitter.KindASCII:
			s.handleASCII(f.Data)
		}
	}

	// Retain the tail; copy handles the overlap within the backing array
	s.acc = append(s.acc[:0], residue...)

	s.bound()

	return nil
}

// Terminal returns the terminal id last decoded on this connection,
// or "" before the device has identified itself.
func (s *Session) Terminal() string {
	return s.terminal
}

// Remote returns the peer label supplied at creation
func (s *Session) Remote() string {
	return s.remote
}

// bound caps a frameless accumulator per the variant's limits
func (s *Session) bound() {
	max, keep := s.opts.BinaryAccumulatorMax, s.opts.BinaryAccumulatorKeep
	if len(s.acc) > 0 && s.acc[0] == protocol.ASCIIStart {
		max, keep = s.opts.ASCIIAccumulatorMax, s.opts.ASCIIAccumulatorKeep
	}

	bounded, truncated := splitter.Bound(s.acc, max, keep)
	if !truncated {
		return
	}
	s.acc = append(s.acc[:0], bounded...)

	s.emitParseError(&event.ParseError{
		Terminal: s.terminal,
		Remote:   s.remote,
		Kind:     KindFraming,
		Detail:   fmt.Sprintf("accumulator exceeded %d bytes without a frame; kept last %d", max, keep),
	})
}

// handleBinary decodes one binary frame interior and dispatches it
func (s *Session) handleBinary(interior []byte) error {
	if s.opts.LogHex && s.opts.Logger != nil {
		s.opts.Logger.Printf("[%s] RX frame: %s", s.label(), codec.HexDump(interior))
	}

	msg, err := s.dec.DecodeFrame(interior)
	if err != nil {
		ev := &event.ParseError{
			Terminal: errTerminal(err),
			Remote:   s.remote,
			Kind:     ErrKind(err),
			Detail:   err.Error(),
		}
		if s.opts.LogHex {
			ev.FrameHex = codec.HexDump(interior)
		}
		s.emitParseError(ev)
		return nil
	}

	s.terminal = msg.Terminal()

	switch msg.MessageID() {
	case protocol.MsgRegister, protocol.MsgAuthenticate:
		return s.respond(s.enc.RegisterResponse(msg.Terminal(), s.nextSeq(), msg.Sequence()))

	case protocol.MsgHeartbeat:
		return s.respond(s.enc.GeneralResponse(msg.Terminal(), s.nextSeq(), msg.Sequence(), msg.MessageID()))

	case protocol.MsgLocationReport:
		loc := msg.(*message.Location)
		s.emitLocation(binaryLocationEvent(loc))
		if loc.ExtrasTruncated {
			s.emitParseError(&event.ParseError{
				Terminal: loc.Terminal(),
				Remote:   s.remote,
				Kind:     KindTLV,
				Detail:   "tlv length overruns body; extras truncated",
			})
		}
		return s.respond(s.enc.GeneralResponse(msg.Terminal(), s.nextSeq(), msg.Sequence(), msg.MessageID()))

	default:
		s.emitUnhandled(&event.Unhandled{
			Terminal: msg.Terminal(),
			MsgID:    msg.MessageID(),
			BodyHex:  codec.HexString(msg.Body()),
		})
		return nil
	}
}

// handleASCII decodes one legacy frame interior. The variant is
// read-only; no acknowledgement is ever written.
func (s *Session) handleASCII(interior []byte) {
	if s.opts.LogHex && s.opts.Logger != nil {
		s.opts.Logger.Printf("[%s] RX line: *%s#", s.label(), interior)
	}

	rec, err := parser.ParseHQ(interior, s.opts.HQSpeedInKmh)
	if err != nil {
		ev := &event.ParseError{
			Remote: s.remote,
			Kind:   KindFraming,
			Detail: err.Error(),
		}
		if s.opts.LogHex {
			ev.FrameHex = codec.HexDump(interior)
		}
		s.emitParseError(ev)
		return
	}

	s.terminal = rec.Terminal

	s.emitLocation(&event.Location{
		Terminal:  rec.Terminal,
		Source:    event.SourceASCII,
		Time:      rec.Time,
		Latitude:  rec.Latitude,
		Longitude: rec.Longitude,
		SpeedKmh:  rec.SpeedKmh,
		Heading:   rec.Heading,
		Valid:     rec.Valid,
		AlarmType: rec.AlarmType,
		Command:   rec.Command,
	})
}

// respond writes an acknowledgement frame. Responses go out in the
// order the corresponding requests were parsed; a failed write is
// fatal to the connection and surfaces to the Feed caller.
func (s *Session) respond(frame []byte) error {
	if s.opts.LogHex && s.opts.Logger != nil {
		s.opts.Logger.Printf("[%s] TX frame: %s", s.label(), codec.HexDump(frame))
	}

	if _, err := s.w.Write(frame); err != nil {
		return fmt.Errorf("response write: %w", err)
	}
	return nil
}

// nextSeq advances the outbound sequence counter: strictly increasing
// modulo 2^16, never zero.
func (s *Session) nextSeq() uint16 {
	s.seq++
	if s.seq == 0 {
		s.seq = 1
	}
	return s.seq
}

func (s *Session) label() string {
	if s.terminal != "" {
		return s.terminal
	}
	return s.remote
}

// Sink failures are confined to the offending record: logged when a
// logger is configured, never fatal to the connection.

func (s *Session) emitLocation(ev *event.Location) {
	if err := s.sink.Location(ev); err != nil && s.opts.Logger != nil {
		s.opts.Logger.Printf("[%s] sink rejected location: %v", s.label(), err)
	}
}

func (s *Session) emitParseError(ev *event.ParseError) {
	if err := s.sink.ParseError(ev); err != nil && s.opts.Logger != nil {
		s.opts.Logger.Printf("[%s] sink rejected parse error: %v", s.label(), err)
	}
}

func (s *Session) emitUnhandled(ev *event.Unhandled) {
	if err := s.sink.Unhandled(ev); err != nil && s.opts.Logger != nil {
		s.opts.Logger.Printf("[%s] sink rejected unhandled message: %v", s.label(), err)
	}
}

// binaryLocationEvent copies a decoded location report into its sink
// record. The hemisphere sign is already applied from the common status
// convention; RawStatus travels along for sinks that know better.
func binaryLocationEvent(loc *message.Location) *event.Location {
	ev := &event.Location{
		Terminal:  loc.Terminal(),
		Source:    event.SourceBinary,
		Time:      loc.Time,
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		Altitude:  loc.Altitude,
		SpeedKmh:  loc.SpeedKmh,
		Heading:   strconv.Itoa(int(loc.Heading)),
		Alarm:     loc.Alarm,
		RawStatus: loc.Status,
		Valid:     true,
	}

	if len(loc.Extras) > 0 {
		ev.Extras = make(map[string]string, len(loc.Extras))
		for k, v := range loc.Extras {
			ev.Extras[k] = v
		}
	}

	return ev
}
