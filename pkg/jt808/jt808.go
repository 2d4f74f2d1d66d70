// Package jt808 implements the per-connection protocol engine for
// MV77G-class tracking terminals speaking a JT/T 808-style framed
// binary protocol, plus the legacy '*HQ,...#' ASCII variant older
// firmware uses.
//
// The engine reframes the TCP byte stream, unescapes transparent bytes,
// validates the XOR checksum, decodes headers and location bodies
// (including the optional TLV list), builds the acknowledgement frames
// that keep a device registered, and emits decoded records to an
// event sink.
//
// # Quick Start
//
// Wrap each accepted connection in a Session:
//
//	session := jt808.NewSession(conn, sink, conn.RemoteAddr().String(),
//	    jt808.WithRegisterToken("OK"),
//	)
//
//	buf := make([]byte, 1024)
//	for {
//	    n, err := conn.Read(buf)
//	    if err != nil {
//	        return
//	    }
//	    if err := session.Feed(buf[:n]); err != nil {
//	        return
//	    }
//	}
//
// The session answers register (0x0100) and authenticate (0x0102) with
// a registration response (0x8100), heartbeat (0x0002) and location
// (0x0200) with a platform general response (0x8001), and surfaces
// everything else to the sink unacknowledged. Decode failures become
// structured parse-error records; the connection stays open.
//
// # Decoding without a session
//
// Decoder works on single frame interiors when the embedding does its
// own framing:
//
//	decoder := jt808.NewDecoder()
//	msg, err := decoder.DecodeFrame(interior)
package jt808

// Version information
const (
	// Version is the current library version
	Version = "0.3.1"
)
