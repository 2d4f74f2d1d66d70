// Package splitter reframes a TCP byte stream into protocol frames.
//
// Devices write frames back to back and the kernel hands them to us at
// arbitrary chunk boundaries, so the per-connection accumulator is split
// on every read: complete frames come out, the incomplete tail stays as
// residue for the next read.
//
// Two framings share one scan: binary frames bracketed by 0x7E, and the
// legacy ASCII variant bracketed by '*' and '#'. Whichever start byte
// appears first wins; bytes before it are line noise and are discarded.
package splitter

import "bytes"

// Kind identifies the framing variant a frame was cut from
type Kind int

const (
	// KindBinary is a 0x7E-delimited frame
	KindBinary Kind = iota

	// KindASCII is a '*'...'#' legacy frame
	KindASCII
)

const (
	binaryDelimiter = 0x7E
	asciiStart      = '*'
	asciiEnd        = '#'
)

// Frame is one complete frame cut from the stream.
// Data is the frame interior: delimiters are already stripped for both
// variants. The slice aliases the input buffer and is only valid until
// the next append to the accumulator.
type Frame struct {
	Kind Kind
	Data []byte
}

// Split cuts complete frames from data and returns the unconsumed tail.
//
// Binary: a frame spans the first 0x7E through the next 0x7E; both
// delimiters are consumed and the interior is returned. Two adjacent
// delimiters form an empty frame, which is dropped silently. A lone
// opening delimiter keeps the tail as residue.
//
// ASCII: a frame spans '*' through '#' inclusive; the interior between
// them is returned. An unterminated '*' keeps the tail as residue.
//
// Bytes that precede any start byte cannot belong to a frame and are
// discarded, so a garbage-only buffer yields no residue at all.
func Split(data []byte) (frames []Frame, residue []byte) {
	offset := 0

	for offset < len(data) {
		start := indexStart(data[offset:])
		if start < 0 {
			// No frame can begin in the remaining bytes
			return frames, nil
		}
		offset += start

		switch data[offset] {
		case binaryDelimiter:
			end := bytes.IndexByte(data[offset+1:], binaryDelimiter)
			if end < 0 {
				return frames, data[offset:]
			}
			interior := data[offset+1 : offset+1+end]
			if len(interior) > 0 {
				frames = append(frames, Frame{Kind: KindBinary, Data: interior})
			}
			offset += 1 + end + 1

		case asciiStart:
			end := bytes.IndexByte(data[offset+1:], asciiEnd)
			if end < 0 {
				return frames, data[offset:]
			}
			interior := data[offset+1 : offset+1+end]
			if len(interior) > 0 {
				frames = append(frames, Frame{Kind: KindASCII, Data: interior})
			}
			offset += 1 + end + 1
		}
	}

	return frames, nil
}

// indexStart finds the first byte that can open a frame in either variant
func indexStart(data []byte) int {
	for i, b := range data {
		if b == binaryDelimiter || b == asciiStart {
			return i
		}
	}
	return -1
}

// Bound caps a frameless accumulator. When the residue has grown past
// max without producing a frame, only the last keep bytes are preserved;
// the truncated flag tells the caller to report a framing discard.
func Bound(residue []byte, max, keep int) ([]byte, bool) {
	if len(residue) <= max {
		return residue, false
	}
	return residue[len(residue)-keep:], true
}
