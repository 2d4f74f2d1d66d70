package splitter

import (
	"bytes"
	"testing"
)

func frame(kind Kind, data string) Frame {
	return Frame{Kind: kind, Data: []byte(data)}
}

func TestSplitBinary(t *testing.T) {
	tests := []struct {
		name        string
		in          []byte
		wantFrames  []Frame
		wantResidue []byte
	}{
		{
			name:       "single complete frame",
			in:         []byte("\x7eABC\x7e"),
			wantFrames: []Frame{frame(KindBinary, "ABC")},
		},
		{
			name:       "two frames back to back",
			in:         []byte("\x7eA\x7e\x7eB\x7e"),
			wantFrames: []Frame{frame(KindBinary, "A"), frame(KindBinary, "B")},
		},
		{
			name:        "lone opener keeps residue",
			in:          []byte("\x7eAB"),
			wantResidue: []byte("\x7eAB"),
		},
		{
			name: "garbage only is discarded",
			in:   []byte("noise with no delimiter"),
		},
		{
			name:       "garbage before frame is skipped",
			in:         []byte("xx\x7eA\x7e"),
			wantFrames: []Frame{frame(KindBinary, "A")},
		},
		{
			name:       "empty frame dropped silently",
			in:         []byte("\x7e\x7e\x7eA\x7e"),
			wantFrames: []Frame{frame(KindBinary, "A")},
		},
		{
			name: "empty input",
			in:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frames, residue := Split(tt.in)
			assertFrames(t, frames, tt.wantFrames)
			if !bytes.Equal(residue, tt.wantResidue) {
				t.Errorf("residue = %q, want %q", residue, tt.wantResidue)
			}
		})
	}
}

func TestSplitASCII(t *testing.T) {
	tests := []struct {
		name        string
		in          []byte
		wantFrames  []Frame
		wantResidue []byte
	}{
		{
			name:       "single line",
			in:         []byte("*HQ,123,V1#"),
			wantFrames: []Frame{frame(KindASCII, "HQ,123,V1")},
		},
		{
			name:       "whitespace between lines discarded",
			in:         []byte("*A#\r\n*B#\r\n"),
			wantFrames: []Frame{frame(KindASCII, "A"), frame(KindASCII, "B")},
		},
		{
			name:        "unterminated line keeps residue",
			in:          []byte("*HQ,12"),
			wantResidue: []byte("*HQ,12"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frames, residue := Split(tt.in)
			assertFrames(t, frames, tt.wantFrames)
			if !bytes.Equal(residue, tt.wantResidue) {
				t.Errorf("residue = %q, want %q", residue, tt.wantResidue)
			}
		})
	}
}

func TestSplitMixedVariants(t *testing.T) {
	in := []byte("*A#\x7eB\x7e*C#")

	frames, residue := Split(in)
	want := []Frame{
		frame(KindASCII, "A"),
		frame(KindBinary, "B"),
		frame(KindASCII, "C"),
	}
	assertFrames(t, frames, want)
	if residue != nil {
		t.Errorf("residue = %q", residue)
	}
}

// Property: any chunking of a stream yields the same frame sequence
func TestSplitChunkingInvariance(t *testing.T) {
	stream := []byte("junk\x7eABC\x7e\x7e\x7e*HQ,1,V1#\x7eDE\x7emore*X#")

	wantFrames, wantResidue := Split(stream)

	for cut := 1; cut < len(stream); cut++ {
		var got []Frame
		var acc []byte

		for _, chunk := range [][]byte{stream[:cut], stream[cut:]} {
			acc = append(acc, chunk...)
			frames, residue := Split(acc)
			for _, f := range frames {
				// Copy: frame data aliases the accumulator
				got = append(got, Frame{Kind: f.Kind, Data: append([]byte(nil), f.Data...)})
			}
			acc = append(acc[:0], residue...)
		}

		assertFrames(t, got, wantFrames)
		if !bytes.Equal(acc, wantResidue) {
			t.Fatalf("cut %d: residue = %q, want %q", cut, acc, wantResidue)
		}
	}
}

func TestBound(t *testing.T) {
	buf := make([]byte, 100)
	for i := range buf {
		buf[i] = byte(i)
	}

	kept, truncated := Bound(buf, 100, 10)
	if truncated || len(kept) != 100 {
		t.Error("buffer at the limit must not truncate")
	}

	kept, truncated = Bound(buf, 99, 10)
	if !truncated {
		t.Fatal("buffer past the limit must truncate")
	}
	if len(kept) != 10 || kept[0] != 90 {
		t.Errorf("kept = % X", kept)
	}
}

func assertFrames(t *testing.T, got, want []Frame) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("got %d frames, want %d", len(got), len(want))
	}
	for i := range got {
		if got[i].Kind != want[i].Kind {
			t.Errorf("frame %d kind = %v, want %v", i, got[i].Kind, want[i].Kind)
		}
		if !bytes.Equal(got[i].Data, want[i].Data) {
			t.Errorf("frame %d data = %q, want %q", i, got[i].Data, want[i].Data)
		}
	}
}
