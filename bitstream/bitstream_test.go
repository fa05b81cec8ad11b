package bitstream

import (
	"bytes"
	"errors"
	"testing"
)

// field is a single bit-field write or read in a test case. A negative width
// denotes an alignment.
type field struct {
	n int
	v uint64
}

func TestWriter_WriteBits(t *testing.T) {
	tests := map[string]struct {
		fields []field
		want   []byte
	}{
		"Empty":            {nil, []byte{}},
		"SingleBit":        {[]field{{1, 1}}, []byte{0x80}},
		"Nibbles":          {[]field{{4, 0xa}, {4, 0x5}}, []byte{0xa5}},
		"CrossOctet":       {[]field{{3, 0b101}, {8, 0xff}}, []byte{0xbf, 0xe0}},
		"AlignPadsZero":    {[]field{{1, 1}, {-1, 0}, {8, 0x7b}}, []byte{0x80, 0x7b}},
		"AlignWhenAligned": {[]field{{8, 0x01}, {-1, 0}, {8, 0x02}}, []byte{0x01, 0x02}},
		"Wide":             {[]field{{2, 0}, {64, 0xffffffffffffffff}}, []byte{0x3f, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xc0}},
		"TruncatesValue":   {[]field{{4, 0xff}}, []byte{0xf0}},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			w := NewWriter(nil, 0)
			for _, f := range tt.fields {
				if f.n < 0 {
					w.Align()
					continue
				}
				if err := w.WriteBits(f.n, f.v); err != nil {
					t.Fatalf("WriteBits(%d, %x) error = %v", f.n, f.v, err)
				}
			}
			if got := w.Bytes(); !bytes.Equal(got, tt.want) {
				t.Errorf("Bytes() = % X, want % X", got, tt.want)
			}
		})
	}
}

func TestWriter_WriteBytes(t *testing.T) {
	w := NewWriter(nil, 0)
	_ = w.WriteBit(true)
	if err := w.WriteBytes([]byte{0xff, 0x00}); err != nil {
		t.Fatalf("WriteBytes() error = %v", err)
	}
	want := []byte{0xff, 0x80, 0x00}
	if got := w.Bytes(); !bytes.Equal(got, want) {
		t.Errorf("Bytes() = % X, want % X", got, want)
	}
	if w.BitLen() != 17 {
		t.Errorf("BitLen() = %d, want 17", w.BitLen())
	}
}

func TestWriter_Limit(t *testing.T) {
	buf := make([]byte, 0, 2)
	w := NewWriter(buf, 2)
	if err := w.WriteBits(16, 0xabcd); err != nil {
		t.Fatalf("WriteBits() error = %v", err)
	}
	if err := w.WriteBit(true); !errors.Is(err, ErrLimit) {
		t.Fatalf("WriteBit() error = %v, want %v", err, ErrLimit)
	}
	if err := w.WriteBytes([]byte{0x01}); !errors.Is(err, ErrLimit) {
		t.Fatalf("WriteBytes() error = %v, want %v", err, ErrLimit)
	}
	if got := w.Bytes(); !bytes.Equal(got, []byte{0xab, 0xcd}) {
		t.Errorf("Bytes() = % X, want AB CD", got)
	}
	if &w.Bytes()[0] != &buf[:1][0] {
		t.Errorf("Writer grew beyond the provided buffer")
	}
}

func TestWriter_Reset(t *testing.T) {
	w := NewWriter(nil, 0)
	_ = w.WriteBits(8, 0xff)
	w.Reset(w.Bytes())
	_ = w.WriteBits(1, 1)
	if got := w.Bytes(); !bytes.Equal(got, []byte{0x80}) {
		t.Errorf("Bytes() = % X, want 80", got)
	}
}

func TestReader_ReadBits(t *testing.T) {
	tests := map[string]struct {
		data    []byte
		fields  []field
		wantErr error
	}{
		"SingleBit":  {[]byte{0x80}, []field{{1, 1}, {7, 0}}, nil},
		"CrossOctet": {[]byte{0xbf, 0xe0}, []field{{3, 0b101}, {8, 0xff}}, nil},
		"Align":      {[]byte{0x80, 0x7b}, []field{{1, 1}, {-1, 0}, {8, 0x7b}}, nil},
		"Wide":       {[]byte{0x3f, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xc0}, []field{{2, 0}, {64, 0xffffffffffffffff}}, nil},
		"Truncated":  {[]byte{0xff}, []field{{4, 0xf}, {5, 0}}, ErrTruncated},
		"Empty":      {nil, []field{{1, 0}}, ErrTruncated},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			r := NewReader(tt.data)
			for _, f := range tt.fields {
				if f.n < 0 {
					r.Align()
					continue
				}
				before := r.BitOffset()
				got, err := r.ReadBits(f.n)
				if err != nil {
					if !errors.Is(err, tt.wantErr) {
						t.Fatalf("ReadBits(%d) error = %v, wantErr %v", f.n, err, tt.wantErr)
					}
					if r.BitOffset() != before {
						t.Errorf("failed ReadBits(%d) advanced the reader", f.n)
					}
					return
				}
				if got != f.v {
					t.Errorf("ReadBits(%d) = %x, want %x", f.n, got, f.v)
				}
			}
			if tt.wantErr != nil {
				t.Errorf("ReadBits() error = nil, wantErr %v", tt.wantErr)
			}
		})
	}
}

func TestReader_ReadBytes(t *testing.T) {
	data := []byte{0xff, 0x80, 0x00}
	r := NewReader(data)
	if b, _ := r.ReadBit(); !b {
		t.Fatalf("ReadBit() = false, want true")
	}
	got, err := r.ReadBytes(2)
	if err != nil {
		t.Fatalf("ReadBytes() error = %v", err)
	}
	if !bytes.Equal(got, []byte{0xff, 0x00}) {
		t.Errorf("ReadBytes() = % X, want FF 00", got)
	}
	if _, err = r.ReadBytes(1); !errors.Is(err, ErrTruncated) {
		t.Errorf("ReadBytes() error = %v, want %v", err, ErrTruncated)
	}
	got[0] = 0
	if data[0] != 0xff {
		t.Errorf("ReadBytes() result aliases the input")
	}
}

func pattern(i int) uint64 {
	return uint64(i+1) * 0x9e3779b97f4a7c15
}

func TestRoundTrip(t *testing.T) {
	widths := []int{1, 3, 7, 8, 9, 15, 16, 17, 31, 33, 63, 64}
	w := NewWriter(nil, 0)
	for i, n := range widths {
		v := pattern(i) & (uint64(1)<<n - 1)
		if err := w.WriteBits(n, v); err != nil {
			t.Fatalf("WriteBits(%d) error = %v", n, err)
		}
	}
	r := NewReader(w.Bytes())
	for i, n := range widths {
		want := pattern(i) & (uint64(1)<<n - 1)
		got, err := r.ReadBits(n)
		if err != nil {
			t.Fatalf("ReadBits(%d) error = %v", n, err)
		}
		if got != want {
			t.Errorf("ReadBits(%d) = %x, want %x", n, got, want)
		}
	}
	if r.Remaining() >= 8 {
		t.Errorf("Remaining() = %d, want less than 8", r.Remaining())
	}
}
