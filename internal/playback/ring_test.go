package playback

import (
	"bytes"
	"testing"
)

func TestRingWriteRead(t *testing.T) {
	r := NewRing(16)

	r.Write([]byte{1, 2, 3, 4})
	if got := r.Buffered(); got != 4 {
		t.Fatalf("Buffered() = %d, want 4", got)
	}

	p := make([]byte, 4)
	n, err := r.Read(p)
	if n != 4 || err != nil {
		t.Fatalf("Read = (%d, %v)", n, err)
	}
	if !bytes.Equal(p, []byte{1, 2, 3, 4}) {
		t.Errorf("read % X", p)
	}
	if got := r.Buffered(); got != 0 {
		t.Errorf("Buffered() after drain = %d", got)
	}
}

func TestRingZeroFillsUnderrun(t *testing.T) {
	r := NewRing(16)
	r.Write([]byte{9, 9})

	p := []byte{7, 7, 7, 7, 7, 7}
	n, err := r.Read(p)
	if n != 6 || err != nil {
		t.Fatalf("Read = (%d, %v), want full-length read", n, err)
	}
	if !bytes.Equal(p, []byte{9, 9, 0, 0, 0, 0}) {
		t.Errorf("read % X, want data then silence", p)
	}
}

func TestRingWraparound(t *testing.T) {
	r := NewRing(8)

	r.Write([]byte{1, 2, 3, 4, 5, 6})
	p := make([]byte, 4)
	r.Read(p)

	// Write spans the physical end of the buffer.
	r.Write([]byte{7, 8, 9, 10})
	if got := r.Buffered(); got != 6 {
		t.Fatalf("Buffered() = %d, want 6", got)
	}

	out := make([]byte, 6)
	r.Read(out)
	if !bytes.Equal(out, []byte{5, 6, 7, 8, 9, 10}) {
		t.Errorf("read % X, want 5..10 in order", out)
	}
}

func TestRingOverwritesOldestWhenFull(t *testing.T) {
	r := NewRing(4)

	r.Write([]byte{1, 2, 3, 4})
	r.Write([]byte{5, 6})
	if got := r.Buffered(); got != 4 {
		t.Fatalf("Buffered() = %d, want capacity", got)
	}

	p := make([]byte, 4)
	r.Read(p)
	if !bytes.Equal(p, []byte{3, 4, 5, 6}) {
		t.Errorf("read % X, want oldest bytes dropped", p)
	}
}

func TestRingOversizedWriteKeepsTail(t *testing.T) {
	r := NewRing(4)

	r.Write([]byte{1, 2, 3, 4, 5, 6, 7})
	p := make([]byte, 4)
	r.Read(p)
	if !bytes.Equal(p, []byte{4, 5, 6, 7}) {
		t.Errorf("read % X, want the most recent capacity-many bytes", p)
	}
}
