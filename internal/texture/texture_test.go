package texture

import (
	"bytes"
	"testing"
	"time"

	"go.uber.org/zap"
)

// waitForPixels polls the canvas until the region matches want or the
// deadline passes.
func waitForPixels(t *testing.T, c *Canvas, offset int, want []byte) []byte {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	var got []byte
	for time.Now().Before(deadline) {
		got = c.Pixels()
		if bytes.Equal(got[offset:offset+len(want)], want) {
			return got
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("upload not applied: got % X, want % X", got[offset:offset+len(want)], want)
	return nil
}

func TestCanvasAppliesFullFrameUpdate(t *testing.T) {
	c := NewCanvas(2, 2, 4, zap.NewNop())
	defer c.Close()

	frame := []byte{
		1, 1, 1, 1, 2, 2, 2, 2,
		3, 3, 3, 3, 4, 4, 4, 4,
	}
	c.UpdateRegion(frame, 8, 4, Region{Width: 2, Height: 2}, false)

	waitForPixels(t, c, 0, frame)
}

func TestCanvasCopiesBeforeReturn(t *testing.T) {
	c := NewCanvas(2, 1, 4, zap.NewNop())
	defer c.Close()

	frame := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	c.UpdateRegion(frame, 8, 4, Region{Width: 2, Height: 1}, false)

	// The producer reuses the buffer immediately; the staged copy must not
	// observe this.
	for i := range frame {
		frame[i] = 0xEE
	}

	waitForPixels(t, c, 0, []byte{1, 2, 3, 4, 5, 6, 7, 8})
}

func TestCanvasPartialRegion(t *testing.T) {
	c := NewCanvas(4, 4, 1, zap.NewNop())
	defer c.Close()

	// Frame-sized source with the target sub-rectangle filled.
	frame := make([]byte, 16)
	frame[1*4+1] = 0xAB
	frame[1*4+2] = 0xCD
	frame[2*4+1] = 0xEF
	frame[2*4+2] = 0x01
	c.UpdateRegion(frame, 4, 1, Region{X: 1, Y: 1, Width: 2, Height: 2}, false)

	got := waitForPixels(t, c, 5, []byte{0xAB, 0xCD})
	if got[0] != 0 || got[15] != 0 {
		t.Errorf("pixels outside the region modified: % X", got)
	}
	if got[9] != 0xEF || got[10] != 0x01 {
		t.Errorf("second region row not applied: % X", got)
	}
}

func TestCanvasOwnedBuffer(t *testing.T) {
	c := NewCanvas(1, 1, 4, zap.NewNop())
	defer c.Close()

	c.UpdateRegion([]byte{0xDE, 0xAD, 0xBE, 0xEF}, 4, 4, Region{Width: 1, Height: 1}, true)

	waitForPixels(t, c, 0, []byte{0xDE, 0xAD, 0xBE, 0xEF})
}

func TestCanvasCloseIdempotent(t *testing.T) {
	c := NewCanvas(1, 1, 4, zap.NewNop())
	c.Close()
	c.Close()

	// Updates after close are dropped without blocking.
	for i := 0; i < 16; i++ {
		c.UpdateRegion([]byte{1, 2, 3, 4}, 4, 4, Region{Width: 1, Height: 1}, false)
	}
}
