// Package texture defines the region-update interface that hands finished
// video buffers to a GPU-side (or software) texture target, plus a software
// canvas implementation with an asynchronous upload worker.
package texture

import (
	"sync"

	"go.uber.org/zap"
)

// Region describes the destination rectangle of an update.
type Region struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Updater accepts a filled frame buffer for upload. The upload is
// asynchronous: callers must not assume it has completed when the call
// returns. Implementations that need the data after returning must copy it
// before returning, unless freeAfter is true, in which case ownership of data
// transfers to the updater. data is row-major with the given stride and
// bytes-per-pixel.
type Updater interface {
	UpdateRegion(data []byte, stride, bytesPerPixel int, region Region, freeAfter bool)
}

// Canvas is a software texture target: UpdateRegion stages the region
// synchronously and a worker goroutine applies it to the backing pixel
// buffer, mimicking a render-thread upload.
type Canvas struct {
	logger *zap.Logger
	width  int
	height int
	bpp    int

	pending chan stagedUpdate
	done    chan struct{}
	staging sync.Pool

	mu     sync.Mutex
	pixels []byte

	closeOnce sync.Once
}

type stagedUpdate struct {
	data   []byte // nil when the caller transferred ownership via freeAfter
	owned  []byte
	stride int
	bpp    int
	region Region
}

// NewCanvas creates a canvas of the given geometry and starts its upload
// worker.
func NewCanvas(width, height, bytesPerPixel int, logger *zap.Logger) *Canvas {
	c := &Canvas{
		logger:  logger,
		width:   width,
		height:  height,
		bpp:     bytesPerPixel,
		pending: make(chan stagedUpdate, 4),
		done:    make(chan struct{}),
		pixels:  make([]byte, width*height*bytesPerPixel),
	}
	go c.uploadLoop()
	return c
}

// UpdateRegion stages the update and returns; the worker applies it later.
// Updates that cannot be staged without blocking are dropped, matching the
// lossy contract of a real render-queue submission under pressure.
func (c *Canvas) UpdateRegion(data []byte, stride, bytesPerPixel int, region Region, freeAfter bool) {
	u := stagedUpdate{stride: stride, bpp: bytesPerPixel, region: region}
	if freeAfter {
		u.owned = data
	} else {
		// Copy before returning: the producer reuses the buffer.
		staged, _ := c.staging.Get().([]byte)
		if cap(staged) < len(data) {
			staged = make([]byte, len(data))
		}
		staged = staged[:len(data)]
		copy(staged, data)
		u.data = staged
	}

	select {
	case c.pending <- u:
	case <-c.done:
	default:
		if u.data != nil {
			c.staging.Put(u.data[:0])
		}
		c.logger.Debug("texture update dropped", zap.Int("pendingCap", cap(c.pending)))
	}
}

// Pixels returns a copy of the backing pixel buffer.
func (c *Canvas) Pixels() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]byte, len(c.pixels))
	copy(out, c.pixels)
	return out
}

// Close stops the upload worker. Idempotent.
func (c *Canvas) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

func (c *Canvas) uploadLoop() {
	for {
		select {
		case <-c.done:
			return
		case u := <-c.pending:
			c.apply(u)
		}
	}
}

func (c *Canvas) apply(u stagedUpdate) {
	src := u.data
	if src == nil {
		src = u.owned
	}

	c.mu.Lock()
	for row := 0; row < u.region.Height && u.region.Y+row < c.height; row++ {
		srcOff := (u.region.Y+row)*u.stride + u.region.X*u.bpp
		dstOff := ((u.region.Y+row)*c.width + u.region.X) * c.bpp
		n := u.region.Width * u.bpp
		if srcOff+n > len(src) || dstOff+n > len(c.pixels) {
			break
		}
		copy(c.pixels[dstOff:dstOff+n], src[srcOff:srcOff+n])
	}
	c.mu.Unlock()

	if u.data != nil {
		c.staging.Put(u.data[:0])
	}
}
