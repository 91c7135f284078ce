package bridge

import (
	"time"

	"go.uber.org/zap"

	"github.com/voxelstream/mediabridge/internal/decoder"
	"github.com/voxelstream/mediabridge/internal/media"
	"github.com/voxelstream/mediabridge/internal/metrics"
	"github.com/voxelstream/mediabridge/internal/texture"
)

// picture is the tagged lock result passed back through unlock and display.
// Exactly one of sample and scratch is set: sample for a pooled frame the
// decoder fills for publishing, scratch for a throwaway buffer that only
// satisfies the decoder's non-null plane contract.
type picture struct {
	sample  *media.VideoSample
	scratch *[]byte
}

// videoSetup negotiates the video format and buffer geometry. On rejection
// the stored format is zeroed and false is returned; the decoder must not
// proceed with video.
func (b *Bridge) videoSetup(req *decoder.VideoSetupRequest) bool {
	e := b.activeEngine()
	if req == nil || e == nil {
		return false
	}

	w, h, ok := e.VideoSize()
	if !ok {
		b.rejectVideo(req.Chroma)
		return false
	}

	format, ok := media.NegotiateVideo(req, media.Dim{X: int(w), Y: int(h)}, e.ChromaDescription)
	if !ok {
		b.rejectVideo(req.Chroma)
		return false
	}
	format.FrameDuration = frameDuration(e.FrameRate())

	b.mu.Lock()
	b.videoFormat = format
	b.mu.Unlock()

	b.logger.Info("video format negotiated",
		zap.String("chroma", req.Chroma.String()),
		zap.String("format", format.SampleFormat.String()),
		zap.Int("bufferWidth", format.BufferDim.X),
		zap.Int("bufferHeight", format.BufferDim.Y),
		zap.Int("outputWidth", format.OutputDim.X),
		zap.Int("outputHeight", format.OutputDim.Y),
		zap.Int("stride", format.Stride),
		zap.Duration("frameDuration", format.FrameDuration),
	)
	return true
}

func (b *Bridge) rejectVideo(chroma decoder.FourCC) {
	b.mu.Lock()
	b.videoFormat = media.VideoFormat{}
	b.mu.Unlock()

	metrics.FormatRejectedTotal.Inc()
	b.logger.Warn("video format rejected", zap.String("chroma", chroma.String()))
}

func (b *Bridge) videoCleanup() {
	b.logger.Debug("video cleanup")
}

// videoLock hands the decoder a buffer for the next frame. Every plane slot
// gets a defined value first. Duplicate ticks and pool failures still yield
// a valid scratch buffer in plane 0 — the decoder crashes on a null plane —
// but produce no publishable sample.
func (b *Bridge) videoLock(planes *decoder.PlaneSet) decoder.Picture {
	if planes == nil || b.activeEngine() == nil {
		return nil
	}
	for i := range planes {
		planes[i] = nil
	}

	b.mu.Lock()
	format := b.videoFormat
	b.mu.Unlock()

	now := b.clock.Now()

	// Skip frames the decoder requests again within the same output tick.
	if int64(now/time.Microsecond) == b.prevVideoMicros.Load() {
		metrics.DuplicateFramesTotal.Inc()
		return b.lockScratch(planes, format)
	}

	sample := b.videoPool.Acquire()
	if sample == nil {
		metrics.SamplesDroppedTotal.WithLabelValues("video", "pool_exhausted").Inc()
		return b.lockScratch(planes, format)
	}
	if !sample.Init(format) {
		sample.Release()
		metrics.SamplesDroppedTotal.WithLabelValues("video", "init_failed").Inc()
		return b.lockScratch(planes, format)
	}

	b.prevVideoMicros.Store(int64(now / time.Microsecond))
	planes[0] = sample.Buffer()

	b.logger.Debug("video sample locked", zap.Duration("time", now))
	return &picture{sample: sample}
}

// lockScratch satisfies the non-null plane contract without producing a
// sample. The returned picture is tagged so videoUnlock reclaims the buffer.
func (b *Bridge) lockScratch(planes *decoder.PlaneSet, format media.VideoFormat) decoder.Picture {
	size := format.BufferSize()
	if size <= 0 {
		size = 1
	}

	bufPtr := b.scratch.Get().(*[]byte)
	if cap(*bufPtr) < size {
		*bufPtr = make([]byte, size)
	}
	*bufPtr = (*bufPtr)[:size]
	planes[0] = *bufPtr

	b.scratchOutstanding.Add(1)
	metrics.ScratchBuffersTotal.Inc()
	metrics.ScratchOutstanding.Inc()

	return &picture{scratch: bufPtr}
}

// videoUnlock is the only place scratch buffers are reclaimed: every lock
// that produced one must see exactly one matching unlock.
func (b *Bridge) videoUnlock(pic decoder.Picture, planes *decoder.PlaneSet) {
	p, ok := pic.(*picture)
	if !ok || p == nil {
		return
	}

	if p.scratch != nil {
		b.scratch.Put(p.scratch)
		p.scratch = nil
		b.scratchOutstanding.Add(-1)
		metrics.ScratchOutstanding.Dec()
	}
}

// videoDisplay stamps the frame, runs the post-processor, pushes the buffer
// to the texture target, and publishes the sample to the video queue.
func (b *Bridge) videoDisplay(pic decoder.Picture) {
	p, ok := pic.(*picture)
	if !ok || p == nil || p.sample == nil {
		return
	}
	sample := p.sample
	sample.SetTime(b.clock.Now())

	format := sample.Format

	if b.post != nil {
		b.post.Process(sample.Buffer(), format.SampleFormat, format.OutputDim, format.Stride)
	}

	if b.target != nil {
		region := b.region
		if region.Width == 0 {
			region = texture.Region{Width: format.OutputDim.X, Height: format.OutputDim.Y}
		}
		// Upload is asynchronous; the target copies what it needs before
		// returning because freeAfter is false and the sample is reused.
		b.target.UpdateRegion(sample.Buffer(), format.Stride, format.SampleFormat.BytesPerPixel(), region, false)
		metrics.TextureUpdatesTotal.Inc()
	}

	b.samples.PushVideo(sample)

	metrics.VideoSamplesTotal.Inc()
	metrics.VideoQueueDepth.Set(float64(b.samples.NumVideo()))

	b.logger.Debug("video sample queued",
		zap.Duration("time", sample.Time),
		zap.Int("queue", b.samples.NumVideo()),
	)
}
