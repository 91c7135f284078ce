// Package bridge connects a decoder engine's callback protocol to the
// consumer-side sample queues. All callbacks run synchronously on the
// decoder's internal thread; the bridge spawns no threads of its own, never
// blocks the decoder, and absorbs every failure locally by dropping the
// sample or handing the decoder a scratch buffer.
package bridge

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/voxelstream/mediabridge/internal/clock"
	"github.com/voxelstream/mediabridge/internal/decoder"
	"github.com/voxelstream/mediabridge/internal/media"
	"github.com/voxelstream/mediabridge/internal/pixfx"
	"github.com/voxelstream/mediabridge/internal/queue"
	"github.com/voxelstream/mediabridge/internal/texture"
)

// previousTimeNone marks the video watermark as unset so the first frame is
// never mistaken for a duplicate tick.
const previousTimeNone = math.MinInt64

// Bridge owns the format state, timestamp state, and sample pools for one
// stream. Initialize registers its callbacks with a decoder engine; Shutdown
// unregisters them and resets the pools. Both are idempotent and Initialize
// re-entry always passes through Shutdown.
type Bridge struct {
	logger  *zap.Logger
	clock   *clock.Presentation
	samples *queue.Samples

	audioPool *media.AudioSamplePool
	videoPool *media.VideoSamplePool

	post   pixfx.Processor
	target texture.Updater
	region texture.Region

	mu          sync.Mutex
	engine      decoder.Engine
	audioFormat media.AudioFormat
	videoFormat media.VideoFormat

	prevVideoMicros    atomic.Int64
	scratch            sync.Pool
	scratchOutstanding atomic.Int64
}

// Option configures optional bridge collaborators.
type Option func(*Bridge)

// WithPostProcessor installs an in-place pixel transform applied to every
// displayed frame before publish.
func WithPostProcessor(p pixfx.Processor) Option {
	return func(b *Bridge) { b.post = p }
}

// WithTextureTarget installs a texture region-update target receiving every
// displayed frame. A zero region means the full output frame.
func WithTextureTarget(t texture.Updater, region texture.Region) Option {
	return func(b *Bridge) {
		b.target = t
		b.region = region
	}
}

// WithPoolLimits caps samples in flight per pool; 0 means unlimited.
func WithPoolLimits(audio, video int) Option {
	return func(b *Bridge) {
		b.audioPool = media.NewAudioSamplePool(audio)
		b.videoPool = media.NewVideoSamplePool(video)
	}
}

// New creates a bridge reading presentation time from clk.
func New(clk *clock.Presentation, logger *zap.Logger, opts ...Option) *Bridge {
	b := &Bridge{
		logger:    logger,
		clock:     clk,
		samples:   queue.New(),
		audioPool: media.NewAudioSamplePool(0),
		videoPool: media.NewVideoSamplePool(0),
	}
	b.scratch.New = func() interface{} {
		buf := []byte(nil)
		return &buf
	}
	b.prevVideoMicros.Store(previousTimeNone)

	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Samples returns the consumer-side queue pair.
func (b *Bridge) Samples() *queue.Samples {
	return b.samples
}

// Initialize registers the bridge's callbacks with the engine. Any previous
// engine is shut down first.
func (b *Bridge) Initialize(e decoder.Engine) {
	b.Shutdown()

	b.mu.Lock()
	b.engine = e
	b.mu.Unlock()

	e.SetAudioCallbacks(decoder.AudioCallbacks{
		Setup:   b.audioSetup,
		Cleanup: b.audioCleanup,
		Play:    b.audioPlay,
		Pause:   b.audioPause,
		Resume:  b.audioResume,
		Flush:   b.audioFlush,
		Drain:   b.audioDrain,
	})
	e.SetVideoCallbacks(decoder.VideoCallbacks{
		Setup:   b.videoSetup,
		Cleanup: b.videoCleanup,
		Lock:    b.videoLock,
		Unlock:  b.videoUnlock,
		Display: b.videoDisplay,
	})

	b.logger.Info("bridge initialized")
}

// Shutdown unregisters all callbacks and then resets the pools, in that
// order, so no in-flight decoder callback can observe a torn-down pool.
// Idempotent: calling it on an uninitialized bridge is a no-op.
func (b *Bridge) Shutdown() {
	b.mu.Lock()
	e := b.engine
	b.engine = nil
	b.mu.Unlock()

	if e == nil {
		return
	}

	// Unregister before releasing pools.
	e.SetAudioCallbacks(decoder.AudioCallbacks{})
	e.SetVideoCallbacks(decoder.VideoCallbacks{})

	b.audioPool.Reset()
	b.videoPool.Reset()
	b.prevVideoMicros.Store(previousTimeNone)

	b.logger.Info("bridge shut down")
}

// AudioFormat returns the last negotiated audio format.
func (b *Bridge) AudioFormat() media.AudioFormat {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.audioFormat
}

// VideoFormat returns the last negotiated video format.
func (b *Bridge) VideoFormat() media.VideoFormat {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.videoFormat
}

// ScratchOutstanding reports scratch buffers handed to the decoder and not
// yet reclaimed by an unlock call. Steady-state this is 0 or 1.
func (b *Bridge) ScratchOutstanding() int64 {
	return b.scratchOutstanding.Load()
}

// PoolStats reports idle and outstanding sample counts per pool.
func (b *Bridge) PoolStats() (audioIdle, audioOut, videoIdle, videoOut int) {
	audioIdle, audioOut = b.audioPool.Stats()
	videoIdle, videoOut = b.videoPool.Stats()
	return
}

func (b *Bridge) activeEngine() decoder.Engine {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.engine
}

// frameDuration converts the engine's frame rate to a per-frame duration.
func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
