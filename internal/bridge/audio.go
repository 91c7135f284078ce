package bridge

import (
	"time"

	"go.uber.org/zap"

	"github.com/voxelstream/mediabridge/internal/decoder"
	"github.com/voxelstream/mediabridge/internal/media"
	"github.com/voxelstream/mediabridge/internal/metrics"
)

// audioSetup negotiates the audio format. It always succeeds: a workable
// fallback format is guaranteed to exist, so the request is clamped and
// rewritten rather than refused.
func (b *Bridge) audioSetup(req *decoder.AudioSetupRequest) bool {
	if req == nil || b.activeEngine() == nil {
		return false
	}

	format := media.NegotiateAudio(req)

	b.mu.Lock()
	b.audioFormat = format
	b.mu.Unlock()

	b.logger.Info("audio format negotiated",
		zap.String("tag", req.Tag.String()),
		zap.String("format", format.SampleFormat.String()),
		zap.Int("rate", format.Rate),
		zap.Int("channels", format.Channels),
	)
	return true
}

func (b *Bridge) audioCleanup() {
	b.logger.Debug("audio cleanup")
}

// audioPlay stamps the delivered frames with presentation time and publishes
// them to the audio queue. Pool exhaustion or a short payload drops the
// sample silently; the decoder keeps calling and frame loss is acceptable
// under backpressure.
func (b *Bridge) audioPlay(data []byte, frames uint32, pts int64) {
	b.mu.Lock()
	e := b.engine
	format := b.audioFormat
	b.mu.Unlock()

	if e == nil || frames == 0 || format.Rate <= 0 {
		return
	}

	delay := e.PlaybackDelay(pts)
	duration := time.Duration(uint64(frames)*1_000_000/uint64(format.Rate)) * time.Microsecond

	sample := b.audioPool.Acquire()
	if sample == nil {
		metrics.SamplesDroppedTotal.WithLabelValues("audio", "pool_exhausted").Inc()
		b.logger.Debug("audio sample dropped", zap.String("reason", "pool_exhausted"))
		return
	}

	if !sample.Init(data, frames, format, b.clock.Now()+delay, duration) {
		sample.Release()
		metrics.SamplesDroppedTotal.WithLabelValues("audio", "init_failed").Inc()
		b.logger.Debug("audio sample dropped",
			zap.String("reason", "init_failed"),
			zap.Uint32("frames", frames),
			zap.Int("payload", len(data)),
		)
		return
	}

	b.samples.PushAudio(sample)

	metrics.AudioSamplesTotal.Inc()
	metrics.AudioQueueDepth.Set(float64(b.samples.NumAudio()))
	metrics.AudioSampleDuration.Observe(float64(duration.Microseconds()) / 1000.0)

	b.logger.Debug("audio sample queued",
		zap.Uint32("frames", frames),
		zap.Int64("pts", pts),
		zap.Duration("duration", duration),
		zap.Int("queue", b.samples.NumAudio()),
	)
}

// Transport state transitions are handled by the external clock owner; these
// hooks exist only as protocol acknowledgments.

func (b *Bridge) audioPause(pts int64) {
	b.logger.Debug("audio pause", zap.Int64("pts", pts))
}

func (b *Bridge) audioResume(pts int64) {
	b.logger.Debug("audio resume", zap.Int64("pts", pts))
}

func (b *Bridge) audioFlush(pts int64) {
	b.logger.Debug("audio flush", zap.Int64("pts", pts))
}

func (b *Bridge) audioDrain() {
	b.logger.Debug("audio drain")
}
