package playback

import (
	"context"
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"
	"go.uber.org/zap"

	"github.com/voxelstream/mediabridge/internal/media"
	"github.com/voxelstream/mediabridge/internal/queue"
)

// drainInterval is the consumer tick. Samples arrive in ~40ms blocks, so a
// 10ms drain keeps the staging ring fed without busy-waiting.
const drainInterval = 10 * time.Millisecond

// Player drains the audio queue into an oto output device. The device is
// opened lazily from the format of the first drained sample; oto supports
// only one context per process, so a later format change logs a warning and
// keeps the existing device.
type Player struct {
	logger  *zap.Logger
	samples *queue.Samples

	otoCtx *oto.Context
	player *oto.Player
	ring   *Ring
	format media.AudioFormat

	drained int64
	dropped int64
}

// NewPlayer creates a player draining samples.
func NewPlayer(samples *queue.Samples, logger *zap.Logger) *Player {
	return &Player{logger: logger, samples: samples}
}

// Run drains the queue until ctx is cancelled. Blocks.
func (p *Player) Run(ctx context.Context) error {
	ticker := time.NewTicker(drainInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.close()
			return ctx.Err()
		case <-ticker.C:
			p.drain()
		}
	}
}

func (p *Player) drain() {
	for {
		sample := p.samples.PopAudio()
		if sample == nil {
			return
		}

		if p.otoCtx == nil {
			if err := p.open(sample.Format); err != nil {
				p.logger.Warn("audio device open failed, discarding sample", zap.Error(err))
				sample.Release()
				p.dropped++
				continue
			}
		}

		if sample.Format != p.format {
			// oto cannot be reinitialized; keep the device and skip
			// mismatched samples rather than playing them at the wrong rate.
			p.logger.Warn("audio format changed mid-stream, dropping sample",
				zap.String("have", p.format.SampleFormat.String()),
				zap.String("got", sample.Format.SampleFormat.String()),
			)
			sample.Release()
			p.dropped++
			continue
		}

		p.ring.Write(sample.Data())
		sample.Release()
		p.drained++
	}
}

func (p *Player) open(format media.AudioFormat) error {
	if format.SampleFormat != media.AudioFormatInt16 {
		return fmt.Errorf("unsupported sample format %s: output requires Int16", format.SampleFormat)
	}
	if format.Rate <= 0 || format.Channels <= 0 {
		return fmt.Errorf("degenerate audio format: rate=%d channels=%d", format.Rate, format.Channels)
	}

	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   format.Rate,
		ChannelCount: format.Channels,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return fmt.Errorf("create oto context: %w", err)
	}
	<-ready

	// Half a second of staging absorbs drain jitter.
	p.ring = NewRing(format.Rate * format.Channels * 2 / 2)
	p.otoCtx = otoCtx
	p.player = otoCtx.NewPlayer(p.ring)
	p.player.Play()
	p.format = format

	p.logger.Info("audio output opened",
		zap.Int("rate", format.Rate),
		zap.Int("channels", format.Channels),
	)
	return nil
}

func (p *Player) close() {
	if p.player != nil {
		p.player.Close()
		p.player = nil
	}
	if p.otoCtx != nil {
		p.otoCtx.Suspend()
		p.otoCtx = nil
	}
	p.logger.Info("audio output closed",
		zap.Int64("drained", p.drained),
		zap.Int64("dropped", p.dropped),
	)
}
