// Package synth implements a synthetic decoder engine for demos and
// end-to-end tests. It drives the full callback protocol from its own
// goroutine the way a real decoder drives its hooks from its decode thread:
// audio as a sine tone in S16N frames, video as a moving RV32 gradient.
package synth

import (
	"context"
	"encoding/binary"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/voxelstream/mediabridge/internal/decoder"
)

// Config describes the synthetic stream.
type Config struct {
	SampleRate int
	Channels   int
	ToneHz     float64
	FrameRate  float64
	Width      uint32
	Height     uint32
}

// DefaultConfig is a 440Hz stereo tone with 640×360 video at 25fps.
func DefaultConfig() Config {
	return Config{
		SampleRate: 44100,
		Channels:   2,
		ToneHz:     440,
		FrameRate:  25,
		Width:      640,
		Height:     360,
	}
}

// Engine is a decoder.Engine that synthesizes its output. Callbacks may be
// registered and unregistered concurrently with a running decode loop.
type Engine struct {
	cfg    Config
	logger *zap.Logger

	mu    sync.Mutex
	audio decoder.AudioCallbacks
	video decoder.VideoCallbacks

	framesProduced atomic.Int64
	audioProduced  atomic.Int64
}

// New creates a synthetic engine.
func New(cfg Config, logger *zap.Logger) *Engine {
	return &Engine{cfg: cfg, logger: logger}
}

// SetAudioCallbacks registers the audio hooks. A zero struct unregisters.
func (e *Engine) SetAudioCallbacks(cb decoder.AudioCallbacks) {
	e.mu.Lock()
	e.audio = cb
	e.mu.Unlock()
}

// SetVideoCallbacks registers the video hooks. A zero struct unregisters.
func (e *Engine) SetVideoCallbacks(cb decoder.VideoCallbacks) {
	e.mu.Lock()
	e.video = cb
	e.mu.Unlock()
}

// VideoSize reports the configured display dimensions.
func (e *Engine) VideoSize() (uint32, uint32, bool) {
	return e.cfg.Width, e.cfg.Height, true
}

// FrameRate reports the configured frame rate.
func (e *Engine) FrameRate() float64 {
	return e.cfg.FrameRate
}

// ChromaDescription reports a packed single-plane layout for any tag.
func (e *Engine) ChromaDescription(decoder.FourCC) decoder.ChromaDescription {
	return decoder.ChromaDescription{PlaneCount: 1}
}

// PlaybackDelay treats synthetic timestamps as microsecond delays.
func (e *Engine) PlaybackDelay(pts int64) time.Duration {
	return time.Duration(pts) * time.Microsecond
}

// FramesProduced reports video frames pushed through the lock/display cycle.
func (e *Engine) FramesProduced() int64 {
	return e.framesProduced.Load()
}

// AudioFramesProduced reports audio sample frames delivered via play.
func (e *Engine) AudioFramesProduced() int64 {
	return e.audioProduced.Load()
}

// Run is the decode loop. It negotiates formats once, then emits one video
// frame and one audio block per frame interval until ctx is cancelled.
// Blocks; run it on its own goroutine like a decoder's internal thread.
func (e *Engine) Run(ctx context.Context) error {
	audioReq := decoder.AudioSetupRequest{
		Tag:      decoder.NewFourCC("S16N"),
		Rate:     uint32(e.cfg.SampleRate),
		Channels: uint32(e.cfg.Channels),
	}
	videoReq := decoder.VideoSetupRequest{
		Chroma: decoder.NewFourCC("RV32"),
		Width:  e.cfg.Width,
		Height: e.cfg.Height,
	}

	audioOK := false
	if cb := e.audioCallbacks(); cb.Setup != nil {
		audioOK = cb.Setup(&audioReq)
	}
	videoOK := false
	if cb := e.videoCallbacks(); cb.Setup != nil {
		videoOK = cb.Setup(&videoReq)
	}
	e.logger.Info("synthetic stream opened",
		zap.Bool("audio", audioOK),
		zap.Bool("video", videoOK),
		zap.String("audioTag", audioReq.Tag.String()),
		zap.String("chroma", videoReq.Chroma.String()),
	)

	interval := time.Second / 25
	if e.cfg.FrameRate > 0 {
		interval = time.Duration(float64(time.Second) / e.cfg.FrameRate)
	}
	framesPerBlock := uint32(float64(e.cfg.SampleRate) * interval.Seconds())

	stride := int(videoReq.Pitches[0])
	lines := int(videoReq.Lines[0])
	pcm := make([]byte, int(framesPerBlock)*2*e.cfg.Channels)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var phase float64
	tick := 0

	for {
		select {
		case <-ctx.Done():
			if cb := e.audioCallbacks(); cb.Cleanup != nil {
				cb.Cleanup()
			}
			if cb := e.videoCallbacks(); cb.Cleanup != nil {
				cb.Cleanup()
			}
			e.logger.Info("synthetic stream closed",
				zap.Int64("videoFrames", e.framesProduced.Load()),
				zap.Int64("audioFrames", e.audioProduced.Load()),
			)
			return ctx.Err()

		case <-ticker.C:
			if videoOK {
				e.produceVideo(stride, lines, tick)
			}
			if audioOK {
				phase = e.produceAudio(pcm, framesPerBlock, phase)
			}
			tick++
		}
	}
}

// produceVideo runs one lock, fill, unlock, display cycle.
func (e *Engine) produceVideo(stride, lines, tick int) {
	cb := e.videoCallbacks()
	if cb.Lock == nil || cb.Unlock == nil || cb.Display == nil {
		return
	}

	var planes decoder.PlaneSet
	pic := cb.Lock(&planes)
	if planes[0] == nil {
		// Protocol violation on the bridge side; a real decoder would crash.
		e.logger.Error("lock returned nil plane")
		return
	}

	fillGradient(planes[0], stride, lines, tick)
	cb.Unlock(pic, &planes)
	cb.Display(pic)
	e.framesProduced.Add(1)
}

// produceAudio synthesizes one block of interleaved sine samples and
// delivers it via play. Returns the advanced oscillator phase.
func (e *Engine) produceAudio(pcm []byte, frames uint32, phase float64) float64 {
	cb := e.audioCallbacks()
	if cb.Play == nil {
		return phase
	}

	const amplitude = 16000
	step := 2 * math.Pi * e.cfg.ToneHz / float64(e.cfg.SampleRate)

	for i := uint32(0); i < frames; i++ {
		s := int16(amplitude * math.Sin(phase))
		phase += step
		for ch := 0; ch < e.cfg.Channels; ch++ {
			off := (int(i)*e.cfg.Channels + ch) * 2
			binary.LittleEndian.PutUint16(pcm[off:], uint16(s))
		}
	}
	if phase > 2*math.Pi {
		phase -= 2 * math.Pi * math.Floor(phase/(2*math.Pi))
	}

	cb.Play(pcm, frames, 0)
	e.audioProduced.Add(int64(frames))
	return phase
}

// fillGradient paints a moving BGRA gradient.
func fillGradient(buf []byte, stride, lines, tick int) {
	for y := 0; y < lines; y++ {
		row := buf[y*stride:]
		for x := 0; x*4+3 < stride; x++ {
			i := x * 4
			row[i] = byte(x + tick)   // B
			row[i+1] = byte(y + tick) // G
			row[i+2] = byte(tick)     // R
			row[i+3] = 0xFF           // A
		}
	}
}

func (e *Engine) audioCallbacks() decoder.AudioCallbacks {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.audio
}

func (e *Engine) videoCallbacks() decoder.VideoCallbacks {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.video
}
