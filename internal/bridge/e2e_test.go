package bridge_test

import (
	"context"
	"runtime"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/voxelstream/mediabridge/internal/bridge"
	"github.com/voxelstream/mediabridge/internal/clock"
	"github.com/voxelstream/mediabridge/internal/synth"
	"github.com/voxelstream/mediabridge/internal/testutil"
	"github.com/voxelstream/mediabridge/internal/texture"
)

// TestSyntheticStreamEndToEnd drives the full callback protocol from a
// synthetic engine on its own goroutine, the way a real decoder thread
// would, and checks what comes out the consumer side.
func TestSyntheticStreamEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("timing-dependent")
	}
	baseline := runtime.NumGoroutine()

	logger := zap.NewNop()
	clk := clock.New()
	canvas := texture.NewCanvas(32, 18, 4, logger)

	b := bridge.New(clk, logger,
		bridge.WithPoolLimits(64, 16),
		bridge.WithTextureTarget(canvas, texture.Region{}),
	)

	engine := synth.New(synth.Config{
		SampleRate: 44100,
		Channels:   2,
		ToneHz:     440,
		FrameRate:  100,
		Width:      32,
		Height:     18,
	}, logger)
	b.Initialize(engine)

	ctx, cancel := context.WithCancel(context.Background())

	// External clock owner: presentation time tracks wall time.
	start := time.Now()
	clockDone := make(chan struct{})
	go func() {
		defer close(clockDone)
		ticker := time.NewTicker(time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				clk.Set(time.Since(start))
			}
		}
	}()

	engineDone := make(chan struct{})
	go func() {
		defer close(engineDone)
		engine.Run(ctx)
	}()

	// Consume for a while, tracking timestamp order.
	var audioN, videoN int
	lastAudio, lastVideo := time.Duration(-1), time.Duration(-1)
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && (audioN < 10 || videoN < 10) {
		for {
			s := b.Samples().PopAudio()
			if s == nil {
				break
			}
			if s.Time < lastAudio {
				t.Errorf("audio time went backwards: %v after %v", s.Time, lastAudio)
			}
			lastAudio = s.Time
			audioN++
			s.Release()
		}
		for {
			s := b.Samples().PopVideo()
			if s == nil {
				break
			}
			if s.Time < lastVideo {
				t.Errorf("video time went backwards: %v after %v", s.Time, lastVideo)
			}
			lastVideo = s.Time
			if len(s.Buffer()) != 32*4*18 {
				t.Errorf("frame size = %d, want %d", len(s.Buffer()), 32*4*18)
			}
			videoN++
			s.Release()
		}
		time.Sleep(2 * time.Millisecond)
	}

	cancel()
	<-engineDone
	<-clockDone
	b.Shutdown()
	b.Samples().Flush()
	canvas.Close()

	if audioN < 10 || videoN < 10 {
		t.Errorf("produced %d audio / %d video samples, want at least 10 each", audioN, videoN)
	}
	if got := b.ScratchOutstanding(); got != 0 {
		t.Errorf("scratch outstanding = %d after drain", got)
	}

	af := b.AudioFormat()
	if af.Rate != 44100 || af.Channels != 2 || af.SampleSize != 2 {
		t.Errorf("audio format = %+v", af)
	}
	vf := b.VideoFormat()
	if vf.Stride != 32*4 || vf.FrameDuration != 10*time.Millisecond {
		t.Errorf("video format = %+v", vf)
	}

	// The canvas should have received at least one gradient frame.
	pixels := canvas.Pixels()
	nonzero := false
	for _, p := range pixels {
		if p != 0 {
			nonzero = true
			break
		}
	}
	if !nonzero {
		t.Error("canvas never received a frame")
	}

	testutil.AssertNoGoroutineLeaks(t, baseline, 2)
}
