package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/voxelstream/mediabridge/internal/api"
	"github.com/voxelstream/mediabridge/internal/bridge"
	"github.com/voxelstream/mediabridge/internal/clock"
	"github.com/voxelstream/mediabridge/internal/config"
	"github.com/voxelstream/mediabridge/internal/playback"
	"github.com/voxelstream/mediabridge/internal/synth"
	"github.com/voxelstream/mediabridge/internal/texture"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	streamID := uuid.NewString()
	logger.Info("mediabridge starting",
		zap.String("stream", streamID),
		zap.String("listen", cfg.ListenAddr),
		zap.Bool("playback", cfg.Playback),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The demo owns the playback clock: presentation time is wall time since
	// start, advanced on a fine-grained tick.
	clk := clock.New()
	start := time.Now()
	go func() {
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

	canvas := texture.NewCanvas(cfg.VideoWidth, cfg.VideoHeight, 4,
		logger.With(zap.String("component", "canvas")))
	defer canvas.Close()

	b := bridge.New(clk, logger.With(zap.String("component", "bridge")),
		bridge.WithPoolLimits(cfg.AudioPoolLimit, cfg.VideoPoolLimit),
		bridge.WithTextureTarget(canvas, texture.Region{}),
	)

	engine := synth.New(synth.Config{
		SampleRate: cfg.SampleRate,
		Channels:   cfg.Channels,
		ToneHz:     cfg.ToneHz,
		FrameRate:  cfg.FrameRate,
		Width:      uint32(cfg.VideoWidth),
		Height:     uint32(cfg.VideoHeight),
	}, logger.With(zap.String("component", "synth")))

	b.Initialize(engine)

	go func() {
		if err := engine.Run(ctx); err != nil && err != context.Canceled {
			logger.Warn("engine exited", zap.Error(err))
		}
	}()

	// Consumers run on their own schedules, independent of the decode loop.
	samples := b.Samples()

	if cfg.Playback {
		player := playback.NewPlayer(samples, logger.With(zap.String("component", "playback")))
		go player.Run(ctx)
	} else {
		go discardAudio(ctx, b)
	}
	go discardVideo(ctx, b)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      api.Handler(b, streamID, logger.With(zap.String("component", "api"))),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 20 * time.Second,
	}

	go func() {
		logger.Info("debug API listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("debug API failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	cancel()
	b.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	srv.Shutdown(shutdownCtx)
}

// discardAudio drains and releases audio samples when no playback device is
// configured, keeping the pool circulating.
func discardAudio(ctx context.Context, b *bridge.Bridge) {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for {
				s := b.Samples().PopAudio()
				if s == nil {
					break
				}
				s.Release()
			}
		}
	}
}

// discardVideo drains and releases video samples; the canvas already
// received each frame at display time.
func discardVideo(ctx context.Context, b *bridge.Bridge) {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for {
				s := b.Samples().PopVideo()
				if s == nil {
					break
				}
				s.Release()
			}
		}
	}
}
