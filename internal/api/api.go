// Package api exposes the bridge's debug/stats HTTP surface: health, a JSON
// snapshot of queue and pool state, and Prometheus metrics.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/voxelstream/mediabridge/internal/bridge"
)

// Stats is the JSON snapshot served at /stats.
type Stats struct {
	StreamID           string `json:"streamId"`
	UptimeMs           int64  `json:"uptimeMs"`
	AudioQueueDepth    int    `json:"audioQueueDepth"`
	VideoQueueDepth    int    `json:"videoQueueDepth"`
	AudioPoolIdle      int    `json:"audioPoolIdle"`
	AudioPoolOut       int    `json:"audioPoolOutstanding"`
	VideoPoolIdle      int    `json:"videoPoolIdle"`
	VideoPoolOut       int    `json:"videoPoolOutstanding"`
	ScratchOutstanding int64  `json:"scratchOutstanding"`
	AudioFormat        string `json:"audioFormat"`
	AudioRate          int    `json:"audioRate"`
	AudioChannels      int    `json:"audioChannels"`
	VideoFormat        string `json:"videoFormat"`
	VideoWidth         int    `json:"videoWidth"`
	VideoHeight        int    `json:"videoHeight"`
	VideoStride        int    `json:"videoStride"`
}

// Handler builds the debug API router for one bridge instance.
func Handler(b *bridge.Bridge, streamID string, logger *zap.Logger) http.Handler {
	start := time.Now()

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/stats", func(w http.ResponseWriter, _ *http.Request) {
		audioIdle, audioOut, videoIdle, videoOut := b.PoolStats()
		audioFormat := b.AudioFormat()
		videoFormat := b.VideoFormat()

		stats := Stats{
			StreamID:           streamID,
			UptimeMs:           time.Since(start).Milliseconds(),
			AudioQueueDepth:    b.Samples().NumAudio(),
			VideoQueueDepth:    b.Samples().NumVideo(),
			AudioPoolIdle:      audioIdle,
			AudioPoolOut:       audioOut,
			VideoPoolIdle:      videoIdle,
			VideoPoolOut:       videoOut,
			ScratchOutstanding: b.ScratchOutstanding(),
			AudioFormat:        audioFormat.SampleFormat.String(),
			AudioRate:          audioFormat.Rate,
			AudioChannels:      audioFormat.Channels,
			VideoFormat:        videoFormat.SampleFormat.String(),
			VideoWidth:         videoFormat.OutputDim.X,
			VideoHeight:        videoFormat.OutputDim.Y,
			VideoStride:        videoFormat.Stride,
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(stats); err != nil {
			logger.Warn("encode stats failed", zap.Error(err))
		}
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
