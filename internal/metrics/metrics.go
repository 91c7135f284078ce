package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gauges
var (
	AudioQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mediabridge_audio_queue_depth",
		Help: "Audio samples currently queued for the consumer",
	})
	VideoQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mediabridge_video_queue_depth",
		Help: "Video samples currently queued for the consumer",
	})
	ScratchOutstanding = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mediabridge_scratch_buffers_outstanding",
		Help: "Scratch buffers handed to the decoder and not yet reclaimed",
	})
)

// Counters
var (
	AudioSamplesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mediabridge_audio_samples_total",
		Help: "Audio samples published to the queue",
	})
	VideoSamplesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mediabridge_video_samples_total",
		Help: "Video samples published to the queue",
	})
	SamplesDroppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mediabridge_samples_dropped_total",
		Help: "Samples dropped by media type and reason",
	}, []string{"media", "reason"})
	DuplicateFramesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mediabridge_duplicate_frames_total",
		Help: "Video lock requests suppressed by the previous-time watermark",
	})
	ScratchBuffersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mediabridge_scratch_buffers_total",
		Help: "Scratch buffers supplied to satisfy the non-null lock contract",
	})
	FormatRejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mediabridge_video_format_rejected_total",
		Help: "Video setup requests rejected with no viable fallback",
	})
	TextureUpdatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mediabridge_texture_updates_total",
		Help: "Frame buffers pushed to the texture target",
	})
)

// Histograms
var (
	AudioSampleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mediabridge_audio_sample_duration_ms",
		Help:    "Duration of published audio samples in milliseconds",
		Buckets: []float64{5, 10, 20, 25, 50, 100, 250, 500},
	})
)
