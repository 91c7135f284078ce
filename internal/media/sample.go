package media

import (
	"sync/atomic"
	"time"
)

// AudioSample is a pooled, reference-counted run of interleaved audio frames.
// The producer writes it once via Init, publishes it, and the consumer holds
// it until the last Release returns it to its pool. A sample handed to the
// producer is never visible to the consumer until published.
type AudioSample struct {
	refs atomic.Int32
	pool *AudioSamplePool
	gen  uint64
	data []byte
	size int

	Format   AudioFormat
	Frames   uint32
	Time     time.Duration
	Duration time.Duration
}

// Init copies frames-many interleaved samples from src and stamps the sample.
// Returns false when src is shorter than the computed payload size.
func (s *AudioSample) Init(src []byte, frames uint32, format AudioFormat, t, duration time.Duration) bool {
	size := int(frames) * format.SampleSize * format.Channels
	if size <= 0 || len(src) < size {
		return false
	}

	if cap(s.data) < size {
		s.data = make([]byte, size)
	}
	copy(s.data[:size], src[:size])
	s.size = size

	s.Format = format
	s.Frames = frames
	s.Time = t
	s.Duration = duration
	return true
}

// Data returns the sample payload. Read-only after publish.
func (s *AudioSample) Data() []byte {
	return s.data[:s.size]
}

// Retain adds a reference for an additional holder.
func (s *AudioSample) Retain() {
	s.refs.Add(1)
}

// Release drops one reference; the last release returns the sample to its pool.
func (s *AudioSample) Release() {
	if s.refs.Add(-1) == 0 {
		s.pool.recycle(s)
	}
}

// VideoSample is a pooled, reference-counted frame buffer sized to
// stride×height of the negotiated format.
type VideoSample struct {
	refs atomic.Int32
	pool *VideoSamplePool
	gen  uint64
	data []byte
	size int

	Format   VideoFormat
	Time     time.Duration
	Duration time.Duration
}

// Init sizes the buffer for one frame of format and stamps the duration.
// Returns false when the format geometry is degenerate.
func (s *VideoSample) Init(format VideoFormat) bool {
	size := format.BufferSize()
	if size <= 0 {
		return false
	}

	if cap(s.data) < size {
		s.data = make([]byte, size)
	}
	s.size = size

	s.Format = format
	s.Time = 0
	s.Duration = format.FrameDuration
	return true
}

// Buffer returns the mutable frame buffer the decoder fills. The producer
// must not touch it after publish.
func (s *VideoSample) Buffer() []byte {
	return s.data[:s.size]
}

// SetTime stamps the presentation time.
func (s *VideoSample) SetTime(t time.Duration) {
	s.Time = t
}

// Retain adds a reference for an additional holder.
func (s *VideoSample) Retain() {
	s.refs.Add(1)
}

// Release drops one reference; the last release returns the sample to its pool.
func (s *VideoSample) Release() {
	if s.refs.Add(-1) == 0 {
		s.pool.recycle(s)
	}
}
