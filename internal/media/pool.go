package media

import "sync"

// AudioSamplePool recycles AudioSamples between the producer (decoder thread)
// and the consumer (playback thread). Acquire never blocks: when the
// outstanding limit is reached it returns nil and the caller drops the frame.
type AudioSamplePool struct {
	mu          sync.Mutex
	free        []*AudioSample
	gen         uint64
	limit       int // 0 = unlimited
	outstanding int
}

// NewAudioSamplePool creates a pool. limit caps samples in flight; 0 means
// no cap.
func NewAudioSamplePool(limit int) *AudioSamplePool {
	return &AudioSamplePool{limit: limit}
}

// Acquire returns a writable sample holding one reference, or nil when the
// outstanding limit is reached.
func (p *AudioSamplePool) Acquire() *AudioSample {
	p.mu.Lock()
	if p.limit > 0 && p.outstanding >= p.limit {
		p.mu.Unlock()
		return nil
	}

	var s *AudioSample
	if n := len(p.free); n > 0 {
		s = p.free[n-1]
		p.free = p.free[:n-1]
	} else {
		s = &AudioSample{pool: p}
	}
	s.gen = p.gen
	p.outstanding++
	p.mu.Unlock()

	s.refs.Store(1)
	return s
}

// Reset drops the free list and orphans outstanding samples: holders may keep
// reading them, but their final release discards them instead of recycling.
// Used on shutdown and format change.
func (p *AudioSamplePool) Reset() {
	p.mu.Lock()
	p.gen++
	p.free = nil
	p.outstanding = 0
	p.mu.Unlock()
}

// Stats reports idle (pooled) and outstanding sample counts.
func (p *AudioSamplePool) Stats() (idle, outstanding int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free), p.outstanding
}

func (p *AudioSamplePool) recycle(s *AudioSample) {
	p.mu.Lock()
	if s.gen == p.gen {
		p.outstanding--
		p.free = append(p.free, s)
	}
	p.mu.Unlock()
}

// VideoSamplePool recycles VideoSamples with the same discipline as
// AudioSamplePool.
type VideoSamplePool struct {
	mu          sync.Mutex
	free        []*VideoSample
	gen         uint64
	limit       int
	outstanding int
}

// NewVideoSamplePool creates a pool. limit caps samples in flight; 0 means
// no cap.
func NewVideoSamplePool(limit int) *VideoSamplePool {
	return &VideoSamplePool{limit: limit}
}

// Acquire returns a writable sample holding one reference, or nil when the
// outstanding limit is reached.
func (p *VideoSamplePool) Acquire() *VideoSample {
	p.mu.Lock()
	if p.limit > 0 && p.outstanding >= p.limit {
		p.mu.Unlock()
		return nil
	}

	var s *VideoSample
	if n := len(p.free); n > 0 {
		s = p.free[n-1]
		p.free = p.free[:n-1]
	} else {
		s = &VideoSample{pool: p}
	}
	s.gen = p.gen
	p.outstanding++
	p.mu.Unlock()

	s.refs.Store(1)
	return s
}

// Reset drops the free list and orphans outstanding samples.
func (p *VideoSamplePool) Reset() {
	p.mu.Lock()
	p.gen++
	p.free = nil
	p.outstanding = 0
	p.mu.Unlock()
}

// Stats reports idle (pooled) and outstanding sample counts.
func (p *VideoSamplePool) Stats() (idle, outstanding int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free), p.outstanding
}

func (p *VideoSamplePool) recycle(s *VideoSample) {
	p.mu.Lock()
	if s.gen == p.gen {
		p.outstanding--
		p.free = append(p.free, s)
	}
	p.mu.Unlock()
}
