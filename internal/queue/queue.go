// Package queue provides the ordered handoff surface between the bridge
// (producer, decoder thread) and the playback pipeline (consumer thread).
// Insertion order is presentation order.
package queue

import (
	"sync"

	"github.com/voxelstream/mediabridge/internal/media"
)

// Samples holds the audio and video sample queues for one stream. Pushes come
// from a single producer, pops from a single consumer; both sides may run
// concurrently.
type Samples struct {
	mu    sync.Mutex
	audio []*media.AudioSample
	video []*media.VideoSample
}

// New creates an empty queue pair.
func New() *Samples {
	return &Samples{}
}

// PushAudio appends a sample; ownership of the producer's reference
// transfers to the queue.
func (q *Samples) PushAudio(s *media.AudioSample) {
	q.mu.Lock()
	q.audio = append(q.audio, s)
	q.mu.Unlock()
}

// PopAudio removes and returns the oldest audio sample, or nil when empty.
// The caller owns the returned reference and must Release it when done.
func (q *Samples) PopAudio() *media.AudioSample {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.audio) == 0 {
		return nil
	}
	s := q.audio[0]
	q.audio[0] = nil
	q.audio = q.audio[1:]
	return s
}

// PushVideo appends a sample; ownership of the producer's reference
// transfers to the queue.
func (q *Samples) PushVideo(s *media.VideoSample) {
	q.mu.Lock()
	q.video = append(q.video, s)
	q.mu.Unlock()
}

// PopVideo removes and returns the oldest video sample, or nil when empty.
// The caller owns the returned reference and must Release it when done.
func (q *Samples) PopVideo() *media.VideoSample {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.video) == 0 {
		return nil
	}
	s := q.video[0]
	q.video[0] = nil
	q.video = q.video[1:]
	return s
}

// NumAudio reports the current audio queue depth.
func (q *Samples) NumAudio() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.audio)
}

// NumVideo reports the current video queue depth.
func (q *Samples) NumVideo() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.video)
}

// Flush releases every queued sample and empties both queues.
func (q *Samples) Flush() {
	q.mu.Lock()
	audio, video := q.audio, q.video
	q.audio, q.video = nil, nil
	q.mu.Unlock()

	for _, s := range audio {
		s.Release()
	}
	for _, s := range video {
		s.Release()
	}
}
