// Package playback drains the audio sample queue into an output device at
// the consumer's own cadence, decoupled from the decoder thread.
package playback

import "sync"

// Ring is a fixed-capacity circular PCM staging buffer between the queue
// drain loop (writer) and the output device callback (reader). It is safe
// for one concurrent writer and one concurrent reader. Writes overwrite the
// oldest data when full; reads zero-fill when empty so the device is never
// starved.
type Ring struct {
	mu       sync.Mutex
	buf      []byte
	readPos  int
	writePos int
	length   int
}

// NewRing creates a ring holding capacity bytes of PCM.
func NewRing(capacity int) *Ring {
	return &Ring{buf: make([]byte, capacity)}
}

// Write appends PCM data, overwriting the oldest bytes when full.
func (r *Ring) Write(data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	capacity := len(r.buf)
	if len(data) > capacity {
		data = data[len(data)-capacity:]
	}

	for len(data) > 0 {
		n := copy(r.buf[r.writePos:], data)
		data = data[n:]
		r.writePos = (r.writePos + n) % capacity
		r.length += n
	}

	if r.length > capacity {
		// Oldest data was overwritten; advance the reader past it.
		r.readPos = r.writePos
		r.length = capacity
	}
}

// Read fills p with buffered PCM, zero-filling any shortfall. It never
// returns an error or a short read, which keeps the output stream running
// through underruns as silence.
func (r *Ring) Read(p []byte) (int, error) {
	r.mu.Lock()

	capacity := len(r.buf)
	n := r.length
	if n > len(p) {
		n = len(p)
	}

	for i := 0; i < n; {
		c := copy(p[i:n], r.buf[r.readPos:])
		r.readPos = (r.readPos + c) % capacity
		i += c
	}
	r.length -= n
	r.mu.Unlock()

	for i := n; i < len(p); i++ {
		p[i] = 0
	}
	return len(p), nil
}

// Buffered reports the bytes currently staged.
func (r *Ring) Buffered() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.length
}
