// Package clock holds the presentation-time state shared between the
// external playback clock owner (writer) and the bridge callbacks (readers).
package clock

import (
	"sync/atomic"
	"time"
)

// Presentation is the monotonically-advancing current presentation time.
// The clock owner writes it from its own thread; bridge callbacks read it
// with a single atomic load, so no multi-field atomicity is needed.
type Presentation struct {
	micros atomic.Int64
}

// New creates a clock starting at zero.
func New() *Presentation {
	return &Presentation{}
}

// Set updates the current presentation time.
func (p *Presentation) Set(t time.Duration) {
	p.micros.Store(int64(t / time.Microsecond))
}

// Advance moves the clock forward by d and returns the new time.
func (p *Presentation) Advance(d time.Duration) time.Duration {
	return time.Duration(p.micros.Add(int64(d/time.Microsecond))) * time.Microsecond
}

// Now returns the current presentation time.
func (p *Presentation) Now() time.Duration {
	return time.Duration(p.micros.Load()) * time.Microsecond
}
