// Package decoder defines the callback protocol a media decoder engine
// presents to the bridge. The engine runs its own internal decode thread and
// invokes every registered hook synchronously from that thread, in strict
// per-frame order (lock, fill, unlock, display) for video and (play) for
// audio. Registering a zero-value callback struct unregisters the hooks.
package decoder

import "time"

// MaxPlanes is the maximum number of picture planes a decoder may request.
// Packed output formats use only plane 0, but every slot must hold a defined
// value after a lock call.
const MaxPlanes = 5

// FourCC is a four-character format tag (audio sample format or video chroma).
type FourCC [4]byte

// NewFourCC builds a tag from a string, space-padding or truncating to 4 bytes.
func NewFourCC(s string) FourCC {
	f := FourCC{' ', ' ', ' ', ' '}
	copy(f[:], s)
	return f
}

func (f FourCC) String() string {
	return string(f[:])
}

// EqualFold reports whether two tags match ignoring ASCII case. Video chroma
// tags are compared case-insensitively; audio tags are compared exactly.
func (f FourCC) EqualFold(other FourCC) bool {
	for i := 0; i < 4; i++ {
		a, b := f[i], other[i]
		if 'A' <= a && a <= 'Z' {
			a += 'a' - 'A'
		}
		if 'A' <= b && b <= 'Z' {
			b += 'a' - 'A'
		}
		if a != b {
			return false
		}
	}
	return true
}

// AudioSetupRequest carries the decoder's proposed audio format. The setup
// hook may rewrite any field; the decoder conforms to the rewritten values.
type AudioSetupRequest struct {
	Tag      FourCC
	Rate     uint32
	Channels uint32
}

// VideoSetupRequest carries the decoder's proposed video format. The setup
// hook may rewrite Chroma and Height and must fill Pitches[0]/Lines[0] with
// the buffer geometry the decoder is expected to produce.
type VideoSetupRequest struct {
	Chroma  FourCC
	Width   uint32
	Height  uint32
	Pitches [MaxPlanes]uint32
	Lines   [MaxPlanes]uint32
}

// PlaneSet holds the buffer for each picture plane of one frame. The lock
// hook must leave a defined value in every slot; the decoder writes pixel
// data into plane 0 for packed formats.
type PlaneSet [MaxPlanes][]byte

// Picture is the opaque handle a lock hook returns and the decoder passes
// back, unmodified, to the matching unlock and display hooks.
type Picture any

// AudioCallbacks is the fixed set of audio hooks. Setup returns false to
// refuse the stream. Play delivers frames-many samples of interleaved data
// with the decoder-native timestamp pts. Pause, resume, flush, and drain are
// transport acknowledgments.
type AudioCallbacks struct {
	Setup   func(req *AudioSetupRequest) bool
	Cleanup func()
	Play    func(data []byte, frames uint32, pts int64)
	Pause   func(pts int64)
	Resume  func(pts int64)
	Flush   func(pts int64)
	Drain   func()
}

// VideoCallbacks is the fixed set of video hooks. Setup returns false to
// refuse the stream (the decoder must not proceed with video). Lock requests
// a buffer for the next frame; Unlock signals the buffer is filled; Display
// signals the frame should be presented.
type VideoCallbacks struct {
	Setup   func(req *VideoSetupRequest) bool
	Cleanup func()
	Lock    func(planes *PlaneSet) Picture
	Unlock  func(pic Picture, planes *PlaneSet)
	Display func(pic Picture)
}

// ChromaDescription describes the plane layout of a chroma tag, used to pick
// a fallback format for tags the bridge does not handle natively.
type ChromaDescription struct {
	PlaneCount int
}

// Engine is the decoder/player engine as seen by the bridge. Implementations
// are black boxes; the bridge only registers hooks and queries stream
// properties during format negotiation.
type Engine interface {
	// SetAudioCallbacks registers the audio hooks. A zero struct unregisters.
	SetAudioCallbacks(cb AudioCallbacks)

	// SetVideoCallbacks registers the video hooks. A zero struct unregisters.
	SetVideoCallbacks(cb VideoCallbacks)

	// VideoSize reports the display dimensions of the video output.
	// ok is false when the engine cannot determine the output size yet.
	VideoSize() (width, height uint32, ok bool)

	// FrameRate reports the stream frame rate in frames per second.
	FrameRate() float64

	// ChromaDescription describes the plane layout of an arbitrary chroma tag.
	ChromaDescription(chroma FourCC) ChromaDescription

	// PlaybackDelay converts a decoder-native timestamp into the delay until
	// that sample is due on the pipeline clock.
	PlaybackDelay(pts int64) time.Duration
}
