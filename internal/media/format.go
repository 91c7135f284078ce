// Package media defines the sample formats, refcounted sample buffers, and
// sample pools shared by the decoder-facing bridge (producer) and the
// playback pipeline (consumer).
package media

import "time"

// AudioSampleFormat identifies the in-memory layout of one audio sample.
type AudioSampleFormat int

const (
	AudioFormatInt8 AudioSampleFormat = iota
	AudioFormatInt16
	AudioFormatInt32
	AudioFormatFloat32
	AudioFormatFloat64
)

func (f AudioSampleFormat) String() string {
	switch f {
	case AudioFormatInt8:
		return "Int8"
	case AudioFormatInt16:
		return "Int16"
	case AudioFormatInt32:
		return "Int32"
	case AudioFormatFloat32:
		return "Float32"
	case AudioFormatFloat64:
		return "Float64"
	default:
		return "Unknown"
	}
}

// VideoSampleFormat identifies the pixel packing of a video sample buffer.
// All supported formats are packed single-plane layouts.
type VideoSampleFormat int

const (
	VideoFormatAYUV VideoSampleFormat = iota // packed AYUV 4:4:4:4, 4 bytes/pixel
	VideoFormatBGRA32                        // packed BGRA 8:8:8:8, 4 bytes/pixel
	VideoFormatUYVY                          // packed YUV 4:2:2, 2 bytes/pixel
	VideoFormatYUY2                          // packed YUV 4:2:2, 2 bytes/pixel
	VideoFormatYVYU                          // packed YUV 4:2:2, 2 bytes/pixel
)

func (f VideoSampleFormat) String() string {
	switch f {
	case VideoFormatAYUV:
		return "AYUV"
	case VideoFormatBGRA32:
		return "BGRA32"
	case VideoFormatUYVY:
		return "UYVY"
	case VideoFormatYUY2:
		return "YUY2"
	case VideoFormatYVYU:
		return "YVYU"
	default:
		return "Unknown"
	}
}

// BytesPerPixel returns the packed pixel size for the format.
func (f VideoSampleFormat) BytesPerPixel() int {
	switch f {
	case VideoFormatAYUV, VideoFormatBGRA32:
		return 4
	default:
		return 2
	}
}

// Dim is a width×height pair in pixels.
type Dim struct {
	X int
	Y int
}

// Min returns the smaller of the two dimensions.
func (d Dim) Min() int {
	if d.X < d.Y {
		return d.X
	}
	return d.Y
}

// AudioFormat describes a negotiated audio stream. Set once per stream open
// and immutable until the next format-setup call.
type AudioFormat struct {
	SampleFormat AudioSampleFormat
	SampleSize   int // bytes per sample, one channel
	Channels     int // 1 to 8
	Rate         int // samples per second
}

// VideoFormat describes a negotiated video stream. BufferDim is the
// decoder-internal geometry (possibly padded for alignment); OutputDim is the
// display geometry. Mutates only on a format-setup call.
type VideoFormat struct {
	SampleFormat  VideoSampleFormat
	BufferDim     Dim
	OutputDim     Dim
	Stride        int // bytes per buffer row
	FrameDuration time.Duration
}

// BufferSize returns the byte size of one frame buffer.
func (f VideoFormat) BufferSize() int {
	return f.Stride * f.BufferDim.Y
}
