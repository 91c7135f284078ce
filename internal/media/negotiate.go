package media

import (
	"github.com/voxelstream/mediabridge/internal/decoder"
)

// Audio format tags understood natively. Compared byte-exact, matching the
// decoder's tag convention.
var (
	tagS8   = decoder.NewFourCC("S8")
	tagS16N = decoder.NewFourCC("S16N")
	tagS32N = decoder.NewFourCC("S32N")
	tagFL32 = decoder.NewFourCC("FL32")
	tagFL64 = decoder.NewFourCC("FL64")
	tagU8   = decoder.NewFourCC("U8")
)

// Video chroma tags understood natively. Compared case-insensitively.
var (
	chromaAYUV = decoder.NewFourCC("AYUV")
	chromaRV32 = decoder.NewFourCC("RV32")
	chromaUYVY = decoder.NewFourCC("UYVY")
	chromaY422 = decoder.NewFourCC("Y422")
	chromaUYNV = decoder.NewFourCC("UYNV")
	chromaHDYC = decoder.NewFourCC("HDYC")
	chromaYUY2 = decoder.NewFourCC("YUY2")
	chromaV422 = decoder.NewFourCC("V422")
	chromaYUYV = decoder.NewFourCC("YUYV")
	chromaYVYU = decoder.NewFourCC("YVYU")
)

// MaxAudioChannels is the channel count ceiling the pipeline accepts.
const MaxAudioChannels = 8

// NegotiateAudio maps the decoder's proposed audio tag to the internal
// sample format, rewriting the request in place where the decoder must
// conform to a fallback. It always succeeds: unsigned 8-bit is rewritten to
// signed 8-bit, any unrecognized tag falls back to 16-bit signed, and the
// channel count is clamped to MaxAudioChannels.
func NegotiateAudio(req *decoder.AudioSetupRequest) AudioFormat {
	if req.Channels > MaxAudioChannels {
		req.Channels = MaxAudioChannels
	}

	var format AudioSampleFormat
	var size int

	switch req.Tag {
	case tagS8:
		format, size = AudioFormatInt8, 1
	case tagS16N:
		format, size = AudioFormatInt16, 2
	case tagS32N:
		format, size = AudioFormatInt32, 4
	case tagFL32:
		format, size = AudioFormatFloat32, 4
	case tagFL64:
		format, size = AudioFormatFloat64, 8
	case tagU8:
		// unsigned integer fallback
		req.Tag = tagS8
		format, size = AudioFormatInt8, 1
	default:
		// unsupported format fallback
		req.Tag = tagS16N
		format, size = AudioFormatInt16, 2
	}

	return AudioFormat{
		SampleFormat: format,
		SampleSize:   size,
		Channels:     int(req.Channels),
		Rate:         int(req.Rate),
	}
}

// NegotiateVideo maps the decoder's proposed chroma tag to the internal
// sample format and the buffer geometry the decoder must fill, rewriting the
// request where the decoder must conform to a fallback layout. describe is
// consulted for tags with no native mapping. Returns false when no format can
// be accepted: output has a non-positive dimension or the chroma descriptor
// reports zero planes. FrameDuration is left zero for the caller to fill.
func NegotiateVideo(req *decoder.VideoSetupRequest, output Dim, describe func(decoder.FourCC) decoder.ChromaDescription) (VideoFormat, bool) {
	if output.Min() <= 0 {
		return VideoFormat{}, false
	}

	f := VideoFormat{
		BufferDim: Dim{X: int(req.Width), Y: int(req.Height)},
		OutputDim: output,
	}

	switch {
	case req.Chroma.EqualFold(chromaAYUV):
		f.SampleFormat = VideoFormatAYUV
		f.Stride = int(req.Width) * 4
	case req.Chroma.EqualFold(chromaRV32):
		f.SampleFormat = VideoFormatBGRA32
		f.Stride = int(req.Width) * 4
	case req.Chroma.EqualFold(chromaUYVY),
		req.Chroma.EqualFold(chromaY422),
		req.Chroma.EqualFold(chromaUYNV),
		req.Chroma.EqualFold(chromaHDYC):
		f.SampleFormat = VideoFormatUYVY
		f.Stride = int(req.Width) * 2
	case req.Chroma.EqualFold(chromaYUY2),
		req.Chroma.EqualFold(chromaV422),
		req.Chroma.EqualFold(chromaYUYV):
		f.SampleFormat = VideoFormatYUY2
		f.Stride = int(req.Width) * 2
	case req.Chroma.EqualFold(chromaYVYU):
		f.SampleFormat = VideoFormatYVYU
		f.Stride = int(req.Width) * 2
	default:
		// Reconfigure the decoder output to a natively supported format.
		descr := describe(req.Chroma)

		switch {
		case descr.PlaneCount == 0:
			return VideoFormat{}, false
		case descr.PlaneCount > 1:
			req.Chroma = chromaYUY2
			f.BufferDim = Dim{X: align(output.X, 16) / 2, Y: align(output.Y, 16)}
			f.SampleFormat = VideoFormatYUY2
			f.Stride = f.BufferDim.X * 4
			req.Height = uint32(f.BufferDim.Y)
		default:
			req.Chroma = chromaRV32
			f.BufferDim = output
			f.SampleFormat = VideoFormatBGRA32
			f.Stride = f.BufferDim.X * 4
		}
	}

	req.Pitches[0] = uint32(f.Stride)
	req.Lines[0] = uint32(f.BufferDim.Y)

	return f, true
}

// align rounds v up to the next multiple of a. a must be a power of two.
func align(v, a int) int {
	return (v + a - 1) &^ (a - 1)
}
