// Package pixfx provides in-place pixel transforms applied to decoded video
// buffers on the producer thread, before the consumer can observe them.
package pixfx

import "github.com/voxelstream/mediabridge/internal/media"

// Processor transforms a packed frame buffer in place. Process must return
// without modification for formats the processor does not handle.
type Processor interface {
	Process(buf []byte, format media.VideoSampleFormat, dim media.Dim, stride int)
}

// DepthRemap extracts a depth-in-alpha encoding from BGRA32 frames: the
// stream packs a depth value in what arrives as the blue byte and a reduced
// 5-bit color component across the red/green bytes. Per pixel, alpha takes
// the incoming byte 0 and blue takes bits 10..14 of the little-endian pixel
// word shifted to 8-bit range; the remaining color components are discarded.
// All other formats pass through untouched.
type DepthRemap struct{}

// Process applies the channel remap to every 4-byte pixel across dim.
func (DepthRemap) Process(buf []byte, format media.VideoSampleFormat, dim media.Dim, stride int) {
	if format != media.VideoFormatBGRA32 {
		return
	}

	for y := 0; y < dim.Y; y++ {
		row := buf[y*stride:]
		for x := 0; x < dim.X; x++ {
			i := x * 4
			pixel := uint32(row[i]) | uint32(row[i+1])<<8 | uint32(row[i+2])<<16 | uint32(row[i+3])<<24

			// alpha takes the original byte 0 before it is overwritten
			row[i+3] = row[i]
			row[i] = byte((pixel & 0x7C00) >> 7)
			row[i+1] = 0
			row[i+2] = 0
		}
	}
}
